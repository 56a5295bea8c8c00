/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Pool_Run(t *testing.T) {
	assert := assert.New(t)

	var handled atomic.Int32
	count := func(interface{}) error {
		handled.Add(1)
		return nil
	}

	boom := errors.New("boom")
	p := NewPool(nil, 0)
	p.AddTask(NewTask("one", func() (interface{}, error) { return 1, nil }, count))
	p.AddTask(NewTask("two", func() (interface{}, error) { return nil, boom }, count))
	p.AddTask(NewTask("three", func() (interface{}, error) { return 3, nil }, count, func(interface{}) error { return boom }))
	p.Run(t.Context())

	assert.Equal(1, p.Tasks[0].Result)
	assert.NoError(p.Tasks[0].Err)
	assert.ErrorIs(p.Tasks[1].Err, boom)
	assert.EqualError(p.Tasks[2].Err, "three: boom")
	assert.Equal(int32(2), handled.Load())
	assert.Len(p.Errors(), 2)
}

func Test_Pool_Sequential(t *testing.T) {
	assert := assert.New(t)

	var order []string
	p := NewPool(nil, 1)
	for _, name := range []string{"a", "b", "c"} {
		p.AddTask(NewTask(name, func() (interface{}, error) {
			order = append(order, name)
			return nil, nil
		}))
	}
	p.Run(t.Context())

	assert.Equal([]string{"a", "b", "c"}, order)
	assert.Empty(p.Errors())
}

func Test_Pool_CancelledContext(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(t.Context())
	var ran []string
	p := NewPool(nil, 1)
	p.AddTask(NewTask("facts", func() (interface{}, error) {
		ran = append(ran, "facts")
		cancel()
		return nil, nil
	}))
	p.AddTask(NewTask("environment", func() (interface{}, error) {
		ran = append(ran, "environment")
		return nil, nil
	}))
	p.Run(ctx)

	assert.Equal([]string{"facts"}, ran)
	assert.NoError(p.Tasks[0].Err)
	assert.ErrorIs(p.Tasks[1].Err, context.Canceled)
	assert.EqualError(p.Tasks[1].Err, "environment: skipped: context canceled")
}
