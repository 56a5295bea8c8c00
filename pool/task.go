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
	"fmt"
	"sync"
)

// Handler consumes the result of a task.
type Handler func(result interface{}) error

// Task encapsulates a work item that should go in a work pool
type Task struct {
	Name string

	// Err holds an error that occurred during a task, either
	// from its work function or from one of its handlers. Its
	// result is only meaningful after Run has been called
	// for the pool that holds it.
	Err error

	Result   interface{}
	Handlers []Handler

	f func() (interface{}, error)
}

// NewTask initializes a new task based on a given work
// function. Handlers run in order on the result of a
// successful work function.
func NewTask(name string, f func() (interface{}, error), handlers ...Handler) *Task {
	return &Task{Name: name, Handlers: handlers, f: f}
}

// Run runs a Task and does appropriate accounting via a
// given sync.WorkGroup.
func (t *Task) Run(wg *sync.WaitGroup) {
	defer wg.Done()

	t.Result, t.Err = t.f()
	if t.Err != nil {
		t.Err = fmt.Errorf("%s: %w", t.Name, t.Err)
		return
	}

	for _, h := range t.Handlers {
		if err := h(t.Result); err != nil {
			t.Err = fmt.Errorf("%s: %w", t.Name, err)
			return
		}
	}
}

// skip fails a task that never ran.
func (t *Task) skip(err error, wg *sync.WaitGroup) {
	defer wg.Done()
	t.Err = fmt.Errorf("%s: skipped: %w", t.Name, err)
}
