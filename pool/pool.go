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
	"sync"
)

// Pool is a worker group that runs a number of tasks at a
// configured concurrency.
type Pool struct {
	Tasks []*Task

	concurrency int
	tasksChan   chan *Task
	wg          sync.WaitGroup
}

// NewPool initializes a new pool with the given tasks and
// at the given concurrency. A concurrency below 1 is raised to 1.
func NewPool(tasks []*Task, concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{
		Tasks:       tasks,
		concurrency: concurrency,
	}
}

// Run runs every task and blocks until all of them returned. Tasks are
// handed out in the order they were added. Once ctx is done the tasks not
// yet started are skipped and fail with the context error.
func (p *Pool) Run(ctx context.Context) {
	p.tasksChan = make(chan *Task)

	for i := 0; i < p.concurrency; i++ {
		go p.work(ctx)
	}

	p.wg.Add(len(p.Tasks))
	for _, task := range p.Tasks {
		p.tasksChan <- task
	}

	// all workers return
	close(p.tasksChan)

	p.wg.Wait()
}

func (p *Pool) AddTask(task *Task) {
	p.Tasks = append(p.Tasks, task)
}

// Errors returns the errors of every failed task, in task order.
func (p *Pool) Errors() []error {
	var errs []error
	for _, task := range p.Tasks {
		if task.Err != nil {
			errs = append(errs, task.Err)
		}
	}
	return errs
}

func (p *Pool) work(ctx context.Context) {
	for task := range p.tasksChan {
		if err := ctx.Err(); err != nil {
			task.skip(err, &p.wg)
			continue
		}
		task.Run(&p.wg)
	}
}
