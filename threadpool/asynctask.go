/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package threadpool

import (
	"context"
	"sync"
)

type asyncTask struct {
	pool *pool
	job  func(t AsyncTask)

	mu    sync.Mutex
	arg   any
	resCh chan any
	once  sync.Once
}

func newAsyncTask(p *pool, job func(t AsyncTask)) *asyncTask {
	return &asyncTask{pool: p, job: job, resCh: make(chan any, 1)}
}

func (t *asyncTask) Arg() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arg
}

func (t *asyncTask) Complete(result any) {
	t.once.Do(func() { t.resCh <- result })
}

// Await runs t's job function on the pool's main goroutine (see
// Pool.RunOnMain/Pump) and blocks until that function calls Complete or
// ctx is done, whichever comes first.
func (t *asyncTask) Await(ctx context.Context, arg any) (any, error) {
	t.mu.Lock()
	t.arg = arg
	t.mu.Unlock()

	t.pool.RunOnMain(func() { t.job(t) })

	select {
	case res := <-t.resCh:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
