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
	"time"

	"golang.org/x/sync/semaphore"
)

// tickDuration is the original implementation's "tick" granularity, used
// to translate timeoutTicks into a context deadline.
const tickDuration = 500 * time.Millisecond

const mainQueueSize = 64

type pool struct {
	sem      *semaphore.Weighted
	capacity int64
	mainCh   chan func()
	ctx      context.Context
	cancel   context.CancelFunc
}

func newPool(opts Options) *pool {
	workers, queue := opts.resolve()
	capacity := int64(workers + queue)
	ctx, cancel := context.WithCancel(context.Background())
	return &pool{
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
		mainCh:   make(chan func(), mainQueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (p *pool) Submit(proc ThreadProc, timeoutTicks int) (Job, error) {
	if !p.sem.TryAcquire(1) {
		return nil, ErrQueueFull
	}

	var jobCtx context.Context
	var cancel context.CancelFunc
	if timeoutTicks > 0 {
		jobCtx, cancel = context.WithTimeout(p.ctx, time.Duration(timeoutTicks)*tickDuration)
	} else {
		jobCtx, cancel = context.WithCancel(p.ctx)
	}

	j := newJob(cancel)
	go func() {
		defer p.sem.Release(1)
		defer cancel()
		j.run(jobCtx, proc)
	}()
	return j, nil
}

func (p *pool) NewAsyncTask(job func(t AsyncTask)) AsyncTask {
	return newAsyncTask(p, job)
}

func (p *pool) RunOnMain(fn func()) {
	p.mainCh <- fn
}

func (p *pool) Pump() {
	for {
		select {
		case fn := <-p.mainCh:
			fn()
		default:
			return
		}
	}
}

// Shutdown cancels every job's context, then waits until the semaphore's
// full capacity can be reacquired - i.e. every in-flight job has released
// its slot - or ctx expires first.
func (p *pool) Shutdown(ctx context.Context) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		_ = p.sem.Acquire(context.Background(), p.capacity)
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
