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

// Package threadpool runs jobs on a bounded pool of goroutines and lets a
// worker hand work back to a single "main" goroutine through AsyncTask.
//
// The original implementation gave each job its own coroutine stack
// (POSIX ucontext) so a worker thread could suspend a job mid-flight
// without blocking; Go goroutines already are that cheap cooperative
// primitive, so a ThreadProc simply runs on its own goroutine and
// cancellation is cooperative through context.Context instead of a
// checked global flag. Concurrency plus backlog is bounded by a single
// golang.org/x/sync/semaphore.Weighted, the same primitive the wider
// corpus reaches for to cap in-flight work.
package threadpool

import (
	"context"
	"errors"

	"github.com/nabbar/corenet/event"
)

// FinishedEventID is the id under which a Job's Finished bus raises once
// the job has run to completion or been canceled. The raised args is a
// bool: true if the job completed, false if it was canceled or panicked.
const FinishedEventID = 1

// ErrQueueFull is returned by Submit when the pool has no room left for
// another job, matching the original API's "-1, caller retries" contract.
var ErrQueueFull = errors.New("threadpool: queue is full")

// ThreadProc is a unit of work run on a pool goroutine. It should check
// ctx.Err() periodically in any long-running loop to honor cancellation.
type ThreadProc func(ctx context.Context)

// Job is the handle returned by Submit.
type Job interface {
	// Finished is the event.Bus that raises FinishedEventID exactly once.
	Finished() event.Bus
	// HasCompleted reports whether the job ran to completion (as opposed
	// to being canceled or panicking). Meaningful only after Finished
	// has raised.
	HasCompleted() bool
	// Cancel requests cooperative cancellation of the job.
	Cancel()
}

// AsyncTask lets a job running on a pool goroutine hand a function back
// to run on the pool's main goroutine (see Pool.Pump), then block until
// that function calls Complete.
type AsyncTask interface {
	// Await runs the task's job function on the pool's main goroutine and
	// blocks until that function calls Complete or ctx is done.
	Await(ctx context.Context, arg any) (result any, err error)
	// Arg returns the argument passed to Await. Meant to be called by the
	// job function while it runs on the main goroutine.
	Arg() any
	// Complete unblocks the Await call with result. Only the first call
	// has any effect.
	Complete(result any)
}

// Options configures Pool sizing, mirroring the original PSC_ThreadOpts
// knobs. A non-positive field means "use the default for that field".
type Options struct {
	FixedThreads   int // always create exactly this many worker slots
	ThreadsPerCPU  int // otherwise, runtime.NumCPU() * this many (default 1)
	MaxThreads     int // cap on the resolved worker slot count
	FixedQueue     int // always allow exactly this many queued jobs
	QueuePerThread int // otherwise, worker slots * this many (default 2)
	MaxQueue       int // cap on the resolved queue size
	MinQueue       int // floor on the resolved queue size
}

// DefaultOptions returns the original implementation's compile-time
// defaults: one worker per detected CPU, a queue twice that size.
func DefaultOptions() Options {
	return Options{ThreadsPerCPU: 1, QueuePerThread: 2}
}

// Pool runs ThreadProcs on a bounded set of goroutines.
type Pool interface {
	// Submit accepts proc for execution if the pool has capacity, or
	// returns ErrQueueFull. timeoutTicks, if positive, cancels the job's
	// context after that many ticks (500ms each, matching the original's
	// tick granularity) if it hasn't finished by then.
	Submit(proc ThreadProc, timeoutTicks int) (Job, error)
	// NewAsyncTask creates an AsyncTask whose job function runs on the
	// pool's main goroutine via RunOnMain/Pump when Await is called.
	NewAsyncTask(job func(t AsyncTask)) AsyncTask
	// RunOnMain queues fn to run on whichever goroutine next calls Pump.
	RunOnMain(fn func())
	// Pump runs every function currently queued by RunOnMain, without
	// blocking for more. Call this from the pool's owning goroutine (the
	// reactor's loop iteration) on every tick.
	Pump()
	// Shutdown cancels every running job's context and waits for all of
	// them to finish, or for ctx to expire first.
	Shutdown(ctx context.Context) error
}

// New creates a Pool sized according to opts.
func New(opts Options) Pool {
	return newPool(opts)
}
