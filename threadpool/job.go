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
	"sync/atomic"

	"github.com/nabbar/corenet/event"
)

type job struct {
	finished  event.Bus
	completed int32
	canceled  int32
	cancel    context.CancelFunc
	panicVal  any
}

func newJob(cancel context.CancelFunc) *job {
	return &job{finished: event.New("job"), cancel: cancel}
}

func (j *job) Finished() event.Bus { return j.finished }

func (j *job) HasCompleted() bool { return atomic.LoadInt32(&j.completed) == 1 }

func (j *job) Cancel() {
	atomic.StoreInt32(&j.canceled, 1)
	j.cancel()
}

func (j *job) isCanceled() bool { return atomic.LoadInt32(&j.canceled) == 1 }

func (j *job) setCompleted(v bool) {
	if v {
		atomic.StoreInt32(&j.completed, 1)
	}
}

// run executes proc under panic recovery, honoring cancellation checked
// both before and after the call (proc itself should also check ctx.Err()
// for long-running work).
func (j *job) run(ctx context.Context, proc ThreadProc) {
	defer func() {
		if r := recover(); r != nil {
			j.panicVal = r
			j.setCompleted(false)
		}
		j.finished.Raise(FinishedEventID, j.HasCompleted())
	}()

	if j.isCanceled() {
		return
	}
	proc(ctx)
	j.setCompleted(!j.isCanceled())
}
