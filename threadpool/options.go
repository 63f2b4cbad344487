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

import "runtime"

// resolve turns Options into a concrete (workerSlots, queueSize) pair
// following the same precedence as the original PSC_ThreadOpts: a fixed
// value wins outright, otherwise scale from CPU count / worker count.
func (o Options) resolve() (workers, queue int) {
	if o.FixedThreads > 0 {
		workers = o.FixedThreads
	} else {
		perCPU := o.ThreadsPerCPU
		if perCPU <= 0 {
			perCPU = 1
		}
		workers = runtime.NumCPU() * perCPU
	}
	if o.MaxThreads > 0 && workers > o.MaxThreads {
		workers = o.MaxThreads
	}
	if workers < 1 {
		workers = 1
	}

	if o.FixedQueue > 0 {
		queue = o.FixedQueue
	} else {
		perThread := o.QueuePerThread
		if perThread <= 0 {
			perThread = 2
		}
		queue = workers * perThread
	}
	if o.MaxQueue > 0 && queue > o.MaxQueue {
		queue = o.MaxQueue
	}
	if o.MinQueue > 0 && queue < o.MinQueue {
		queue = o.MinQueue
	}
	if queue < 1 {
		queue = 1
	}
	return workers, queue
}
