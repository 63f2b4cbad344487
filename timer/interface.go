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

// Package timer provides a uniform millisecond timer that delivers its
// expiry as an event.Bus raise rather than a callback or a channel the
// caller must select on. It wraps time.Timer/time.Ticker instead of
// picking among kqueue/timerfd/SIGALRM backends, since Go's runtime
// already multiplexes those for us; a Pool recycles Timer values the way
// the original recycled OS timer objects to amortize setup cost.
package timer

import (
	"github.com/nabbar/corenet/event"
)

// ExpiredEventID is the id under which a Timer's owning event.Bus raises
// an expiry; register with event.Bus.Register(recv, handler,
// timer.ExpiredEventID).
const ExpiredEventID = 1

// Timer fires an Expired event, once or periodically, at a configurable
// interval. The zero value is not usable; create one with New or from a
// Pool.
type Timer interface {
	// SetMs sets the interval in milliseconds, used the next time Start
	// is called. The default interval, if never set, is 1000ms.
	SetMs(ms int64)
	// Start arms the timer. If periodic is true, Expired fires
	// repeatedly at the configured interval; otherwise it fires once.
	// Calling Start on an already-running Timer restarts it with the
	// current interval.
	Start(periodic bool)
	// Stop disarms the timer. Safe to call whether or not it is running.
	Stop()
	// Bus returns the event.Bus on which Expired is raised (id
	// ExpiredEventID, raised with nil args, so handlers receive the id).
	Bus() event.Bus
}

// New creates a running-capable Timer that is initially stopped.
func New() Timer {
	return newTimer()
}
