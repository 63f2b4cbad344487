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

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nabbar/corenet/event"
)

const (
	defaultTickInterval = time.Second
	defaultGraceTicks   = 5
	defaultRunQueueSize = 64
)

// ErrRunQueueFull is returned by RunOnThread when the backlog is full.
var ErrRunQueueFull = errors.New("service: run queue is full")

type reactor struct {
	tickInterval time.Duration
	graceTicks   int

	runQueue chan func()

	locks  int32
	active int32

	withSignals bool
	sigCh       chan os.Signal

	mu        sync.Mutex
	customSig map[os.Signal]func(os.Signal)

	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	evPreStartup  event.Bus
	evStartup     event.Bus
	evShutdown    event.Bus
	evEventsDone  event.Bus
	evTick        event.Bus
	evChildExited event.Bus
	evPanic       event.Bus
}

func newReactor(opts Options, withSignals bool) *reactor {
	tick := opts.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	grace := opts.GraceTicks
	if grace <= 0 {
		grace = defaultGraceTicks
	}
	queueSize := opts.RunQueueSize
	if queueSize <= 0 {
		queueSize = defaultRunQueueSize
	}

	r := &reactor{
		tickInterval: tick,
		graceTicks:   grace,
		runQueue:     make(chan func(), queueSize),
		withSignals:  withSignals,
		customSig:    make(map[os.Signal]func(os.Signal)),
		shutdownCh:   make(chan struct{}),
	}
	r.evPreStartup = event.New(r)
	r.evStartup = event.New(r)
	r.evShutdown = event.New(r)
	r.evEventsDone = event.New(r)
	r.evTick = event.New(r)
	r.evChildExited = event.New(r)
	r.evPanic = event.New(r)

	if withSignals {
		r.sigCh = make(chan os.Signal, 8)
		signal.Notify(r.sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, syscall.SIGCHLD)
	}
	return r
}

func (r *reactor) PreStartup() event.Bus  { return r.evPreStartup }
func (r *reactor) Startup() event.Bus     { return r.evStartup }
func (r *reactor) Shutdown() event.Bus    { return r.evShutdown }
func (r *reactor) EventsDone() event.Bus  { return r.evEventsDone }
func (r *reactor) Tick() event.Bus        { return r.evTick }
func (r *reactor) ChildExited() event.Bus { return r.evChildExited }
func (r *reactor) Panic() event.Bus       { return r.evPanic }

func (r *reactor) AddShutdownLock()     { atomic.AddInt32(&r.locks, 1) }
func (r *reactor) ReleaseShutdownLock() { atomic.AddInt32(&r.locks, -1) }

func (r *reactor) RequestShutdown() {
	r.shutdownOnce.Do(func() { close(r.shutdownCh) })
}

func (r *reactor) RegisterSignal(sig os.Signal, handler func(os.Signal)) {
	r.mu.Lock()
	r.customSig[sig] = handler
	r.mu.Unlock()

	if r.withSignals {
		signal.Notify(r.sigCh, sig)
	}
}

func (r *reactor) ActiveCount() int32 { return atomic.LoadInt32(&r.active) }
func (r *reactor) IncActive()         { atomic.AddInt32(&r.active, 1) }
func (r *reactor) DecActive()         { atomic.AddInt32(&r.active, -1) }

func (r *reactor) RunOnThread(fn func()) error {
	select {
	case r.runQueue <- fn:
		return nil
	default:
		return ErrRunQueueFull
	}
}

// dispatch runs fn with panic containment, raising Panic and reporting
// the recovered value through recovered if fn panics.
func (r *reactor) dispatch(fn func()) (recovered any) {
	defer func() {
		if rec := recover(); rec != nil {
			recovered = rec
			r.evPanic.Raise(PanicEventID, rec)
		}
	}()
	fn()
	return nil
}

func (r *reactor) Loop(ctx context.Context) error {
	r.evPreStartup.Raise(PreStartupEventID, nil)
	r.evStartup.Raise(StartupEventID, nil)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	if r.withSignals {
		defer signal.Stop(r.sigCh)
	}

	shuttingDown := false
	graceRemaining := r.graceTicks

	for {
		var sig os.Signal
		var gotSig bool

		select {
		case <-ctx.Done():
			r.evEventsDone.Raise(EventsDoneEventID, nil)
			return ctx.Err()

		case <-r.shutdownCh:
			if !shuttingDown {
				shuttingDown = true
				r.evShutdown.Raise(ShutdownEventID, nil)
			}

		case s := <-r.sigChOrNil():
			sig, gotSig = s, true

		case fn := <-r.runQueue:
			if rec := r.dispatch(fn); rec != nil {
				return r.exitWithPanic(rec)
			}

		case <-ticker.C:
			r.evTick.Raise(TickEventID, nil)
			if shuttingDown {
				graceRemaining--
			}
		}

		if gotSig {
			r.mu.Lock()
			handler := r.customSig[sig]
			r.mu.Unlock()

			if handler != nil {
				if rec := r.dispatch(func() { handler(sig) }); rec != nil {
					return r.exitWithPanic(rec)
				}
			} else if sig == syscall.SIGCHLD {
				r.reapChildren()
			} else if !shuttingDown {
				shuttingDown = true
				r.evShutdown.Raise(ShutdownEventID, sig)
			}
		}

		if shuttingDown && (atomic.LoadInt32(&r.locks) == 0 || graceRemaining <= 0) {
			r.evEventsDone.Raise(EventsDoneEventID, nil)
			return nil
		}
	}
}

// exitWithPanic raises EventsDone and returns the error Loop reports
// after a dispatched function panicked.
func (r *reactor) exitWithPanic(rec any) error {
	r.evEventsDone.Raise(EventsDoneEventID, nil)
	return fmt.Errorf("service: panic: %v", rec)
}

// sigChOrNil returns r.sigCh, or a nil channel (which blocks forever in a
// select) when signal handling is disabled for this Reactor.
func (r *reactor) sigChOrNil() chan os.Signal {
	if !r.withSignals {
		return nil
	}
	return r.sigCh
}
