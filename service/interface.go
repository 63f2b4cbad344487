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

// Package service is the reactor: the event loop the rest of this module's
// components are driven by. One Reactor runs the main loop; zero or more
// further Reactors run as workers a Server hands accepted connections to.
//
// The original implementation gives each OS thread its own
// kqueue/epoll/event-ports loop that polls file descriptors directly.
// Go's runtime netpoller already multiplexes blocking Read/Write calls
// across an arbitrary number of goroutines far more cheaply than a
// hand-rolled readiness loop could from user space, so connection.Conn
// owns its own read/write goroutines (see package connection) and a
// Reactor is left with exactly the responsibilities Go's scheduler
// doesn't already give us for free: global lifecycle events, a tick
// clock, cross-goroutine posting, signal multiplexing, and panic
// containment. A Reactor's Loop is still the single goroutine every
// registered handler for its events runs on, preserving the original's
// single-threaded-per-loop ordering guarantee.
package service

import (
	"context"
	"os"
	"time"

	"github.com/nabbar/corenet/event"
)

// PreStartupEventID is the id PreStartup() raises once, before Startup.
const PreStartupEventID = 1

// StartupEventID is the id Startup() raises once, after PreStartup.
const StartupEventID = 1

// ShutdownEventID is the id Shutdown() raises once a shutdown has been
// requested (by signal or RequestShutdown), with the triggering
// os.Signal as args. A shutdown started by RequestShutdown is raised with
// nil args, which the Bus replaces with the id, so handlers then receive
// ShutdownEventID.
const ShutdownEventID = 1

// EventsDoneEventID is the id EventsDone() raises once, immediately
// before Loop returns - whether from a clean shutdown or a grace-period
// expiry.
const EventsDoneEventID = 1

// TickEventID is the id Tick() raises on every tick interval.
const TickEventID = 1

// ChildExitedEventID is the id ChildExited() raises per reaped child,
// with the pid (int) as args.
const ChildExitedEventID = 1

// PanicEventID is the id Panic() raises when a dispatched function
// panics, with the recovered value as args. Loop returns an error
// immediately after this raise.
const PanicEventID = 1

// Options configures a Reactor at construction time.
type Options struct {
	// TickInterval is the period Tick() raises at. Defaults to 1 second.
	TickInterval time.Duration
	// GraceTicks bounds how many ticks a requested shutdown waits for
	// outstanding shutdown locks to be released. Defaults to 5.
	GraceTicks int
	// RunQueueSize bounds the depth of the RunOnThread backlog. Defaults
	// to 64.
	RunQueueSize int
}

// Reactor is one event loop: a goroutine that owns a tick clock, a
// cross-goroutine post queue, and (for the main Reactor) OS signal
// multiplexing. It also satisfies the narrower Worker contract a Server
// uses to pick an owner for each accepted connection.
type Reactor interface {
	Worker

	// PreStartup raises PreStartupEventID once Loop begins.
	PreStartup() event.Bus
	// Startup raises StartupEventID once, right after PreStartup.
	Startup() event.Bus
	// Shutdown raises ShutdownEventID once a shutdown has been
	// requested, with the os.Signal that triggered it (or ShutdownEventID
	// after RequestShutdown).
	Shutdown() event.Bus
	// EventsDone raises EventsDoneEventID once, immediately before Loop
	// returns.
	EventsDone() event.Bus
	// Tick raises TickEventID on every tick interval.
	Tick() event.Bus
	// ChildExited raises ChildExitedEventID per reaped child pid. Only
	// ever raised on a Reactor constructed with signal handling enabled.
	ChildExited() event.Bus
	// Panic raises PanicEventID when a dispatched function panics.
	Panic() event.Bus

	// AddShutdownLock increments the shutdown-lock count; Loop will not
	// return from a requested shutdown until every lock is released or
	// the grace period expires.
	AddShutdownLock()
	// ReleaseShutdownLock decrements the shutdown-lock count.
	ReleaseShutdownLock()
	// RequestShutdown begins the shutdown sequence as if a termination
	// signal had arrived; Shutdown() handlers receive ShutdownEventID as
	// args instead of a signal.
	RequestShutdown()
	// RegisterSignal installs a custom handler for sig, overriding the
	// default shutdown-on-signal behavior for SIGTERM/SIGINT/SIGHUP.
	// Only effective on a Reactor constructed with signal handling
	// enabled.
	RegisterSignal(sig os.Signal, handler func(os.Signal))

	// Loop runs the event loop until ctx is canceled, a requested
	// shutdown completes, or a dispatched function panics. It raises
	// PreStartup and Startup before the first iteration and EventsDone
	// immediately before returning.
	Loop(ctx context.Context) error
}

// Worker is the subset of Reactor a Server needs to hand off an accepted
// connection: a place to run construction/registration code, and a
// load figure to balance across.
type Worker interface {
	// RunOnThread queues fn to run on this Reactor's own goroutine,
	// returning ErrRunQueueFull if the backlog is already full.
	RunOnThread(fn func()) error
	// ActiveCount returns the number of connections this Worker is
	// currently tracking (see IncActive/DecActive).
	ActiveCount() int32
	// IncActive increments the active-connection count.
	IncActive()
	// DecActive decrements the active-connection count.
	DecActive()
}

// NewWorker creates a standalone Reactor with signal handling disabled -
// suitable for use as a worker a Service hands accepted connections to.
func NewWorker(opts Options) Reactor {
	return newReactor(opts, false)
}
