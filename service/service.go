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

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/corenet/runopts"
)

// Service owns the main Reactor plus the worker Reactors a Server
// balances accepted connections across, and automates the
// startup/shutdown sequence spec.md's PSC_Service_run() performs.
type Service interface {
	Reactor

	// Workers returns the worker Reactors, sized by the last Run's
	// runopts.Options.ResolveWorkerThreads(); empty before the first Run.
	Workers() []Reactor

	// Run sizes the worker pool from opts, then runs the main Reactor
	// and every worker concurrently until all of them return - a clean
	// shutdown unless a worker's Loop returns a non-nil error, in which
	// case every other Loop is canceled and that error is returned.
	// The int result is a process exit code (0 on a clean shutdown, 1
	// otherwise), mirroring PSC_Service_run()'s contract.
	Run(opts runopts.Options) (int, error)
}

type service struct {
	*reactor
	opts    Options
	workers []Reactor
}

// New creates a Service whose main Reactor has signal handling enabled.
// Worker Reactors are created lazily by Run, sized from the
// runopts.Options passed there.
func New(opts Options) Service {
	return &service{
		reactor: newReactor(opts, true),
		opts:    opts,
	}
}

func (s *service) Workers() []Reactor {
	return s.workers
}

func (s *service) Run(opts runopts.Options) (int, error) {
	n := opts.ResolveWorkerThreads()
	if n < 0 {
		n = 0
	}

	s.workers = make([]Reactor, 0, n)
	for i := 0; i < n; i++ {
		s.workers = append(s.workers, newReactor(s.opts, false))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// propagate a main-reactor shutdown to every worker, so a signal
	// caught only by the (signal-enabled) main loop still drains workers
	// instead of canceling their Loop mid-connection.
	s.reactor.evShutdown.Register(s, func(_, _, _ any) {
		for _, w := range s.workers {
			w.RequestShutdown()
		}
	}, ShutdownEventID)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, w := range s.workers {
		w := w
		eg.Go(func() error { return w.Loop(egCtx) })
	}
	eg.Go(func() error { return s.reactor.Loop(egCtx) })

	if err := eg.Wait(); err != nil {
		return 1, err
	}
	return 0, nil
}

// LeastLoaded returns the Worker with the smallest ActiveCount, breaking
// ties in favor of the earliest in workers (round-robin across equally
// loaded workers falls out naturally as each pick raises that worker's
// count above its neighbors). Returns nil if workers is empty.
func LeastLoaded(workers []Reactor) Worker {
	var best Worker
	var bestCount int32

	for i, w := range workers {
		c := w.ActiveCount()
		if i == 0 || c < bestCount {
			best, bestCount = w, c
		}
	}
	return best
}
