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

package service_test

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nabbar/corenet/service"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reactor", func() {
	It("raises Tick repeatedly until the context is canceled", func() {
		r := service.New(service.Options{TickInterval: 10 * time.Millisecond})

		var ticks int32
		r.Tick().Register(nil, func(_, _, _ any) {
			atomic.AddInt32(&ticks, 1)
		}, service.TickEventID)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- r.Loop(ctx) }()

		Eventually(func() int32 { return atomic.LoadInt32(&ticks) }, "1s", "5ms").Should(BeNumerically(">=", int32(2)))
		cancel()
		Eventually(done, "1s", "5ms").Should(Receive(MatchError(context.Canceled)))
	})

	It("executes RunOnThread work on the loop goroutine", func() {
		r := service.New(service.Options{TickInterval: 10 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = r.Loop(ctx) }()

		var ran int32
		Expect(r.RunOnThread(func() { atomic.StoreInt32(&ran, 1) })).ToNot(HaveOccurred())
		Eventually(func() int32 { return atomic.LoadInt32(&ran) }, "1s", "5ms").Should(Equal(int32(1)))
	})

	It("waits for shutdown locks to drain before raising EventsDone", func() {
		r := service.New(service.Options{TickInterval: 5 * time.Millisecond, GraceTicks: 100})
		r.AddShutdownLock()

		var eventsDone int32
		r.EventsDone().Register(nil, func(_, _, _ any) {
			atomic.AddInt32(&eventsDone, 1)
		}, service.EventsDoneEventID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- r.Loop(ctx) }()

		r.RequestShutdown()
		Consistently(func() int32 { return atomic.LoadInt32(&eventsDone) }, "50ms", "5ms").Should(Equal(int32(0)))

		r.ReleaseShutdownLock()
		Eventually(done, "1s", "5ms").Should(Receive(BeNil()))
		Expect(atomic.LoadInt32(&eventsDone)).To(Equal(int32(1)))
	})

	It("surfaces a panicking RunOnThread job as a Loop error and raises Panic", func() {
		r := service.New(service.Options{TickInterval: 10 * time.Millisecond})

		var panicked any
		r.Panic().Register(nil, func(_, _, args any) {
			panicked = args
		}, service.PanicEventID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- r.Loop(ctx) }()

		Expect(r.RunOnThread(func() { panic("boom") })).ToNot(HaveOccurred())

		Eventually(done, "1s", "5ms").Should(Receive(HaveOccurred()))
		Expect(panicked).To(Equal("boom"))
	})

	It("invokes a custom signal handler instead of the default shutdown path", func() {
		r := service.New(service.Options{TickInterval: 10 * time.Millisecond})

		handled := make(chan os.Signal, 1)
		r.RegisterSignal(syscall.SIGUSR1, func(s os.Signal) { handled <- s })

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- r.Loop(ctx) }()

		Expect(syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)).ToNot(HaveOccurred())
		Eventually(handled, "1s", "5ms").Should(Receive(Equal(syscall.SIGUSR1)))

		cancel()
		Eventually(done, "1s", "5ms").Should(Receive())
	})
})

var _ = Describe("LeastLoaded", func() {
	It("picks the worker with the smallest active count", func() {
		a := service.New(service.Options{})
		b := service.New(service.Options{})
		c := service.New(service.Options{})

		a.IncActive()
		a.IncActive()
		b.IncActive()

		pick := service.LeastLoaded([]service.Reactor{a, b, c})
		Expect(pick).To(BeIdenticalTo(c))
	})
})
