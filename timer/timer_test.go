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

package timer_test

import (
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/timer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timer", func() {
	It("fires Expired once for a non-periodic start", func() {
		tm := timer.New()
		tm.SetMs(10)
		var fires int32
		tm.Bus().Register(nil, func(_, _, _ any) { atomic.AddInt32(&fires, 1) }, timer.ExpiredEventID)
		tm.Start(false)

		Eventually(func() int32 { return atomic.LoadInt32(&fires) }, "200ms", "5ms").Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, "50ms", "5ms").Should(Equal(int32(1)))
	})

	It("fires Expired repeatedly at least the configured interval apart", func() {
		tm := timer.New()
		tm.SetMs(10)
		var last time.Time
		var gaps []time.Duration
		tm.Bus().Register(nil, func(_, _, _ any) {
			now := time.Now()
			if !last.IsZero() {
				gaps = append(gaps, now.Sub(last))
			}
			last = now
		}, timer.ExpiredEventID)
		tm.Start(true)

		Eventually(func() int { return len(gaps) }, "300ms", "5ms").Should(BeNumerically(">=", 3))
		tm.Stop()
		for _, g := range gaps {
			Expect(g).To(BeNumerically(">=", 9*time.Millisecond))
		}
	})

	It("stops delivering once Stop is called", func() {
		tm := timer.New()
		tm.SetMs(10)
		var fires int32
		tm.Bus().Register(nil, func(_, _, _ any) { atomic.AddInt32(&fires, 1) }, timer.ExpiredEventID)
		tm.Start(true)
		time.Sleep(25 * time.Millisecond)
		tm.Stop()
		n := atomic.LoadInt32(&fires)
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, "50ms", "5ms").Should(Equal(n))
	})
})

var _ = Describe("Pool", func() {
	It("returns a stopped timer, stopping it again on Put", func() {
		p := timer.NewPool()
		tm := p.Get()
		tm.SetMs(5)
		tm.Start(true)
		p.Put(tm)

		var fires int32
		tm.Bus().Register(nil, func(_, _, _ any) { atomic.AddInt32(&fires, 1) }, timer.ExpiredEventID)
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, "30ms", "5ms").Should(Equal(int32(0)))
	})
})
