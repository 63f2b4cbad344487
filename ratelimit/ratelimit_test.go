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

package ratelimit_test

import (
	"time"

	"github.com/nabbar/corenet/ratelimit"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RateLimit", func() {
	It("rejects a non-positive window or max", func() {
		_, err := ratelimit.New(ratelimit.Limit{Window: 0, Max: 1})
		Expect(err).To(HaveOccurred())

		_, err = ratelimit.New(ratelimit.Limit{Window: time.Second, Max: 0})
		Expect(err).To(HaveOccurred())
	})

	It("allows at most Max actions within one window", func() {
		rl, err := ratelimit.New(ratelimit.Limit{Window: time.Minute, Max: 3})
		Expect(err).ToNot(HaveOccurred())

		key := []byte("peer-a")
		base := time.Now()
		allowed := 0
		for i := 0; i < 10; i++ {
			if rl.Allow(key, base) {
				allowed++
			}
		}
		Expect(allowed).To(Equal(3))
	})

	It("replenishes capacity once the window has fully elapsed", func() {
		rl, err := ratelimit.New(ratelimit.Limit{Window: time.Minute, Max: 1})
		Expect(err).ToNot(HaveOccurred())

		key := []byte("peer-b")
		base := time.Now()
		Expect(rl.Allow(key, base)).To(BeTrue())
		Expect(rl.Allow(key, base)).To(BeFalse())
		Expect(rl.Allow(key, base.Add(2*time.Minute))).To(BeTrue())
	})

	It("only allows an action when every configured limit has capacity", func() {
		rl, err := ratelimit.New(
			ratelimit.Limit{Window: time.Minute, Max: 100},
			ratelimit.Limit{Window: time.Hour, Max: 2},
		)
		Expect(err).ToNot(HaveOccurred())

		key := []byte("peer-c")
		base := time.Now()
		Expect(rl.Allow(key, base)).To(BeTrue())
		Expect(rl.Allow(key, base)).To(BeTrue())
		Expect(rl.Allow(key, base)).To(BeFalse(), "the hourly limit of 2 is now exhausted")
	})

	It("keeps independent counters per key", func() {
		rl, err := ratelimit.New(ratelimit.Limit{Window: time.Minute, Max: 1})
		Expect(err).ToNot(HaveOccurred())

		base := time.Now()
		Expect(rl.Allow([]byte("x"), base)).To(BeTrue())
		Expect(rl.Allow([]byte("y"), base)).To(BeTrue())
	})

	It("sweeps keys whose window has fully elapsed", func() {
		rl, err := ratelimit.New(ratelimit.Limit{Window: time.Minute, Max: 1})
		Expect(err).ToNot(HaveOccurred())

		base := time.Now()
		rl.Allow([]byte("stale"), base)
		removed := rl.Sweep(base.Add(time.Hour))
		Expect(removed).To(Equal(1))
	})
})
