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

package epoch_test

import (
	"github.com/nabbar/corenet/epoch"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Slot", func() {
	It("loads the initially published value", func() {
		d := epoch.NewDomain()
		v := 42
		s := epoch.NewSlot[int](d, &v)
		Expect(*s.Load()).To(Equal(42))
	})

	It("does not run cleanup while a reader still holds the old value", func() {
		d := epoch.NewDomain()
		r := d.NewReader()
		v1, v2 := 1, 2
		s := epoch.NewSlot[int](d, &v1)

		r.Reserve()
		observed := s.Load()

		var cleaned bool
		s.Store(&v2, func() { cleaned = true })
		d.Reclaim()
		Expect(cleaned).To(BeFalse(), "reader still reserved, old value must survive")
		Expect(*observed).To(Equal(1))

		r.Release()
		d.Reclaim()
		Expect(cleaned).To(BeTrue(), "no reader can see the old value anymore")
	})

	It("reclaims immediately when no reader is reserved", func() {
		d := epoch.NewDomain()
		v1, v2 := 1, 2
		s := epoch.NewSlot[int](d, &v1)

		var cleaned bool
		s.Store(&v2, func() { cleaned = true })
		d.Reclaim()
		Expect(cleaned).To(BeTrue())
		Expect(*s.Load()).To(Equal(2))
	})

	It("never retires the first store when there is nothing to replace", func() {
		d := epoch.NewDomain()
		var called bool
		s := epoch.NewSlot[int](d, nil)
		v := 1
		s.Store(&v, func() { called = true })
		d.Reclaim()
		Expect(called).To(BeFalse(), "there was no previous value to clean up")
	})
})
