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

package dictionary_test

import (
	"fmt"
	"sync"

	"github.com/nabbar/corenet/dictionary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dict", func() {
	It("returns what was set", func() {
		d := dictionary.New(nil, false)
		d.Set([]byte("a"), 1, nil)
		v, ok := d.Get([]byte("a"))
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})

	It("removes an entry when set to nil", func() {
		d := dictionary.New(nil, false)
		d.Set([]byte("a"), 1, nil)
		d.Set([]byte("a"), nil, nil)
		_, ok := d.Get([]byte("a"))
		Expect(ok).To(BeFalse())
		Expect(d.Count()).To(Equal(0))
	})

	It("tracks count across many distinct keys, including hash collisions at the root", func() {
		d := dictionary.New(nil, false)
		n := 5000
		for i := 0; i < n; i++ {
			d.Set([]byte(fmt.Sprintf("key-%d", i)), i, nil)
		}
		Expect(d.Count()).To(Equal(n))
		for i := 0; i < n; i++ {
			v, ok := d.Get([]byte(fmt.Sprintf("key-%d", i)))
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(i))
		}
	})

	It("invokes the global deleter on replace, removal, and Close", func() {
		var deleted []any
		d := dictionary.New(func(obj any) { deleted = append(deleted, obj) }, false)
		d.Set([]byte("a"), 1, nil)
		d.Set([]byte("a"), 2, nil)
		Expect(deleted).To(Equal([]any{1}))

		d.Set([]byte("a"), nil, nil)
		Expect(deleted).To(Equal([]any{1, 2}))

		d.Set([]byte("b"), 3, nil)
		d.Close()
		Expect(deleted).To(Equal([]any{1, 2, 3}))
	})

	It("never deletes with NewNoDelete, even when a per-call deleter is given", func() {
		d := dictionary.NewNoDelete(false)
		var called bool
		d.Set([]byte("a"), 1, func(any) { called = true })
		d.Set([]byte("a"), nil, nil)
		Expect(called).To(BeFalse())
	})

	It("removes exactly the entries the matcher selects", func() {
		d := dictionary.New(nil, false)
		for i := 0; i < 200; i++ {
			d.Set([]byte(fmt.Sprintf("k%d", i)), i, nil)
		}
		removed := d.RemoveAll(func(_ []byte, obj any) bool {
			return obj.(int)%2 == 0
		})
		Expect(removed).To(Equal(100))
		Expect(d.Count()).To(Equal(100))
		for i := 1; i < 200; i += 2 {
			_, ok := d.Get([]byte(fmt.Sprintf("k%d", i)))
			Expect(ok).To(BeTrue())
		}
	})

	It("supports concurrent access in shared mode without losing updates", func() {
		d := dictionary.New(nil, true)
		var wg sync.WaitGroup
		for g := 0; g < 16; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					d.Set([]byte(fmt.Sprintf("g%d-k%d", g, i)), i, nil)
				}
			}(g)
		}
		wg.Wait()
		Expect(d.Count()).To(Equal(16 * 200))
	})
})
