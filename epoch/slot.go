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

package epoch

import "sync/atomic"

// Slot publishes a *T that readers dereference under a Reader's
// Reserve/Release bracket, and that a writer swaps wholesale with Store.
// The value a reader observed before Release remains valid for the
// duration of its reservation even if a writer has already Stored a
// replacement; cleanup of the old value is deferred to the owning Domain
// until Reclaim confirms no reservation can still see it.
//
// Typical use is a hot-reloadable configuration object (e.g. a TLS
// certificate bundle): writers call Store on every reconfiguration,
// readers call Load around each use without ever blocking the writer.
type Slot[T any] struct {
	d   *domain
	ptr atomic.Pointer[T]
}

// NewSlot creates a Slot bound to d, initially publishing initial. initial
// may be nil.
func NewSlot[T any](d Domain, initial *T) *Slot[T] {
	s := &Slot[T]{d: d.(*domain)}
	s.ptr.Store(initial)
	return s
}

// Load returns the currently published value. Call only while the
// calling goroutine's Reader is reserved.
func (s *Slot[T]) Load() *T {
	return s.ptr.Load()
}

// Store publishes v and retires the previous value: cleanup, if non-nil,
// runs once the domain confirms every reader that might still observe the
// old value has released its reservation.
func (s *Slot[T]) Store(v *T, cleanup func()) {
	old := s.ptr.Swap(v)
	if old == nil || cleanup == nil {
		return
	}
	s.d.retire(cleanup)
}
