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

// Package pool provides a generic, reset-on-reuse object pool. It
// replaces the original arena allocator that carved fixed-size blocks
// out of a preallocated region for Connection structs and coroutine
// stacks: Go's goroutines have no user-managed stack to pool, so only
// the "avoid reallocating short-lived, fixed-shape objects" half of that
// design survives, expressed as a thin typed wrapper over sync.Pool.
package pool

// Pool hands out and reclaims values of type T, reusing previously
// returned ones instead of allocating fresh.
type Pool[T any] interface {
	// Get returns a ready-to-use value: either a reused one that has
	// been passed through reset, or a freshly constructed one.
	Get() T
	// Put returns v to the pool for reuse. Callers must not use v again
	// after calling Put.
	Put(v T)
}

// New creates a Pool. newFn constructs a fresh T when the pool is empty.
// reset, if non-nil, is called on a value just before it is handed back
// out by Get, to clear any state left over from its previous use.
func New[T any](newFn func() T, reset func(T)) Pool[T] {
	return newPool(newFn, reset)
}
