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

// Package epoch implements epoch-based reclamation for long-lived objects
// that must be reconfigured atomically without blocking readers: a writer
// publishes a new value, the previous one is retired and its cleanup runs
// only once every reader that could still observe it has moved on.
//
// Go's garbage collector already reclaims memory, so this package is about
// reclaiming non-memory resources (an *os.File, a TLS session cache, a
// syscall fd) tied to a retired value's Close/cleanup hook, deterministically
// and without a reader ever blocking a writer or vice versa.
package epoch

// Domain owns a global epoch counter and the bookkeeping needed to know
// when a retired value is safe to clean up. One Domain typically backs one
// published Slot, though it may be shared by several slots that are always
// reconfigured together.
type Domain interface {
	// NewReader registers a new reader against this domain.
	NewReader() Reader
	// Reclaim runs the cleanup of every retired value that no currently
	// reserved reader could still observe. Safe to call from any
	// goroutine (e.g. a reactor tick); a no-op when nothing is reclaimable.
	Reclaim()
}

// Reader is a single reader's reservation handle. Call Reserve before
// dereferencing a published Slot's current value and Release right after;
// the pattern mirrors a read lock but never blocks a writer.
type Reader interface {
	Reserve()
	Release()
}

// NewDomain creates an empty reclamation domain.
func NewDomain() Domain {
	return newDomain()
}
