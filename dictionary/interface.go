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

// Package dictionary implements a dictionary of arbitrary values keyed by
// byte slices, backed by a trie of nested hash tables: a 256-entry root
// keyed by the lowest 8 bits of a 64-bit hash, a 256-entry second level
// keyed by the next 8 bits, then 16-entry levels keyed 4 bits at a time
// until the hash is exhausted, at which point further collisions resolve
// into a linked list. The hash function is xxh3-class
// (github.com/cespare/xxhash/v2), matching the original implementation's
// choice of xxHash 3.
//
// A Dict created in shared mode may be read and written from multiple
// goroutines concurrently: each of the 256 root buckets carries its own
// optimistic reservation counter (readers increment while non-negative,
// writers spin to claim it at zero), so unrelated root buckets never
// contend. A Dict created without shared mode performs no synchronization
// at all and must be confined to a single goroutine, exactly like the
// original single-threaded dictionary.
package dictionary

// Deleter is invoked on a value removed from, replaced in, or still
// present when a Dict is closed. A nil Deleter passed to Set is fine; it
// simply means that key's removal/replacement/Close does nothing to the
// value.
type Deleter func(obj any)

// Dict stores arbitrary values addressed by byte-slice keys.
type Dict interface {
	// Set stores obj under key, replacing and deleting (via the matching
	// deleter, see New) whatever was previously stored. Passing a nil obj
	// removes the entry for key, if any, invoking its deleter.
	Set(key []byte, obj any, deleter Deleter)
	// Get returns the value stored under key, and whether it was found.
	Get(key []byte) (obj any, ok bool)
	// Count returns the number of entries currently stored.
	Count() int
	// RemoveAll removes every entry for which matcher returns true,
	// invoking each removed entry's deleter, and returns the number of
	// entries removed. In shared mode, RemoveAll observes each root
	// bucket's reservation the same way Set does.
	RemoveAll(matcher func(key []byte, obj any) bool) int
	// Close removes every entry, invoking the deleter of each.
	Close()
}

// New creates a Dict. deleter, if non-nil, is invoked for every entry
// removed, replaced, or still present at Close, taking priority over any
// per-entry deleter given to Set. If shared is true, the Dict may be used
// concurrently from multiple goroutines.
func New(deleter Deleter, shared bool) Dict {
	return newDict(deleter, false, shared)
}

// NewNoDelete creates a Dict that never invokes any deleter, not even one
// passed to Set, matching the original API's PSC_DICT_NODELETE sentinel.
// Use this when stored values need no cleanup (e.g. plain values or data
// owned elsewhere).
func NewNoDelete(shared bool) Dict {
	return newDict(nil, true, shared)
}
