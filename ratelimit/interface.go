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

// Package ratelimit implements sliding-window rate limiting keyed by
// arbitrary byte slices (typically a peer address), built atop
// github.com/nabbar/corenet/dictionary for its keyed storage.
//
// Each configured window is split into a fixed number of time slots; a
// ring of per-slot counters tracks how many actions were allowed inside
// the window, so expired slots can be subtracted cheaply as time passes
// without rescanning full history.
package ratelimit

import "time"

// Limit configures one sliding window: at most Max actions may be
// allowed within Window.
type Limit struct {
	Window time.Duration
	Max    int
}

// RateLimit checks arbitrary keys against one or more configured Limits.
// An action is allowed only when every configured Limit currently has
// capacity; only the Limits that had capacity are incremented, so a full
// Limit is not pushed further over, while a rejected action still counts
// against every other Limit that had room for it.
type RateLimit interface {
	// Allow reports whether an action identified by key is permitted
	// right now, as of t, advancing and possibly incrementing every
	// configured Limit's ring for key.
	Allow(key []byte, t time.Time) bool
	// Sweep drops any key whose most recent tick lies outside every
	// configured window, as of t. Returns the number of keys dropped.
	Sweep(t time.Time) int
}

// New creates a RateLimit enforcing every given Limit concurrently. Limits
// with a non-positive Window or Max are rejected with an error.
func New(limits ...Limit) (RateLimit, error) {
	return newRateLimit(limits)
}
