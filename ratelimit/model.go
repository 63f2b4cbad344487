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

package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/dictionary"
)

// resolvedLimit is a Limit with its slot duration and slot count derived
// once at construction time: slot = ceil(window/512), nSlots =
// ceil(window/slot), matching the original's fixed 512-slot ring budget.
type resolvedLimit struct {
	slot   int64 // nanoseconds
	nSlots int64
	max    int32
}

type ring struct {
	counts   []int32
	total    int32
	lastTick int64
	inited   bool
}

// keyState is the value stored per key in the backing dictionary: one
// ring per configured Limit, guarded by a single atomic-flag spinlock as
// described for shared rate-limit counters.
type keyState struct {
	lock  int32
	rings []ring
}

func (ks *keyState) acquire() {
	for !atomic.CompareAndSwapInt32(&ks.lock, 0, 1) {
	}
}

func (ks *keyState) release() {
	atomic.StoreInt32(&ks.lock, 0)
}

type rateLimit struct {
	limits []resolvedLimit
	dict   dictionary.Dict
	mu     sync.Mutex // serializes first-creation of a key's state only
}

func newRateLimit(limits []Limit) (*rateLimit, error) {
	if len(limits) == 0 {
		return nil, fmt.Errorf("ratelimit: at least one limit is required")
	}
	resolved := make([]resolvedLimit, len(limits))
	for i, l := range limits {
		if l.Window <= 0 {
			return nil, fmt.Errorf("ratelimit: limit %d: window must be positive", i)
		}
		if l.Max <= 0 {
			return nil, fmt.Errorf("ratelimit: limit %d: max must be positive", i)
		}
		windowNanos := int64(l.Window)
		slot := ceilDiv(windowNanos, 512)
		resolved[i] = resolvedLimit{
			slot:   slot,
			nSlots: ceilDiv(windowNanos, slot),
			max:    int32(l.Max),
		}
	}
	return &rateLimit{
		limits: resolved,
		dict:   dictionary.New(nil, true),
	}, nil
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func (rl *rateLimit) getOrCreate(key []byte) *keyState {
	if v, ok := rl.dict.Get(key); ok {
		return v.(*keyState)
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.dict.Get(key); ok {
		return v.(*keyState)
	}
	ks := &keyState{rings: make([]ring, len(rl.limits))}
	for i, lim := range rl.limits {
		ks.rings[i].counts = make([]int32, lim.nSlots)
	}
	rl.dict.Set(append([]byte(nil), key...), ks, nil)
	return ks
}

// advance rolls r forward to t's tick, clearing any slots that fell out
// of the window, and returns the tick it landed on.
func advance(r *ring, lim resolvedLimit, t time.Time) int64 {
	tick := t.UnixNano() / lim.slot
	if !r.inited {
		r.lastTick = tick
		r.inited = true
		return tick
	}
	if tick <= r.lastTick {
		return tick
	}
	gap := tick - r.lastTick
	if gap >= lim.nSlots {
		for i := range r.counts {
			r.counts[i] = 0
		}
		r.total = 0
	} else {
		for g := r.lastTick + 1; g <= tick; g++ {
			idx := g % lim.nSlots
			r.total -= r.counts[idx]
			r.counts[idx] = 0
		}
	}
	r.lastTick = tick
	return tick
}

func (rl *rateLimit) Allow(key []byte, t time.Time) bool {
	ks := rl.getOrCreate(key)
	ks.acquire()
	defer ks.release()

	overall := true
	for i, lim := range rl.limits {
		r := &ks.rings[i]
		tick := advance(r, lim, t)
		if r.total < lim.max {
			r.counts[tick%lim.nSlots]++
			r.total++
		} else {
			overall = false
		}
	}
	return overall
}

func (rl *rateLimit) Sweep(t time.Time) int {
	return rl.dict.RemoveAll(func(_ []byte, obj any) bool {
		ks := obj.(*keyState)
		ks.acquire()
		defer ks.release()

		for i, lim := range rl.limits {
			r := &ks.rings[i]
			tick := t.UnixNano() / lim.slot
			if !r.inited || tick-r.lastTick < lim.nSlots {
				return false
			}
		}
		return true
	})
}
