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

import "sync"

// retiredItem is a value that a writer has replaced but which may still be
// observed by a reader that reserved an epoch before the retirement.
type retiredItem struct {
	epoch   uint64
	cleanup func()
}

type domain struct {
	mu      sync.Mutex
	epoch   uint64
	active  map[*reader]uint64
	retired []retiredItem
}

func newDomain() *domain {
	return &domain{active: make(map[*reader]uint64)}
}

func (d *domain) NewReader() Reader {
	return &reader{d: d}
}

// Reclaim drops every retired item whose epoch predates every currently
// reserved reader. Readers that are not currently between Reserve/Release
// do not pin anything, so a domain with no active readers reclaims
// everything outstanding.
func (d *domain) Reclaim() {
	d.mu.Lock()
	if len(d.retired) == 0 {
		d.mu.Unlock()
		return
	}

	min := d.epoch
	for _, e := range d.active {
		if e < min {
			min = e
		}
	}

	kept := d.retired[:0]
	var toRun []func()
	for _, r := range d.retired {
		if r.epoch < min {
			toRun = append(toRun, r.cleanup)
		} else {
			kept = append(kept, r)
		}
	}
	d.retired = kept
	d.mu.Unlock()

	for _, fn := range toRun {
		fn()
	}
}

// retire records cleanup to run once no reserved reader predates the
// current epoch, then advances the epoch so future reservations are
// ineligible to observe the value being retired.
func (d *domain) retire(cleanup func()) {
	d.mu.Lock()
	d.retired = append(d.retired, retiredItem{epoch: d.epoch, cleanup: cleanup})
	d.epoch++
	d.mu.Unlock()
}

// reader is keyed by its own pointer identity in domain.active, so it must
// always be handed out as a *reader (see domain.NewReader).
type reader struct {
	d *domain
}

func (r *reader) Reserve() {
	r.d.mu.Lock()
	r.d.active[r] = r.d.epoch
	r.d.mu.Unlock()
}

func (r *reader) Release() {
	r.d.mu.Lock()
	delete(r.d.active, r)
	r.d.mu.Unlock()
}
