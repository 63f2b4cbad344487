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

package dictionary

import "sync/atomic"

const rootBuckets = 256

type dict struct {
	shared   bool
	noDelete bool
	deleter  Deleter
	root     *node
	reserve  [rootBuckets]int32
	count    int64
}

func newDict(deleter Deleter, noDelete, shared bool) *dict {
	return &dict{
		shared:   shared,
		noDelete: noDelete,
		deleter:  deleter,
		root:     newNodeAt(0),
	}
}

func (d *dict) rootIndex(hash uint64) int {
	return int(hash & (rootBuckets - 1))
}

// acquireWrite claims bucket idx exclusively, spinning until no reader or
// writer holds it. A no-op for a non-shared Dict, whose single owning
// goroutine needs no synchronization.
func (d *dict) acquireWrite(idx int) {
	if !d.shared {
		return
	}
	for !atomic.CompareAndSwapInt32(&d.reserve[idx], 0, -1) {
	}
}

func (d *dict) releaseWrite(idx int) {
	if !d.shared {
		return
	}
	atomic.StoreInt32(&d.reserve[idx], 0)
}

// acquireRead registers one more concurrent reader of bucket idx, spinning
// only while a writer currently holds it.
func (d *dict) acquireRead(idx int) {
	if !d.shared {
		return
	}
	for {
		v := atomic.LoadInt32(&d.reserve[idx])
		if v >= 0 && atomic.CompareAndSwapInt32(&d.reserve[idx], v, v+1) {
			return
		}
	}
}

func (d *dict) releaseRead(idx int) {
	if !d.shared {
		return
	}
	atomic.AddInt32(&d.reserve[idx], -1)
}

func (d *dict) resolveDeleter(perCall Deleter) Deleter {
	if d.noDelete {
		return nil
	}
	if d.deleter != nil {
		return d.deleter
	}
	return perCall
}

func (d *dict) Set(key []byte, obj any, deleter Deleter) {
	hash := hashKey(key)
	idx := d.rootIndex(hash)
	final := d.resolveDeleter(deleter)

	d.acquireWrite(idx)
	delta := d.root.set(hash, 0, key, obj, final)
	d.releaseWrite(idx)

	if delta != 0 {
		atomic.AddInt64(&d.count, int64(delta))
	}
}

func (d *dict) Get(key []byte) (any, bool) {
	hash := hashKey(key)
	idx := d.rootIndex(hash)

	d.acquireRead(idx)
	obj, ok := d.root.get(hash, 0, key)
	d.releaseRead(idx)

	return obj, ok
}

func (d *dict) Count() int {
	return int(atomic.LoadInt64(&d.count))
}

func (d *dict) RemoveAll(matcher func(key []byte, obj any) bool) int {
	removed := 0
	for idx := 0; idx < rootBuckets; idx++ {
		d.acquireWrite(idx)
		removed += d.root.removeAllAt(idx, matcher)
		d.releaseWrite(idx)
	}
	if removed != 0 {
		atomic.AddInt64(&d.count, -int64(removed))
	}
	return removed
}

func (d *dict) Close() {
	d.root.forEach(func(l *leaf) {
		invokeDeleter(l.deleter, l.obj)
	})
	d.root = newNodeAt(0)
	atomic.StoreInt64(&d.count, 0)
}
