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

import "bytes"

// leaf is a single stored entry.
type leaf struct {
	key     []byte
	hash    uint64
	obj     any
	deleter Deleter
}

// chain resolves entries whose hash is fully consumed (64 bits) yet still
// collide; a linked list is the only remaining option at that depth.
type chain struct {
	head *chainLink
}

type chainLink struct {
	leaf
	next *chainLink
}

// node is one level of the trie. Each slot holds nil, a *leaf, a *chain,
// or a *node (a deeper level created to resolve a collision).
type node struct {
	depth int
	bits  uint
	slots []any
}

// depthBits returns the number of hash bits a node at depth consumes:
// 8 for the root and second level, 4 for every level after that.
func depthBits(depth int) uint {
	if depth <= 1 {
		return 8
	}
	return 4
}

func newNodeAt(depth int) *node {
	bits := depthBits(depth)
	return &node{depth: depth, bits: bits, slots: make([]any, 1<<bits)}
}

func (n *node) index(hash uint64, shift uint) uint64 {
	return (hash >> shift) & ((1 << n.bits) - 1)
}

// set stores or removes an entry (obj == nil removes) reached by hash,
// given shift bits of the hash already consumed by ancestors. It returns
// the net change in stored-entry count (-1, 0, or 1).
func (n *node) set(hash uint64, shift uint, key []byte, obj any, deleter Deleter) int {
	idx := n.index(hash, shift)
	switch cur := n.slots[idx].(type) {
	case nil:
		if obj == nil {
			return 0
		}
		n.slots[idx] = &leaf{key: cloneKey(key), hash: hash, obj: obj, deleter: deleter}
		return 1

	case *leaf:
		if bytes.Equal(cur.key, key) {
			if obj == nil {
				invokeDeleter(cur.deleter, cur.obj)
				n.slots[idx] = nil
				return -1
			}
			invokeDeleter(cur.deleter, cur.obj)
			cur.obj, cur.deleter = obj, deleter
			return 0
		}
		if obj == nil {
			return 0
		}
		nextShift := shift + n.bits
		if nextShift >= 64 {
			c := &chain{}
			c.head = &chainLink{leaf: *cur}
			c.head.next = &chainLink{leaf: leaf{key: cloneKey(key), hash: hash, obj: obj, deleter: deleter}}
			n.slots[idx] = c
			return 1
		}
		child := newNodeAt(n.depth + 1)
		child.set(cur.hash, nextShift, cur.key, cur.obj, cur.deleter)
		n.slots[idx] = child
		return child.set(hash, nextShift, key, obj, deleter)

	case *chain:
		delta := chainSet(cur, key, hash, obj, deleter)
		if cur.head == nil {
			n.slots[idx] = nil
		}
		return delta

	case *node:
		// a removal may leave the child sparse or even empty; we don't
		// collapse it back into a leaf, matching the original's choice
		// not to bother either.
		return cur.set(hash, shift+n.bits, key, obj, deleter)
	}
	return 0
}

func (n *node) get(hash uint64, shift uint, key []byte) (any, bool) {
	idx := n.index(hash, shift)
	switch cur := n.slots[idx].(type) {
	case nil:
		return nil, false
	case *leaf:
		if bytes.Equal(cur.key, key) {
			return cur.obj, true
		}
		return nil, false
	case *chain:
		for l := cur.head; l != nil; l = l.next {
			if bytes.Equal(l.key, key) {
				return l.obj, true
			}
		}
		return nil, false
	case *node:
		return cur.get(hash, shift+n.bits, key)
	}
	return nil, false
}

// removeAllAt removes matching entries from the subtree rooted at slot i
// only, invoking the deleter of each, and returns the count removed.
func (n *node) removeAllAt(i int, matcher func(key []byte, obj any) bool) int {
	removed := 0
	switch cur := n.slots[i].(type) {
	case *leaf:
		if matcher(cur.key, cur.obj) {
			invokeDeleter(cur.deleter, cur.obj)
			n.slots[i] = nil
			removed++
		}
	case *chain:
		var kept *chainLink
		for l := cur.head; l != nil; {
			next := l.next
			if matcher(l.key, l.obj) {
				invokeDeleter(l.deleter, l.obj)
				removed++
			} else {
				l.next = kept
				kept = l
			}
			l = next
		}
		cur.head = kept
		if cur.head == nil {
			n.slots[i] = nil
		}
	case *node:
		removed += cur.removeAll(matcher)
	}
	return removed
}

// removeAll removes matching entries from the whole subtree, invoking
// each removed entry's deleter, and returns the count removed.
func (n *node) removeAll(matcher func(key []byte, obj any) bool) int {
	removed := 0
	for i := range n.slots {
		removed += n.removeAllAt(i, matcher)
	}
	return removed
}

// forEach invokes fn for every live leaf in the subtree.
func (n *node) forEach(fn func(l *leaf)) {
	for _, v := range n.slots {
		switch cur := v.(type) {
		case *leaf:
			fn(cur)
		case *chain:
			for l := cur.head; l != nil; l = l.next {
				fn(&l.leaf)
			}
		case *node:
			cur.forEach(fn)
		}
	}
}

func chainSet(c *chain, key []byte, hash uint64, obj any, deleter Deleter) int {
	var prev *chainLink
	for l := c.head; l != nil; l = l.next {
		if bytes.Equal(l.key, key) {
			if obj == nil {
				invokeDeleter(l.deleter, l.obj)
				if prev == nil {
					c.head = l.next
				} else {
					prev.next = l.next
				}
				return -1
			}
			invokeDeleter(l.deleter, l.obj)
			l.obj, l.deleter = obj, deleter
			return 0
		}
		prev = l
	}
	if obj == nil {
		return 0
	}
	c.head = &chainLink{leaf: leaf{key: cloneKey(key), hash: hash, obj: obj, deleter: deleter}, next: c.head}
	return 1
}

func cloneKey(key []byte) []byte {
	k := make([]byte, len(key))
	copy(k, key)
	return k
}
