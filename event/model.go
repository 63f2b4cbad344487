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

package event

// slot is one registered handler. A nil handler marks a soft-deleted slot,
// compacted away on the next Register (mirrors the original's "dirty" flag).
type slot struct {
	token    Registration
	receiver any
	handler  Handler
	id       int
}

type bus struct {
	sender   any
	slots    []slot
	dirty    bool
	nextTok  Registration
	dummy    bool
	dummyArg any
	closed   bool
}

func newBus(sender any) *bus {
	return &bus{sender: sender}
}

func newDummyBus(sender, arg any) *bus {
	return &bus{sender: sender, dummy: true, dummyArg: arg}
}

func (b *bus) Register(receiver any, handler Handler, id int) Registration {
	if b.closed {
		return 0
	}
	if b.dummy {
		handler(receiver, b.sender, b.dummyArg)
		return 0
	}
	if b.dirty {
		compacted := b.slots[:0]
		for _, s := range b.slots {
			if s.handler != nil {
				compacted = append(compacted, s)
			}
		}
		b.slots = compacted
		b.dirty = false
	}
	b.nextTok++
	tok := b.nextTok
	b.slots = append(b.slots, slot{token: tok, receiver: receiver, handler: handler, id: id})
	return tok
}

func (b *bus) Unregister(r Registration) {
	if b.dummy || b.closed || r == 0 {
		return
	}
	for i := range b.slots {
		if b.slots[i].token == r {
			b.slots[i].handler = nil
			b.dirty = true
			return
		}
	}
}

func (b *bus) Raise(id int, args any) {
	if b.dummy || b.closed {
		return
	}
	if args == nil && id != 0 {
		args = id
	}
	// snapshot the slots: handlers registered during this raise (from within
	// another handler) do not receive this raise, and a handler unregistered
	// by another during this raise still receives it. A handler with id 0
	// receives every raise.
	snap := make([]slot, len(b.slots))
	copy(snap, b.slots)
	for _, s := range snap {
		if b.closed {
			return
		}
		if s.handler != nil && (s.id == 0 || s.id == id) {
			s.handler(s.receiver, b.sender, args)
		}
	}
}

func (b *bus) Close() {
	b.closed = true
	b.slots = nil
}
