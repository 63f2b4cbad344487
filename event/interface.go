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

// Package event provides a small synchronous, single-threaded in-process
// publish/subscribe bus: the owner of a Bus raises events, subscribers
// registered with a matching id are called back directly on the raising
// goroutine. No cross-goroutine delivery is offered; wire handlers on the
// same reactor goroutine that owns the Bus.
package event

// Handler receives a raised event. receiver is the value that registered
// the handler, sender is the Bus owner (as given to New), args is whatever
// was passed to Raise (or, for a nonzero id raised with nil args, a boxed
// copy of that id).
type Handler func(receiver, sender, args any)

// Registration identifies one registered handler, returned by Register and
// consumed by Unregister. It replaces the original API's (receiver,
// handler, id) triple match, which relied on C function-pointer identity;
// Go function values aren't comparable, so a Bus hands back an opaque token
// instead.
type Registration uint64

// Bus is a mutable event owned by a single sender. See the package doc for
// the threading contract.
type Bus interface {
	// Register adds a handler. On a Bus created with NewDummyFire, the
	// handler is instead invoked immediately with that Bus's argument and
	// not stored. On a closed Bus, Register does nothing and returns 0.
	Register(receiver any, handler Handler, id int) Registration
	// Unregister removes a previously registered handler. Safe to call
	// from within a handler invoked by an in-progress Raise; the removal
	// is soft (the slot is marked dead) and compacted before the next
	// Register.
	Unregister(r Registration)
	// Raise invokes every live handler registered with the same id or with
	// id 0, in registration order.
	Raise(id int, args any)
	// Close releases the bus. Further Register calls are ignored.
	Close()
}

// New creates a Bus owned by sender (passed to handlers as the sender
// argument).
func New(sender any) Bus {
	return newBus(sender)
}

// NewDummyFire creates a Bus that is already "fired": every future Register
// immediately invokes the handler with arg instead of storing it. This
// mirrors PSC_Event_createDummyFire, used to let late subscribers observe
// an event that already happened once.
func NewDummyFire(sender, arg any) Bus {
	return newDummyBus(sender, arg)
}
