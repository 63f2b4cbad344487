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

// Package connection is the per-socket state machine: connect/handshake,
// framed reads, a back-pressured write ring, pause/handling composition
// and asynchronous close. It mediates both network sockets and piped
// process stdio through the same io.ReadWriteCloser seam, so the reactor
// and Process package see one Conn contract regardless of transport.
//
// The original implementation drives this state machine from readiness
// callbacks fired by a hand-rolled epoll/kqueue loop. Go's net package
// already turns a blocking Read/Write into something a goroutine can
// park on cheaply, so each Conn owns a read goroutine and a write
// goroutine instead of registering fd interest with an external loop;
// TLS want-read/want-write pinning is absorbed by crypto/tls's own
// blocking Handshake, run on a dedicated goroutine that reports back
// through the same event.Bus as everything else.
package connection

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/nabbar/corenet/event"
	"github.com/nabbar/corenet/threadpool"
)

// State is a Conn's position in its lifecycle.
type State int

const (
	StateConnecting State = iota
	StateHandshake
	StateConnected
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateHandshake:
		return "handshake"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FrameMode selects how raw bytes are split into dataReceived raises.
type FrameMode int

const (
	// FrameBinary delivers whatever arrived once at least Expected bytes
	// (or, if Expected is 0, at least one byte) have accumulated.
	FrameBinary FrameMode = iota
	// FrameText delivers once a caller-supplied locator finds the end of
	// a message within the accumulated bytes.
	FrameText
	// FrameLine delivers once a "\r\n", "\r" or "\n" terminator is found
	// (the terminator is included in the delivered slice).
	FrameLine
)

// DataSentEventID is the id DataSent() raises under, with the WriteRecord's
// id as args.
const DataSentEventID = 1

// ConnectedEventID is the id Connected() raises under once the
// connect/handshake sequence completes. It is raised with nil args, so
// handlers receive the id itself.
const ConnectedEventID = 1

// ClosedEventID is the id Closed() raises exactly once, with the
// blacklist flag (bool) as args.
const ClosedEventID = 1

// DataReceivedEventID is the id DataReceived() raises under, with the
// delivered []byte as args. The slice is a fresh copy of the framed
// message, owned by the handlers; it does not alias the read buffer.
const DataReceivedEventID = 1

// NameResolvedEventID is the id NameResolved() raises under, with the
// resolved name (string) as args.
const NameResolvedEventID = 1

// Options configures a Conn at construction time.
type Options struct {
	// TLSConfig, if non-nil, causes a TLS handshake before the
	// connection is reported Connected.
	TLSConfig *tls.Config
	// ConnectTicks bounds the Connecting state; 0 means no bound.
	ConnectTicks int
	// HandshakeTicks bounds the Handshake state; 0 means no bound.
	HandshakeTicks int
	// TickInterval is the duration of one tick for ConnectTicks/
	// HandshakeTicks. Defaults to 1 second.
	TickInterval time.Duration
	// ReadBufferSize is the initial size of the read buffer. Defaults to
	// 64KiB. The buffer doubles whenever it fills before the framing
	// locator finds a message; a full buffer is not delivered as a message.
	ReadBufferSize int
	// Deferred, if true, suspends reading until Activate is called -
	// the "Piped"/deferred-accept construction mode.
	Deferred bool
}

// Conn is a single connection's state machine.
type Conn interface {
	// State returns the connection's current lifecycle state.
	State() State

	// Connected raises ConnectedEventID once, when the connection
	// (and TLS handshake, if any) completes successfully.
	Connected() event.Bus
	// Closed raises ClosedEventID exactly once, with a bool blacklist
	// flag, when the connection has fully torn down.
	Closed() event.Bus
	// DataReceived raises DataReceivedEventID once per framed message.
	DataReceived() event.Bus
	// DataSent raises DataSentEventID once per WriteRecord whose id was
	// non-nil, after that record has been fully written.
	DataSent() event.Bus
	// NameResolved raises NameResolvedEventID once a background reverse
	// DNS lookup (see EnableResolver) completes.
	NameResolved() event.Bus

	// RemoteAddr returns the canonical peer address string.
	RemoteAddr() string
	// RemoteName returns the resolved peer name, if any.
	RemoteName() (string, bool)

	// EnableResolver starts a background reverse-DNS lookup of
	// RemoteAddr on pool, bounded by tickBudget ticks of tickInterval.
	// A no-op on a piped (non-network) Conn.
	EnableResolver(pool threadpool.Pool, tickBudget int, tickInterval time.Duration)

	// ReceiveBinary switches to FrameBinary framing; expected is the
	// minimum byte count to accumulate before delivering (0 = any).
	ReceiveBinary(expected int)
	// ReceiveText switches to FrameText framing with a caller-supplied
	// end-of-message locator.
	ReceiveText(locator func(buffered []byte) (messageLen int, found bool))
	// ReceiveLine switches to FrameLine framing.
	ReceiveLine()

	// SendAsync schedules buf for writing, returning an error if the
	// write ring (capacity 16) is full. Ownership of buf remains with
	// the caller until DataSent raises with id (when id != nil).
	SendAsync(buf []byte, id any) error

	// Pause increments the pause counter; reading stops while it is > 0.
	Pause()
	// Resume decrements the pause counter.
	Resume()
	// MarkHandling increments the handling counter from within a
	// DataReceived handler, deferring further reads.
	MarkHandling()
	// ConfirmDataReceived decrements the handling counter.
	ConfirmDataReceived()

	// Close begins closing the connection. blacklist marks the peer (if
	// any) as misbehaving, for the caller's own blacklist bookkeeping.
	Close(blacklist bool)
	// Blacklisted reports whether Close(true) (or a failed or timed-out
	// connect/handshake) was the cause of closing.
	Blacklisted() bool

	// SetData attaches v to the connection; deleter (if non-nil) runs
	// once, when the connection is closed or a new value replaces v.
	SetData(v any, deleter func(any))
	// Data returns the value attached by SetData.
	Data() any

	// Activate starts reading on a Conn constructed with Options.Deferred.
	// A no-op otherwise.
	Activate()
}

// DialTCP asynchronously dials network/address (any of "tcp", "tcp4",
// "tcp6", "unix") and drives the connection through Connecting, optional
// Handshake, to Connected - or to Closing with Blacklisted()==true if
// ConnectTicks or HandshakeTicks expire first.
func DialTCP(ctx context.Context, network, address string, opts Options) Conn {
	return newDialConn(ctx, network, address, opts)
}

// FromAccepted wraps an already-accepted net.Conn, taking it through an
// optional TLS Handshake to Connected.
func FromAccepted(nc net.Conn, opts Options) Conn {
	return newAcceptedConn(nc, opts)
}

// FromPipe wraps a non-network transport (a process's stdio pipe) as a
// Conn. TLS options are ignored; the connection is Connected immediately.
func FromPipe(rw ReadWriteCloser, opts Options) Conn {
	return newPipeConn(rw, opts)
}

// ReadWriteCloser is the minimal transport seam FromPipe requires -
// satisfied by pairing an os/exec pipe's io.ReadCloser/io.WriteCloser,
// or by any net.Conn.
type ReadWriteCloser interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}
