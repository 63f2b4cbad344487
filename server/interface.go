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

// Package server binds one or more listeners (TCP, by hostname list and
// protocol filter, or a single Unix socket path with mode/ownership),
// accepts connections, balances each onto a service.Worker, and exposes
// hot TLS reconfiguration through the already-epoch-published
// tlsconfig.Publisher.
//
// The original implementation's server owns a listening fd per bind
// spec and registers it with the reactor for readyRead; accept() then
// hands the new fd to whichever worker thread currently has the fewest
// active connections. Go's net.Listener already parks a goroutine on
// accept(2) for free, so this package runs one accept goroutine per
// bind instead of routing accept-readiness through the reactor, and
// hands each accepted net.Conn to connection.FromAccepted on the
// service.Worker picked by service.LeastLoaded - preserving the
// original's "lowest active count, round-robin tiebreak" placement
// rule exactly, just driven by a dedicated goroutine instead of an
// fd-readiness callback.
package server

import (
	"context"
	"os"
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/netutil"
	"github.com/nabbar/corenet/service"
	"github.com/nabbar/corenet/tlsconfig"
)

// Bind names one listen address. For TCP protocols, Address is a
// "host:port" pair (Host may name multiple resolved addresses; each
// resolved address passing Protocol's filter gets its own listener).
// For ProtoUnix, Address is a filesystem path and Mode/UID/GID apply
// after bind.
type Bind struct {
	Protocol netutil.Protocol
	Address  string

	// Mode is applied to a Unix socket path after bind. Defaults to
	// 0600 if zero.
	Mode os.FileMode
	// UID, if non-nil, chowns a Unix socket path after bind.
	UID *int
	// GID, if non-nil, chowns a Unix socket path after bind.
	GID *int

	// StaleProbeTimeout bounds the pre-bind liveness probe on a Unix
	// socket path. Defaults to 200ms.
	StaleProbeTimeout time.Duration
}

// Options configures a Server at construction time.
type Options struct {
	Binds []Bind

	// ReadBufferSize sizes each accepted connection.Conn's read buffer.
	ReadBufferSize int
	// ConnectTicks/HandshakeTicks/TickInterval bound each accepted
	// connection's Connecting/Handshake states, as connection.Options.
	ConnectTicks   int
	HandshakeTicks int
	TickInterval   time.Duration

	// TLS, if non-nil, is rendered fresh for every accepted connection
	// and kept hot-swappable through ConfigureTLS.
	TLS tlsconfig.Config
	// ClientAuth is not read by the Server: the client-certificate mode
	// TLS is rendered with is the one set on TLS itself through
	// SetClientAuth.
	ClientAuth tlsconfig.ClientAuthMode

	// Workers, if non-empty, are the service.Reactor pool accepted
	// connections are balanced across via service.LeastLoaded. A nil/
	// empty Workers runs OnAccept directly on the accept goroutine.
	Workers []service.Reactor

	// OnAccept is invoked (on the chosen Worker, if any) once per
	// accepted connection, after TLS Handshake (if any) has started but
	// before any framing mode is configured - the caller wires
	// ReceiveBinary/ReceiveText/ReceiveLine and subscribes to events.
	OnAccept func(id ConnID, c connection.Conn)

	// OnReject is invoked when Accept on a listener fails; the first
	// argument is that listener's own address (no peer address is known)
	// and rejectReason is the error text. The protocol filter is applied
	// at bind time and never calls OnReject.
	OnReject func(remoteAddr, rejectReason string)
}

// ConnID identifies one accepted connection for the lifetime of a
// Server's bookkeeping, handed to OnAccept instead of a raw pointer so
// the caller has a stable, loggable key independent of the Conn value
// itself.
type ConnID string

// Stats is a Server's read-only bookkeeping, present in spirit in the
// original's internal counters but never exposed through its public C
// API - exposing them here is idiomatic for a Go service library.
type Stats struct {
	Accepted uint64
	Active   int32
	Rejected uint64
}

// Server listens on every configured Bind, accepts connections, and
// balances them across its configured Workers.
type Server interface {
	// Start binds every configured Bind and begins accepting. It
	// returns once every bind has either succeeded or failed; a single
	// bind failure unwinds every listener already opened.
	Start(ctx context.Context) error

	// Shutdown stops accepting, then waits up to timeout for every
	// active connection to close before forcibly closing any that
	// remain. Errors closing individual listeners are combined.
	Shutdown(timeout time.Duration) error

	// ConfigureTLS rebuilds the Server's TLS config from cfg and
	// republishes it, rejecting the change with ErrBindMismatch if cfg's
	// bind-relevant settings (certificates, client-CA set, client-auth
	// mode, version bounds) differ from what the Server was started
	// with in a way that isn't safe to hot-swap.
	ConfigureTLS(cfg tlsconfig.Config) error

	// Stats returns a snapshot of the Server's bookkeeping.
	Stats() Stats
}

// New constructs a Server from opts without binding anything yet; call
// Start to bind and begin accepting.
func New(opts Options) Server {
	return newServer(opts)
}
