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

// Package client dials outbound TCP and Unix connections through the
// already-built connection.DialTCP, pre-resolving the target address (on a
// threadpool.Pool when one is configured; Dial waits for that resolution,
// bounded by its ctx, before it returns), and tracks a per-address blacklist so a peer that has already
// earned a connect/handshake timeout is skipped outright for its next few
// Dial attempts instead of paying the same timeout again immediately.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/threadpool"
	"github.com/nabbar/corenet/tlsconfig"
)

// ErrNotConnected is returned by SendAsync on the stand-in Conn Dial
// returns for a blacklisted or DNS-failed address; such a Conn never
// leaves the Closed state.
var ErrNotConnected = errors.New("client: connection not established")

// Options configures a Dialer at construction time.
type Options struct {
	// Network selects the transport: "tcp", "tcp4", "tcp6" or "unix".
	Network string
	// Address is dialed as-is for "unix" (a filesystem path) or resolved
	// and dialed host:port for the TCP networks.
	Address string

	// ConnectTicks/HandshakeTicks/TickInterval/ReadBufferSize are passed
	// through to connection.Options for every dial.
	ConnectTicks   int
	HandshakeTicks int
	TickInterval   time.Duration
	ReadBufferSize int

	// TLS, if non-nil, is rendered once and kept hot-swappable through
	// ConfigureTLS; ServerName is used for both rendering and the
	// handshake's SNI.
	TLS        tlsconfig.Config
	ServerName string

	// Pool, if non-nil, runs the pre-dial address resolution off the
	// caller's goroutine. A nil Pool resolves inline before dialing.
	Pool threadpool.Pool
	// ResolveTicks bounds the resolution job; 0 means no bound.
	ResolveTicks int

	// BlacklistHits is how many subsequent Dial calls to the same address
	// are short-circuited (without touching the network) after that
	// address closes with its blacklist flag set. 0 disables the skip.
	BlacklistHits int
}

// Dialer dials Options.Address repeatedly, applying the configured
// blacklist skip and hot TLS reconfiguration across calls.
type Dialer interface {
	// Dial resolves the target, then starts a connection attempt and
	// returns without waiting for it, with a Conn in StateConnecting (or, for a skipped/blacklisted address, a
	// Conn already in StateClosed with Blacklisted() true and no
	// preceding Connected raise).
	Dial(ctx context.Context) connection.Conn

	// ConfigureTLS rebuilds the Dialer's TLS config from cfg, rejecting
	// the change with tlsconfig.ErrBindMismatch if cfg's bind-relevant
	// settings aren't safe to hot-swap.
	ConfigureTLS(cfg tlsconfig.Config) error

	// Blacklisted reports whether Address currently has skips remaining.
	Blacklisted() bool
}

// New constructs a Dialer from opts.
func New(opts Options) Dialer {
	return newDialer(opts)
}
