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

// Package netutil holds the small set of transport helpers shared by
// server and client: the Protocol filter applied to listeners and
// dialers, and the stale-Unix-socket probe used before binding.
package netutil

import (
	"errors"
	"net"
	"os"
	"syscall"
	"time"
)

// Protocol filters which address families a listener or dialer accepts,
// mirroring the original implementation's PSC_Proto enum.
type Protocol int

const (
	// ProtoTCP accepts both IPv4 and IPv6.
	ProtoTCP Protocol = iota
	// ProtoTCP4 accepts only IPv4.
	ProtoTCP4
	// ProtoTCP6 accepts only IPv6.
	ProtoTCP6
	// ProtoUDP is a UDP endpoint.
	ProtoUDP
	// ProtoUnix is a Unix domain socket path.
	ProtoUnix
)

// String returns the net package network name for p ("tcp", "tcp4",
// "tcp6", "udp" or "unix").
func (p Protocol) String() string {
	switch p {
	case ProtoTCP4:
		return "tcp4"
	case ProtoTCP6:
		return "tcp6"
	case ProtoUDP:
		return "udp"
	case ProtoUnix:
		return "unix"
	default:
		return "tcp"
	}
}

// Accepts reports whether an address belonging to network (as reported by
// net.Addr.Network(), e.g. "tcp", "tcp4") passes p's filter. ProtoTCP
// accepts both "tcp4" and "tcp6"; the more specific filters accept only
// their own family.
func (p Protocol) Accepts(network string) bool {
	switch p {
	case ProtoTCP:
		return network == "tcp" || network == "tcp4" || network == "tcp6"
	case ProtoTCP4:
		return network == "tcp4"
	case ProtoTCP6:
		return network == "tcp6"
	case ProtoUDP:
		return network == "udp"
	case ProtoUnix:
		return network == "unix"
	default:
		return false
	}
}

// ProbeStaleUnixSocket reports whether path names a Unix socket file with
// no listener behind it: it exists on disk but a short-timeout connect
// fails. A caller should remove and recreate such a path before binding;
// a path that is genuinely in use, or doesn't exist at all, is left alone.
func ProbeStaleUnixSocket(path string, timeout time.Duration) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}

	conn, err := net.DialTimeout("unix", path, timeout)
	if err == nil {
		_ = conn.Close()
		return false
	}

	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOTSOCK)
}
