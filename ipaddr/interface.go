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

// Package ipaddr provides an immutable IPv4/IPv6 address-or-network value
// type with prefix arithmetic, canonical string formatting and NAT64
// mapping, independent of the standard library's net.IP/net.IPNet split.
package ipaddr

import "syscall"

// Proto identifies the address family of an IpAddr.
type Proto int

const (
	// ProtoAny means no specific family was requested (used only while parsing).
	ProtoAny Proto = iota
	// ProtoIPv4 is an IPv4 address or network.
	ProtoIPv4
	// ProtoIPv6 is an IPv6 address or network.
	ProtoIPv6
)

// IpAddr is an immutable IPv4 or IPv6 address or network, optionally
// carrying a port. Two IpAddr values are Equal when their protocol,
// prefix length and address bytes all match; the port is not part of
// equality, mirroring PSC_IpAddr_equals in the original implementation.
type IpAddr interface {
	// Proto returns the address family.
	Proto() Proto
	// PrefixLen returns the prefix length (32 max for v4, 128 max for v6).
	PrefixLen() uint
	// Port returns the port and whether one was set.
	Port() (uint16, bool)
	// String returns the canonical representation, with a "/prefix" suffix
	// when the prefix length is shorter than the full address width.
	String() string
	// Clone returns an independent copy of self.
	Clone() IpAddr
	// Equals reports whether other has the same protocol, prefix length
	// and address bytes as self.
	Equals(other IpAddr) bool
	// Matches reports whether self is part of the network described by prefix.
	Matches(prefix IpAddr) bool
	// ToV4 maps an IPv6 NAT64 address back to IPv4 using the first matching
	// /96 prefix from prefixes. Returns false if none match or self isn't
	// a /96-or-longer IPv6 address.
	ToV4(prefixes []IpAddr) (IpAddr, bool)
	// ToV6 maps an IPv4 address into IPv6 using a /96 prefix for NAT64.
	ToV6(prefix IpAddr) (IpAddr, bool)
	// SockAddr returns the syscall-level representation of the address,
	// using the given port if self carries none.
	SockAddr(fallbackPort int) (syscall.Sockaddr, error)
}

// Parse parses the canonical string form of an address, optionally with a
// "/prefix" suffix and, for IPv4, an optional ":port" suffix (IPv6 ports
// are not representable without an enclosing "[...]" form and are not
// supported by Parse; construct with a transport-level port instead).
func Parse(s string) (IpAddr, error) {
	return parse(s)
}
