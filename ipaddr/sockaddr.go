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

package ipaddr

import (
	"fmt"
	"syscall"
)

// SockAddr mirrors PSC_IpAddr_sockAddr: a plain byte-range copy into the
// syscall-level address struct, using fallbackPort when self has no port
// of its own.
func (a *ipa) SockAddr(fallbackPort int) (syscall.Sockaddr, error) {
	port := fallbackPort
	if p, ok := a.Port(); ok {
		port = int(p)
	}
	switch a.proto {
	case ProtoIPv4:
		var sa syscall.SockaddrInet4
		copy(sa.Addr[:], a.data[12:16])
		sa.Port = port
		return &sa, nil
	case ProtoIPv6:
		var sa syscall.SockaddrInet6
		copy(sa.Addr[:], a.data[:16])
		sa.Port = port
		return &sa, nil
	default:
		return nil, fmt.Errorf("ipaddr: no sockaddr for proto %v", a.proto)
	}
}

// FromSockAddr mirrors PSC_IpAddr_fromSockAddr, reconstructing an IpAddr
// (as a full-length host address, prefix 32/128) from a syscall sockaddr.
func FromSockAddr(sa syscall.Sockaddr) (IpAddr, error) {
	switch v := sa.(type) {
	case *syscall.SockaddrInet4:
		a := &ipa{proto: ProtoIPv4, prefix: 32, port: uint16(v.Port), hasPrt: true}
		copy(a.data[12:], v.Addr[:])
		return a, nil
	case *syscall.SockaddrInet6:
		a := &ipa{proto: ProtoIPv6, prefix: 128, port: uint16(v.Port), hasPrt: true}
		copy(a.data[:], v.Addr[:])
		return a, nil
	default:
		return nil, fmt.Errorf("ipaddr: unsupported sockaddr type %T", sa)
	}
}
