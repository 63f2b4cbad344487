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

// ipa is the concrete IpAddr implementation. data holds a v4 address in
// bytes 12..15 (rest zero) or a full v6 address in all 16 bytes, matching
// the original C layout so NAT64 mapping is a plain byte-range copy.
type ipa struct {
	proto  Proto
	prefix uint
	data   [16]byte
	port   uint16
	hasPrt bool
}

func (a *ipa) Proto() Proto       { return a.proto }
func (a *ipa) PrefixLen() uint    { return a.prefix }
func (a *ipa) Port() (uint16, bool) { return a.port, a.hasPrt }

func (a *ipa) Clone() IpAddr {
	cp := *a
	return &cp
}

func (a *ipa) Equals(other IpAddr) bool {
	o, ok := other.(*ipa)
	if !ok {
		return false
	}
	if a.proto != o.proto || a.prefix != o.prefix {
		return false
	}
	return a.data == o.data
}

func (a *ipa) Matches(prefix IpAddr) bool {
	p, ok := prefix.(*ipa)
	if !ok {
		return false
	}
	if a.proto != p.proto {
		return false
	}
	if a.prefix < p.prefix {
		return false
	}
	// a v4 address occupies bytes 12..15, so its prefix bits start there
	off := uint(0)
	if p.proto == ProtoIPv4 {
		off = 12
	}
	bytes := p.prefix / 8
	for i := uint(0); i < bytes; i++ {
		if a.data[off+i] != p.data[off+i] {
			return false
		}
	}
	bits := p.prefix % 8
	if bits == 0 {
		return true
	}
	mask := byte(0xff << (8 - bits))
	return a.data[off+bytes]&mask == p.data[off+bytes]&mask
}

func (a *ipa) ToV4(prefixes []IpAddr) (IpAddr, bool) {
	if a.prefix < 96 || a.proto != ProtoIPv6 {
		return nil, false
	}
	matched := false
	for _, p := range prefixes {
		if p.PrefixLen() == 96 && a.Matches(p) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, false
	}
	mapped := &ipa{proto: ProtoIPv4, prefix: a.prefix - 96}
	copy(mapped.data[12:], a.data[12:])
	return mapped, true
}

func (a *ipa) ToV6(prefix IpAddr) (IpAddr, bool) {
	p, ok := prefix.(*ipa)
	if !ok || a.proto != ProtoIPv4 || p.prefix != 96 {
		return nil, false
	}
	mapped := &ipa{proto: ProtoIPv6, prefix: a.prefix + 96}
	copy(mapped.data[:12], p.data[:12])
	copy(mapped.data[12:], a.data[12:])
	return mapped, true
}
