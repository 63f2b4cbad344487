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
	"strconv"
	"strings"
)

// parse mirrors PSC_IpAddr_create: strict byte-for-byte validation of a v4
// dotted quad or a v6 hex-group form, with an optional "/prefix" suffix.
func parse(s string) (IpAddr, error) {
	if len(s) < 2 || len(s) > 43 {
		return nil, fmt.Errorf("ipaddr: invalid length for %q", s)
	}

	body := s
	prefix := uint(0)
	hasPrefix := false
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		body = s[:idx]
		n, err := strconv.ParseUint(s[idx+1:], 10, 8)
		if err != nil || n > 128 {
			return nil, fmt.Errorf("ipaddr: invalid prefix in %q", s)
		}
		prefix = uint(n)
		hasPrefix = true
	}

	if data, ok := parseV4(body); ok {
		if !hasPrefix {
			prefix = 32
		} else if prefix > 32 {
			return nil, fmt.Errorf("ipaddr: prefix too long for IPv4 %q", s)
		}
		return &ipa{proto: ProtoIPv4, prefix: prefix, data: data}, nil
	}

	if data, ok := parseV6(body); ok {
		if !hasPrefix {
			prefix = 128
		}
		return &ipa{proto: ProtoIPv6, prefix: prefix, data: data}, nil
	}

	return nil, fmt.Errorf("ipaddr: cannot parse %q", s)
}

func parseV4(s string) (data [16]byte, ok bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return data, false
	}
	for i, p := range parts {
		if p == "" {
			return data, false
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return data, false
			}
		}
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil || n > 255 {
			return data, false
		}
		data[12+i] = byte(n)
	}
	return data, true
}

// parseV6 mirrors parsev6 in the original: a single "::" run is allowed and
// expands to fill the remaining groups; every other group must be 1-4 hex
// digits.
func parseV6(s string) (data [16]byte, ok bool) {
	if s == "" {
		return data, false
	}
	doubleColon := strings.Index(s, "::")
	var headStr, tailStr string
	hasGap := doubleColon >= 0
	if hasGap {
		headStr = s[:doubleColon]
		tailStr = s[doubleColon+2:]
		if strings.Contains(tailStr, "::") {
			return data, false
		}
	} else {
		headStr = s
	}

	head, ok := splitGroups(headStr)
	if !ok {
		return data, false
	}
	var tail [][]byte
	if hasGap && tailStr != "" {
		tail, ok = splitGroups(tailStr)
		if !ok {
			return data, false
		}
	}

	total := len(head) + len(tail)
	if !hasGap && total != 8 {
		return data, false
	}
	if hasGap && total > 8 {
		return data, false
	}
	if !hasGap && len(head) == 0 {
		return data, false
	}

	pos := 0
	for _, g := range head {
		data[pos] = g[0]
		data[pos+1] = g[1]
		pos += 2
	}
	if hasGap {
		pos = 16 - len(tail)*2
	}
	for _, g := range tail {
		data[pos] = g[0]
		data[pos+1] = g[1]
		pos += 2
	}
	return data, true
}

func splitGroups(s string) ([][]byte, bool) {
	if s == "" {
		return nil, true
	}
	parts := strings.Split(s, ":")
	groups := make([][]byte, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 || len(p) > 4 {
			return nil, false
		}
		n, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil, false
		}
		groups = append(groups, []byte{byte(n >> 8), byte(n)})
	}
	return groups, true
}
