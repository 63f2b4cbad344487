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
	"strings"
)

// String mirrors toString() in the original: dotted quad for v4, and for
// v6 the single longest run of zero groups is collapsed to "::".
func (a *ipa) String() string {
	var b strings.Builder
	if a.proto == ProtoIPv4 {
		fmt.Fprintf(&b, "%d.%d.%d.%d", a.data[12], a.data[13], a.data[14], a.data[15])
		if a.prefix < 32 {
			fmt.Fprintf(&b, "/%d", a.prefix)
		}
		return b.String()
	}

	words := [8]uint16{}
	for i := 0; i < 8; i++ {
		words[i] = uint16(a.data[2*i])<<8 | uint16(a.data[2*i+1])
	}

	gap, gapLen := -1, 0
	curStart, curLen := -1, 0
	for i := 0; i < 8; i++ {
		if words[i] == 0 {
			if curStart < 0 {
				curStart, curLen = i, 1
			} else {
				curLen++
			}
			if curLen > gapLen {
				gap, gapLen = curStart, curLen
			}
		} else {
			curStart, curLen = -1, 0
		}
	}
	if gapLen < 2 {
		gap, gapLen = -1, 0
	}

	needColon := false
	for i := 0; i < 8; {
		if i == gap {
			b.WriteString("::")
			needColon = false
			i += gapLen
			continue
		}
		if needColon {
			b.WriteByte(':')
		}
		needColon = true
		fmt.Fprintf(&b, "%x", words[i])
		i++
	}
	if a.prefix < 128 {
		fmt.Fprintf(&b, "/%d", a.prefix)
	}
	return b.String()
}
