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

package ipaddr_test

import (
	"fmt"

	"github.com/nabbar/corenet/ipaddr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// hostOf strips any "/prefix" suffix from a string form.
func hostOf(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[:i]
		}
	}
	return s
}

var _ = Describe("IpAddr", func() {
	Context("parsing and printing", func() {
		It("round-trips a v4 address", func() {
			a, err := ipaddr.Parse("192.168.1.1")
			Expect(err).ToNot(HaveOccurred())
			Expect(a.String()).To(Equal("192.168.1.1"))
			Expect(a.Proto()).To(Equal(ipaddr.ProtoIPv4))
			Expect(a.PrefixLen()).To(Equal(uint(32)))
		})

		It("round-trips a v4 network", func() {
			a, err := ipaddr.Parse("10.0.0.0/8")
			Expect(err).ToNot(HaveOccurred())
			Expect(a.String()).To(Equal("10.0.0.0/8"))
		})

		It("collapses the longest zero run in v6", func() {
			a, err := ipaddr.Parse("2001:0db8:0000:0000:0000:0000:0000:0001")
			Expect(err).ToNot(HaveOccurred())
			Expect(a.String()).To(Equal("2001:db8::1"))
		})

		It("round-trips the unspecified v6 address", func() {
			a, err := ipaddr.Parse("::")
			Expect(err).ToNot(HaveOccurred())
			Expect(a.String()).To(Equal("::"))
		})

		It("rejects garbage", func() {
			_, err := ipaddr.Parse("not-an-address")
			Expect(err).To(HaveOccurred())
		})

		It("rejects out-of-range octets", func() {
			_, err := ipaddr.Parse("256.0.0.1")
			Expect(err).To(HaveOccurred())
		})

		DescribeTable("parse(string(x)) round-trips",
			func(s string) {
				a, err := ipaddr.Parse(s)
				Expect(err).ToNot(HaveOccurred())
				b, err := ipaddr.Parse(a.String())
				Expect(err).ToNot(HaveOccurred())
				Expect(b.Equals(a)).To(BeTrue())
			},
			Entry("v4 host", "203.0.113.7"),
			Entry("v4 network", "203.0.113.0/24"),
			Entry("v6 host", "fe80::1"),
			Entry("v6 network", "2001:db8::/32"),
		)
	})

	Context("invariants", func() {
		It("equals(clone(x), x) for any x", func() {
			a, _ := ipaddr.Parse("2001:db8::1/64")
			Expect(a.Clone().Equals(a)).To(BeTrue())
		})

		It("matches(x, prefix(x, k)) for every valid k of a v4 address", func() {
			a, err := ipaddr.Parse("198.51.100.42")
			Expect(err).ToNot(HaveOccurred())
			host := hostOf(a.String())
			for k := uint(0); k <= 32; k++ {
				prefix, err := ipaddr.Parse(fmt.Sprintf("%s/%d", host, k))
				Expect(err).ToNot(HaveOccurred())
				Expect(a.Matches(prefix)).To(BeTrue())
			}
		})

		It("maps v4 through v6 and back (NAT64)", func() {
			v4, _ := ipaddr.Parse("192.0.2.1")
			prefix, _ := ipaddr.Parse("64:ff9b::/96")
			v6, ok := v4.ToV6(prefix)
			Expect(ok).To(BeTrue())
			back, ok := v6.ToV4([]ipaddr.IpAddr{prefix})
			Expect(ok).To(BeTrue())
			Expect(back.Equals(v4)).To(BeTrue())
		})
	})
})
