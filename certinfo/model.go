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

package certinfo

import (
	"crypto/sha512"
	"crypto/x509"
	"encoding/hex"
)

type info struct {
	cert *x509.Certificate
	raw  []byte
	subj string
}

func newInfo(cert *x509.Certificate) *info {
	sum := sha512.Sum512(cert.Raw)

	subj := cert.Subject.CommonName
	if subj == "" {
		subj = cert.Subject.String()
	}

	return &info{
		cert: cert,
		raw:  sum[:],
		subj: subj,
	}
}

func (i *info) Subject() string {
	return i.subj
}

func (i *info) FingerprintRaw() []byte {
	return i.raw
}

func (i *info) FingerprintHex() string {
	return hex.EncodeToString(i.raw)
}

func (i *info) Certificate() *x509.Certificate {
	return i.cert
}
