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

// Package certinfo wraps a peer's TLS certificate into the small, stable
// summary a client-cert validator callback actually needs - a fingerprint
// and a subject name - instead of handing it the full x509.Certificate
// and making every caller recompute the fingerprint.
package certinfo

import "crypto/x509"

// Info summarizes a verified peer certificate.
type Info interface {
	// Subject returns the certificate's subject common name (or, if empty,
	// its full subject distinguished name).
	Subject() string
	// FingerprintRaw returns the raw SHA-512 digest of the DER-encoded
	// certificate.
	FingerprintRaw() []byte
	// FingerprintHex returns FingerprintRaw, hex-encoded.
	FingerprintHex() string
	// Certificate returns the underlying certificate.
	Certificate() *x509.Certificate
}

// New computes an Info summary of cert.
func New(cert *x509.Certificate) Info {
	return newInfo(cert)
}
