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

// Package tlsconfig builds crypto/tls.Config values for Connection and
// Server, and publishes updated configs for hot reconfiguration without
// disturbing in-flight handshakes - the same epoch-based swap the rest
// of this module uses for other shared, occasionally-replaced state.
package tlsconfig

import (
	"crypto/tls"

	"github.com/nabbar/corenet/certinfo"
)

// ClientAuthMode mirrors the original implementation's three client
// certificate policies, trimmed from crypto/tls's five-way enum to the
// cases the spec actually distinguishes.
type ClientAuthMode int

const (
	// ClientAuthNone never asks the peer for a certificate.
	ClientAuthNone ClientAuthMode = iota
	// ClientAuthEnable requests a certificate but accepts the connection
	// if none is given; any certificate offered is still verified.
	ClientAuthEnable
	// ClientAuthRequire rejects the handshake unless the peer presents a
	// certificate that verifies against the configured client CA pool.
	ClientAuthRequire
)

func (m ClientAuthMode) tls() tls.ClientAuthType {
	switch m {
	case ClientAuthEnable:
		return tls.VerifyClientCertIfGiven
	case ClientAuthRequire:
		return tls.RequireAndVerifyClientCert
	default:
		return tls.NoClientCert
	}
}

// Validator decides whether to accept a verified peer certificate. It is
// the Go-idiomatic stand-in for the original's validator callback, now
// handed a certinfo.Info instead of raw fingerprint/subject/handle
// arguments.
type Validator func(info certinfo.Info) bool

// Config builds and reconfigures TLS parameters for one listener or
// dialer. All methods are safe for concurrent use.
type Config interface {
	// AddCertificatePairFile loads a PEM private key and certificate pair
	// and adds it to the set offered during a handshake.
	AddCertificatePairFile(keyFile, crtFile string) error
	// AddRootCAFile adds a PEM root CA used to verify a server's
	// certificate (client-side).
	AddRootCAFile(pemFile string) error
	// AddClientCAFile adds a PEM CA used to verify a peer's client
	// certificate (server-side trust anchor).
	AddClientCAFile(pemFile string) error

	// SetClientAuth sets the client certificate policy.
	SetClientAuth(mode ClientAuthMode)
	// SetValidator sets the callback consulted, in addition to ordinary
	// chain verification, once a client certificate has been offered and
	// mode is not ClientAuthNone. A nil validator accepts any
	// chain-verified certificate.
	SetValidator(v Validator)

	// SetVersionMin sets the minimum accepted TLS version (tls.VersionTLS12, ...).
	SetVersionMin(v uint16)
	// SetVersionMax sets the maximum accepted TLS version.
	SetVersionMax(v uint16)

	// BindHash returns a stable hash of the fields that determine bind
	// compatibility across a reconfiguration (the certificate set, client
	// CA set, client auth mode, and version bounds). Server.ConfigureTLS rejects a
	// reconfiguration whose BindHash differs from the listener's.
	BindHash() uint64

	// Clone returns an independent copy of self.
	Clone() Config
	// TLSConfig renders self into a *tls.Config for serverName (empty for
	// a server-side listener). The returned value is a fresh snapshot;
	// later mutations to self are not reflected in it.
	TLSConfig(serverName string) (*tls.Config, error)
}

// New returns an empty Config requiring TLS 1.2 as a floor, matching the
// original implementation's conservative default.
func New() Config {
	return newConfig()
}
