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

package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"
	"sync"

	"github.com/nabbar/corenet/certinfo"
)

type config struct {
	mu sync.RWMutex

	certPairs [][2]string // keyFile, crtFile
	rootCA    []string
	clientCA  []string

	clientAuth ClientAuthMode
	validator  Validator

	versionMin uint16
	versionMax uint16
}

func newConfig() *config {
	return &config{
		versionMin: tls.VersionTLS12,
		versionMax: tls.VersionTLS13,
	}
}

func (c *config) AddCertificatePairFile(keyFile, crtFile string) error {
	if _, err := tls.LoadX509KeyPair(crtFile, keyFile); err != nil {
		return fmt.Errorf("tlsconfig: load certificate pair: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.certPairs = append(c.certPairs, [2]string{keyFile, crtFile})
	return nil
}

func (c *config) AddRootCAFile(pemFile string) error {
	if err := checkPEMFile(pemFile); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rootCA = append(c.rootCA, pemFile)
	return nil
}

func (c *config) AddClientCAFile(pemFile string) error {
	if err := checkPEMFile(pemFile); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientCA = append(c.clientCA, pemFile)
	return nil
}

func checkPEMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsconfig: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return fmt.Errorf("tlsconfig: %s contains no valid PEM certificate", path)
	}
	return nil
}

func (c *config) SetClientAuth(mode ClientAuthMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientAuth = mode
}

func (c *config) SetValidator(v Validator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validator = v
}

func (c *config) SetVersionMin(v uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versionMin = v
}

func (c *config) SetVersionMax(v uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versionMax = v
}

func (c *config) BindHash() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := fnv.New64a()
	for _, p := range c.certPairs {
		_, _ = h.Write([]byte(p[0]))
		_, _ = h.Write([]byte(p[1]))
	}
	for _, p := range c.clientCA {
		_, _ = h.Write([]byte(p))
	}
	_ = binary.Write(h, binary.LittleEndian, int64(c.clientAuth))
	_ = binary.Write(h, binary.LittleEndian, c.versionMin)
	_ = binary.Write(h, binary.LittleEndian, c.versionMax)
	return h.Sum64()
}

func (c *config) Clone() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := &config{
		certPairs:  append([][2]string(nil), c.certPairs...),
		rootCA:     append([]string(nil), c.rootCA...),
		clientCA:   append([]string(nil), c.clientCA...),
		clientAuth: c.clientAuth,
		validator:  c.validator,
		versionMin: c.versionMin,
		versionMax: c.versionMax,
	}
	return cp
}

func (c *config) TLSConfig(serverName string) (*tls.Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tc := &tls.Config{
		ServerName: serverName,
		MinVersion: c.versionMin,
		MaxVersion: c.versionMax,
		ClientAuth: c.clientAuth.tls(),
	}

	for _, p := range c.certPairs {
		pair, err := tls.LoadX509KeyPair(p[1], p[0])
		if err != nil {
			return nil, fmt.Errorf("tlsconfig: load certificate pair: %w", err)
		}
		tc.Certificates = append(tc.Certificates, pair)
	}

	if len(c.rootCA) > 0 {
		pool, err := loadPool(c.rootCA)
		if err != nil {
			return nil, err
		}
		tc.RootCAs = pool
	}

	if len(c.clientCA) > 0 {
		pool, err := loadPool(c.clientCA)
		if err != nil {
			return nil, err
		}
		tc.ClientCAs = pool
	}

	if c.validator != nil && c.clientAuth != ClientAuthNone {
		v := c.validator
		tc.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return nil
			}
			cert, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("tlsconfig: parse peer certificate: %w", err)
			}
			if !v(certinfo.New(cert)) {
				return fmt.Errorf("tlsconfig: peer certificate rejected by validator")
			}
			return nil
		}
	}

	return tc, nil
}

func loadPool(files []string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("tlsconfig: read CA file: %w", err)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("tlsconfig: %s contains no valid PEM certificate", f)
		}
	}
	return pool, nil
}
