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

package server_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/netutil"
	"github.com/nabbar/corenet/server"
	"github.com/nabbar/corenet/tlsconfig"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func freeTCPPort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// selfSignedTLSConfig writes a throwaway self-signed key pair to a temp
// directory and builds a tlsconfig.Config around it.
func selfSignedTLSConfig() tlsconfig.Config {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).ToNot(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		DNSNames:     []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())

	keyDER, err := x509.MarshalECPrivateKey(key)
	Expect(err).ToNot(HaveOccurred())

	dir, err := os.MkdirTemp("", "server-tls-*")
	Expect(err).ToNot(HaveOccurred())

	crtFile := filepath.Join(dir, "leaf.crt")
	keyFile := filepath.Join(dir, "leaf.key")

	Expect(os.WriteFile(crtFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600)).To(Succeed())
	Expect(os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600)).To(Succeed())

	cfg := tlsconfig.New()
	Expect(cfg.AddCertificatePairFile(keyFile, crtFile)).To(Succeed())
	return cfg
}

var _ = Describe("Server", func() {
	It("accepts a TCP connection and echoes a framed line back", func() {
		port := freeTCPPort()

		var accepted int32
		srv := server.New(server.Options{
			Binds: []server.Bind{
				{Protocol: netutil.ProtoTCP, Address: fmt.Sprintf("localhost:%d", port)},
			},
			ReadBufferSize: 4096,
			TickInterval:   50 * time.Millisecond,
			OnAccept: func(_ server.ConnID, c connection.Conn) {
				atomic.AddInt32(&accepted, 1)
				c.ReceiveLine()
				c.DataReceived().Register(nil, func(_, _, args any) {
					_ = c.SendAsync(args.([]byte), nil)
				}, connection.DataReceivedEventID)
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(srv.Start(ctx)).ToNot(HaveOccurred())
		defer srv.Shutdown(time.Second)

		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("hello\n"))
		Expect(err).ToNot(HaveOccurred())

		buf := make([]byte, 64)
		n, err := conn.Read(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("hello\n"))

		Eventually(func() int32 { return atomic.LoadInt32(&accepted) }, "1s", "5ms").Should(Equal(int32(1)))
		Expect(srv.Stats().Accepted).To(Equal(uint64(1)))
	})

	It("removes a stale unix socket file before binding", func() {
		dir, err := os.MkdirTemp("", "server-unix-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "sock")

		stale, err := net.Listen("unix", path)
		Expect(err).ToNot(HaveOccurred())
		Expect(stale.Close()).ToNot(HaveOccurred())
		// stale.Close() leaves the socket file on disk with nothing behind it.
		_, err = os.Stat(path)
		Expect(err).ToNot(HaveOccurred())

		srv := server.New(server.Options{
			Binds: []server.Bind{
				{Protocol: netutil.ProtoUnix, Address: path, Mode: 0600},
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(srv.Start(ctx)).ToNot(HaveOccurred())
		defer srv.Shutdown(time.Second)

		conn, err := net.Dial("unix", path)
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.Close()).ToNot(HaveOccurred())
	})

	It("rejects a TLS reconfiguration that changes bind-relevant settings", func() {
		port := freeTCPPort()

		tlsA := selfSignedTLSConfig()
		srv := server.New(server.Options{
			Binds: []server.Bind{
				{Protocol: netutil.ProtoTCP, Address: fmt.Sprintf("localhost:%d", port)},
			},
			TLS: tlsA,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(srv.Start(ctx)).ToNot(HaveOccurred())
		defer srv.Shutdown(time.Second)

		tlsB := selfSignedTLSConfig()
		tlsB.SetClientAuth(tlsconfig.ClientAuthRequire)
		err := srv.ConfigureTLS(tlsB)
		Expect(err).To(HaveOccurred())
	})

	It("drains active connections on Shutdown before forcing them closed", func() {
		port := freeTCPPort()

		srv := server.New(server.Options{
			Binds: []server.Bind{
				{Protocol: netutil.ProtoTCP, Address: fmt.Sprintf("localhost:%d", port)},
			},
			OnAccept: func(_ server.ConnID, c connection.Conn) {
				c.ReceiveLine()
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(srv.Start(ctx)).ToNot(HaveOccurred())

		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		Eventually(func() int32 { return srv.Stats().Active }, "1s", "5ms").Should(Equal(int32(1)))

		Expect(srv.Shutdown(50 * time.Millisecond)).ToNot(HaveOccurred())
		Expect(srv.Stats().Active).To(Equal(int32(0)))
	})
})
