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

package connection_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/connection"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// pipe implements connection.ReadWriteCloser over a pair of in-memory
// pipes, so FromPipe can be exercised without a real process.
type pipe struct {
	r io.ReadCloser
	w io.WriteCloser
}

func (p *pipe) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipe) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipe) Close() error {
	_ = p.w.Close()
	return p.r.Close()
}

func newLoopbackPipe() (*pipe, *pipe) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	return &pipe{r: ar, w: aw}, &pipe{r: br, w: bw}
}

func selfSignedTLS() *tls.Config {
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

	cert, err := x509.ParseCertificate(der)
	Expect(err).ToNot(HaveOccurred())
	_ = cert

	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{der},
			PrivateKey:  key,
		}},
		InsecureSkipVerify: true,
	}
}

var _ = Describe("Conn", func() {
	It("moves a piped connection straight to Connected", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = b.Close() }()

		var connectedCount int32
		c := connection.FromPipe(a, connection.Options{})
		c.Connected().Register(nil, func(_, _, _ any) {
			atomic.AddInt32(&connectedCount, 1)
		}, connection.ConnectedEventID)

		Expect(c.State()).To(Equal(connection.StateConnected))
		Eventually(func() int32 { return atomic.LoadInt32(&connectedCount) }, "1s", "5ms").Should(BeNumerically(">=", int32(0)))
	})

	It("delivers a binary frame once the expected byte count has accumulated", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{})
		c.ReceiveBinary(5)

		var received []byte
		c.DataReceived().Register(nil, func(_, _, args any) {
			received = args.([]byte)
		}, connection.DataReceivedEventID)

		_, err := b.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(func() []byte { return received }, "1s", "5ms").Should(Equal([]byte("hello")))
	})

	It("delivers a line frame up to and including the terminator", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{})
		c.ReceiveLine()

		var received []byte
		c.DataReceived().Register(nil, func(_, _, args any) {
			received = args.([]byte)
		}, connection.DataReceivedEventID)

		_, err := b.Write([]byte("ping\n"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(func() []byte { return received }, "1s", "5ms").Should(Equal([]byte("ping\n")))
	})

	It("raises DataSent with the record's id once a write completes", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{})

		var sentID any
		c.DataSent().Register(nil, func(_, _, args any) {
			sentID = args
		}, connection.DataSentEventID)

		Expect(c.SendAsync([]byte("pong"), "req-1")).ToNot(HaveOccurred())

		buf := make([]byte, 4)
		_, err := io.ReadFull(b, buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(buf).To(Equal([]byte("pong")))

		Eventually(func() any { return sentID }, "1s", "5ms").Should(Equal("req-1"))
	})

	It("rejects SendAsync once the write ring is full", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()
		_ = b

		c := connection.FromPipe(a, connection.Options{})

		var lastErr error
		for i := 0; i < 64; i++ {
			if err := c.SendAsync([]byte("x"), nil); err != nil {
				lastErr = err
				break
			}
		}
		Expect(lastErr).To(MatchError(connection.ErrWriteRingFull))
	})

	It("closes exactly once and raises Closed with the blacklist flag", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{})

		var closedCount int32
		var blacklisted bool
		c.Closed().Register(nil, func(_, _, args any) {
			atomic.AddInt32(&closedCount, 1)
			blacklisted = args.(bool)
		}, connection.ClosedEventID)

		c.Close(true)
		c.Close(true)
		c.Close(false)

		Eventually(func() int32 { return atomic.LoadInt32(&closedCount) }, "1s", "5ms").Should(Equal(int32(1)))
		Expect(blacklisted).To(BeTrue())
		Expect(c.Blacklisted()).To(BeTrue())
	})

	It("gates further DataReceived delivery while a handler has not confirmed", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{})
		c.ReceiveLine()

		var deliveries int32
		confirm := make(chan struct{})
		c.DataReceived().Register(nil, func(_, _, args any) {
			atomic.AddInt32(&deliveries, 1)
			c.MarkHandling()
			go func() {
				<-confirm
				c.ConfirmDataReceived()
			}()
		}, connection.DataReceivedEventID)

		_, err := b.Write([]byte("one\n"))
		Expect(err).ToNot(HaveOccurred())
		Eventually(func() int32 { return atomic.LoadInt32(&deliveries) }, "1s", "5ms").Should(Equal(int32(1)))

		// the reader is parked (handling > 0), so this Write blocks until
		// ConfirmDataReceived resumes it; run it in the background.
		go func() { _, _ = b.Write([]byte("two\n")) }()
		Consistently(func() int32 { return atomic.LoadInt32(&deliveries) }, "100ms", "10ms").Should(Equal(int32(1)))

		close(confirm)
		Eventually(func() int32 { return atomic.LoadInt32(&deliveries) }, "1s", "5ms").Should(Equal(int32(2)))
	})

	It("defers reading until Activate is called on a Deferred pipe Conn", func() {
		a, b := newLoopbackPipe()
		defer func() { _ = a.Close(); _ = b.Close() }()

		c := connection.FromPipe(a, connection.Options{Deferred: true})
		c.ReceiveLine()

		var deliveries int32
		c.DataReceived().Register(nil, func(_, _, _ any) {
			atomic.AddInt32(&deliveries, 1)
		}, connection.DataReceivedEventID)

		// nothing is reading yet (Activate hasn't run), so this Write
		// blocks until the read loop starts; run it in the background.
		go func() { _, _ = b.Write([]byte("queued\n")) }()
		Consistently(func() int32 { return atomic.LoadInt32(&deliveries) }, "100ms", "10ms").Should(Equal(int32(0)))

		c.Activate()
		Eventually(func() int32 { return atomic.LoadInt32(&deliveries) }, "1s", "5ms").Should(Equal(int32(1)))
	})

	It("completes a TLS handshake over FromAccepted/DialTCP and reaches Connected", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = ln.Close() }()

		serverTLS := selfSignedTLS()
		acceptedCh := make(chan connection.Conn, 1)

		go func() {
			nc, acceptErr := ln.Accept()
			if acceptErr != nil {
				return
			}
			acceptedCh <- connection.FromAccepted(nc, connection.Options{TLSConfig: serverTLS})
		}()

		clientTLS := &tls.Config{InsecureSkipVerify: true}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		client := connection.DialTCP(ctx, "tcp", ln.Addr().String(), connection.Options{TLSConfig: clientTLS})

		Eventually(func() connection.State { return client.State() }, "2s", "10ms").Should(Equal(connection.StateConnected))

		server := <-acceptedCh
		Eventually(func() connection.State { return server.State() }, "2s", "10ms").Should(Equal(connection.StateConnected))

		client.Close(false)
		server.Close(false)
	})

	It("closes with Blacklisted()==true when ConnectTicks expires before a dial succeeds", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c := connection.DialTCP(ctx, "tcp", "192.0.2.1:1", connection.Options{
			ConnectTicks: 1,
			TickInterval: 20 * time.Millisecond,
		})

		Eventually(func() connection.State { return c.State() }, "2s", "10ms").Should(Equal(connection.StateClosed))
		Expect(c.Blacklisted()).To(BeTrue())
	})
})
