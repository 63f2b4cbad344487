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

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/tlsconfig"
)

// ErrAlreadyStarted is returned by Start if called more than once.
var ErrAlreadyStarted = errors.New("server: already started")

// ErrTLSNotConfigured is returned by ConfigureTLS on a Server started
// without Options.TLS.
var ErrTLSNotConfigured = errors.New("server: TLS not configured")

type server struct {
	opts Options

	mu        sync.Mutex
	started   bool
	closed    bool
	listeners []net.Listener
	pub       *tlsconfig.Publisher
	conns     map[ConnID]connection.Conn

	accepted uint64
	rejected uint64
	active   int32
}

func newServer(opts Options) *server {
	return &server{
		opts:  opts,
		conns: make(map[ConnID]connection.Conn),
	}
}

func (s *server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	if s.opts.TLS != nil {
		pub, err := tlsconfig.NewPublisher(s.opts.TLS, "")
		if err != nil {
			return fmt.Errorf("server: rendering TLS config: %w", err)
		}
		s.pub = pub
	}

	listeners := make([]net.Listener, 0, len(s.opts.Binds))
	for _, b := range s.opts.Binds {
		lns, err := bindOne(b)
		if err != nil {
			for _, ln := range listeners {
				_ = ln.Close()
			}
			return fmt.Errorf("server: bind %s %s: %w", b.Protocol, b.Address, err)
		}
		listeners = append(listeners, lns...)
	}

	s.listeners = listeners
	s.started = true

	var wg sync.WaitGroup
	for _, ln := range listeners {
		ln := ln
		wg.Add(1)
		go s.acceptLoop(ln, &wg)
	}

	go func() {
		<-ctx.Done()
		_ = s.Shutdown(0)
		wg.Wait()
	}()

	return nil
}

func (s *server) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listeners := s.listeners
	s.mu.Unlock()

	var result *multierror.Error
	for _, ln := range listeners {
		if err := ln.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	deadline := time.Now().Add(timeout)
	for timeout > 0 && atomic.LoadInt32(&s.active) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	s.mu.Lock()
	remaining := make([]connection.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		remaining = append(remaining, c)
	}
	s.mu.Unlock()

	for _, c := range remaining {
		c.Close(false)
	}

	return result.ErrorOrNil()
}

func (s *server) ConfigureTLS(cfg tlsconfig.Config) error {
	s.mu.Lock()
	pub := s.pub
	s.mu.Unlock()

	if pub == nil {
		return ErrTLSNotConfigured
	}
	return pub.Republish(cfg, "")
}

func (s *server) Stats() Stats {
	return Stats{
		Accepted: atomic.LoadUint64(&s.accepted),
		Active:   atomic.LoadInt32(&s.active),
		Rejected: atomic.LoadUint64(&s.rejected),
	}
}
