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
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/service"
)

// acceptLoop accepts connections off ln until it is closed (by Shutdown),
// handing each one to handleAccepted.
func (s *server) acceptLoop(ln net.Listener, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			atomic.AddUint64(&s.rejected, 1)
			if s.opts.OnReject != nil {
				s.opts.OnReject(ln.Addr().String(), err.Error())
			}
			continue
		}
		s.handleAccepted(nc)
	}
}

// handleAccepted wraps nc as a connection.Conn, balances it onto the
// least-loaded configured Worker (if any), and invokes Options.OnAccept.
func (s *server) handleAccepted(nc net.Conn) {
	opts := connection.Options{
		ConnectTicks:   s.opts.ConnectTicks,
		HandshakeTicks: s.opts.HandshakeTicks,
		TickInterval:   s.opts.TickInterval,
		ReadBufferSize: s.opts.ReadBufferSize,
	}

	s.mu.Lock()
	pub := s.pub
	s.mu.Unlock()

	if pub != nil {
		rd := pub.Reader()
		rd.Reserve()
		opts.TLSConfig = pub.Current()
		rd.Release()
	}

	id := ConnID(uuid.New().String())
	c := connection.FromAccepted(nc, opts)

	atomic.AddUint64(&s.accepted, 1)
	atomic.AddInt32(&s.active, 1)

	s.mu.Lock()
	s.conns[id] = c
	s.mu.Unlock()

	var worker service.Worker
	if len(s.opts.Workers) > 0 {
		worker = service.LeastLoaded(s.opts.Workers)
		worker.IncActive()
	}

	c.Closed().Register(s, func(_, _, _ any) {
		atomic.AddInt32(&s.active, -1)
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		if worker != nil {
			worker.DecActive()
		}
	}, connection.ClosedEventID)

	deliver := func() {
		if s.opts.OnAccept != nil {
			s.opts.OnAccept(id, c)
		}
	}
	if worker != nil {
		if err := worker.RunOnThread(deliver); err != nil {
			deliver()
		}
	} else {
		deliver()
	}
}
