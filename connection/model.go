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

package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/event"
	"github.com/nabbar/corenet/threadpool"
)

const (
	defaultReadBufferSize = 64 * 1024
	writeRingSize         = 16
	// writeBatchCap mirrors the original implementation's per-iteration
	// write-ready cap. writeLoop does not consult it: it takes one record
	// per select, so a close is observed between any two records.
	writeBatchCap = 4
)

// ErrWriteRingFull is returned by SendAsync when 16 writes are already queued.
var ErrWriteRingFull = errors.New("connection: write ring is full")

type writeJob struct {
	buf []byte
	id  any
}

type conn struct {
	mu    sync.Mutex
	state State

	rw  ReadWriteCloser
	nc  net.Conn // non-nil only for network transports
	tls *tls.Conn

	remoteAddr string
	remoteName string
	hasName    bool

	paused   int32
	handling int32
	readCond *sync.Cond

	mode     FrameMode
	locator  func([]byte) (int, bool)
	buf      []byte
	bufLen   int

	writeCh chan writeJob

	closeOnce   sync.Once
	closed      chan struct{}
	blacklisted bool

	data        any
	dataDeleter func(any)

	evConnected    event.Bus
	evClosed       event.Bus
	evDataReceived event.Bus
	evDataSent     event.Bus
	evNameResolved event.Bus

	deferred bool
	started  bool
}

func newBaseConn(opts Options) *conn {
	bufSize := opts.ReadBufferSize
	if bufSize <= 0 {
		bufSize = defaultReadBufferSize
	}

	c := &conn{
		state:    StateConnecting,
		mode:     FrameBinary,
		buf:      make([]byte, bufSize),
		writeCh:  make(chan writeJob, writeRingSize),
		closed:   make(chan struct{}),
		deferred: opts.Deferred,
	}
	c.readCond = sync.NewCond(&c.mu)
	c.evConnected = event.New(c)
	c.evClosed = event.New(c)
	c.evDataReceived = event.New(c)
	c.evDataSent = event.New(c)
	c.evNameResolved = event.New(c)
	return c
}

func newDialConn(ctx context.Context, network, address string, opts Options) *conn {
	c := newBaseConn(opts)
	c.remoteAddr = address

	tick := opts.TickInterval
	if tick <= 0 {
		tick = time.Second
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if opts.ConnectTicks > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.ConnectTicks)*tick)
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}

		var d net.Dialer
		nc, err := d.DialContext(dialCtx, network, address)
		if err != nil {
			c.failClose(true)
			return
		}

		c.nc = nc
		c.remoteAddr = nc.RemoteAddr().String()
		c.completeTransport(nc, opts, tick, true)
	}()

	return c
}

func newAcceptedConn(nc net.Conn, opts Options) *conn {
	c := newBaseConn(opts)
	c.nc = nc
	c.remoteAddr = nc.RemoteAddr().String()

	tick := opts.TickInterval
	if tick <= 0 {
		tick = time.Second
	}

	if opts.Deferred {
		return c
	}

	go c.completeTransport(nc, opts, tick, false)
	return c
}

func newPipeConn(rw ReadWriteCloser, opts Options) *conn {
	c := newBaseConn(opts)
	c.rw = rw
	c.setState(StateConnected)
	c.evConnected.Raise(ConnectedEventID, nil)

	if !opts.Deferred {
		c.startLoops()
	}
	return c
}

// completeTransport runs the optional TLS handshake (with a bounded
// number of ticks), then marks the connection Connected and starts its
// read/write goroutines.
func (c *conn) completeTransport(nc net.Conn, opts Options, tick time.Duration, isClient bool) {
	if opts.TLSConfig == nil {
		c.rw = nc
		c.setState(StateConnected)
		c.evConnected.Raise(ConnectedEventID, nil)
		if !opts.Deferred {
			c.startLoops()
		}
		return
	}

	c.setState(StateHandshake)

	var tc *tls.Conn
	if isClient {
		tc = tls.Client(nc, opts.TLSConfig)
	} else {
		tc = tls.Server(nc, opts.TLSConfig)
	}

	deadline := time.Time{}
	if opts.HandshakeTicks > 0 {
		deadline = time.Now().Add(time.Duration(opts.HandshakeTicks) * tick)
		_ = nc.SetDeadline(deadline)
	}

	if err := tc.Handshake(); err != nil {
		c.failClose(true)
		return
	}
	_ = nc.SetDeadline(time.Time{})

	c.tls = tc
	c.rw = tc
	c.setState(StateConnected)
	c.evConnected.Raise(ConnectedEventID, nil)

	if !opts.Deferred {
		c.startLoops()
	}
}

func (c *conn) failClose(blacklist bool) {
	c.mu.Lock()
	c.blacklisted = blacklist
	c.mu.Unlock()
	c.Close(blacklist)
}

func (c *conn) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *conn) Connected() event.Bus    { return c.evConnected }
func (c *conn) Closed() event.Bus       { return c.evClosed }
func (c *conn) DataReceived() event.Bus { return c.evDataReceived }
func (c *conn) DataSent() event.Bus     { return c.evDataSent }
func (c *conn) NameResolved() event.Bus { return c.evNameResolved }

func (c *conn) RemoteAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteAddr
}

func (c *conn) RemoteName() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteName, c.hasName
}

func (c *conn) EnableResolver(pool threadpool.Pool, tickBudget int, tickInterval time.Duration) {
	if pool == nil || c.nc == nil {
		return
	}

	host, _, err := net.SplitHostPort(c.RemoteAddr())
	if err != nil {
		host = c.RemoteAddr()
	}

	ticks := tickBudget
	if ticks <= 0 {
		ticks = 5
	}
	if tickInterval <= 0 {
		tickInterval = time.Second
	}

	_, _ = pool.Submit(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(ticks)*tickInterval)
		defer cancel()
		names, err := net.DefaultResolver.LookupAddr(ctx, host)
		if err != nil || len(names) == 0 {
			return
		}
		c.mu.Lock()
		c.remoteName = names[0]
		c.hasName = true
		c.mu.Unlock()
		c.evNameResolved.Raise(NameResolvedEventID, names[0])
	}, 0)
}

func (c *conn) ReceiveBinary(expected int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = FrameBinary
	c.locator = func(buf []byte) (int, bool) {
		if expected <= 0 {
			if len(buf) > 0 {
				return len(buf), true
			}
			return 0, false
		}
		if len(buf) >= expected {
			return expected, true
		}
		return 0, false
	}
}

func (c *conn) ReceiveText(locator func([]byte) (int, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = FrameText
	c.locator = locator
}

func (c *conn) ReceiveLine() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = FrameLine
	c.locator = lineLocator
}

func lineLocator(buf []byte) (int, bool) {
	for i, b := range buf {
		if b == '\n' {
			return i + 1, true
		}
		if b == '\r' {
			if i+1 < len(buf) && buf[i+1] == '\n' {
				return i + 2, true
			}
			return i + 1, true
		}
	}
	return 0, false
}

func (c *conn) SendAsync(buf []byte, id any) error {
	job := writeJob{buf: buf, id: id}
	select {
	case c.writeCh <- job:
		return nil
	default:
		return ErrWriteRingFull
	}
}

func (c *conn) Pause() {
	c.mu.Lock()
	c.paused++
	c.mu.Unlock()
}

func (c *conn) Resume() {
	c.mu.Lock()
	if c.paused > 0 {
		c.paused--
	}
	c.mu.Unlock()
	c.readCond.Broadcast()
}

func (c *conn) MarkHandling() {
	atomic.AddInt32(&c.handling, 1)
}

func (c *conn) ConfirmDataReceived() {
	if atomic.AddInt32(&c.handling, -1) <= 0 {
		c.readCond.Broadcast()
	}
}

func (c *conn) Close(blacklist bool) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosing
		if blacklist {
			c.blacklisted = true
		}
		c.mu.Unlock()

		if c.rw != nil {
			_ = c.rw.Close()
		} else if c.nc != nil {
			_ = c.nc.Close()
		}

		close(c.closed)
		c.readCond.Broadcast()

		c.mu.Lock()
		c.state = StateClosed
		bl := c.blacklisted
		deleter := c.dataDeleter
		data := c.data
		c.mu.Unlock()

		if deleter != nil {
			deleter(data)
		}

		c.evClosed.Raise(ClosedEventID, bl)
		c.evClosed.Close()
		c.evConnected.Close()
		c.evDataReceived.Close()
		c.evDataSent.Close()
		c.evNameResolved.Close()
	})
}

func (c *conn) Blacklisted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blacklisted
}

func (c *conn) SetData(v any, deleter func(any)) {
	c.mu.Lock()
	oldDeleter := c.dataDeleter
	oldData := c.data
	c.data = v
	c.dataDeleter = deleter
	c.mu.Unlock()

	if oldDeleter != nil {
		oldDeleter(oldData)
	}
}

func (c *conn) Data() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *conn) Activate() {
	if !c.deferred {
		return
	}

	c.mu.Lock()
	already := c.started
	c.started = true
	c.mu.Unlock()

	if already {
		return
	}

	if c.State() == StateConnecting || c.State() == StateHandshake {
		// still mid handshake; completeTransport will start the loops
		// once it reaches Connected, since Deferred only suppresses the
		// initial auto-start.
		return
	}
	c.startLoops()
}

func (c *conn) startLoops() {
	go c.readLoop()
	go c.writeLoop()
}
