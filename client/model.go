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

package client

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/tlsconfig"
)

type dialer struct {
	opts Options

	mu   sync.Mutex
	pub  *tlsconfig.Publisher
	skip int
}

func newDialer(opts Options) *dialer {
	d := &dialer{opts: opts}
	if opts.TLS != nil {
		if pub, err := tlsconfig.NewPublisher(opts.TLS, opts.ServerName); err == nil {
			d.pub = pub
		}
	}
	return d
}

func (d *dialer) ConfigureTLS(cfg tlsconfig.Config) error {
	d.mu.Lock()
	pub := d.pub
	d.mu.Unlock()

	if pub == nil {
		return errors.New("client: TLS not configured")
	}
	return pub.Republish(cfg, d.opts.ServerName)
}

func (d *dialer) Blacklisted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.skip > 0
}

func (d *dialer) blacklist() {
	d.mu.Lock()
	d.skip = d.opts.BlacklistHits
	d.mu.Unlock()
}

func (d *dialer) takeSkip() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.skip <= 0 {
		return false
	}
	d.skip--
	return true
}

func (d *dialer) Dial(ctx context.Context) connection.Conn {
	if d.takeSkip() {
		return newDeadConn(d.opts.Address)
	}

	if err := d.resolve(ctx); err != nil {
		d.blacklist()
		return newDeadConn(d.opts.Address)
	}

	opts := connection.Options{
		ConnectTicks:   d.opts.ConnectTicks,
		HandshakeTicks: d.opts.HandshakeTicks,
		TickInterval:   d.opts.TickInterval,
		ReadBufferSize: d.opts.ReadBufferSize,
	}

	d.mu.Lock()
	pub := d.pub
	d.mu.Unlock()

	if pub != nil {
		rd := pub.Reader()
		rd.Reserve()
		opts.TLSConfig = pub.Current()
		rd.Release()
	}

	c := connection.DialTCP(ctx, d.opts.Network, d.opts.Address, opts)
	c.Closed().Register(d, func(_, _, args any) {
		if bl, ok := args.(bool); ok && bl {
			d.blacklist()
		}
	}, connection.ClosedEventID)
	return c
}

// resolve pre-resolves the dial target, off the caller's goroutine when a
// Pool is configured, so a slow or dead resolver is caught before a
// connection.Conn (and its own connect-tick clock) is ever created.
func (d *dialer) resolve(ctx context.Context) error {
	if d.opts.Network == "unix" {
		return nil
	}

	host, _, err := net.SplitHostPort(d.opts.Address)
	if err != nil {
		return err
	}

	if d.opts.Pool == nil {
		_, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		return err
	}

	result := make(chan error, 1)
	job, err := d.opts.Pool.Submit(func(jobCtx context.Context) {
		_, lookupErr := net.DefaultResolver.LookupIPAddr(jobCtx, host)
		result <- lookupErr
	}, d.opts.ResolveTicks)
	if err != nil {
		// pool at capacity: fall back to resolving inline rather than
		// blacklisting an address purely because the pool was busy.
		_, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		job.Cancel()
		return ctx.Err()
	}
}
