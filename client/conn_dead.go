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
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/event"
	"github.com/nabbar/corenet/threadpool"
)

// deadConn stands in for a Dial call short-circuited by the blacklist skip
// or a failed pre-dial resolution: it is already Closed with Blacklisted
// true, and Connected never raises. Closed uses event.NewDummyFire so a
// handler registered after Dial returns (the common case, since the
// caller hasn't had a chance to wire one yet) still observes the close.
type deadConn struct {
	remoteAddr string

	connected    event.Bus
	closed       event.Bus
	dataReceived event.Bus
	dataSent     event.Bus
	nameResolved event.Bus
}

func newDeadConn(remoteAddr string) *deadConn {
	c := &deadConn{remoteAddr: remoteAddr}
	c.connected = event.New(c)
	c.closed = event.NewDummyFire(c, true)
	c.dataReceived = event.New(c)
	c.dataSent = event.New(c)
	c.nameResolved = event.New(c)
	return c
}

func (c *deadConn) State() connection.State { return connection.StateClosed }

func (c *deadConn) Connected() event.Bus    { return c.connected }
func (c *deadConn) Closed() event.Bus       { return c.closed }
func (c *deadConn) DataReceived() event.Bus { return c.dataReceived }
func (c *deadConn) DataSent() event.Bus     { return c.dataSent }
func (c *deadConn) NameResolved() event.Bus { return c.nameResolved }

func (c *deadConn) RemoteAddr() string          { return c.remoteAddr }
func (c *deadConn) RemoteName() (string, bool)  { return "", false }
func (c *deadConn) EnableResolver(threadpool.Pool, int, time.Duration) {}

func (c *deadConn) ReceiveBinary(int)                                 {}
func (c *deadConn) ReceiveText(func(buffered []byte) (int, bool))     {}
func (c *deadConn) ReceiveLine()                                      {}
func (c *deadConn) SendAsync(_ []byte, _ any) error                   { return ErrNotConnected }

func (c *deadConn) Pause()                {}
func (c *deadConn) Resume()               {}
func (c *deadConn) MarkHandling()         {}
func (c *deadConn) ConfirmDataReceived()  {}

func (c *deadConn) Close(bool)          {}
func (c *deadConn) Blacklisted() bool   { return true }

func (c *deadConn) SetData(any, func(any)) {}
func (c *deadConn) Data() any               { return nil }

func (c *deadConn) Activate() {}
