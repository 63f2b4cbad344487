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
	"sync/atomic"
)

// readLoop accumulates bytes from rw into buf, delivering framed messages
// through DataReceived as the configured locator finds them. It waits
// whenever the connection is paused or a handler is still processing a
// prior message (MarkHandling/ConfirmDataReceived), so a slow consumer
// applies natural back-pressure instead of the buffer growing unbounded.
func (c *conn) readLoop() {
	for {
		c.mu.Lock()
		for (c.paused > 0 || atomic.LoadInt32(&c.handling) > 0) && c.state != StateClosing && c.state != StateClosed {
			c.readCond.Wait()
		}
		if c.state == StateClosing || c.state == StateClosed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		n, err := c.rw.Read(c.readTail())
		if err != nil {
			c.Close(false)
			return
		}
		if n <= 0 {
			continue
		}

		c.mu.Lock()
		c.bufLen += n
		locator := c.locator
		c.mu.Unlock()

		if locator == nil {
			continue
		}

		for {
			c.mu.Lock()
			window := c.buf[:c.bufLen]
			mlen, found := locator(window)
			if !found {
				c.mu.Unlock()
				break
			}
			msg := make([]byte, mlen)
			copy(msg, window[:mlen])
			remaining := c.bufLen - mlen
			copy(c.buf, window[mlen:c.bufLen])
			c.bufLen = remaining
			c.mu.Unlock()

			c.evDataReceived.Raise(DataReceivedEventID, msg)
		}
	}
}

// readTail returns the unused tail of buf so the next Read call appends
// rather than overwrites what's already buffered.
func (c *conn) readTail() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bufLen >= len(c.buf) {
		// buffer exhausted without a frame match; grow it rather than
		// silently drop data the locator hasn't found a boundary in yet.
		grown := make([]byte, len(c.buf)*2)
		copy(grown, c.buf[:c.bufLen])
		c.buf = grown
	}
	return c.buf[c.bufLen:]
}

// writeLoop drains queued writes in order, raising DataSent for each
// record carrying a non-nil id once fully written.
func (c *conn) writeLoop() {
	for {
		select {
		case job, ok := <-c.writeCh:
			if !ok {
				return
			}
			if _, err := c.rw.Write(job.buf); err != nil {
				c.Close(false)
				return
			}
			if job.id != nil {
				c.evDataSent.Raise(DataSentEventID, job.id)
			}
		case <-c.closed:
			return
		}
	}
}
