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

package process

import (
	"io"

	"github.com/nabbar/corenet/connection"
)

// writeOnlyPipe adapts a child's stdin pipe (a parent-side io.WriteCloser)
// into the bidirectional seam connection.FromPipe requires. Nothing is
// ever written by the child back to its own stdin, so Read is backed by
// an io.Pipe reader nobody ever writes to - it blocks until the adapter
// is closed, the same way a real stdin fd never signals readable.
type writeOnlyPipe struct {
	stubR *io.PipeReader
	stubW *io.PipeWriter
	w     io.WriteCloser
}

func newWriteOnlyPipe(w io.WriteCloser) connection.ReadWriteCloser {
	r, pw := io.Pipe()
	return &writeOnlyPipe{stubR: r, stubW: pw, w: w}
}

func (p *writeOnlyPipe) Read(b []byte) (int, error)  { return p.stubR.Read(b) }
func (p *writeOnlyPipe) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *writeOnlyPipe) Close() error {
	_ = p.stubW.Close()
	_ = p.stubR.Close()
	return p.w.Close()
}

// readOnlyPipe adapts a child's stdout/stderr pipe (a parent-side
// io.ReadCloser) the same way, in the other direction: nothing should
// ever be written back to a child's output stream, so Write fails fast.
type readOnlyPipe struct {
	r io.ReadCloser
}

func newReadOnlyPipe(r io.ReadCloser) connection.ReadWriteCloser {
	return &readOnlyPipe{r: r}
}

func (p *readOnlyPipe) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *readOnlyPipe) Write(b []byte) (int, error) { return 0, io.ErrClosedPipe }
func (p *readOnlyPipe) Close() error                { return p.r.Close() }
