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

package timer

import "github.com/nabbar/corenet/pool"

// NewPool creates a pool.Pool of Timer values: Get hands out a stopped,
// default-interval Timer (reused if one is available), Put stops the
// timer before returning it for reuse. This is the Go-idiomatic stand-in
// for the original's thread-local timer recycling.
func NewPool() pool.Pool[Timer] {
	return stoppingPool{pool.New(
		func() Timer { return New() },
		func(t Timer) {
			t.Stop()
			t.SetMs(defaultIntervalMs)
		},
	)}
}

// stoppingPool stops each Timer as it is Put back.
type stoppingPool struct {
	pool.Pool[Timer]
}

func (p stoppingPool) Put(t Timer) {
	t.Stop()
	p.Pool.Put(t)
}
