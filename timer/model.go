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

import (
	"sync"
	"time"

	"github.com/nabbar/corenet/event"
)

const defaultIntervalMs = 1000

type timer struct {
	mu      sync.Mutex
	ms      int64
	running bool
	stopCh  chan struct{}
	bus     event.Bus
}

func newTimer() *timer {
	return &timer{ms: defaultIntervalMs, bus: event.New("timer")}
}

func (t *timer) SetMs(ms int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ms = ms
}

func (t *timer) Start(periodic bool) {
	t.mu.Lock()
	if t.running {
		close(t.stopCh)
	}
	ms := t.ms
	stop := make(chan struct{})
	t.stopCh = stop
	t.running = true
	t.mu.Unlock()

	go t.run(ms, periodic, stop)
}

func (t *timer) run(ms int64, periodic bool, stop chan struct{}) {
	d := time.Duration(ms) * time.Millisecond
	if periodic {
		tk := time.NewTicker(d)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				t.bus.Raise(ExpiredEventID, nil)
			}
		}
	}

	tm := time.NewTimer(d)
	defer tm.Stop()
	select {
	case <-stop:
		return
	case <-tm.C:
		t.bus.Raise(ExpiredEventID, nil)
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}
}

func (t *timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		close(t.stopCh)
		t.running = false
	}
}

func (t *timer) Bus() event.Bus {
	return t.bus
}
