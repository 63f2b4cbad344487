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

package tlsconfig

import (
	"crypto/tls"
	"errors"

	"github.com/nabbar/corenet/epoch"
)

// ErrBindMismatch is returned by Publisher.Republish when the replacement
// Config's BindHash doesn't match the currently published one.
var ErrBindMismatch = errors.New("tlsconfig: reconfiguration changes bind-relevant settings")

// Publisher holds the single *tls.Config a listener's accept loop reads
// on every connection, letting it be swapped for a freshly built one
// without disturbing a handshake already in progress: readers reserve an
// epoch around each handshake, and the old *tls.Config is only released
// once every reader that could still observe it has moved on.
type Publisher struct {
	dom  epoch.Domain
	slot *epoch.Slot[tls.Config]
	hash uint64
}

// NewPublisher renders cfg for serverName and publishes the result.
func NewPublisher(cfg Config, serverName string) (*Publisher, error) {
	tc, err := cfg.TLSConfig(serverName)
	if err != nil {
		return nil, err
	}

	dom := epoch.NewDomain()
	return &Publisher{
		dom:  dom,
		slot: epoch.NewSlot[tls.Config](dom, tc),
		hash: cfg.BindHash(),
	}, nil
}

// Reader reserves an epoch for the duration of one handshake, so a
// concurrent Republish cannot release the *tls.Config this reader is
// about to read. Call Release once the handshake (or the attempt to
// start one) has finished.
func (p *Publisher) Reader() epoch.Reader {
	return p.dom.NewReader()
}

// Current returns the *tls.Config currently published. Call this only
// while holding a Reader obtained from Reader().
func (p *Publisher) Current() *tls.Config {
	return p.slot.Load()
}

// Republish swaps in a freshly built Config, rejecting the change if its
// BindHash differs from the one the Publisher was created with (see
// Config.BindHash for the settings it covers). The previous
// *tls.Config is reclaimed once every reader that reserved before the
// swap has released.
func (p *Publisher) Republish(cfg Config, serverName string) error {
	if cfg.BindHash() != p.hash {
		return ErrBindMismatch
	}

	tc, err := cfg.TLSConfig(serverName)
	if err != nil {
		return err
	}

	p.slot.Store(tc, func() {})
	p.dom.Reclaim()
	return nil
}
