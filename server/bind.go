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
	"fmt"
	"net"
	"os"
	"time"

	"github.com/nabbar/corenet/netutil"
)

const defaultStaleProbeTimeout = 200 * time.Millisecond
const defaultUnixMode = 0600

// bindOne opens every net.Listener b describes: a single listener for
// ProtoUnix, or one listener per resolved address passing b.Protocol's
// filter for a TCP family.
func bindOne(b Bind) ([]net.Listener, error) {
	if b.Protocol == netutil.ProtoUnix {
		ln, err := bindUnix(b)
		if err != nil {
			return nil, err
		}
		return []net.Listener{ln}, nil
	}
	return bindTCP(b)
}

func bindTCP(b Bind) ([]net.Listener, error) {
	host, port, err := net.SplitHostPort(b.Address)
	if err != nil {
		return nil, err
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, err
	}

	lns := make([]net.Listener, 0, len(ips))
	for _, ip := range ips {
		network := "tcp4"
		if ip.To4() == nil {
			network = "tcp6"
		}
		if !b.Protocol.Accepts(network) {
			continue
		}

		ln, err := net.Listen(network, net.JoinHostPort(ip.String(), port))
		if err != nil {
			for _, opened := range lns {
				_ = opened.Close()
			}
			return nil, err
		}
		lns = append(lns, ln)
	}

	if len(lns) == 0 {
		return nil, fmt.Errorf("no resolved address for %q passed protocol filter %s", b.Address, b.Protocol)
	}
	return lns, nil
}

func bindUnix(b Bind) (net.Listener, error) {
	timeout := b.StaleProbeTimeout
	if timeout <= 0 {
		timeout = defaultStaleProbeTimeout
	}
	if netutil.ProbeStaleUnixSocket(b.Address, timeout) {
		_ = os.Remove(b.Address)
	}

	ln, err := net.Listen("unix", b.Address)
	if err != nil {
		return nil, err
	}

	mode := b.Mode
	if mode == 0 {
		mode = defaultUnixMode
	}
	if err := os.Chmod(b.Address, mode); err != nil {
		_ = ln.Close()
		return nil, err
	}

	if b.UID != nil || b.GID != nil {
		uid, gid := -1, -1
		if b.UID != nil {
			uid = *b.UID
		}
		if b.GID != nil {
			gid = *b.GID
		}
		if err := os.Chown(b.Address, uid, gid); err != nil {
			_ = ln.Close()
			return nil, err
		}
	}

	return ln, nil
}
