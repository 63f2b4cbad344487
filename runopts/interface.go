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

// Package runopts describes how a process wants to be daemonized without
// implementing daemonizing itself: pidfile locking, double-forking and
// piping a child's stderr back to its parent are all platform-specific
// concerns best left to a dedicated external collaborator (systemd,
// a process supervisor, or a purpose-built daemonize library). This
// package is only the options value type and the interface such a
// collaborator must satisfy.
package runopts

import "runtime"

// Options mirrors the original implementation's run options: what
// identity to run as, whether to stay attached to a controlling
// terminal, and how many worker threads the caller's pool should use.
type Options struct {
	// PidFile, if non-empty, is the path a Daemonizer should lock
	// exclusively and write the running pid into.
	PidFile string
	// UID, if non-nil, is the user id the process should drop to after
	// binding privileged resources.
	UID *int
	// GID, if non-nil, is the group id the process should drop to.
	GID *int
	// Foreground, if true, skips detaching from the controlling terminal.
	Foreground bool
	// WaitLaunched, if true, blocks the parent of a double-fork until the
	// child signals it finished startup.
	WaitLaunched bool
	// WorkerThreads selects a thread pool size: positive values are used
	// as-is; a negative value means "runtime.NumCPU() * |value|"; zero
	// means runtime.NumCPU().
	WorkerThreads int
}

// ResolveWorkerThreads applies the WorkerThreads sign convention described
// on the field, returning a usable worker count.
func (o Options) ResolveWorkerThreads() int {
	switch {
	case o.WorkerThreads > 0:
		return o.WorkerThreads
	case o.WorkerThreads < 0:
		return runtime.NumCPU() * -o.WorkerThreads
	default:
		return runtime.NumCPU()
	}
}

// MainFunc is the caller-supplied entry point a Daemonizer runs once
// startup (pidfile acquisition, optional detach) has completed.
type MainFunc func(data any) (exitCode int, err error)

// Daemonizer runs a MainFunc under a chosen process-supervision strategy.
// This package defines the contract only; see the package doc for why no
// implementation ships here.
type Daemonizer interface {
	// Run executes fn under opts, returning the process exit code.
	Run(opts Options, fn MainFunc, data any) (exitCode int, err error)
}
