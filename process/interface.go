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

// Package process wraps os/exec to run a child with each stdio stream
// independently set to inherit, closed, /dev/null, or piped back as a
// connection.Conn over the same FromPipe seam a network Conn uses.
//
// Go's os/exec has no portable way to leave a child file descriptor
// entirely unopened the way a hand-written fork+close-before-exec does;
// StdioClose is therefore rendered the same way as StdioNull (redirected
// to the null device) rather than attempting an unsafe raw-fd trick - see
// DESIGN.md for the tradeoff.
package process

import (
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/event"
)

// StdioMode selects how one stdio stream of a child is wired.
type StdioMode int

const (
	// StdioInherit connects the stream to this process's own stdio.
	StdioInherit StdioMode = iota
	// StdioClose closes the stream in the child (approximated as
	// StdioNull - see package doc).
	StdioClose
	// StdioNull redirects the stream to the OS null device.
	StdioNull
	// StdioPipe exposes the stream as a connection.Conn.
	StdioPipe
)

// ExitedEventID is the id Exited() raises under, with an ExitInfo as args.
const ExitedEventID = 1

// DestroyedEventID is the id Destroyed() raises under once the child has
// exited and every piped Conn has closed. It is raised with nil args, so
// handlers receive the id itself.
const DestroyedEventID = 1

// ExitInfo describes how a Process stopped.
type ExitInfo struct {
	// Code is the child's exit code, or Options.ExecFailExitCode if the
	// child never started at all.
	Code int
	// Err is non-nil only if the child never started (e.g. the binary
	// wasn't found or wasn't executable).
	Err error
}

// Options configures a Process at Start time.
type Options struct {
	Path string
	Args []string
	// Env, if non-nil, replaces the child's environment outright
	// (exec.Cmd semantics); nil inherits this process's environment.
	Env []string
	Dir string

	Stdin  StdioMode
	Stdout StdioMode
	Stderr StdioMode

	// ExecFailExitCode is reported through Exited when the child fails to
	// start at all. Defaults to 127, the shell convention for "command
	// not found".
	ExecFailExitCode int

	// ReadBufferSize/TickInterval configure any StdioPipe connection.Conn.
	ReadBufferSize int
	TickInterval   time.Duration
}

// Process is a running (or already-exited) child, wrapping its piped
// stdio streams as connection.Conn and reporting its exit once.
type Process interface {
	// Stdin, Stdout, Stderr return the Conn for a stream configured with
	// StdioPipe, or nil for any other mode.
	Stdin() connection.Conn
	Stdout() connection.Conn
	Stderr() connection.Conn

	// Exited raises ExitedEventID exactly once, with an ExitInfo.
	Exited() event.Bus
	// Destroyed raises DestroyedEventID exactly once, once the child has
	// exited and every piped Conn returned above has closed - the
	// auto-destroy condition.
	Destroyed() event.Bus

	// Pid returns the child's process id, or 0 if it never started.
	Pid() int

	// Stop signals the child to terminate: SIGTERM first, then - if it
	// hasn't exited within forceAfter - SIGKILL. A non-positive
	// forceAfter sends SIGKILL immediately.
	Stop(forceAfter time.Duration) error
}

// Start launches opts.Path as a child process. Start itself never fails
// on an exec error (missing binary, permission denied, ...); instead the
// returned Process is already exited, reporting that failure through
// Exited with Options.ExecFailExitCode and the causing error.
func Start(opts Options) Process {
	return startProcess(opts)
}
