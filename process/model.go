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
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/event"
)

const defaultExecFailExitCode = 127

type proc struct {
	cmd *exec.Cmd

	stdin  connection.Conn
	stdout connection.Conn
	stderr connection.Conn

	exited     event.Bus
	exitedOnce sync.Once

	destroyed     event.Bus
	destroyedOnce sync.Once

	openPipes  int32
	childAlive int32 // 1 until the child has exited (or never started)
}

func startProcess(opts Options) Process {
	if opts.ExecFailExitCode == 0 {
		opts.ExecFailExitCode = defaultExecFailExitCode
	}

	p := &proc{}
	p.exited = event.New(p)
	p.destroyed = event.New(p)

	cmd := exec.Command(opts.Path, opts.Args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	p.cmd = cmd

	connOpts := connection.Options{
		ReadBufferSize: opts.ReadBufferSize,
		TickInterval:   opts.TickInterval,
		Deferred:       true,
	}

	closers := make([]*os.File, 0, 3)

	err := p.wireStdin(cmd, opts.Stdin, connOpts, &closers)
	if err == nil {
		err = p.wireStdout(cmd, opts.Stdout, connOpts, &closers)
	}
	if err == nil {
		err = p.wireStderr(cmd, opts.Stderr, connOpts, &closers)
	}

	if err != nil {
		p.finishExecFailure(opts.ExecFailExitCode, err)
		return p
	}

	if err := cmd.Start(); err != nil {
		for _, f := range closers {
			_ = f.Close()
		}
		p.finishExecFailure(opts.ExecFailExitCode, err)
		return p
	}

	for _, f := range closers {
		_ = f.Close()
	}

	atomic.StoreInt32(&p.childAlive, 1)
	p.activate()

	go p.wait()

	return p
}

// wireStdin configures cmd.Stdin per mode, appending any *os.File the
// parent must close once the child has started.
func (p *proc) wireStdin(cmd *exec.Cmd, mode StdioMode, connOpts connection.Options, closers *[]*os.File) error {
	switch mode {
	case StdioInherit:
		cmd.Stdin = os.Stdin
	case StdioClose, StdioNull:
		f, err := os.Open(os.DevNull)
		if err != nil {
			return err
		}
		cmd.Stdin = f
		*closers = append(*closers, f)
	case StdioPipe:
		w, err := cmd.StdinPipe()
		if err != nil {
			return err
		}
		p.stdin = connection.FromPipe(newWriteOnlyPipe(w), connOpts)
		p.trackPipe(p.stdin)
	}
	return nil
}

func (p *proc) wireStdout(cmd *exec.Cmd, mode StdioMode, connOpts connection.Options, closers *[]*os.File) error {
	switch mode {
	case StdioInherit:
		cmd.Stdout = os.Stdout
	case StdioClose, StdioNull:
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		cmd.Stdout = f
		*closers = append(*closers, f)
	case StdioPipe:
		r, err := cmd.StdoutPipe()
		if err != nil {
			return err
		}
		p.stdout = connection.FromPipe(newReadOnlyPipe(r), connOpts)
		p.trackPipe(p.stdout)
	}
	return nil
}

func (p *proc) wireStderr(cmd *exec.Cmd, mode StdioMode, connOpts connection.Options, closers *[]*os.File) error {
	switch mode {
	case StdioInherit:
		cmd.Stderr = os.Stderr
	case StdioClose, StdioNull:
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		cmd.Stderr = f
		*closers = append(*closers, f)
	case StdioPipe:
		r, err := cmd.StderrPipe()
		if err != nil {
			return err
		}
		p.stderr = connection.FromPipe(newReadOnlyPipe(r), connOpts)
		p.trackPipe(p.stderr)
	}
	return nil
}

// trackPipe registers c's Closed event to drive auto-destroy bookkeeping
// and increments the open-pipe count c will decrement once closed.
func (p *proc) trackPipe(c connection.Conn) {
	atomic.AddInt32(&p.openPipes, 1)
	c.Closed().Register(p, func(_, _, _ any) {
		atomic.AddInt32(&p.openPipes, -1)
		p.maybeDestroy()
	}, connection.ClosedEventID)
}

func (p *proc) activate() {
	for _, c := range []connection.Conn{p.stdin, p.stdout, p.stderr} {
		if c != nil {
			c.Activate()
		}
	}
}

func (p *proc) wait() {
	err := p.cmd.Wait()
	atomic.StoreInt32(&p.childAlive, 0)

	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}

	p.exitedOnce.Do(func() {
		p.exited.Raise(ExitedEventID, ExitInfo{Code: code})
	})
	p.maybeDestroy()
}

// maybeDestroy is the auto-destroy rule: once the child has exited and
// every piped Conn has closed, cmd.Wait() has already reaped the child
// and closed its end of every pipe, so Destroyed raises once to let a
// caller holding no other reference to this Process know it is safe to
// drop it.
func (p *proc) maybeDestroy() {
	if atomic.LoadInt32(&p.childAlive) == 0 && atomic.LoadInt32(&p.openPipes) <= 0 {
		p.destroyedOnce.Do(func() {
			p.destroyed.Raise(DestroyedEventID, nil)
		})
	}
}

func (p *proc) finishExecFailure(code int, err error) {
	p.exitedOnce.Do(func() {
		p.exited.Raise(ExitedEventID, ExitInfo{Code: code, Err: err})
	})
	p.maybeDestroy()
}

func (p *proc) Stdin() connection.Conn  { return p.stdin }
func (p *proc) Stdout() connection.Conn { return p.stdout }
func (p *proc) Stderr() connection.Conn { return p.stderr }
func (p *proc) Exited() event.Bus       { return p.exited }
func (p *proc) Destroyed() event.Bus    { return p.destroyed }

func (p *proc) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *proc) Stop(forceAfter time.Duration) error {
	cmd := p.cmd
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if forceAfter <= 0 {
		return cmd.Process.Signal(syscall.SIGKILL)
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return err
	}

	go func() {
		timer := time.NewTimer(forceAfter)
		defer timer.Stop()
		<-timer.C
		if atomic.LoadInt32(&p.childAlive) == 1 {
			_ = cmd.Process.Signal(syscall.SIGKILL)
		}
	}()
	return nil
}
