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

package process_test

import (
	"testing"
	"time"

	"github.com/nabbar/corenet/connection"
	"github.com/nabbar/corenet/process"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestProcess(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "process suite")
}

var _ = Describe("Process", func() {
	It("pipes stdin to stdout through /bin/cat and reports a clean exit", func() {
		p := process.Start(process.Options{
			Path:         "/bin/cat",
			Stdin:        process.StdioPipe,
			Stdout:       process.StdioPipe,
			Stderr:       process.StdioNull,
			TickInterval: 20 * time.Millisecond,
		})
		Expect(p.Pid()).To(BeNumerically(">", 0))

		var received []byte
		p.Stdout().ReceiveBinary(5)
		p.Stdout().DataReceived().Register(nil, func(_, _, args any) {
			received = append(received, args.([]byte)...)
		}, connection.DataReceivedEventID)

		Expect(p.Stdin().SendAsync([]byte("hello"), nil)).ToNot(HaveOccurred())
		Eventually(func() string { return string(received) }, "1s", "5ms").Should(Equal("hello"))

		p.Stdin().Close(false)

		var info process.ExitInfo
		p.Exited().Register(nil, func(_, _, args any) {
			info = args.(process.ExitInfo)
		}, process.ExitedEventID)

		Eventually(func() int { return info.Code }, "1s", "5ms").Should(Equal(0))
		Expect(info.Err).ToNot(HaveOccurred())
	})

	It("reports an exec failure through Exited with the configured exit code", func() {
		p := process.Start(process.Options{
			Path:             "/no/such/binary-xyz",
			ExecFailExitCode: 42,
		})

		var info process.ExitInfo
		done := make(chan struct{})
		p.Exited().Register(nil, func(_, _, args any) {
			info = args.(process.ExitInfo)
			close(done)
		}, process.ExitedEventID)

		Eventually(done, "1s", "5ms").Should(BeClosed())
		Expect(info.Code).To(Equal(42))
		Expect(info.Err).To(HaveOccurred())
		Expect(p.Pid()).To(Equal(0))
	})

	It("raises Destroyed once the child exits and every piped Conn has closed", func() {
		p := process.Start(process.Options{
			Path:         "/bin/cat",
			Stdin:        process.StdioPipe,
			Stdout:       process.StdioPipe,
			Stderr:       process.StdioNull,
			TickInterval: 20 * time.Millisecond,
		})

		destroyed := make(chan struct{})
		p.Destroyed().Register(nil, func(_, _, _ any) { close(destroyed) }, process.DestroyedEventID)

		p.Stdin().Close(false)
		p.Stdout().Close(false)

		Eventually(destroyed, "1s", "5ms").Should(BeClosed())
	})

	It("stops the child on Stop and reports a non-zero exit", func() {
		p := process.Start(process.Options{
			Path:   "/bin/sleep",
			Args:   []string{"30"},
			Stdout: process.StdioNull,
			Stderr: process.StdioNull,
		})

		var info process.ExitInfo
		done := make(chan struct{})
		p.Exited().Register(nil, func(_, _, args any) {
			info = args.(process.ExitInfo)
			close(done)
		}, process.ExitedEventID)

		Expect(p.Stop(50 * time.Millisecond)).ToNot(HaveOccurred())
		Eventually(done, "2s", "5ms").Should(BeClosed())
		Expect(info.Code).ToNot(Equal(0))
	})
})
