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

package threadpool_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nabbar/corenet/threadpool"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	It("runs a submitted proc and raises Finished with completed=true", func() {
		p := threadpool.New(threadpool.Options{FixedThreads: 2, FixedQueue: 2})
		var ran int32
		var finishedWith any
		j, err := p.Submit(func(ctx context.Context) {
			atomic.StoreInt32(&ran, 1)
		}, 0)
		Expect(err).ToNot(HaveOccurred())
		j.Finished().Register(nil, func(_, _, args any) { finishedWith = args }, threadpool.FinishedEventID)

		Eventually(func() int32 { return atomic.LoadInt32(&ran) }, "1s", "5ms").Should(Equal(int32(1)))
		Eventually(func() any { return finishedWith }, "1s", "5ms").Should(Equal(true))
		Expect(j.HasCompleted()).To(BeTrue())
	})

	It("rejects a submission beyond its combined capacity", func() {
		p := threadpool.New(threadpool.Options{FixedThreads: 1, FixedQueue: 1})
		block := make(chan struct{})
		_, err := p.Submit(func(ctx context.Context) { <-block }, 0)
		Expect(err).ToNot(HaveOccurred())
		_, err = p.Submit(func(ctx context.Context) { <-block }, 0)
		Expect(err).ToNot(HaveOccurred())

		_, err = p.Submit(func(ctx context.Context) {}, 0)
		Expect(err).To(MatchError(threadpool.ErrQueueFull))
		close(block)
	})

	It("cancels a job's context via Cancel, marking it not completed", func() {
		p := threadpool.New(threadpool.Options{FixedThreads: 1, FixedQueue: 1})
		started := make(chan struct{})
		j, err := p.Submit(func(ctx context.Context) {
			close(started)
			<-ctx.Done()
		}, 0)
		Expect(err).ToNot(HaveOccurred())

		<-started
		j.Cancel()
		Eventually(func() bool { return j.HasCompleted() }, "1s", "5ms").Should(BeFalse())
	})

	It("runs an AsyncTask's job on Pump and unblocks Await on Complete", func() {
		p := threadpool.New(threadpool.Options{FixedThreads: 2, FixedQueue: 2})
		task := p.NewAsyncTask(func(t threadpool.AsyncTask) {
			arg := t.Arg().(int)
			t.Complete(arg * 2)
		})

		resultCh := make(chan any, 1)
		go func() {
			res, err := task.Await(context.Background(), 21)
			Expect(err).ToNot(HaveOccurred())
			resultCh <- res
		}()

		Eventually(func() bool {
			p.Pump()
			select {
			case <-resultCh:
				return true
			default:
				return false
			}
		}, "1s", "5ms").Should(BeTrue())
	})

	It("Shutdown waits for in-flight jobs before returning", func() {
		p := threadpool.New(threadpool.Options{FixedThreads: 1, FixedQueue: 1})
		var finished int32
		_, err := p.Submit(func(ctx context.Context) {
			time.Sleep(20 * time.Millisecond)
			atomic.StoreInt32(&finished, 1)
		}, 0)
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(p.Shutdown(ctx)).ToNot(HaveOccurred())
		Expect(atomic.LoadInt32(&finished)).To(Equal(int32(1)))
	})
})
