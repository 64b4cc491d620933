// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package fiber implements the cooperative, single-threaded coroutine
// contract (§4.1/§5) generated parsers suspend on while waiting for more
// input. No example repo ships a coroutine/stackful-fiber library, so this
// is built from the goroutine + channel worker/result handshake used for
// concurrent dispatch elsewhere in the corpus (the parallel trace-expansion
// wave in pkg/schema/builder.go), narrowed from "many workers, one
// collector" to "one suspend/resume pair" since the contract requires
// exactly one resumer at a time.
package fiber

import (
	"github.com/zeek/spicy-sub007/pkg/diag"
	"github.com/zeek/spicy-sub007/pkg/runtime"
)

// Func is the body a Fiber executes; it receives a Control handle used to
// yield control back to the resumer.
type Func func(c *Control)

// Control is handed to a running fiber's Func so it can suspend itself.
type Control struct {
	yield  chan struct{}
	resume chan struct{}
	abort  chan struct{}

	depth    uint
	maxDepth uint
}

// Enter records entry into a nested sub-unit parse frame, the
// reinterpretation of HILTI's fixed fiber stack size described on
// runtime.Configuration.FiberStackDepth. It fails StackSizeExceeded rather
// than letting the recursion continue once the configured depth is
// exceeded.
func (c *Control) Enter() *runtime.Failure {
	c.depth++

	if c.maxDepth > 0 && c.depth > c.maxDepth {
		c.depth--

		diag.Debugf(diag.StreamFiber, "nesting depth %d exceeds configured limit %d", c.depth+1, c.maxDepth)

		return runtime.NewFailure(runtime.StackSizeExceeded, "fiber nesting depth exceeded configured limit of %d", c.maxDepth)
	}

	return nil
}

// Exit records leaving a nested sub-unit parse frame entered via Enter.
// Calling Exit without a matching successful Enter is a programming error.
func (c *Control) Exit() {
	c.depth--
}

// Yield suspends the fiber until the owning Resumable's Resume is next
// called. It panics with abortSignal if the fiber is being unwound by
// Abort, so deferred cleanup in the fiber body still runs.
func (c *Control) Yield() {
	c.yield <- struct{}{}

	select {
	case <-c.resume:
	case <-c.abort:
		panic(abortSignal{})
	}
}

// abortSignal is recovered by Resumable.run; it never escapes a fiber's
// goroutine.
type abortSignal struct{}

// state tracks where a Resumable is in its lifecycle.
type state uint8

const (
	stateRunning state = iota
	stateSuspended
	stateDone
	stateAborted
)

// Resumable is the handle returned by Execute; Resume/Abort drive it from
// the caller's goroutine while the fiber body runs on its own.
type Resumable struct {
	fn      Func
	ctrl    *Control
	done    chan *runtime.Failure
	state   state
	started bool
}

// Execute constructs a Resumable for fn under the default Configuration;
// the fiber body doesn't start running until the first Resume call.
func Execute(fn Func) *Resumable {
	return ExecuteWithConfig(runtime.DefaultConfiguration(), fn)
}

// ExecuteWithConfig is Execute, threading cfg's FiberStackDepth through to
// the fiber's Control explicitly (§E.3) rather than reading it from a
// package-level var.
func ExecuteWithConfig(cfg runtime.Configuration, fn Func) *Resumable {
	return &Resumable{
		fn: fn,
		ctrl: &Control{
			yield:    make(chan struct{}),
			resume:   make(chan struct{}),
			abort:    make(chan struct{}),
			maxDepth: cfg.FiberStackDepth,
		},
		done:  make(chan *runtime.Failure, 1),
		state: stateSuspended,
	}
}

// Resume continues a suspended fiber until it next yields, finishes, or
// faults. Resuming a fiber that has already finished or been aborted fails
// AssertionFailure.
func (r *Resumable) Resume() *runtime.Failure {
	if r.state == stateDone {
		return runtime.NewFailure(runtime.AssertionFailure, "resumed a fiber that already finished")
	}

	if r.state == stateAborted {
		return runtime.NewFailure(runtime.AssertionFailure, "resumed a fiber that was aborted")
	}

	if !r.started {
		r.started = true

		diag.Debugf(diag.StreamFiber, "starting fiber")

		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					if _, ok := rec.(abortSignal); ok {
						r.done <- nil
						return
					}

					r.done <- runtime.NewFailure(runtime.AssertionFailure, "fiber panicked: %v", rec)
					return
				}

				r.done <- nil
			}()

			r.fn(r.ctrl)
		}()
	} else {
		diag.Debugf(diag.StreamFiber, "resuming fiber at depth %d", r.ctrl.depth)

		r.ctrl.resume <- struct{}{}
	}

	select {
	case <-r.ctrl.yield:
		diag.Debugf(diag.StreamFiber, "fiber yielded at depth %d", r.ctrl.depth)

		r.state = stateSuspended
		return nil
	case err := <-r.done:
		diag.Debugf(diag.StreamFiber, "fiber finished: %v", err)

		r.state = stateDone
		return err
	}
}

// Done reports whether the fiber has run to completion (successfully or
// with a propagated failure).
func (r *Resumable) Done() bool { return r.state == stateDone }

// Abort unwinds a suspended fiber, letting its deferred cleanup run, then
// marks it aborted. Aborting a fiber that already finished is a no-op.
func (r *Resumable) Abort() {
	if r.state == stateDone {
		return
	}

	if r.state == stateAborted || !r.started {
		r.state = stateAborted
		return
	}

	r.ctrl.abort <- struct{}{}
	<-r.done
	r.state = stateAborted
}
