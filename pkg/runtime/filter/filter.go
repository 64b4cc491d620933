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

// Package filter implements the linear filter-chain contract (§4.1): a
// filter unit reads from an upstream stream and forwards transformed bytes
// into a downstream stream, with the chain terminating in the actual
// target parser. Grounded on the same ordered, sealed-after-setup
// registration shape as pkg/runtime/sink (itself grounded on
// pkg/trace/builder.go), narrowed to a single linear chain instead of a
// fan-in reassembly buffer.
package filter

import (
	"github.com/zeek/spicy-sub007/pkg/runtime"
)

// Forward is how a Stage hands its transformed output to whatever comes
// next in the chain -- the next filter stage, or the target parser once the
// chain is exhausted.
type Forward func(data []byte) error

// Stage is one filter unit in the chain.
type Stage interface {
	// Process transforms an incoming chunk and calls forward zero or more
	// times with the bytes it wants to pass downstream.
	Process(data []byte, forward Forward) error
	// EndOfData signals that no more input will arrive upstream of this
	// stage; implementations that buffer must flush via forward here.
	EndOfData(forward Forward) error
}

// Target is the parser instance terminating a filter chain.
type Target interface {
	Deliver(data []byte) error
	EndOfData() error
}

// Chain is a linear sequence of filter stages terminating in a Target.
// ConnectFilter may only be called before Feed/Close are first invoked
// (§4.1 "connect_filter(f) may be called only before parsing begins").
type Chain struct {
	stages  []Stage
	target  Target
	sealed  bool
	forward Forward
}

// NewChain constructs an initially empty chain delivering straight to
// target.
func NewChain(target Target) *Chain {
	return &Chain{target: target}
}

// ConnectFilter appends a stage to the end of the chain.
func (c *Chain) ConnectFilter(s Stage) *runtime.Failure {
	if c.sealed {
		return runtime.NewFailure(runtime.AssertionFailure, "connect_filter called after parsing began")
	}

	c.stages = append(c.stages, s)

	return nil
}

// seal builds the composed forward function the first time data flows,
// freezing the chain's stage list.
func (c *Chain) seal() {
	if c.sealed {
		return
	}

	c.sealed = true
	c.forward = c.buildForward(0)
}

func (c *Chain) buildForward(i int) Forward {
	if i >= len(c.stages) {
		return c.target.Deliver
	}

	next := c.buildForward(i + 1)
	stage := c.stages[i]

	return func(data []byte) error {
		return stage.Process(data, next)
	}
}

// Feed pushes a chunk of upstream bytes through the chain.
func (c *Chain) Feed(data []byte) *runtime.Failure {
	c.seal()

	if len(c.stages) == 0 {
		if err := c.target.Deliver(data); err != nil {
			return runtime.NewFailure(runtime.ParseError, "target rejected forwarded data: %v", err)
		}

		return nil
	}

	if err := c.stages[0].Process(data, c.buildForward(1)); err != nil {
		return runtime.NewFailure(runtime.ParseError, "filter chain rejected data: %v", err)
	}

	return nil
}

// Close signals end-of-data from the top of the chain down to the target,
// letting each stage flush any buffered output first.
func (c *Chain) Close() *runtime.Failure {
	c.seal()

	if err := c.closeFrom(0); err != nil {
		return runtime.NewFailure(runtime.ParseError, "filter chain end-of-data failed: %v", err)
	}

	return nil
}

func (c *Chain) closeFrom(i int) error {
	if i >= len(c.stages) {
		return c.target.EndOfData()
	}

	if err := c.stages[i].EndOfData(c.buildForward(i + 1)); err != nil {
		return err
	}

	return c.closeFrom(i + 1)
}
