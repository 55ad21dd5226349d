// options.go: functional options over Config (§A.3).
//
// Grounded on the teacher's options.go Option/loggerOptions pattern, kept
// to the ergonomic-construction role the teacher uses it for; ignite's
// hook/decorator system lives in decorator.go instead of here.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"time"

	"github.com/ignitelog/ignite/internal/ring"
)

// Option mutates a Config during construction.
type Option func(*Config)

// WithThreshold sets the initial minimum severity.
func WithThreshold(s Severity) Option {
	return func(c *Config) { c.Threshold = s }
}

// WithQueueCapacity sets the async ring's slot count.
func WithQueueCapacity(n int64) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithOverflowPolicy selects the drop/block behavior under backpressure.
func WithOverflowPolicy(p ring.Policy) Option {
	return func(c *Config) { c.OverflowPolicy = p }
}

// WithShutdownDrain bounds the termination coordinator's per-sink drain
// deadline.
func WithShutdownDrain(d time.Duration) Option {
	return func(c *Config) { c.ShutdownDrain = d }
}

// WithWorkerWake sets a worker's idle dequeue-timeout interval.
func WithWorkerWake(d time.Duration) Option {
	return func(c *Config) { c.WorkerWake = d }
}

// WithMaxFrameSize bounds the encoded frame size.
func WithMaxFrameSize(n int) Option {
	return func(c *Config) { c.MaxFrameSize = n }
}

// WithName sets Config.Name.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// NewConfig builds a normalized Config from defaults plus opts, matching
// the teacher's `New(config Config, opts ...Option)` ergonomics.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c.normalize()
}
