// config.go: configuration layer for an ignite Logger (§A.3).
//
// Grounded on the teacher's config.go Config struct + sane-defaults
// pattern, generalized to the spec's ring/worker/frame knobs instead of
// the teacher's ring-architecture/encoder knobs.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"time"

	"github.com/ignitelog/ignite/internal/ring"
)

// Defaults per §A.3.
const (
	DefaultQueueCapacity  = 65536
	DefaultShutdownDrain  = 5 * time.Second
	DefaultWorkerWake     = 100 * time.Millisecond
	DefaultMaxFrameSizeCf = DefaultMaxFrameSize
)

// Config centralizes the parameters a Logger is built from. The zero
// value is invalid; use NewConfig (or DefaultConfig()) and functional
// options rather than constructing Config directly.
type Config struct {
	// Threshold is the initial minimum severity for records to pass the
	// builder gate (§4.2).
	Threshold Severity

	// QueueCapacity is the async MPSC ring's slot count; it is rounded up
	// to the next power of two by normalize (§4.5).
	QueueCapacity int64

	// OverflowPolicy selects the behavior when the queue is full.
	OverflowPolicy ring.Policy

	// ShutdownDrain bounds how long the termination coordinator waits for
	// a sink's worker to drain before abandoning it (§4.9).
	ShutdownDrain time.Duration

	// WorkerWake is the dequeue-with-timeout interval a worker uses while
	// idle, so it can notice shutdown promptly (§4.6).
	WorkerWake time.Duration

	// MaxFrameSize bounds an encoded frame; records exceeding it are
	// truncated with FlagTruncated (§4.4, §7).
	MaxFrameSize int

	// Name is a label for this configuration (default "root"). It is not
	// read by NewRegistry or NewAsyncSink; the registry's root logger is
	// always named "".
	Name string
}

// DefaultConfig returns a Config with every field set to the documented
// defaults (§A.3).
func DefaultConfig() Config {
	return Config{
		Threshold:      Info,
		QueueCapacity:  DefaultQueueCapacity,
		OverflowPolicy: ring.DropNewest,
		ShutdownDrain:  DefaultShutdownDrain,
		WorkerWake:     DefaultWorkerWake,
		MaxFrameSize:   DefaultMaxFrameSizeCf,
		Name:           "root",
	}
}

// normalize fills in zero-valued fields with defaults and rounds
// QueueCapacity up to the next power of two, mirroring the teacher's
// config normalization step.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = d.QueueCapacity
	} else {
		c.QueueCapacity = nextPowerOfTwo(c.QueueCapacity)
	}
	if c.ShutdownDrain <= 0 {
		c.ShutdownDrain = d.ShutdownDrain
	}
	if c.WorkerWake <= 0 {
		c.WorkerWake = d.WorkerWake
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = d.MaxFrameSize
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	return c
}

func nextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}
