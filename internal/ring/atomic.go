// Package ring implements the bounded lock-free MPSC ring buffer that
// carries owned frames between emitting goroutines and a sink's worker.
//
// Adapted from the teacher's internal/zephyroslite Vyukov-style MPSC ring
// (atomic cache-line padded cursors, per-slot sequence markers); generalized
// here from a throughput-batch processor into the single-item
// try_enqueue / dequeue_blocking(timeout) contract described by the core
// queue specification.
package ring

import "sync/atomic"

// PaddedInt64 is a cache-line padded atomic int64, preventing false sharing
// between the producer cursor, the consumer cursor and per-slot sequence
// counters that would otherwise live on the same cache line.
type PaddedInt64 struct {
	_   [64]byte
	val int64
	_   [64]byte
}

func (p *PaddedInt64) Load() int64                  { return atomic.LoadInt64(&p.val) }
func (p *PaddedInt64) Store(v int64)                 { atomic.StoreInt64(&p.val, v) }
func (p *PaddedInt64) Add(delta int64) int64         { return atomic.AddInt64(&p.val, delta) }
func (p *PaddedInt64) CAS(old, new int64) bool       { return atomic.CompareAndSwapInt64(&p.val, old, new) }
