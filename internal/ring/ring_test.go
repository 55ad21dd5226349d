package ring

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPowerOfTwoCapacity(t *testing.T) {
	_, err := New[int](0, DropNewest)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New[int](100, DropNewest)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	r, err := New[int](128, DropNewest)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestSingleProducerFIFOOrder(t *testing.T) {
	r, err := New[int](8, DropNewest)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.True(t, r.TryEnqueue(i))
	}

	for i := 0; i < 5; i++ {
		v, res := r.DequeueBlocking(50 * time.Millisecond)
		require.Equal(t, Dequeued, res)
		assert.Equal(t, i, v)
	}
}

func TestDequeueBlockingTimesOutWhenEmpty(t *testing.T) {
	r, err := New[int](8, DropNewest)
	require.NoError(t, err)
	_, res := r.DequeueBlocking(20 * time.Millisecond)
	assert.Equal(t, TimedOut, res)
}

func TestDropNewestDropsIncomingOnFull(t *testing.T) {
	r, err := New[int](4, DropNewest)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.True(t, r.TryEnqueue(i))
	}
	// Ring is full; the 5th enqueue must be dropped, not overwrite slot 0.
	assert.False(t, r.TryEnqueue(99))

	st := r.Stats()
	assert.Equal(t, int64(1), st.Dropped)

	for i := 0; i < 4; i++ {
		v, res := r.DequeueBlocking(50 * time.Millisecond)
		require.Equal(t, Dequeued, res)
		assert.Equal(t, i, v)
	}
}

func TestDropOldestRetiresOldestSlotOnFull(t *testing.T) {
	r, err := New[int](4, DropOldest)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.True(t, r.TryEnqueue(i))
	}
	// Full: enqueuing again must retire slot 0 (value 0) to make room.
	assert.True(t, r.TryEnqueue(4))

	st := r.Stats()
	assert.Equal(t, int64(1), st.Dropped)

	var got []int
	for i := 0; i < 4; i++ {
		v, res := r.DequeueBlocking(50 * time.Millisecond)
		require.Equal(t, Dequeued, res)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestBlockProducerUnblocksOnDequeue(t *testing.T) {
	r, err := New[int](2, BlockProducer)
	require.NoError(t, err)
	require.True(t, r.TryEnqueue(1))
	require.True(t, r.TryEnqueue(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.True(t, r.TryEnqueue(3))
	}()

	// Give the blocked producer a moment to actually park before freeing a
	// slot, so this exercises the parked path rather than a race win.
	time.Sleep(10 * time.Millisecond)
	v, res := r.DequeueBlocking(time.Second)
	require.Equal(t, Dequeued, res)
	assert.Equal(t, 1, v)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked producer never unblocked after a slot freed")
	}
}

func TestCloseUnblocksProducerAndConsumer(t *testing.T) {
	r, err := New[int](2, BlockProducer)
	require.NoError(t, err)
	require.True(t, r.TryEnqueue(1))
	require.True(t, r.TryEnqueue(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.False(t, r.TryEnqueue(3))
	}()
	time.Sleep(10 * time.Millisecond)
	r.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close did not unblock a parked producer")
	}

	_, res := r.DequeueBlocking(50 * time.Millisecond)
	// The ring still holds two buffered items; Shutdown is only reported
	// once they've been drained by the consumer.
	assert.Equal(t, Dequeued, res)
}

func TestConcurrentProducersNoDuplicationOrLoss(t *testing.T) {
	const producers = 8
	const perProducer = 500
	r, err := New[int](1024, BlockProducer)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				r.TryEnqueue(p*perProducer + i)
			}
		}()
	}

	seen := make(map[int]bool, producers*perProducer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for len(seen) < producers*perProducer {
			v, res := r.DequeueBlocking(time.Second)
			if res != Dequeued {
				continue
			}
			seen[v] = true
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer never drained all produced values")
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestStatsReportsCapacityAndProcessed(t *testing.T) {
	r, err := New[int](4, DropNewest)
	require.NoError(t, err)
	r.TryEnqueue(1)
	r.TryEnqueue(2)
	r.DequeueBlocking(50 * time.Millisecond)

	st := r.Stats()
	assert.Equal(t, int64(4), st.Capacity)
	assert.Equal(t, int64(1), st.Processed)
	assert.Equal(t, int64(1), st.Buffered)
}
