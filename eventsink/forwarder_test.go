package eventsink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weavetest/assert"
)

// memSource is an in memory Source.
type memSource struct {
	mu        sync.Mutex
	records   []Record
	published map[uuid.UUID]bool
}

func (s *memSource) Pending(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Record
	for _, r := range s.records {
		if len(res) == limit {
			break
		}
		if !s.published[r.ID] {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *memSource) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.published[id] = true
	}
	return nil
}

// recorder is a Publisher that fails for chosen records.
type recorder struct {
	got    []uuid.UUID
	failOn map[uuid.UUID]bool
}

func (p *recorder) Publish(ctx context.Context, r Record) error {
	if p.failOn[r.ID] {
		return errors.Wrap(errors.ErrState, "broker down")
	}
	p.got = append(p.got, r.ID)
	return nil
}

func TestForwarderFlush(t *testing.T) {
	ctx := context.Background()
	records := testRecords(t, 1, 4)
	src := &memSource{records: records, published: make(map[uuid.UUID]bool)}
	pub := &recorder{failOn: map[uuid.UUID]bool{records[2].ID: true}}
	f := NewForwarder(src, pub, time.Second, nil)

	// Publishing stops at the first failure to keep the order.
	n, err := f.Flush(ctx)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ids(records[:2]), pub.got)

	pending, err := src.Pending(ctx, 10)
	assert.Nil(t, err)
	assert.Equal(t, ids(records[2:]), ids(pending))

	// Once the broker recovers the remaining records are delivered.
	pub.failOn = nil
	n, err = f.Flush(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ids(records), pub.got)

	n, err = f.Flush(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 0, n)
}

func TestForwarderRun(t *testing.T) {
	records := testRecords(t, 1, 3)
	src := &memSource{records: records, published: make(map[uuid.UUID]bool)}
	pub := &recorder{}
	f := NewForwarder(src, pub, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- f.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for {
		pending, _ := src.Pending(context.Background(), 10)
		if len(pending) == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("records not forwarded")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	assert.Nil(t, <-done)
	assert.Equal(t, ids(records), pub.got)
}

func TestForwarderOutbox(t *testing.T) {
	ctx := context.Background()
	o := openOutbox(t)
	records := testRecords(t, 9, 2)
	assert.Nil(t, o.Append(ctx, records))

	pub := &recorder{}
	n, err := NewForwarder(o, pub, time.Second, nil).Flush(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ids(records), pub.got)

	pending, err := o.Pending(ctx, 10)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(pending))
}
