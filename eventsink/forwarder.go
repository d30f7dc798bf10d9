package eventsink

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/tipjar/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Source is the queue a Forwarder reads from. It is implemented by Outbox.
type Source interface {
	Pending(ctx context.Context, limit int) ([]Record, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

var _ Source = (*Outbox)(nil)

// DefaultBatchSize is the maximum number of records published per tick.
const DefaultBatchSize = 100

// Forwarder moves records from a Source to a Publisher.
type Forwarder struct {
	src      Source
	pub      Publisher
	interval time.Duration
	batch    int
	logger   log.Logger
}

// NewForwarder returns a forwarder polling src every interval.
func NewForwarder(src Source, pub Publisher, interval time.Duration, logger log.Logger) *Forwarder {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Forwarder{
		src:      src,
		pub:      pub,
		interval: interval,
		batch:    DefaultBatchSize,
		logger:   logger.With("module", "eventsink"),
	}
}

// Run forwards records until the context is cancelled. Publishing failures
// are logged and retried on the next tick.
func (f *Forwarder) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		n, err := f.Flush(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			f.logger.Error("cannot forward events", "err", err, "published", n)
		case n > 0:
			f.logger.Debug("events forwarded", "published", n)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch of pending records in order. It stops at the
// first failing record. Records published before the failure are marked,
// the rest stays pending. The number of published records is returned.
func (f *Forwarder) Flush(ctx context.Context) (int, error) {
	records, err := f.src.Pending(ctx, f.batch)
	if err != nil {
		return 0, errors.Wrap(err, "pending records")
	}

	published := make([]uuid.UUID, 0, len(records))
	var pubErr error
	for _, r := range records {
		if err := f.pub.Publish(ctx, r); err != nil {
			pubErr = errors.Wrapf(err, "publish %s", r.ID)
			break
		}
		published = append(published, r.ID)
	}

	if err := f.src.MarkPublished(ctx, published); err != nil {
		return 0, errors.Wrap(err, "mark published")
	}
	return len(published), pubErr
}
