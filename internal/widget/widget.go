package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/statusbox/internal/cms"
	"github.com/five82/statusbox/internal/state"
	"github.com/five82/statusbox/internal/status"
)

// DefaultInterval is the periodic refresh cadence.
const DefaultInterval = 30 * time.Second

var errNoFetcher = errors.New("no status fetcher configured")

// Options configure a Widget.
type Options struct {
	Interval time.Duration    // zero uses DefaultInterval
	Logger   *zap.Logger      // nil disables logging
	Now      func() time.Time // nil uses time.Now
}

// Widget keeps a local view of the remote busy/available flag, refreshed
// periodically while mounted and on demand through Refresh.
type Widget struct {
	fetcher  cms.StatusFetcher
	store    *state.Store
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	mount *mount // nil while unmounted
}

// New builds an unmounted Widget reading from fetcher.
func New(fetcher cms.StatusFetcher, opts Options) *Widget {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Widget{
		fetcher:  fetcher,
		store:    &state.Store{},
		interval: interval,
		log:      logger,
		now:      now,
	}
}

// Interval returns the periodic refresh cadence.
func (w *Widget) Interval() time.Duration {
	return w.interval
}

// Snapshot returns the current widget state.
func (w *Widget) Snapshot() state.Snapshot {
	return w.store.Snapshot()
}

// Refresh performs one fetch and stores the outcome. It never fails: any
// error is stored as the Offline record. Concurrent calls are allowed and the
// last one to complete wins.
func (w *Widget) Refresh(ctx context.Context) state.Snapshot {
	return w.refresh(ctx, nil)
}

// refresh calls started, when non-nil, right before the remote read begins.
func (w *Widget) refresh(ctx context.Context, started func()) state.Snapshot {
	fetchID := uuid.NewString()
	begin := w.now()

	record, err := w.fetch(ctx, started)
	w.store.Update(record, err, w.now())

	if err != nil {
		w.log.Warn("status fetch failed",
			zap.String("fetch_id", fetchID),
			zap.Error(err),
		)
	} else {
		w.log.Debug("status fetched",
			zap.String("fetch_id", fetchID),
			zap.String("id", record.ID),
			zap.String("title", record.Title),
			zap.Bool("busy", record.IsBusy),
			zap.Duration("took", w.now().Sub(begin)),
		)
	}
	return w.store.Snapshot()
}

func (w *Widget) fetch(ctx context.Context, started func()) (status.Record, error) {
	if started != nil {
		started()
	}
	if w.fetcher == nil {
		return status.Offline(), errNoFetcher
	}
	entry, err := w.fetcher.FetchLatestStatus(ctx)
	if err != nil {
		return status.Offline(), err
	}
	if entry == nil {
		return status.Empty(), nil
	}
	return entry.Record(), nil
}
