package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahelassur/courtage/internal/core"
)

// ExpiryWorker marks overdue draft quotes expired.
type ExpiryWorker struct {
	BaseWorker
	quotes core.QuoteService
}

func NewExpiryWorker(quotes core.QuoteService, interval time.Duration, log *slog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		BaseWorker: NewBaseWorker("quote-expiry", interval, log),
		quotes:     quotes,
	}
}

// Start begins the worker polling loop.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.expireStale)
}

// Name returns the worker name.
func (w *ExpiryWorker) Name() string {
	return w.name
}

func (w *ExpiryWorker) expireStale(ctx context.Context) error {
	expired, err := w.quotes.ExpireStale(ctx, 50)
	if err != nil {
		return err
	}

	if expired > 0 {
		w.log.Info("expired stale quotes", "count", expired)
	}

	return nil
}
