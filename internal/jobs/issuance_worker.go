package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahelassur/courtage/internal/core"
)

// IssuanceWorker turns signed quotes into issued policies. The emit call is
// idempotent through the one-policy-per-quote constraint, so a crash between
// issuing and marking the quote emitted only logs a conflict on the next poll.
type IssuanceWorker struct {
	BaseWorker
	quotes   core.QuoteRepo
	policies core.PolicyService
}

func NewIssuanceWorker(
	quotes core.QuoteRepo,
	policySvc core.PolicyService,
	interval time.Duration,
	log *slog.Logger,
) *IssuanceWorker {
	return &IssuanceWorker{
		BaseWorker: NewBaseWorker("issuance", interval, log),
		quotes:     quotes,
		policies:   policySvc,
	}
}

// Start begins the worker polling loop.
func (w *IssuanceWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.processSigned)
}

// Name returns the worker name.
func (w *IssuanceWorker) Name() string {
	return w.name
}

func (w *IssuanceWorker) processSigned(ctx context.Context) error {
	quotes, err := w.quotes.FindByStatus(ctx, core.QuoteStatusSigned, 10)
	if err != nil {
		return err
	}

	if len(quotes) == 0 {
		return nil
	}

	w.log.Info("found signed quotes", "count", len(quotes))

	for _, q := range quotes {
		policy, err := w.policies.EmitFromQuote(ctx, q.ID)
		if err != nil {
			w.log.Error("failed to emit policy",
				"quote_id", q.ID,
				"err", err,
			)
			continue
		}

		w.log.Info("policy emitted",
			"quote_id", q.ID,
			"policy_id", policy.ID,
			"policy_number", policy.Number,
		)
	}

	return nil
}
