package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahelassur/courtage/internal/platform/ids"
)

type QuoteService interface {
	// SaveFromSession snapshots a live wizard session into a durable quote.
	// The session keeps editing its own copy; a failed save changes nothing.
	SaveFromSession(ctx context.Context, sessionID string) (Quote, error)
	Get(ctx context.Context, id string) (Quote, error)
	List(ctx context.Context, filter QuoteFilter, limit int) ([]Quote, error)
	// Sign moves a draft quote to signed. Blocked while the underwriting
	// verdict over the snapshot is red or has unmet document requirements.
	Sign(ctx context.Context, id string) (Quote, error)
	// ExpireStale marks overdue drafts expired and returns how many.
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type quoteService struct {
	quotes   QuoteRepo
	sessions SessionService
	ttl      time.Duration
	clock    func() time.Time
}

func NewQuoteService(quotes QuoteRepo, sessions SessionService, ttl time.Duration) QuoteService {
	return &quoteService{
		quotes:   quotes,
		sessions: sessions,
		ttl:      ttl,
		clock:    time.Now,
	}
}

func (s *quoteService) SaveFromSession(ctx context.Context, sessionID string) (Quote, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Quote{}, err
	}

	state := sess.State
	if state.ProductSelection.SelectedProduct == "" {
		return Quote{}, fmt.Errorf("%w: no product selected yet", ErrValidation)
	}

	now := s.clock()
	q := Quote{
		ID:          ids.New(),
		ContactID:   state.ClientIdentification.LinkedContactID,
		ContactType: state.ClientIdentification.LinkedContactType,
		Product:     state.ProductSelection.SelectedProduct,
		State:       state.Snapshot(),
		TotalAPayer: quoteTotal(state),
		Status:      QuoteStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.quotes.Create(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *quoteService) Get(ctx context.Context, id string) (Quote, error) {
	if id == "" {
		return Quote{}, fmt.Errorf("%w: missing quote ID", ErrValidation)
	}
	q, err := s.quotes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quote{}, fmt.Errorf("%w: quote %q", ErrNotFound, id)
		}
		return Quote{}, err
	}
	return q, nil
}

func (s *quoteService) List(ctx context.Context, filter QuoteFilter, limit int) ([]Quote, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.quotes.List(ctx, filter, limit)
}

func (s *quoteService) Sign(ctx context.Context, id string) (Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}

	if !q.Status.CanTransitionTo(QuoteStatusSigned) {
		return Quote{}, fmt.Errorf("%w: quote is %s, only drafts can be signed", ErrInvalidState, q.Status)
	}

	now := s.clock()
	if now.After(q.ExpiresAt) {
		return Quote{}, ErrQuoteExpired
	}

	// A red underwriting verdict blocks signature no matter what documents
	// were uploaded; yellow verdicts need every required document satisfied.
	rules := EvaluateUnderwritingRules(q.State)
	if !CanValidate(rules, q.State.Underwriting.DocumentsProvided) {
		return Quote{}, fmt.Errorf("%w: underwriting verdict blocks signature", ErrInvalidState)
	}

	q.Status = QuoteStatusSigned
	q.SignedAt = &now
	q.UpdatedAt = now
	if err := s.quotes.Update(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *quoteService) ExpireStale(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 50
	}
	drafts, err := s.quotes.FindByStatus(ctx, QuoteStatusDraft, limit)
	if err != nil {
		return 0, err
	}

	now := s.clock()
	expired := 0
	for _, q := range drafts {
		if now.Before(q.ExpiresAt) {
			continue
		}
		if err := s.quotes.UpdateStatus(ctx, q.ID, QuoteStatusExpired, now); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// quoteTotal picks the headline amount for the active product: the auto
// totalAPayer, or the annual obsèques premium.
func quoteTotal(state WizardState) int64 {
	if state.ProductSelection.SelectedProduct == ProductPackObseques {
		return state.ObsequesPremium.PrimeTotale
	}
	return state.CalculatedPremium.TotalAPayer
}
