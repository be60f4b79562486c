package core

import (
	"context"
	"fmt"
	"time"
)

type QuoteStatus string

const (
	QuoteStatusDraft   QuoteStatus = "draft"
	QuoteStatusSigned  QuoteStatus = "signed"
	QuoteStatusEmitted QuoteStatus = "emitted"
	QuoteStatusExpired QuoteStatus = "expired"
)

// Quote is a persisted snapshot of a wizard session: the full state at save
// time plus the headline amounts, linked to a contact record. Saving is a
// one-way hand-off; the live session keeps editing its own copy.
type Quote struct {
	ID          string      `json:"id"`
	ContactID   string      `json:"contact_id,omitempty"`
	ContactType ContactType `json:"contact_type,omitempty"`
	Product     ProductCode `json:"product"`
	State       WizardState `json:"state"`
	TotalAPayer int64       `json:"total_a_payer"`
	Status      QuoteStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
	SignedAt    *time.Time  `json:"signed_at,omitempty"`
}

type QuoteFilter struct {
	ContactID string
	Status    QuoteStatus
}

type QuoteRepo interface {
	Create(ctx context.Context, q Quote) error
	Get(ctx context.Context, id string) (Quote, error)
	Update(ctx context.Context, q Quote) error
	UpdateStatus(ctx context.Context, id string, status QuoteStatus, updatedAt time.Time) error
	List(ctx context.Context, filter QuoteFilter, limit int) ([]Quote, error)
	FindByStatus(ctx context.Context, status QuoteStatus, limit int) ([]Quote, error)
}

// CanTransitionTo checks if a status transition is valid.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	transitions := map[QuoteStatus][]QuoteStatus{
		QuoteStatusDraft:  {QuoteStatusSigned, QuoteStatusExpired},
		QuoteStatusSigned: {QuoteStatusEmitted},
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	ErrQuoteNotFound = fmt.Errorf("%w: quote not found", ErrNotFound)
	ErrQuoteExpired  = fmt.Errorf("%w: quote has expired", ErrInvalidState)
)
