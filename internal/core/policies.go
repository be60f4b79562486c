package core

import (
	"context"
	"fmt"
	"time"
)

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusCancelled PolicyStatus = "cancelled"
	PolicyStatusExpired   PolicyStatus = "expired"
)

// Policy is an issued contract, emitted from a signed quote. Insured identity
// and the premium breakdown are snapshotted at issuance.
type Policy struct {
	ID            string               `json:"id"`
	Number        string               `json:"number"` // e.g. POL-2026-000001
	QuoteID       string               `json:"quote_id"`
	ContactID     string               `json:"contact_id,omitempty"`
	Product       ProductCode          `json:"product"`
	Insured       ClientIdentification `json:"insured"`
	Premium       PremiumBreakdown     `json:"premium"`
	TotalAPayer   int64                `json:"total_a_payer"`
	Status        PolicyStatus         `json:"status"`
	EffectiveDate time.Time            `json:"effective_date"`
	ExpiryDate    time.Time            `json:"expiry_date"`
	IssuedAt      time.Time            `json:"issued_at"`
	Documents     []string             `json:"documents,omitempty"`
}

type PolicyFilter struct {
	ContactID string
	Status    PolicyStatus
}

type PolicyRepo interface {
	Create(ctx context.Context, p Policy) error
	Get(ctx context.Context, id string) (Policy, error)
	GetByNumber(ctx context.Context, number string) (Policy, error)
	GetByQuoteID(ctx context.Context, quoteID string) (Policy, error)
	List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error)
	NextPolicyNumber(ctx context.Context) (string, error)
}

var (
	ErrPolicyNotFound = fmt.Errorf("%w: policy not found", ErrNotFound)
	ErrPolicyExists   = fmt.Errorf("%w: policy already exists for quote", ErrConflict)
)
