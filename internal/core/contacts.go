package core

import (
	"context"
	"fmt"
	"time"
)

// ContactRecord is a prospect or client in the broker's book. The wizard
// seeds its client-identification step from one of these when the sale is
// opened from the lead inbox.
type ContactRecord struct {
	ID          string      `json:"id"`
	Type        ContactType `json:"type"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone"` // E.164
	Email       string      `json:"email"`
	City        string      `json:"city,omitempty"`
	Source      string      `json:"source,omitempty"` // walk-in, referral, campaign...
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	LastContact *time.Time  `json:"last_contact,omitempty"`
}

// ContactSummary is the shape returned by a lead-inbox search.
type ContactSummary struct {
	ID          string      `json:"id"`
	Type        ContactType `json:"type"`
	DisplayName string      `json:"display_name"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
}

type ContactRepo interface {
	Create(ctx context.Context, c ContactRecord) error
	// Get fetches one contact. An empty typ is a wildcard: the lookup matches
	// the contact whether it is a prospect or a client.
	Get(ctx context.Context, id string, typ ContactType) (ContactRecord, error)
	Search(ctx context.Context, query string, limit int) ([]ContactSummary, error)
	Update(ctx context.Context, c ContactRecord) error
}

func (c ContactRecord) Validate() error {
	if c.Type != ContactProspect && c.Type != ContactClient {
		return fmt.Errorf("%w: contact type must be 'prospect' or 'client'", ErrValidation)
	}
	if c.FirstName == "" {
		return fmt.Errorf("%w: first name is required", ErrValidation)
	}
	if c.LastName == "" {
		return fmt.Errorf("%w: last name is required", ErrValidation)
	}
	if c.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return nil
}

// Summary projects the record into its search shape.
func (c ContactRecord) Summary() ContactSummary {
	return ContactSummary{
		ID:          c.ID,
		Type:        c.Type,
		DisplayName: c.FirstName + " " + c.LastName,
		Phone:       c.Phone,
		Email:       c.Email,
	}
}

var (
	ErrContactNotFound = fmt.Errorf("%w: contact not found", ErrNotFound)
)
