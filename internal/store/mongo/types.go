package mongo

import (
	"time"

	"github.com/sahelassur/courtage/internal/core"
)

const (
	ColProducts = "products"
	ColContacts = "contacts"
	ColQuotes   = "quotes"
	ColPolicies = "policies"
)

// Product
type ProductDoc struct {
	ID          string `bson:"_id"`
	Code        string `bson:"code"` // unique index
	Category    string `bson:"category"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Active      bool   `bson:"active"`
}

func fromProductDoc(d ProductDoc) core.Product {
	return core.Product{
		ID:          d.ID,
		Code:        core.ProductCode(d.Code),
		Category:    core.ProductCategory(d.Category),
		Name:        d.Name,
		Description: d.Description,
		Active:      d.Active,
	}
}

func toProductDoc(p core.Product) ProductDoc {
	return ProductDoc{
		ID:          p.ID,
		Code:        string(p.Code),
		Category:    string(p.Category),
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
}

// Contact
type ContactDoc struct {
	ID          string     `bson:"_id"`
	Type        string     `bson:"type"`
	FirstName   string     `bson:"first_name"`
	LastName    string     `bson:"last_name"`
	Phone       string     `bson:"phone"`
	Email       string     `bson:"email"`
	City        string     `bson:"city,omitempty"`
	Source      string     `bson:"source,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
	LastContact *time.Time `bson:"last_contact,omitempty"`
}

func fromContactDoc(d ContactDoc) core.ContactRecord {
	return core.ContactRecord{
		ID:          d.ID,
		Type:        core.ContactType(d.Type),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Phone:       d.Phone,
		Email:       d.Email,
		City:        d.City,
		Source:      d.Source,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		LastContact: d.LastContact,
	}
}

func toContactDoc(c core.ContactRecord) ContactDoc {
	return ContactDoc{
		ID:          c.ID,
		Type:        string(c.Type),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Phone:       c.Phone,
		Email:       c.Email,
		City:        c.City,
		Source:      c.Source,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		LastContact: c.LastContact,
	}
}

// Quote. The wizard state snapshot is stored as a nested document and only
// round-trips through core.WizardState; nothing queries inside it except the
// headline fields lifted to the top level.
type QuoteDoc struct {
	ID          string           `bson:"_id"`
	ContactID   string           `bson:"contact_id,omitempty"`
	ContactType string           `bson:"contact_type,omitempty"`
	Product     string           `bson:"product"`
	State       core.WizardState `bson:"state"`
	TotalAPayer int64            `bson:"total_a_payer"`
	Status      string           `bson:"status"`
	CreatedAt   time.Time        `bson:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at"`
	ExpiresAt   time.Time        `bson:"expires_at"`
	SignedAt    *time.Time       `bson:"signed_at,omitempty"`
}

func fromQuoteDoc(d QuoteDoc) core.Quote {
	return core.Quote{
		ID:          d.ID,
		ContactID:   d.ContactID,
		ContactType: core.ContactType(d.ContactType),
		Product:     core.ProductCode(d.Product),
		State:       d.State,
		TotalAPayer: d.TotalAPayer,
		Status:      core.QuoteStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		ExpiresAt:   d.ExpiresAt,
		SignedAt:    d.SignedAt,
	}
}

func toQuoteDoc(q core.Quote) QuoteDoc {
	return QuoteDoc{
		ID:          q.ID,
		ContactID:   q.ContactID,
		ContactType: string(q.ContactType),
		Product:     string(q.Product),
		State:       q.State,
		TotalAPayer: q.TotalAPayer,
		Status:      string(q.Status),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		ExpiresAt:   q.ExpiresAt,
		SignedAt:    q.SignedAt,
	}
}

// Policy
type PolicyDoc struct {
	ID            string                    `bson:"_id"`
	Number        string                    `bson:"number"` // unique index
	QuoteID       string                    `bson:"quote_id"`
	ContactID     string                    `bson:"contact_id,omitempty"`
	Product       string                    `bson:"product"`
	Insured       core.ClientIdentification `bson:"insured"`
	Premium       core.PremiumBreakdown     `bson:"premium"`
	TotalAPayer   int64                     `bson:"total_a_payer"`
	Status        string                    `bson:"status"`
	EffectiveDate time.Time                 `bson:"effective_date"`
	ExpiryDate    time.Time                 `bson:"expiry_date"`
	IssuedAt      time.Time                 `bson:"issued_at"`
	Documents     []string                  `bson:"documents,omitempty"`
}

func fromPolicyDoc(d PolicyDoc) core.Policy {
	return core.Policy{
		ID:            d.ID,
		Number:        d.Number,
		QuoteID:       d.QuoteID,
		ContactID:     d.ContactID,
		Product:       core.ProductCode(d.Product),
		Insured:       d.Insured,
		Premium:       d.Premium,
		TotalAPayer:   d.TotalAPayer,
		Status:        core.PolicyStatus(d.Status),
		EffectiveDate: d.EffectiveDate,
		ExpiryDate:    d.ExpiryDate,
		IssuedAt:      d.IssuedAt,
		Documents:     d.Documents,
	}
}

func toPolicyDoc(p core.Policy) PolicyDoc {
	return PolicyDoc{
		ID:            p.ID,
		Number:        p.Number,
		QuoteID:       p.QuoteID,
		ContactID:     p.ContactID,
		Product:       string(p.Product),
		Insured:       p.Insured,
		Premium:       p.Premium,
		TotalAPayer:   p.TotalAPayer,
		Status:        string(p.Status),
		EffectiveDate: p.EffectiveDate,
		ExpiryDate:    p.ExpiryDate,
		IssuedAt:      p.IssuedAt,
		Documents:     p.Documents,
	}
}
