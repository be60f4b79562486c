package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahelassur/courtage/internal/platform/ids"
)

type PolicyService interface {
	// EmitFromQuote issues a policy from a signed quote: allocates the next
	// policy number, snapshots insured and premium, and marks the quote
	// emitted. Idempotence is enforced by the one-policy-per-quote repo
	// constraint.
	EmitFromQuote(ctx context.Context, quoteID string) (Policy, error)
	Get(ctx context.Context, id string) (Policy, error)
	GetByNumber(ctx context.Context, number string) (Policy, error)
	List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error)
}

type policyService struct {
	policies PolicyRepo
	quotes   QuoteRepo
	clock    func() time.Time
}

func NewPolicyService(policies PolicyRepo, quotes QuoteRepo) PolicyService {
	return &policyService{
		policies: policies,
		quotes:   quotes,
		clock:    time.Now,
	}
}

func (s *policyService) EmitFromQuote(ctx context.Context, quoteID string) (Policy, error) {
	if quoteID == "" {
		return Policy{}, fmt.Errorf("%w: missing quote ID", ErrValidation)
	}

	q, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Policy{}, fmt.Errorf("%w: quote %q", ErrNotFound, quoteID)
		}
		return Policy{}, err
	}

	if !q.Status.CanTransitionTo(QuoteStatusEmitted) {
		return Policy{}, fmt.Errorf("%w: quote is %s, only signed quotes can be emitted", ErrInvalidState, q.Status)
	}

	number, err := s.policies.NextPolicyNumber(ctx)
	if err != nil {
		return Policy{}, err
	}

	now := s.clock()
	policy := Policy{
		ID:            ids.New(),
		Number:        number,
		QuoteID:       q.ID,
		ContactID:     q.ContactID,
		Product:       q.Product,
		Insured:       q.State.ClientIdentification,
		Premium:       q.State.CalculatedPremium,
		TotalAPayer:   q.TotalAPayer,
		Status:        PolicyStatusActive,
		EffectiveDate: now,
		ExpiryDate:    now.Add(contractTerm(q)),
		IssuedAt:      now,
		Documents:     []string{"conditions_particulieres", "attestation_assurance", "carte_cedeao"},
	}

	if err := s.policies.Create(ctx, policy); err != nil {
		if errors.Is(err, ErrConflict) {
			return Policy{}, ErrPolicyExists
		}
		return Policy{}, err
	}

	if err := s.quotes.UpdateStatus(ctx, q.ID, QuoteStatusEmitted, now); err != nil {
		return Policy{}, err
	}

	return policy, nil
}

func (s *policyService) Get(ctx context.Context, id string) (Policy, error) {
	if id == "" {
		return Policy{}, fmt.Errorf("%w: missing policy ID", ErrValidation)
	}
	return s.policies.Get(ctx, id)
}

func (s *policyService) GetByNumber(ctx context.Context, number string) (Policy, error) {
	if number == "" {
		return Policy{}, fmt.Errorf("%w: missing policy number", ErrValidation)
	}
	return s.policies.GetByNumber(ctx, number)
}

func (s *policyService) List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.policies.List(ctx, filter, limit, offset)
}

// contractTerm maps the selected contract duration to the coverage period.
// The obsèques product renews annually.
func contractTerm(q Quote) time.Duration {
	if q.Product == ProductPackObseques {
		return 365 * 24 * time.Hour
	}
	switch q.State.Coverage.Duration {
	case Duration1Mois:
		return 30 * 24 * time.Hour
	case Duration3Mois:
		return 91 * 24 * time.Hour
	case Duration6Mois:
		return 182 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}
