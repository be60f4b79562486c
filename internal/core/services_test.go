package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes for the repo interfaces. No locking: service tests are
// single-goroutine.

type fakeContactRepo struct {
	records map[string]ContactRecord
}

func newFakeContactRepo(records ...ContactRecord) *fakeContactRepo {
	r := &fakeContactRepo{records: map[string]ContactRecord{}}
	for _, c := range records {
		r.records[c.ID] = c
	}
	return r
}

func (r *fakeContactRepo) Create(_ context.Context, c ContactRecord) error {
	if _, ok := r.records[c.ID]; ok {
		return fmt.Errorf("%w: contact %q", ErrConflict, c.ID)
	}
	r.records[c.ID] = c
	return nil
}

func (r *fakeContactRepo) Get(_ context.Context, id string, typ ContactType) (ContactRecord, error) {
	c, ok := r.records[id]
	if !ok || (typ != "" && c.Type != typ) {
		return ContactRecord{}, ErrContactNotFound
	}
	return c, nil
}

func (r *fakeContactRepo) Search(_ context.Context, query string, limit int) ([]ContactSummary, error) {
	out := make([]ContactSummary, 0, len(r.records))
	for _, c := range r.records {
		out = append(out, c.Summary())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Update(_ context.Context, c ContactRecord) error {
	if _, ok := r.records[c.ID]; !ok {
		return ErrContactNotFound
	}
	r.records[c.ID] = c
	return nil
}

type fakeQuoteRepo struct {
	quotes map[string]Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: map[string]Quote{}}
}

func (r *fakeQuoteRepo) Create(_ context.Context, q Quote) error {
	if _, ok := r.quotes[q.ID]; ok {
		return fmt.Errorf("%w: quote %q", ErrConflict, q.ID)
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *fakeQuoteRepo) Get(_ context.Context, id string) (Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (r *fakeQuoteRepo) Update(_ context.Context, q Quote) error {
	if _, ok := r.quotes[q.ID]; !ok {
		return ErrQuoteNotFound
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *fakeQuoteRepo) UpdateStatus(_ context.Context, id string, status QuoteStatus, updatedAt time.Time) error {
	q, ok := r.quotes[id]
	if !ok {
		return ErrQuoteNotFound
	}
	q.Status = status
	q.UpdatedAt = updatedAt
	r.quotes[id] = q
	return nil
}

func (r *fakeQuoteRepo) List(_ context.Context, filter QuoteFilter, limit int) ([]Quote, error) {
	out := []Quote{}
	for _, q := range r.quotes {
		if filter.ContactID != "" && q.ContactID != filter.ContactID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) FindByStatus(ctx context.Context, status QuoteStatus, limit int) ([]Quote, error) {
	return r.List(ctx, QuoteFilter{Status: status}, limit)
}

type fakePolicyRepo struct {
	policies map[string]Policy
	byQuote  map[string]string
	counter  int
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: map[string]Policy{}, byQuote: map[string]string{}}
}

func (r *fakePolicyRepo) Create(_ context.Context, p Policy) error {
	if _, ok := r.byQuote[p.QuoteID]; ok {
		return fmt.Errorf("%w: quote %q already issued", ErrConflict, p.QuoteID)
	}
	r.policies[p.ID] = p
	r.byQuote[p.QuoteID] = p.ID
	return nil
}

func (r *fakePolicyRepo) Get(_ context.Context, id string) (Policy, error) {
	p, ok := r.policies[id]
	if !ok {
		return Policy{}, ErrPolicyNotFound
	}
	return p, nil
}

func (r *fakePolicyRepo) GetByNumber(_ context.Context, number string) (Policy, error) {
	for _, p := range r.policies {
		if p.Number == number {
			return p, nil
		}
	}
	return Policy{}, ErrPolicyNotFound
}

func (r *fakePolicyRepo) GetByQuoteID(_ context.Context, quoteID string) (Policy, error) {
	id, ok := r.byQuote[quoteID]
	if !ok {
		return Policy{}, ErrPolicyNotFound
	}
	return r.policies[id], nil
}

func (r *fakePolicyRepo) List(_ context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error) {
	out := []Policy{}
	for _, p := range r.policies {
		if filter.ContactID != "" && p.ContactID != filter.ContactID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []Policy{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakePolicyRepo) NextPolicyNumber(_ context.Context) (string, error) {
	r.counter++
	return fmt.Sprintf("POL-2026-%06d", r.counter), nil
}

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestSessionService(contacts ContactRepo) *sessionService {
	return &sessionService{
		sessions: map[string]Session{},
		contacts: contacts,
		clock:    func() time.Time { return testNow },
	}
}

func TestSessionServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeContactRepo())

	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, testNow, sess.CreatedAt)
	assert.Equal(t, testNow.Year(), sess.State.ReferenceYear)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, svc.Delete(ctx, sess.ID))

	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, sess.ID), ErrNotFound)
}

func TestSessionServiceGetValidation(t *testing.T) {
	svc := newTestSessionService(newFakeContactRepo())
	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSessionServiceDispatchAppliesInOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeContactRepo())
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess, err = svc.Dispatch(ctx, sess.ID,
		SelectProduct{Code: ProductAuto},
		NextStep{},
		PatchClient{FirstName: ptr("Awa"), LastName: ptr("Diop"), Phone: ptr("+221771234567")},
		NextStep{},
	)
	require.NoError(t, err)
	assert.Equal(t, StepBesoins, sess.State.CurrentStep)

	_, err = svc.Dispatch(ctx, "nope", NextStep{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionServiceSeedFromContact(t *testing.T) {
	ctx := context.Background()
	contact := ContactRecord{
		ID:        "c-1",
		Type:      ContactProspect,
		FirstName: "Moussa",
		LastName:  "Fall",
		Phone:     "+221770000000",
		Email:     "moussa@example.sn",
	}
	svc := newTestSessionService(newFakeContactRepo(contact))
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess, err = svc.SeedFromContact(ctx, sess.ID, "c-1", ContactProspect)
	require.NoError(t, err)
	assert.Equal(t, "Moussa", sess.State.ClientIdentification.FirstName)
	assert.Equal(t, "c-1", sess.State.ClientIdentification.LinkedContactID)
	assert.Equal(t, ContactProspect, sess.State.ClientIdentification.LinkedContactType)

	_, err = svc.SeedFromContact(ctx, sess.ID, "c-2", ContactProspect)
	assert.ErrorIs(t, err, ErrNotFound)

	// Wrong contact type misses too.
	_, err = svc.SeedFromContact(ctx, sess.ID, "c-1", ContactClient)
	assert.ErrorIs(t, err, ErrNotFound)

	// Empty type is the wildcard lookup.
	sess, err = svc.SeedFromContact(ctx, sess.ID, "c-1", "")
	require.NoError(t, err)
	assert.Equal(t, ContactProspect, sess.State.ClientIdentification.LinkedContactType)
}

// sessionInState creates a session and drives it to a signable auto sale.
func sessionInState(t *testing.T, svc SessionService, state WizardState) Session {
	t.Helper()
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	// Install the prepared state directly through the service's own map;
	// Dispatch with no actions persists the timestamps.
	inner := svc.(*sessionService)
	inner.sessions[sess.ID] = Session{ID: sess.ID, State: state, CreatedAt: sess.CreatedAt, UpdatedAt: sess.UpdatedAt}
	sess, err = svc.Dispatch(ctx, sess.ID)
	require.NoError(t, err)
	return sess
}

func newTestQuoteService(quotes QuoteRepo, sessions SessionService, ttl time.Duration) *quoteService {
	return &quoteService{
		quotes:   quotes,
		sessions: sessions,
		ttl:      ttl,
		clock:    func() time.Time { return testNow },
	}
}

func TestQuoteServiceSaveFromSession(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	repo := newFakeQuoteRepo()
	svc := newTestQuoteService(repo, sessions, 15*24*time.Hour)

	sess := sessionInState(t, sessions, readyAutoState())

	q, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ProductAuto, q.Product)
	assert.Equal(t, QuoteStatusDraft, q.Status)
	assert.Equal(t, sess.State.CalculatedPremium.TotalAPayer, q.TotalAPayer)
	assert.Equal(t, testNow.Add(15*24*time.Hour), q.ExpiresAt)

	// The stored snapshot is detached: editing the live session afterwards
	// must not leak into the saved quote.
	_, err = sessions.Dispatch(ctx, sess.ID, SetDocumentProvided{RuleID: RuleClaimsHistory, Provided: true})
	require.NoError(t, err)
	stored, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, stored.State.Underwriting.DocumentsProvided[RuleClaimsHistory])
}

func TestQuoteServiceSaveRequiresProduct(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	svc := newTestQuoteService(newFakeQuoteRepo(), sessions, time.Hour)

	sess, err := sessions.Create(ctx)
	require.NoError(t, err)

	_, err = svc.SaveFromSession(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuoteServiceSaveUsesObsequesTotal(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	svc := newTestQuoteService(newFakeQuoteRepo(), sessions, time.Hour)

	state := NewWizardState(2026)
	state = Reduce(state, SelectProduct{Code: ProductPackObseques})
	state = Reduce(state, PatchObseques{Formule: ptr(FormuleBronze)})
	sess := sessionInState(t, sessions, state)

	q, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(36_000), q.TotalAPayer)
}

func TestQuoteServiceSign(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	repo := newFakeQuoteRepo()
	svc := newTestQuoteService(repo, sessions, 15*24*time.Hour)

	sess := sessionInState(t, sessions, readyAutoState())
	q, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)

	signed, err := svc.Sign(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusSigned, signed.Status)
	require.NotNil(t, signed.SignedAt)
	assert.Equal(t, testNow, *signed.SignedAt)

	// Signing twice violates the status transition.
	_, err = svc.Sign(ctx, q.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestQuoteServiceSignRejectsExpired(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	repo := newFakeQuoteRepo()
	svc := newTestQuoteService(repo, sessions, time.Hour)

	sess := sessionInState(t, sessions, readyAutoState())
	q, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)

	svc.clock = func() time.Time { return testNow.Add(2 * time.Hour) }
	_, err = svc.Sign(ctx, q.ID)
	assert.ErrorIs(t, err, ErrQuoteExpired)
}

func TestQuoteServiceSignBlockedByUnderwriting(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	svc := newTestQuoteService(newFakeQuoteRepo(), sessions, time.Hour)

	state := readyAutoState()
	state = Reduce(state, PatchNeeds{ValeurVenale: ptr(int64(60_000_000))}) // red
	sess := sessionInState(t, sessions, state)

	q, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)

	_, err = svc.Sign(ctx, q.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestQuoteServiceExpireStale(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionService(newFakeContactRepo())
	repo := newFakeQuoteRepo()
	svc := newTestQuoteService(repo, sessions, time.Hour)

	sess := sessionInState(t, sessions, readyAutoState())
	stale, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)

	svc.clock = func() time.Time { return testNow.Add(30 * time.Minute) }
	fresh, err := svc.SaveFromSession(ctx, sess.ID)
	require.NoError(t, err)

	svc.clock = func() time.Time { return testNow.Add(75 * time.Minute) }
	n, err := svc.ExpireStale(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusExpired, got.Status)

	got, err = repo.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusDraft, got.Status)
}

func newTestPolicyService(policies PolicyRepo, quotes QuoteRepo) *policyService {
	return &policyService{
		policies: policies,
		quotes:   quotes,
		clock:    func() time.Time { return testNow },
	}
}

func signedQuote(id string) Quote {
	state := readyAutoState()
	signedAt := testNow
	return Quote{
		ID:          id,
		ContactID:   "c-1",
		Product:     ProductAuto,
		State:       state.Snapshot(),
		TotalAPayer: state.CalculatedPremium.TotalAPayer,
		Status:      QuoteStatusSigned,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
		ExpiresAt:   testNow.Add(15 * 24 * time.Hour),
		SignedAt:    &signedAt,
	}
}

func TestPolicyServiceEmitFromQuote(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	policies := newFakePolicyRepo()
	svc := newTestPolicyService(policies, quotes)

	q := signedQuote("q-1")
	require.NoError(t, quotes.Create(ctx, q))

	p, err := svc.EmitFromQuote(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "POL-2026-000001", p.Number)
	assert.Equal(t, "q-1", p.QuoteID)
	assert.Equal(t, PolicyStatusActive, p.Status)
	assert.Equal(t, q.State.ClientIdentification, p.Insured)
	assert.Equal(t, q.TotalAPayer, p.TotalAPayer)
	assert.Equal(t, testNow.Add(365*24*time.Hour), p.ExpiryDate)
	assert.Equal(t, []string{"conditions_particulieres", "attestation_assurance", "carte_cedeao"}, p.Documents)

	stored, err := quotes.Get(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusEmitted, stored.Status)
}

func TestPolicyServiceEmitRejectsDrafts(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	svc := newTestPolicyService(newFakePolicyRepo(), quotes)

	q := signedQuote("q-1")
	q.Status = QuoteStatusDraft
	q.SignedAt = nil
	require.NoError(t, quotes.Create(ctx, q))

	_, err := svc.EmitFromQuote(ctx, "q-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPolicyServiceEmitIsIdempotentPerQuote(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	policies := newFakePolicyRepo()
	svc := newTestPolicyService(policies, quotes)

	q := signedQuote("q-1")
	require.NoError(t, quotes.Create(ctx, q))

	_, err := svc.EmitFromQuote(ctx, "q-1")
	require.NoError(t, err)

	// Force the quote back to signed to simulate a retry racing the status
	// update; the one-policy-per-quote constraint still rejects it.
	require.NoError(t, quotes.UpdateStatus(ctx, "q-1", QuoteStatusSigned, testNow))
	_, err = svc.EmitFromQuote(ctx, "q-1")
	assert.ErrorIs(t, err, ErrPolicyExists)
}

func TestPolicyServiceContractTermFollowsDuration(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	svc := newTestPolicyService(newFakePolicyRepo(), quotes)

	q := signedQuote("q-1")
	q.State.Coverage.Duration = Duration3Mois
	require.NoError(t, quotes.Create(ctx, q))

	p, err := svc.EmitFromQuote(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(91*24*time.Hour), p.ExpiryDate)
}

func TestPolicyServiceEmitMissingQuote(t *testing.T) {
	svc := newTestPolicyService(newFakePolicyRepo(), newFakeQuoteRepo())
	_, err := svc.EmitFromQuote(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.EmitFromQuote(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}
