package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahelassur/courtage/internal/core"
)

// In-memory repos backing the real core services, so the tests exercise the
// full handler -> service -> reducer path over HTTP.

type memContactRepo struct {
	mu      sync.Mutex
	records map[string]core.ContactRecord
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{records: map[string]core.ContactRecord{}}
}

func (r *memContactRepo) Create(_ context.Context, c core.ContactRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[c.ID]; ok {
		return fmt.Errorf("%w: contact %q", core.ErrConflict, c.ID)
	}
	r.records[c.ID] = c
	return nil
}

func (r *memContactRepo) Get(_ context.Context, id string, typ core.ContactType) (core.ContactRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.records[id]
	if !ok || (typ != "" && c.Type != typ) {
		return core.ContactRecord{}, core.ErrContactNotFound
	}
	return c, nil
}

func (r *memContactRepo) Search(_ context.Context, query string, limit int) ([]core.ContactSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []core.ContactSummary{}
	for _, c := range r.records {
		out = append(out, c.Summary())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memContactRepo) Update(_ context.Context, c core.ContactRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[c.ID]; !ok {
		return core.ErrContactNotFound
	}
	r.records[c.ID] = c
	return nil
}

type memQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]core.Quote
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{quotes: map[string]core.Quote{}}
}

func (r *memQuoteRepo) Create(_ context.Context, q core.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID] = q
	return nil
}

func (r *memQuoteRepo) Get(_ context.Context, id string) (core.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return core.Quote{}, core.ErrQuoteNotFound
	}
	return q, nil
}

func (r *memQuoteRepo) Update(_ context.Context, q core.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[q.ID]; !ok {
		return core.ErrQuoteNotFound
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *memQuoteRepo) UpdateStatus(_ context.Context, id string, status core.QuoteStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return core.ErrQuoteNotFound
	}
	q.Status = status
	q.UpdatedAt = updatedAt
	r.quotes[id] = q
	return nil
}

func (r *memQuoteRepo) List(_ context.Context, filter core.QuoteFilter, limit int) ([]core.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []core.Quote{}
	for _, q := range r.quotes {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.ContactID != "" && q.ContactID != filter.ContactID {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memQuoteRepo) FindByStatus(ctx context.Context, status core.QuoteStatus, limit int) ([]core.Quote, error) {
	return r.List(ctx, core.QuoteFilter{Status: status}, limit)
}

type memPolicyRepo struct {
	mu       sync.Mutex
	policies map[string]core.Policy
	byQuote  map[string]string
	counter  int
}

func newMemPolicyRepo() *memPolicyRepo {
	return &memPolicyRepo{policies: map[string]core.Policy{}, byQuote: map[string]string{}}
}

func (r *memPolicyRepo) Create(_ context.Context, p core.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byQuote[p.QuoteID]; ok {
		return fmt.Errorf("%w: quote %q already issued", core.ErrConflict, p.QuoteID)
	}
	r.policies[p.ID] = p
	r.byQuote[p.QuoteID] = p.ID
	return nil
}

func (r *memPolicyRepo) Get(_ context.Context, id string) (core.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.policies[id]
	if !ok {
		return core.Policy{}, core.ErrPolicyNotFound
	}
	return p, nil
}

func (r *memPolicyRepo) GetByNumber(_ context.Context, number string) (core.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.policies {
		if p.Number == number {
			return p, nil
		}
	}
	return core.Policy{}, core.ErrPolicyNotFound
}

func (r *memPolicyRepo) GetByQuoteID(_ context.Context, quoteID string) (core.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byQuote[quoteID]
	if !ok {
		return core.Policy{}, core.ErrPolicyNotFound
	}
	return r.policies[id], nil
}

func (r *memPolicyRepo) List(_ context.Context, filter core.PolicyFilter, limit, offset int) ([]core.Policy, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []core.Policy{}
	for _, p := range r.policies {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ContactID != "" && p.ContactID != filter.ContactID {
			continue
		}
		out = append(out, p)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []core.Policy{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memPolicyRepo) NextPolicyNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("POL-2026-%06d", r.counter), nil
}

type testEnv struct {
	router   chi.Router
	contacts *memContactRepo
	quotes   *memQuoteRepo
	policies *memPolicyRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	contacts := newMemContactRepo()
	quotes := newMemQuoteRepo()
	policies := newMemPolicyRepo()

	sessionSvc := core.NewSessionService(contacts)
	quoteSvc := core.NewQuoteService(quotes, sessionSvc, 15*24*time.Hour)
	policySvc := core.NewPolicyService(policies, quotes)

	r := chi.NewRouter()
	NewSessionHandler(sessionSvc, log, "SN").Mount(r)
	NewPricingHandler(log).Mount(r)
	NewContactHandler(contacts, log, "SN").Mount(r)
	NewQuoteHandler(quoteSvc, log).Mount(r)
	NewPolicyHandler(policySvc, log).Mount(r)

	return &testEnv{router: r, contacts: contacts, quotes: quotes, policies: policies}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func action(typ string, payload any) map[string]any {
	env := map[string]any{"type": typ}
	if payload != nil {
		env["payload"] = payload
	}
	return env
}

func (e *testEnv) createSession(t *testing.T) core.Session {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[core.Session](t, rec)
}

// driveToSignable walks a session through a clean auto sale over the wire.
func (e *testEnv) driveToSignable(t *testing.T, sessionID string) core.Session {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions/"+sessionID+"/actions", []map[string]any{
		action("select_product", map[string]any{"code": "auto"}),
		action("next_step", nil),
		action("patch_client", map[string]any{
			"firstName": "Awa", "lastName": "Diop", "phone": "+221771234567",
		}),
		action("next_step", nil),
		action("patch_needs", map[string]any{
			"puissanceFiscale": 7, "usage": "prive", "valeurVenale": 7000000,
		}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[core.Session](t, rec)
}

func TestSessionEndpoints(t *testing.T) {
	env := newTestEnv(t)

	sess := env.createSession(t)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 0, sess.State.CurrentStep)

	got := decodeBody[core.Session](t, env.do(t, http.MethodGet, "/sessions/"+sess.ID, nil))
	assert.Equal(t, sess.ID, got.ID)

	rec := env.do(t, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatchBatch(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	updated := env.driveToSignable(t, sess.ID)
	assert.Equal(t, 2, updated.State.CurrentStep)
	assert.Equal(t, core.ProductAuto, updated.State.ProductSelection.SelectedProduct)
	assert.Equal(t, int64(120_229), updated.State.CalculatedPremium.PrimeTTC)
}

func TestDispatchNormalizesClientPhone(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	// A complete national-format number is normalized to E.164.
	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{
		action("patch_client", map[string]any{"phone": "77 123 45 67"}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[core.Session](t, rec)
	assert.Equal(t, "+221771234567", got.State.ClientIdentification.Phone)

	// A half-typed number is kept as-is and never blocks the update.
	rec = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{
		action("patch_client", map[string]any{"phone": "77 12"}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeBody[core.Session](t, rec)
	assert.Equal(t, "77 12", got.State.ClientIdentification.Phone)
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{
		action("select_product", map[string]any{"code": "auto"}),
		action("time_travel", nil),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The whole batch was rejected: nothing was applied.
	got := decodeBody[core.Session](t, env.do(t, http.MethodGet, "/sessions/"+sess.ID, nil))
	assert.Empty(t, got.State.ProductSelection.SelectedProduct)
}

func TestDispatchRejectsEmptyBatch(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatchRejectsUnknownProductCode(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{
		action("select_product", map[string]any{"code": "habitation"}),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedEndpoint(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.contacts.Create(context.Background(), core.ContactRecord{
		ID:        "c-1",
		Type:      core.ContactProspect,
		FirstName: "Moussa",
		LastName:  "Fall",
		Phone:     "+221770000000",
	}))
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/seed", map[string]any{
		"contact_id": "c-1", "contact_type": "prospect",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	seeded := decodeBody[core.Session](t, rec)
	assert.Equal(t, "Moussa", seeded.State.ClientIdentification.FirstName)
	assert.Equal(t, "c-1", seeded.State.ClientIdentification.LinkedContactID)

	// No contact_type in the request: the lookup is untyped.
	rec = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/seed", map[string]any{
		"contact_id": "c-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/seed", map[string]any{
		"contact_id": "ghost", "contact_type": "prospect",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnderwritingEndpoint(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/actions", []map[string]any{
		action("select_product", map[string]any{"code": "auto"}),
		action("patch_needs", map[string]any{"valeurVenale": 35000000}),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[underwritingResponse](t, env.do(t, http.MethodGet, "/sessions/"+sess.ID+"/underwriting", nil))
	assert.Equal(t, core.RuleYellow, resp.Status)
	assert.False(t, resp.CanValidate)
	assert.Len(t, resp.Rules, 3)
}

func TestPricingAutoEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/pricing/auto", map[string]any{
		"risk": map[string]any{
			"puissanceFiscale": 7, "usage": "prive", "valeurVenale": 7000000,
		},
		"coverage": map[string]any{"planTier": "standard", "duration": "1_an"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	b := decodeBody[core.PremiumBreakdown](t, rec)
	assert.Equal(t, int64(101_078), b.PrimeNette)
	assert.Equal(t, int64(127_729), b.TotalAPayer)
}

func TestPricingAutoRejectsBadJSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/pricing/auto", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricingObsequesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/pricing/obseques", map[string]any{
		"formule":      "argent",
		"adhesionType": "famille",
		"periodicite":  "mensuelle",
		"addConjoint":  true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	b := decodeBody[core.PackObsequesPremiumBreakdown](t, rec)
	assert.Equal(t, int64(84_000), b.PrimeTotale)
	assert.Equal(t, int64(7_000), b.PrimeTTC)
	assert.Equal(t, int64(500_000), b.CapitalParConjoint)
}

func TestContactCreateNormalizesPhone(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contacts", map[string]any{
		"type":       "prospect",
		"first_name": "Awa",
		"last_name":  "Diop",
		"phone":      "77 123 45 67", // national format, default region SN
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	c := decodeBody[core.ContactRecord](t, rec)
	assert.Equal(t, "+221771234567", c.Phone)
	assert.NotEmpty(t, c.ID)
}

func TestContactCreateRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	// Unknown type fails struct validation.
	rec := env.do(t, http.MethodPost, "/contacts", map[string]any{
		"type": "lead", "first_name": "A", "last_name": "B", "phone": "+221771234567",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unparseable phone.
	rec = env.do(t, http.MethodPost, "/contacts", map[string]any{
		"type": "prospect", "first_name": "A", "last_name": "B", "phone": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactGetAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[core.ContactRecord](t, env.do(t, http.MethodPost, "/contacts", map[string]any{
		"type": "prospect", "first_name": "Awa", "last_name": "Diop", "phone": "+221771234567",
	}))

	got := decodeBody[core.ContactRecord](t, env.do(t, http.MethodGet, "/contacts/"+created.ID+"?type=prospect", nil))
	assert.Equal(t, created.ID, got.ID)

	rec := env.do(t, http.MethodGet, "/contacts/"+created.ID+"?type=client", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Promote the prospect to client.
	rec = env.do(t, http.MethodPut, "/contacts/"+created.ID, map[string]any{
		"type": "client", "first_name": "Awa", "last_name": "Diop", "phone": "+221771234567", "city": "Dakar",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[core.ContactRecord](t, rec)
	assert.Equal(t, core.ContactClient, updated.Type)
	assert.Equal(t, "Dakar", updated.City)
}

func TestQuoteAndPolicyFlow(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	env.driveToSignable(t, sess.ID)

	rec := env.do(t, http.MethodPost, "/quotes", map[string]any{"session_id": sess.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decodeBody[core.Quote](t, rec)
	assert.Equal(t, core.QuoteStatusDraft, q.Status)
	assert.Equal(t, int64(127_729), q.TotalAPayer)

	rec = env.do(t, http.MethodPost, "/quotes/"+q.ID+":sign", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	signed := decodeBody[core.Quote](t, rec)
	assert.Equal(t, core.QuoteStatusSigned, signed.Status)

	// Signing twice conflicts.
	rec = env.do(t, http.MethodPost, "/quotes/"+q.ID+":sign", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/policies", map[string]any{"quote_id": q.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[core.Policy](t, rec)
	assert.Equal(t, "POL-2026-000001", p.Number)
	assert.Equal(t, core.PolicyStatusActive, p.Status)

	got := decodeBody[core.Policy](t, env.do(t, http.MethodGet, "/policies/number/"+p.Number, nil))
	assert.Equal(t, p.ID, got.ID)

	// Emitting again conflicts: the quote is no longer signed.
	rec = env.do(t, http.MethodPost, "/policies", map[string]any{"quote_id": q.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	list := decodeBody[policyListResponse](t, env.do(t, http.MethodGet, "/policies?limit=10", nil))
	assert.Equal(t, int64(1), list.Total)
	assert.Len(t, list.Policies, 1)
}

func TestQuoteSaveRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/quotes", map[string]any{"session_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/quotes", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteSaveWithoutProduct(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/quotes", map[string]any{"session_id": sess.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPolicyEmitValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/policies", map[string]any{"quote_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/policies", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
