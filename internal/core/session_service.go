package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sahelassur/courtage/internal/platform/ids"
)

// Session is one operator's in-progress sale. The wizard state is owned
// exclusively by its session; all mutation goes through Dispatch.
type Session struct {
	ID        string      `json:"id"`
	State     WizardState `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type SessionService interface {
	Create(ctx context.Context) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Dispatch(ctx context.Context, id string, actions ...Action) (Session, error)
	// SeedFromContact performs the one-time contact lookup and patches client
	// identification. The generation captured before the lookup travels with
	// the patch, so a lookup that outlives a reset lands nowhere.
	SeedFromContact(ctx context.Context, id, contactID string, typ ContactType) (Session, error)
	Delete(ctx context.Context, id string) error
}

// sessionService keeps sessions in memory. Per the ownership model a wizard
// state never outlives its sales session and is never shared between
// operators, so process memory is the right store; only saved quotes are
// durable.
type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]Session

	contacts ContactRepo
	clock    func() time.Time
}

func NewSessionService(contacts ContactRepo) SessionService {
	return &sessionService{
		sessions: make(map[string]Session),
		contacts: contacts,
		clock:    time.Now,
	}
}

func (s *sessionService) Create(_ context.Context) (Session, error) {
	now := s.clock()
	sess := Session{
		ID:        ids.New(),
		State:     NewWizardState(now.Year()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *sessionService) Get(_ context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("%w: missing session ID", ErrValidation)
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, fmt.Errorf("%w: session %q", ErrNotFound, id)
	}
	return sess, nil
}

func (s *sessionService) Dispatch(_ context.Context, id string, actions ...Action) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("%w: missing session ID", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: session %q", ErrNotFound, id)
	}

	for _, a := range actions {
		sess.State = Reduce(sess.State, a)
	}
	sess.UpdatedAt = s.clock()
	s.sessions[id] = sess

	return sess, nil
}

func (s *sessionService) SeedFromContact(ctx context.Context, id, contactID string, typ ContactType) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	// Generation is read before the external lookup: if the session is reset
	// while the lookup is in flight, the patch below becomes a no-op.
	generation := sess.State.Generation

	contact, err := s.contacts.Get(ctx, contactID, typ)
	if err != nil {
		return Session{}, err
	}

	return s.Dispatch(ctx, id, SeedFromContact{
		Generation:  generation,
		ContactID:   contact.ID,
		ContactType: contact.Type,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Phone:       contact.Phone,
		Email:       contact.Email,
	})
}

func (s *sessionService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: session %q", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}
