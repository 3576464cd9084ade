package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
)

// memUsers mirrors the unique email and mobile constraints of the real stores.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	seq    int
	getErr error

	// staleLookup makes GetByEmail miss, as a concurrent signup not yet visible would.
	staleLookup bool
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Mobile == u.Mobile {
			return repository.ErrDuplicateMobile
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.staleLookup {
		return nil, repository.ErrNotFound
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) UpdateProfileImage(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProfileImage = url
	return nil
}

type fakeNotifier struct {
	sent []gateway.OTPMessage
	err  error
}

func (n *fakeNotifier) SendOTP(_ context.Context, msg gateway.OTPMessage) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) last() gateway.OTPMessage { return n.sent[len(n.sent)-1] }

type fakeImageStore struct {
	keys  []string
	types []string
	err   error
}

func (s *fakeImageStore) Put(_ context.Context, key, contentType string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	s.types = append(s.types, contentType)
	return "https://cdn.example/" + key, nil
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var errStoreDown = errors.New("store down")
