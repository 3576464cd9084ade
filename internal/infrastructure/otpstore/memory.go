package otpstore

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
)

// Memory keeps OTP entries in a process-local map. Entries are lost on restart.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entity.OTPEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entity.OTPEntry)}
}

func (m *Memory) Put(_ context.Context, e entity.OTPEntry) error {
	m.mu.Lock()
	m.entries[e.Email] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, email string) (*entity.OTPEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[email]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	delete(m.entries, email)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Take(_ context.Context, email string) (*entity.OTPEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[email]
	if !ok {
		return nil, nil
	}
	delete(m.entries, email)
	return &e, nil
}

// Sweep drops entries whose expiry is before cutoff.
func (m *Memory) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if e.ExpiresAt.Before(cutoff) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of held entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var _ repository.OTPStore = (*Memory)(nil)
