package zoho

import (
	"context"
	"sync"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// memoryStore is an in-process CredentialStore for tests
type memoryStore struct {
	mu    sync.Mutex
	cred  integration.Credential
	saves int
}

func newMemoryStore(cred integration.Credential) *memoryStore {
	return &memoryStore{cred: cred}
}

func (s *memoryStore) Load(_ context.Context) (*integration.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cred
	return &c, nil
}

func (s *memoryStore) Save(_ context.Context, cred *integration.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = *cred
	s.saves++
	return nil
}

func (s *memoryStore) current() integration.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}

// stubTokens is a TokenProvider with scripted answers
type stubTokens struct {
	mu        sync.Mutex
	token     string
	tokenErr  error
	refreshed string
	refreshOK bool
	refreshes int
}

func (s *stubTokens) ValidAccessToken(_ context.Context) (string, error) {
	return s.token, s.tokenErr
}

func (s *stubTokens) Refresh(_ context.Context) RefreshResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	if !s.refreshOK {
		return refreshFailed(&integration.HTTPError{Status: 400, Body: "invalid_code"})
	}
	return RefreshResult{Status: RefreshStatusSuccess, AccessToken: s.refreshed}
}
