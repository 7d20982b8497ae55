package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cardealer/internal/cache"
)

const pendingKeyPrefix = "pending_registration:"

// PendingRegistration holds the profile submitted at register-initiate until
// the OTP confirm step creates the account. The password is stored hashed.
type PendingRegistration struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
}

// PendingStoreInterface defines storage for pending registrations.
type PendingStoreInterface interface {
	Put(ctx context.Context, email string, pending *PendingRegistration, ttl time.Duration) error
	Get(ctx context.Context, email string) (*PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// PendingStore keeps pending registrations in Redis, keyed by lowercased
// email with a TTL matching the OTP validity window.
type PendingStore struct {
	cache *cache.Client
}

var _ PendingStoreInterface = (*PendingStore)(nil)

// NewPendingStore creates a redis-backed pending registration store.
func NewPendingStore(cache *cache.Client) *PendingStore {
	return &PendingStore{cache: cache}
}

// Put stashes the payload until the confirm step or the TTL, whichever first.
func (s *PendingStore) Put(ctx context.Context, email string, pending *PendingRegistration, ttl time.Duration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	return s.cache.Set(ctx, pendingKeyPrefix+email, payload, ttl)
}

// Get returns the stashed payload, or an error if it is gone. A confirm
// arriving after the stash expired must fail and be re-initiated.
func (s *PendingStore) Get(ctx context.Context, email string) (*PendingRegistration, error) {
	data, err := s.cache.Get(ctx, pendingKeyPrefix+email)
	if err != nil || data == nil {
		return nil, fmt.Errorf("pending registration not found")
	}
	var pending PendingRegistration
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return &pending, nil
}

// Delete removes the stash once the account is created.
func (s *PendingStore) Delete(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, pendingKeyPrefix+email)
}
