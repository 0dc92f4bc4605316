package repository

import (
	"context"
	"sync"
	"time"
)

type TokenPurpose string

const (
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// TokenRepository stores single-use tokens for email links.
type TokenRepository interface {
	Put(ctx context.Context, purpose TokenPurpose, token, userID string, ttl time.Duration) error
	Take(ctx context.Context, purpose TokenPurpose, token string) (string, error)
}

type oneTimeToken struct {
	purpose   TokenPurpose
	userID    string
	expiresAt time.Time
}

type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]oneTimeToken
	now    func() time.Time
}

func NewTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]oneTimeToken), now: time.Now}
}

var _ TokenRepository = (*MemoryTokenRepository)(nil)

func (r *MemoryTokenRepository) Put(_ context.Context, purpose TokenPurpose, token, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = oneTimeToken{purpose: purpose, userID: userID, expiresAt: r.now().Add(ttl)}
	return nil
}

// Take consumes token. A token for another purpose is left in place.
func (r *MemoryTokenRepository) Take(_ context.Context, purpose TokenPurpose, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.purpose != purpose {
		return "", ErrTokenUsed
	}
	delete(r.tokens, token)
	if r.now().After(t.expiresAt) {
		return "", ErrTokenUsed
	}
	return t.userID, nil
}
