package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/google/uuid"
)

type UserRecord struct {
	domain.User
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, rec *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*UserRecord
	byEmail map[string]string
}

func NewUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*UserRecord),
		byEmail: make(map[string]string),
	}
}

var _ UserRepository = (*MemoryUserRepository)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create assigns an id when rec has none. Email addresses are unique,
// case-insensitively.
func (r *MemoryUserRepository) Create(_ context.Context, rec *UserRecord) error {
	key := normalizeEmail(rec.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return ErrEmailTaken
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	stored := *rec
	r.byID[rec.ID] = &stored
	r.byEmail[key] = rec.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	r.mu.RLock()
	id, ok := r.byEmail[normalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryUserRepository) MarkVerified(_ context.Context, id string) error {
	return r.update(id, func(rec *UserRecord) { rec.EmailVerified = true })
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(rec *UserRecord) { rec.PasswordHash = hash })
}

func (r *MemoryUserRepository) update(id string, fn func(*UserRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(rec)
	return nil
}
