// Package account implements the sandbox API's identity endpoints.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/security"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
	minPasswordLen = 6
)

type AccountUseCase interface {
	Register(ctx context.Context, form domain.RegistrationForm) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error)
	Authenticate(ctx context.Context, rawToken string) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AccountService struct {
	users      repository.UserRepository
	tokens     repository.TokenRepository
	issuer     *security.Issuer
	bcryptCost int
	log        *zap.Logger
}

type Option func(*AccountService)

func WithBcryptCost(cost int) Option {
	return func(s *AccountService) { s.bcryptCost = cost }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *AccountService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewAccountService(users repository.UserRepository, tokens repository.TokenRepository, issuer *security.Issuer, opts ...Option) *AccountService {
	s := &AccountService{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ AccountUseCase = (*AccountService)(nil)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *AccountService) Register(ctx context.Context, form domain.RegistrationForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	switch {
	case strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "":
		return nil, invalid("first and last name are required")
	case !strings.Contains(form.Email, "@"):
		return nil, invalid("a valid email is required")
	case len(form.Password) < minPasswordLen:
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}
	role := form.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return nil, invalid("role %q cannot be registered", role)
	}

	hash, err := security.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	rec := &repository.UserRecord{
		User: domain.User{
			Email:     form.Email,
			Role:      role,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Phone:     form.Phone,
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.sendToken(ctx, repository.PurposeVerifyEmail, rec.User, verifyTokenTTL); err != nil {
		return nil, err
	}
	user := rec.User
	return &user, nil
}

func (s *AccountService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	rec, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !security.VerifyPassword(rec.PasswordHash, creds.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.issuer.Issue(rec.ID, rec.Role)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", rec.ID))
	user := rec.User
	return token, &user, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AccountService) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	claims, err := s.issuer.Verify(rawToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	rec, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user := rec.User
	return &user, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Take(ctx, repository.PurposeVerifyEmail, token)
	if err != nil {
		return err
	}
	return s.users.MarkVerified(ctx, userID)
}

// ForgotPassword succeeds for unknown addresses so callers cannot probe
// which emails are registered.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	rec, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	return s.sendToken(ctx, repository.PurposePasswordReset, rec.User, resetTokenTTL)
}

func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	userID, err := s.tokens.Take(ctx, repository.PurposePasswordReset, token)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// sendToken stores a one-time token and "mails" it. The sandbox has no mail
// relay, so the link token goes to the log.
func (s *AccountService) sendToken(ctx context.Context, purpose repository.TokenPurpose, user domain.User, ttl time.Duration) error {
	token, err := security.OneTimeToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	if err := s.tokens.Put(ctx, purpose, token, user.ID, ttl); err != nil {
		return err
	}
	s.log.Info("one-time token issued",
		zap.String("purpose", string(purpose)),
		zap.String("email", user.Email),
		zap.String("token", token),
	)
	return nil
}

// Seed creates the configured users. Seeded accounts start verified.
func (s *AccountService) Seed(ctx context.Context, users []config.SeedUser) error {
	for _, u := range users {
		role := domain.Role(u.Role)
		if role == "" {
			role = domain.RoleCustomer
		}
		if !role.Valid() {
			return fmt.Errorf("seed user %s: unknown role %q", u.Email, u.Role)
		}
		hash, err := security.HashPassword(u.Password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		rec := &repository.UserRecord{
			User: domain.User{
				Email:         u.Email,
				Role:          role,
				FirstName:     u.FirstName,
				LastName:      u.LastName,
				Phone:         u.Phone,
				EmailVerified: true,
			},
			PasswordHash: hash,
		}
		if err := s.users.Create(ctx, rec); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
