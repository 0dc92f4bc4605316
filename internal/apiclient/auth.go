package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/hotelportal/internal/domain"
)

// AuthAPI wraps the /api/auth endpoints.
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userPayload struct {
	User *domain.User `json:"user"`
}

func (a *AuthAPI) Me(ctx context.Context, creds CredentialSource) (*domain.User, error) {
	var out userPayload
	if _, err := a.client.Do(ctx, http.MethodGet, "/api/auth/me", creds, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &domain.Error{Kind: domain.KindServer, Message: "identity response had no user"}
	}
	return out.User, nil
}

func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if _, err := a.client.Do(ctx, http.MethodPost, "/api/auth/login", Anonymous, creds, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, &domain.Error{Kind: domain.KindServer, Message: "login response was incomplete", Err: errors.New("missing token or user")}
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, form domain.RegistrationForm) (string, error) {
	return a.client.Do(ctx, http.MethodPost, "/api/auth/register", Anonymous, form, nil)
}

func (a *AuthAPI) VerifyEmail(ctx context.Context, token string) (string, error) {
	return a.client.Do(ctx, http.MethodPost, "/api/auth/verify-email", Anonymous, map[string]string{"token": token}, nil)
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.client.Do(ctx, http.MethodPost, "/api/auth/forgot-password", Anonymous, map[string]string{"email": email}, nil)
}

func (a *AuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "password": newPassword}
	return a.client.Do(ctx, http.MethodPost, "/api/auth/reset-password", Anonymous, body, nil)
}
