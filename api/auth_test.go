package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/service/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ann = &domain.User{ID: "u1", Email: "ann@example.com", Role: domain.RoleCustomer, FirstName: "Ann", LastName: "Lee"}

func newAuthRouter(accounts *MockAccountUseCase) http.Handler {
	return NewRouter(RouterDeps{Accounts: accounts, Bookings: &MockBookingUseCase{}, Hotels: repository.NewHotelRepository()})
}

func TestAuthHandler_login(t *testing.T) {
	accounts := &MockAccountUseCase{}
	r := newAuthRouter(accounts)

	creds := domain.Credentials{Email: "ann@example.com", Password: "s3cret!"}
	accounts.On("Login", mock.Anything, creds).Return("jwt-token", ann, nil).Once()

	w, env := do(t, r, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var data loginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "jwt-token", data.Token)
	assert.Equal(t, "u1", data.User.ID)

	bad := domain.Credentials{Email: "ann@example.com", Password: "nope"}
	accounts.On("Login", mock.Anything, bad).Return("", nil, account.ErrInvalidCredentials).Once()
	w, env = do(t, r, http.MethodPost, "/api/auth/login", "", bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestAuthHandler_me(t *testing.T) {
	accounts := &MockAccountUseCase{}
	r := newAuthRouter(accounts)

	accounts.On("Authenticate", mock.Anything, "good").Return(ann, nil)
	accounts.On("Authenticate", mock.Anything, "bad").Return(nil, account.ErrUnauthenticated)

	w, env := do(t, r, http.MethodGet, "/api/auth/me", "good", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var data userResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ann@example.com", data.User.Email)

	w, _ = do(t, r, http.MethodGet, "/api/auth/me", "bad", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_register(t *testing.T) {
	form := domain.RegistrationForm{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "s3cret!"}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"created", nil, http.StatusCreated},
		{"duplicate", repository.ErrEmailTaken, http.StatusConflict},
		{"invalid", fmt.Errorf("%w: password too short", account.ErrInvalidInput), http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &MockAccountUseCase{}
			r := newAuthRouter(accounts)
			if tt.err == nil {
				accounts.On("Register", mock.Anything, form).Return(ann, nil)
			} else {
				accounts.On("Register", mock.Anything, form).Return(nil, tt.err)
			}

			w, env := do(t, r, http.MethodPost, "/api/auth/register", "", form)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.err == nil, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestAuthHandler_tokens(t *testing.T) {
	accounts := &MockAccountUseCase{}
	r := newAuthRouter(accounts)

	accounts.On("VerifyEmail", mock.Anything, "v1").Return(nil)
	accounts.On("VerifyEmail", mock.Anything, "used").Return(repository.ErrTokenUsed)
	accounts.On("ForgotPassword", mock.Anything, "ann@example.com").Return(nil)
	accounts.On("ResetPassword", mock.Anything, "r1", "n3w-pass").Return(nil)

	w, env := do(t, r, http.MethodPost, "/api/auth/verify-email", "", map[string]string{"token": "v1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email verified successfully", env.Message)

	w, env = do(t, r, http.MethodPost, "/api/auth/verify-email", "", map[string]string{"token": "used"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodPost, "/api/auth/verify-email", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ann@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"token": "r1", "password": "n3w-pass"})
	assert.Equal(t, http.StatusOK, w.Code)

	accounts.AssertExpectations(t)
}
