package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Do_SendsBearerFromSource(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"user": map[string]any{"id": "u1", "email": "a@b.c", "role": "customer"}}})
	}))
	defer srv.Close()

	api := NewAuthAPI(New(srv.URL))
	user, err := api.Me(context.Background(), StaticToken("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
}

func TestClient_Do_NoCredentialNoHeader(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "sent"})
	}))
	defer srv.Close()

	msg, err := NewAuthAPI(New(srv.URL)).ForgotPassword(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "sent", msg)
	assert.Empty(t, gotAuth)
}

func TestClient_Do_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    any
		kind    domain.ErrorKind
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"}, domain.KindAuth, "Invalid token"},
		{"forbidden", http.StatusForbidden, map[string]any{"success": false}, domain.KindAuth, "Forbidden"},
		{"not found", http.StatusNotFound, map[string]any{"success": false, "message": "Hotel not found"}, domain.KindNotFound, "Hotel not found"},
		{"conflict", http.StatusConflict, map[string]any{"success": false, "message": "Room no longer available"}, domain.KindServer, "Room no longer available"},
		{"gin style error", http.StatusBadRequest, map[string]any{"error": "bad body"}, domain.KindServer, "bad body"},
		{"success false on 200", http.StatusOK, map[string]any{"success": false, "message": "nope"}, domain.KindServer, "nope"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Do(context.Background(), http.MethodGet, "/x", Anonymous, nil, nil)
			require.Error(t, err)

			var apiErr *domain.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewAuthAPI(New(url)).Me(context.Background(), StaticToken("t"))
	require.Error(t, err)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_Do_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
}

func TestAuthAPI_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds domain.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "right" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"token": "tok", "user": map[string]any{"id": "u1", "email": creds.Email, "role": "customer"},
		}})
	}))
	defer srv.Close()

	api := NewAuthAPI(New(srv.URL, WithRateLimit(100, 10)))

	resp, err := api.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@b.c", resp.User.Email)

	_, err = api.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "wrong"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", domain.Message(err))
}

func TestCustomerAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/customer/hotels/H1":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"hotel": map[string]any{
				"id": "H1", "name": "Harbor", "rooms": []any{map[string]any{"id": "R1", "pricing": map[string]any{"basePrice": 100}}},
			}}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/customer/bookings":
			var req domain.BookingRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"booking": map[string]any{
				"id": "B1", "status": "confirmed", "hotelId": req.HotelID, "totalAmount": req.TotalAmount,
			}}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
		}
	}))
	defer srv.Close()

	api := NewCustomerAPI(New(srv.URL))
	ctx := context.Background()

	hotel, err := api.GetHotel(ctx, StaticToken("t"), "H1")
	require.NoError(t, err)
	room, ok := hotel.Room("R1")
	require.True(t, ok)
	assert.Equal(t, 100.0, room.NightlyPrice())

	conf, err := api.CreateBooking(ctx, StaticToken("t"), domain.BookingRequest{HotelID: "H1", RoomID: "R1", TotalAmount: 355})
	require.NoError(t, err)
	assert.Equal(t, "B1", conf.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, conf.Status)
	assert.Equal(t, 355.0, conf.TotalAmount)

	_, err = api.GetHotel(ctx, StaticToken("t"), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_WithHTTPClient(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "sent"})
	}))
	defer srv.Close()

	msg, err := NewAuthAPI(New(srv.URL, WithHTTPClient(srv.Client()))).ForgotPassword(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "sent", msg)
}
