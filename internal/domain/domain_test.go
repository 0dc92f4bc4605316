package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomNightlyPrice(t *testing.T) {
	tests := []struct {
		name string
		room Room
		want float64
	}{
		{"base price wins", Room{Price: 80, Pricing: &RoomPricing{BasePrice: 100}}, 100},
		{"flat price fallback", Room{Price: 80}, 80},
		{"zero base price falls back", Room{Price: 80, Pricing: &RoomPricing{}}, 80},
		{"no price", Room{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.room.NightlyPrice())
		})
	}
}

func TestHotelRoom(t *testing.T) {
	h := Hotel{Rooms: []Room{{ID: "a"}, {ID: "b", Name: "Suite"}}}
	r, ok := h.Room("b")
	assert.True(t, ok)
	assert.Equal(t, "Suite", r.Name)
	_, ok = h.Room("c")
	assert.False(t, ok)
}

func TestErrorMatching(t *testing.T) {
	auth := fmt.Errorf("me: %w", &Error{Kind: KindAuth, Status: 401, Message: "Session expired"})
	assert.ErrorIs(t, auth, ErrUnauthorized)
	assert.NotErrorIs(t, auth, ErrNotFound)
	assert.Equal(t, KindAuth, KindOf(auth))
	assert.Equal(t, "Session expired", Message(auth))

	nf := &Error{Kind: KindNotFound, Message: "Hotel not found"}
	assert.ErrorIs(t, nf, ErrNotFound)

	cause := errors.New("dial tcp: refused")
	network := &Error{Kind: KindNetwork, Message: "Unable to reach the booking service", Err: cause}
	assert.ErrorIs(t, network, cause)
	assert.Equal(t, ErrorKind(""), KindOf(cause))
	assert.Equal(t, "dial tcp: refused", Message(cause))
	assert.Empty(t, Message(nil))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Step: StepGuestInfo, Fields: []string{"email", "phone"}}
	assert.Equal(t, "GuestInfo: missing required fields (email, phone)", err.Error())
	assert.Equal(t, err.Error(), Message(fmt.Errorf("next: %w", err)))

	err = &ValidationError{Step: StepStayDetails, Fields: []string{"checkOut"}, Reason: "check-out must be after check-in"}
	assert.Equal(t, "StayDetails: check-out must be after check-in (checkOut)", err.Error())
}

func TestPaymentMasked(t *testing.T) {
	p := PaymentDetails{CardNumber: "4242424242424242", Expiry: "12/30", CVV: "123", NameOnCard: "Ann Lee"}
	m := p.Masked()
	assert.Equal(t, "**** 4242", m.CardNumber)
	assert.Equal(t, "***", m.CVV)
	assert.Equal(t, "12/30", m.Expiry)
	assert.Equal(t, "4242424242424242", p.CardNumber)
	assert.Empty(t, PaymentDetails{}.Masked().CVV)
}

func TestSession(t *testing.T) {
	s := Session{Status: SessionAuthenticated, Token: "t", User: &User{ID: "u1", FirstName: "Ann", LastName: "Lee"}}
	assert.True(t, s.Authenticated())
	assert.Equal(t, "Ann Lee", s.User.FullName())

	c := s.Clone()
	c.User.FirstName = "Bob"
	assert.Equal(t, "Ann", s.User.FirstName)

	assert.False(t, Session{Status: SessionAuthenticated, Token: "t"}.Authenticated())
	assert.Equal(t, "Confirmation", StepConfirmation.String())
	assert.Equal(t, "Unknown", Step(9).String())
	assert.True(t, Selection{HotelID: "h"}.Empty())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("guest").Valid())
}
