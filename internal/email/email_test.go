package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/hotelportal/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	msg, ok := Render(kafka.PortalEvent{
		Type:      kafka.EventBookingConfirmed,
		Email:     "ann@example.com",
		Name:      "Ann Lee",
		BookingID: "b-42",
		HotelID:   "h1",
		RoomID:    "r1",
		Status:    "confirmed",
		CheckIn:   "2026-05-01",
		CheckOut:  "2026-05-04",
		Total:     355,
	})
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", msg.To)
	assert.Equal(t, "Booking b-42 confirmed", msg.Subject)
	assert.Contains(t, msg.Body, "Ann Lee")
	assert.Contains(t, msg.Body, "355.00")

	_, ok = Render(kafka.PortalEvent{Type: kafka.EventSessionEnded, Email: "ann@example.com"})
	assert.False(t, ok)

	_, ok = Render(kafka.PortalEvent{Type: kafka.EventBookingConfirmed})
	assert.False(t, ok)
}

func TestSendHonoursContext(t *testing.T) {
	s := NewSender(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, kafka.PortalEvent{Type: kafka.EventBookingConfirmed, Email: "ann@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, s.Send(ctx, kafka.PortalEvent{Type: kafka.EventSessionEnded}))
}
