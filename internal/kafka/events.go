package kafka

import "time"

const (
	EventSessionStarted   = "session_started"
	EventSessionEnded     = "session_ended"
	EventBookingConfirmed = "booking_confirmed"
)

// PortalEvent is the message published for session and booking milestones.
// It never carries credentials or payment data.
type PortalEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	HotelID    string    `json:"hotel_id,omitempty"`
	RoomID     string    `json:"room_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Total      float64   `json:"total,omitempty"`
	CheckIn    string    `json:"check_in,omitempty"`
	CheckOut   string    `json:"check_out,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
