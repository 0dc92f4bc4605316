package domain

import "time"

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

type Step int

const (
	StepStayDetails Step = iota
	StepGuestInfo
	StepPayment
	StepConfirmation
)

var stepNames = [...]string{"StayDetails", "GuestInfo", "Payment", "Confirmation"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "Unknown"
	}
	return stepNames[s]
}

type Selection struct {
	HotelID string `json:"hotelId"`
	RoomID  string `json:"roomId"`
}

func (s Selection) Empty() bool {
	return s.HotelID == "" || s.RoomID == ""
}

type StayDetails struct {
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Rooms           int
	SpecialRequests string
}

type GuestDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type PaymentDetails struct {
	CardNumber string
	Expiry     string
	CVV        string
	NameOnCard string
}

// Masked hides everything except the last four card digits and drops the CVV.
func (p PaymentDetails) Masked() PaymentDetails {
	out := PaymentDetails{Expiry: p.Expiry, NameOnCard: p.NameOnCard}
	if n := len(p.CardNumber); n > 4 {
		out.CardNumber = "**** " + p.CardNumber[n-4:]
	} else {
		out.CardNumber = p.CardNumber
	}
	if p.CVV != "" {
		out.CVV = "***"
	}
	return out
}

type CostBreakdown struct {
	Nights       int     `json:"nights"`
	NightlyPrice float64 `json:"nightlyPrice"`
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	ServiceFee   float64 `json:"serviceFee"`
	Total        float64 `json:"total"`
}

// BookingDraft is the in-progress reservation the wizard collects.
type BookingDraft struct {
	Selection Selection
	Stay      StayDetails
	Guest     GuestDetails
	Payment   PaymentDetails
}

type BookingRequest struct {
	HotelID         string       `json:"hotelId"`
	RoomID          string       `json:"roomId"`
	CheckIn         string       `json:"checkIn"`
	CheckOut        string       `json:"checkOut"`
	Guests          int          `json:"guests"`
	Rooms           int          `json:"rooms"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	GuestDetails    GuestDetails `json:"guestDetails"`
	TotalAmount     float64      `json:"totalAmount"`
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type BookingConfirmation struct {
	ID          string        `json:"id"`
	Status      BookingStatus `json:"status"`
	HotelID     string        `json:"hotelId,omitempty"`
	RoomID      string        `json:"roomId,omitempty"`
	TotalAmount float64       `json:"totalAmount,omitempty"`
}
