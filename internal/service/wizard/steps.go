package wizard

import (
	"strings"

	"github.com/Domenick1991/hotelportal/internal/domain"
)

// stage is one variant of the step union. Every method is defined for every
// variant, so the transition table has no holes.
type stage interface {
	step() domain.Step
	// guard must pass before next is taken.
	guard(d domain.BookingDraft, room domain.Room) error
	next() stage
	// prev returns nil when Back is not allowed.
	prev() stage
}

type (
	stayStage         struct{}
	guestStage        struct{}
	paymentStage      struct{}
	confirmationStage struct{}
)

func (stayStage) step() domain.Step { return domain.StepStayDetails }
func (stayStage) next() stage { return guestStage{} }
func (stayStage) prev() stage { return nil }

func (stayStage) guard(d domain.BookingDraft, room domain.Room) error {
	s := d.Stay
	var missing []string
	if s.CheckIn.IsZero() {
		missing = append(missing, "checkIn")
	}
	if s.CheckOut.IsZero() {
		missing = append(missing, "checkOut")
	}
	if s.Guests < 1 {
		missing = append(missing, "guests")
	}
	if s.Rooms < 1 {
		missing = append(missing, "rooms")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Step: domain.StepStayDetails, Fields: missing}
	}
	if !s.CheckOut.After(s.CheckIn) {
		return &domain.ValidationError{Step: domain.StepStayDetails, Fields: []string{"checkOut"}, Reason: "check-out must be after check-in"}
	}
	if room.Capacity > 0 && s.Guests > room.Capacity*s.Rooms {
		return &domain.ValidationError{Step: domain.StepStayDetails, Fields: []string{"guests"}, Reason: "too many guests for the selected rooms"}
	}
	return nil
}

func (guestStage) step() domain.Step { return domain.StepGuestInfo }
func (guestStage) next() stage { return paymentStage{} }
func (guestStage) prev() stage { return stayStage{} }

func (guestStage) guard(d domain.BookingDraft, _ domain.Room) error {
	g := d.Guest
	missing := blank(
		field{"firstName", g.FirstName},
		field{"lastName", g.LastName},
		field{"email", g.Email},
		field{"phone", g.Phone},
	)
	if len(missing) > 0 {
		return &domain.ValidationError{Step: domain.StepGuestInfo, Fields: missing}
	}
	if !strings.Contains(g.Email, "@") {
		return &domain.ValidationError{Step: domain.StepGuestInfo, Fields: []string{"email"}, Reason: "email address is malformed"}
	}
	return nil
}

func (paymentStage) step() domain.Step { return domain.StepPayment }
func (paymentStage) next() stage { return confirmationStage{} }
func (paymentStage) prev() stage { return guestStage{} }

func (paymentStage) guard(d domain.BookingDraft, _ domain.Room) error {
	p := d.Payment
	missing := blank(
		field{"cardNumber", p.CardNumber},
		field{"expiry", p.Expiry},
		field{"cvv", p.CVV},
		field{"nameOnCard", p.NameOnCard},
	)
	if len(missing) > 0 {
		return &domain.ValidationError{Step: domain.StepPayment, Fields: missing}
	}
	return nil
}

// Confirmation is terminal.
func (confirmationStage) step() domain.Step { return domain.StepConfirmation }
func (c confirmationStage) next() stage { return c }
func (confirmationStage) prev() stage { return nil }

func (confirmationStage) guard(domain.BookingDraft, domain.Room) error {
	return domain.ErrReadOnly
}

type field struct {
	name  string
	value string
}

func blank(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
