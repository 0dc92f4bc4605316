// Package email turns portal events into customer notifications. Delivery
// is a log line; there is no SMTP relay in the sandbox.
package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/hotelportal/internal/kafka"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

// Send delivers the notification for event. Events with no recipient or no
// template are ignored.
func (s *Sender) Send(ctx context.Context, event kafka.PortalEvent) error {
	msg, ok := Render(event)
	if !ok {
		s.log.Debug("no notification for event", zap.String("type", event.Type))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

func Render(event kafka.PortalEvent) (Message, bool) {
	if event.Email == "" {
		return Message{}, false
	}
	name := event.Name
	if name == "" {
		name = event.Email
	}

	switch event.Type {
	case kafka.EventBookingConfirmed:
		return Message{
			To:      event.Email,
			Subject: fmt.Sprintf("Booking %s confirmed", event.BookingID),
			Body: fmt.Sprintf("Hi %s, your stay at hotel %s (room %s) from %s to %s is %s. Total charged: %.2f.",
				name, event.HotelID, event.RoomID, event.CheckIn, event.CheckOut, event.Status, event.Total),
		}, true
	case kafka.EventSessionStarted:
		return Message{
			To:      event.Email,
			Subject: "New sign-in to your account",
			Body:    fmt.Sprintf("Hi %s, we noticed a new sign-in at %s.", name, event.OccurredAt.Format("2006-01-02 15:04 MST")),
		}, true
	}
	return Message{}, false
}
