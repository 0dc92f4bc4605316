// Package wizard drives one reservation through StayDetails, GuestInfo,
// Payment and Confirmation.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Domenick1991/hotelportal/internal/apiclient"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/kafka"
	"github.com/Domenick1991/hotelportal/internal/service/catalog"
	"github.com/Domenick1991/hotelportal/internal/service/cost"
	"go.uber.org/zap"
)

const DefaultHandoffDelay = 3 * time.Second

var (
	ErrSubmitting = errors.New("booking submission in progress")
	ErrNoBack     = errors.New("cannot go back from this step")
	ErrNoPrompt   = errors.New("no booking is awaiting confirmation")
	ErrClosed     = errors.New("booking wizard was closed")
)

type BookingAPI interface {
	CreateBooking(ctx context.Context, creds apiclient.CredentialSource, req domain.BookingRequest) (*domain.BookingConfirmation, error)
}

// SessionSource is the slice of the session manager the wizard needs.
type SessionSource interface {
	Session() domain.Session
	Credentials() apiclient.CredentialSource
}

// Navigator receives the confirmation once the hand-off delay has passed.
type Navigator interface {
	BookingConfirmed(conf domain.BookingConfirmation)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Deps struct {
	Session       SessionSource
	Catalog       catalog.CatalogUseCase
	Bookings      BookingAPI
	Navigator     Navigator
	Calculator    cost.Calculator
	HandoffDelay  time.Duration
	SubmitTimeout time.Duration
	Producer      Producer
	EventsTopic   string
	Logger        *zap.Logger
	Schedule      Scheduler
}

type SubmitResult struct {
	Success      bool
	Message      string
	Confirmation *domain.BookingConfirmation
}

// View is a read-only snapshot for rendering. Payment details are masked.
type View struct {
	Step         domain.Step
	Hotel        domain.Hotel
	Room         domain.Room
	Draft        domain.BookingDraft
	Cost         domain.CostBreakdown
	PromptOpen   bool
	Submitting   bool
	Message      string
	Confirmation *domain.BookingConfirmation
	CanGoBack    bool
}

type Wizard struct {
	deps  Deps
	log   *zap.Logger
	hotel domain.Hotel
	room  domain.Room

	mu           sync.Mutex
	draft        domain.BookingDraft
	stage        stage
	costs        domain.CostBreakdown
	prompt       bool
	submitting   bool
	message      string
	confirmation *domain.BookingConfirmation
	handoff      Timer
	handedOff    bool
	closed       bool
}

// Open resolves the selection and starts a wizard at StayDetails. A missing
// or unknown hotel/room is a not_found error and no wizard is returned.
func Open(ctx context.Context, deps Deps, sel domain.Selection) (*Wizard, error) {
	if deps.Session == nil || deps.Catalog == nil || deps.Bookings == nil {
		return nil, errors.New("wizard: session, catalog and bookings are required")
	}
	if sel.Empty() {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "No hotel or room selected"}
	}
	if deps.Calculator == (cost.Calculator{}) {
		deps.Calculator = cost.Default
	}
	if deps.HandoffDelay <= 0 {
		deps.HandoffDelay = DefaultHandoffDelay
	}
	if deps.Schedule == nil {
		deps.Schedule = afterFunc
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	hotel, err := deps.Catalog.GetHotel(ctx, deps.Session.Credentials(), sel.HotelID)
	if err != nil {
		return nil, err
	}
	room, err := catalog.FindRoom(hotel, sel.RoomID)
	if err != nil {
		return nil, err
	}

	w := &Wizard{
		deps:  deps,
		log:   deps.Logger.With(zap.String("hotel_id", sel.HotelID), zap.String("room_id", sel.RoomID)),
		hotel: *hotel,
		room:  room,
		stage: stayStage{},
		draft: domain.BookingDraft{
			Selection: sel,
			Stay:      domain.StayDetails{Guests: 1, Rooms: 1},
		},
	}
	if u := deps.Session.Session().User; u != nil {
		w.draft.Guest = domain.GuestDetails{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone}
	}
	w.recompute()
	return w, nil
}

func (w *Wizard) Step() domain.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage.step()
}

func (w *Wizard) Cost() domain.CostBreakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.costs
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	draft := w.draft
	draft.Payment = draft.Payment.Masked()
	var conf *domain.BookingConfirmation
	if w.confirmation != nil {
		c := *w.confirmation
		conf = &c
	}
	return View{
		Step:         w.stage.step(),
		Hotel:        w.hotel,
		Room:         w.room,
		Draft:        draft,
		Cost:         w.costs,
		PromptOpen:   w.prompt,
		Submitting:   w.submitting,
		Message:      w.message,
		Confirmation: conf,
		CanGoBack:    w.stage.prev() != nil && !w.submitting,
	}
}

// Payment returns the unmasked payment details so a form can be refilled.
func (w *Wizard) Payment() domain.PaymentDetails {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Payment
}

func (w *Wizard) UpdateStay(stay domain.StayDetails) error {
	return w.mutate(func(d *domain.BookingDraft) { d.Stay = stay })
}

func (w *Wizard) UpdateGuest(guest domain.GuestDetails) error {
	return w.mutate(func(d *domain.BookingDraft) { d.Guest = guest })
}

func (w *Wizard) UpdatePayment(payment domain.PaymentDetails) error {
	return w.mutate(func(d *domain.BookingDraft) { d.Payment = payment })
}

func (w *Wizard) mutate(fn func(*domain.BookingDraft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	fn(&w.draft)
	w.recompute()
	return nil
}

func (w *Wizard) editableLocked() error {
	switch {
	case w.closed:
		return ErrClosed
	case w.stage.step() == domain.StepConfirmation:
		return domain.ErrReadOnly
	case w.submitting:
		return ErrSubmitting
	}
	return nil
}

// Next validates the current step and advances. From Payment it opens the
// confirmation prompt instead; nothing is submitted until Confirm.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	if err := w.stage.guard(w.draft, w.room); err != nil {
		return err
	}
	w.message = ""
	if w.stage.step() == domain.StepPayment {
		w.prompt = true
		return nil
	}
	w.stage = w.stage.next()
	w.recompute()
	return nil
}

// Back moves one step back without re-validating.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmitting
	}
	prev := w.stage.prev()
	if prev == nil {
		return ErrNoBack
	}
	w.prompt = false
	w.stage = prev
	w.recompute()
	return nil
}

// Dismiss closes the confirmation prompt without submitting.
func (w *Wizard) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.submitting {
		w.prompt = false
	}
}

// Confirm submits the booking. It only runs while the prompt is open and no
// other submission is outstanding.
func (w *Wizard) Confirm(ctx context.Context) SubmitResult {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return SubmitResult{Message: err.Error()}
	}
	if w.stage.step() != domain.StepPayment || !w.prompt {
		w.mu.Unlock()
		return SubmitResult{Message: ErrNoPrompt.Error()}
	}
	if err := w.validateAllLocked(); err != nil {
		msg := domain.Message(err)
		w.prompt = false
		w.message = msg
		w.mu.Unlock()
		return SubmitResult{Message: msg}
	}
	session := w.deps.Session.Session()
	if !session.Authenticated() {
		w.prompt = false
		w.message = "Please log in to complete your booking"
		w.mu.Unlock()
		return SubmitResult{Message: "Please log in to complete your booking"}
	}
	req := w.requestLocked()
	w.submitting = true
	w.message = ""
	w.mu.Unlock()

	// The timeout bounds only the booking call; the side effects after a
	// success run on the caller's ctx.
	submitCtx := ctx
	if w.deps.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, w.deps.SubmitTimeout)
		defer cancel()
	}
	conf, err := w.deps.Bookings.CreateBooking(submitCtx, w.deps.Session.Credentials(), req)
	if err == nil && conf == nil {
		err = &domain.Error{Kind: domain.KindServer, Message: "booking response had no confirmation"}
	}

	w.mu.Lock()
	w.submitting = false
	if w.closed {
		w.mu.Unlock()
		w.log.Debug("dropping booking result for closed wizard")
		if err != nil {
			return SubmitResult{Message: domain.Message(err)}
		}
		return SubmitResult{Success: true, Confirmation: conf}
	}
	if err != nil {
		msg := domain.Message(err)
		w.prompt = false
		w.message = msg
		w.mu.Unlock()
		w.log.Info("booking submission failed", zap.String("reason", msg), zap.String("kind", string(domain.KindOf(err))))
		return SubmitResult{Message: msg}
	}

	w.confirmation = conf
	w.draft.Payment = domain.PaymentDetails{}
	w.stage = confirmationStage{}
	w.prompt = false
	w.message = "Booking confirmed"
	w.scheduleHandoffLocked()
	result := *conf
	w.mu.Unlock()

	w.log.Info("booking confirmed", zap.String("booking_id", conf.ID), zap.Float64("total", req.TotalAmount))
	w.deps.Catalog.Invalidate(ctx, req.HotelID)
	w.publish(ctx, req, session.User, result)
	return SubmitResult{Success: true, Message: "Booking confirmed", Confirmation: &result}
}

// Close abandons the wizard. A pending hand-off is defused and late
// submission results are ignored.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.handoff != nil {
		w.handoff.Stop()
	}
}

func (w *Wizard) scheduleHandoffLocked() {
	if w.deps.Navigator == nil || w.handoff != nil || w.handedOff {
		return
	}
	w.handoff = w.deps.Schedule(w.deps.HandoffDelay, w.fireHandoff)
}

func (w *Wizard) fireHandoff() {
	w.mu.Lock()
	if w.closed || w.handedOff || w.confirmation == nil {
		w.mu.Unlock()
		return
	}
	w.handedOff = true
	conf := *w.confirmation
	w.mu.Unlock()

	w.deps.Navigator.BookingConfirmed(conf)
}

func (w *Wizard) validateAllLocked() error {
	for _, s := range []stage{stayStage{}, guestStage{}, paymentStage{}} {
		if err := s.guard(w.draft, w.room); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) recompute() {
	w.costs = w.deps.Calculator.ForStay(w.room.NightlyPrice(), w.draft.Stay)
}

func (w *Wizard) requestLocked() domain.BookingRequest {
	d := w.draft
	return domain.BookingRequest{
		HotelID:         d.Selection.HotelID,
		RoomID:          d.Selection.RoomID,
		CheckIn:         d.Stay.CheckIn.Format(domain.DateLayout),
		CheckOut:        d.Stay.CheckOut.Format(domain.DateLayout),
		Guests:          d.Stay.Guests,
		Rooms:           d.Stay.Rooms,
		SpecialRequests: d.Stay.SpecialRequests,
		GuestDetails:    d.Guest,
		TotalAmount:     w.costs.Total,
	}
}

func (w *Wizard) publish(ctx context.Context, req domain.BookingRequest, user *domain.User, conf domain.BookingConfirmation) {
	if w.deps.Producer == nil || w.deps.EventsTopic == "" {
		return
	}
	event := kafka.PortalEvent{
		Type:       kafka.EventBookingConfirmed,
		Email:      req.GuestDetails.Email,
		Name:       req.GuestDetails.FirstName + " " + req.GuestDetails.LastName,
		BookingID:  conf.ID,
		HotelID:    req.HotelID,
		RoomID:     req.RoomID,
		Status:     string(conf.Status),
		Total:      req.TotalAmount,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		OccurredAt: time.Now().UTC(),
	}
	if user != nil {
		event.UserID = user.ID
	}
	if err := w.deps.Producer.Publish(ctx, w.deps.EventsTopic, conf.ID, event); err != nil {
		w.log.Warn("failed to publish booking event", zap.String("booking_id", conf.ID), zap.Error(err))
	}
}
