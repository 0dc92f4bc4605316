package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/bootstrap"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/service/session"
	"github.com/Domenick1991/hotelportal/internal/service/wizard"
)

type app struct {
	portal *bootstrap.Portal
	cfg    *config.Config
	in     *bufio.Reader
	out    io.Writer
}

func newApp(portal *bootstrap.Portal, cfg *config.Config, in io.Reader, out io.Writer) *app {
	return &app{portal: portal, cfg: cfg, in: bufio.NewReader(in), out: out}
}

func (a *app) run(ctx context.Context, cmd string, args []string) int {
	sess := a.portal.Session
	if res := sess.Initialize(ctx); !res.Success && res.Message != "" {
		fmt.Fprintf(a.out, "note: %s\n", res.Message)
	}

	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "whoami":
		return a.whoami()
	case "logout":
		return a.report(sess.Logout(ctx))
	case "register":
		return a.register(ctx, args)
	case "verify":
		fl := flag.NewFlagSet("verify", flag.ContinueOnError)
		token := fl.String("token", "", "verification token")
		if fl.Parse(args) != nil || *token == "" {
			return 2
		}
		return a.report(sess.VerifyEmail(ctx, *token))
	case "forgot":
		fl := flag.NewFlagSet("forgot", flag.ContinueOnError)
		email := fl.String("email", "", "account email")
		if fl.Parse(args) != nil || *email == "" {
			return 2
		}
		return a.report(sess.ForgotPassword(ctx, *email))
	case "reset":
		fl := flag.NewFlagSet("reset", flag.ContinueOnError)
		token := fl.String("token", "", "reset token")
		password := fl.String("password", "", "new password")
		if fl.Parse(args) != nil || *token == "" || *password == "" {
			return 2
		}
		return a.report(sess.ResetPassword(ctx, *token, *password))
	case "book":
		return a.book(ctx, args)
	default:
		fmt.Fprint(a.out, usage)
		return 2
	}
}

func (a *app) report(res session.Result) int {
	if res.Message != "" {
		fmt.Fprintln(a.out, res.Message)
	}
	if !res.Success {
		return 1
	}
	return 0
}

func (a *app) login(ctx context.Context, args []string) int {
	fl := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fl.String("email", "", "account email")
	password := fl.String("password", "", "account password")
	if fl.Parse(args) != nil || *email == "" || *password == "" {
		return 2
	}
	code := a.report(a.portal.Session.Login(ctx, domain.Credentials{Email: *email, Password: *password}))
	if code == 0 {
		return a.whoami()
	}
	return code
}

func (a *app) whoami() int {
	s := a.portal.Session.Session()
	if !s.Authenticated() {
		fmt.Fprintln(a.out, "not logged in")
		return 1
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", s.User.FullName(), s.User.Email, s.User.Role)
	return 0
}

func (a *app) register(ctx context.Context, args []string) int {
	fl := flag.NewFlagSet("register", flag.ContinueOnError)
	var form domain.RegistrationForm
	var role string
	fl.StringVar(&form.FirstName, "first", "", "first name")
	fl.StringVar(&form.LastName, "last", "", "last name")
	fl.StringVar(&form.Email, "email", "", "email")
	fl.StringVar(&form.Password, "password", "", "password")
	fl.StringVar(&form.Phone, "phone", "", "phone")
	fl.StringVar(&role, "role", "customer", "customer or hotel")
	if fl.Parse(args) != nil {
		return 2
	}
	form.Role = domain.Role(role)
	return a.report(a.portal.Session.Register(ctx, form))
}

type bookFlags struct {
	hotel, room       string
	checkIn, checkOut string
	guests, rooms     int
	requests          string
	guest             domain.GuestDetails
	payment           domain.PaymentDetails
	yes               bool
}

func parseBookFlags(args []string) (bookFlags, error) {
	var f bookFlags
	fl := flag.NewFlagSet("book", flag.ContinueOnError)
	fl.StringVar(&f.hotel, "hotel", "", "hotel id")
	fl.StringVar(&f.room, "room", "", "room id")
	fl.StringVar(&f.checkIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	fl.StringVar(&f.checkOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	fl.IntVar(&f.guests, "guests", 1, "number of guests")
	fl.IntVar(&f.rooms, "rooms", 1, "number of rooms")
	fl.StringVar(&f.requests, "requests", "", "special requests")
	fl.StringVar(&f.guest.FirstName, "first", "", "guest first name")
	fl.StringVar(&f.guest.LastName, "last", "", "guest last name")
	fl.StringVar(&f.guest.Email, "email", "", "guest email")
	fl.StringVar(&f.guest.Phone, "phone", "", "guest phone")
	fl.StringVar(&f.payment.CardNumber, "card", "", "card number")
	fl.StringVar(&f.payment.Expiry, "expiry", "", "card expiry (MM/YY)")
	fl.StringVar(&f.payment.CVV, "cvv", "", "card security code")
	fl.StringVar(&f.payment.NameOnCard, "name", "", "name on card")
	fl.BoolVar(&f.yes, "yes", false, "confirm without prompting")
	err := fl.Parse(args)
	return f, err
}

func (f bookFlags) stay() (domain.StayDetails, error) {
	stay := domain.StayDetails{Guests: f.guests, Rooms: f.rooms, SpecialRequests: f.requests}
	var err error
	if f.checkIn != "" {
		if stay.CheckIn, err = time.Parse(domain.DateLayout, f.checkIn); err != nil {
			return stay, fmt.Errorf("check-in: %w", err)
		}
	}
	if f.checkOut != "" {
		if stay.CheckOut, err = time.Parse(domain.DateLayout, f.checkOut); err != nil {
			return stay, fmt.Errorf("check-out: %w", err)
		}
	}
	return stay, nil
}

// mergeGuest keeps prefilled fields the flags leave empty.
func mergeGuest(base, override domain.GuestDetails) domain.GuestDetails {
	pick := func(a, b string) string {
		if strings.TrimSpace(b) != "" {
			return b
		}
		return a
	}
	return domain.GuestDetails{
		FirstName: pick(base.FirstName, override.FirstName),
		LastName:  pick(base.LastName, override.LastName),
		Email:     pick(base.Email, override.Email),
		Phone:     pick(base.Phone, override.Phone),
	}
}

// handoff waits for the wizard to pass the confirmation on.
type handoff chan domain.BookingConfirmation

func (h handoff) BookingConfirmed(c domain.BookingConfirmation) {
	select {
	case h <- c:
	default:
	}
}

func (a *app) book(ctx context.Context, args []string) int {
	f, err := parseBookFlags(args)
	if err != nil {
		return 2
	}
	stay, err := f.stay()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return 2
	}
	if !a.portal.Session.Session().Authenticated() {
		fmt.Fprintln(a.out, "please log in first")
		return 1
	}

	done := make(handoff, 1)
	w, err := a.portal.OpenWizard(ctx, domain.Selection{HotelID: f.hotel, RoomID: f.room}, done)
	if err != nil {
		fmt.Fprintln(a.out, domain.Message(err))
		return 1
	}
	defer w.Close()

	v := w.View()
	fmt.Fprintf(a.out, "%s, %s: %s\n", v.Hotel.Name, v.Hotel.City, v.Room.Name)

	steps := []func() error{
		func() error { return w.UpdateStay(stay) },
		w.Next,
		func() error { return w.UpdateGuest(mergeGuest(w.View().Draft.Guest, f.guest)) },
		w.Next,
		func() error { return w.UpdatePayment(f.payment) },
		w.Next,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			fmt.Fprintf(a.out, "%s\n", domain.Message(err))
			return 1
		}
	}

	a.printCost(w.Cost())
	if !f.yes && !a.ask("Confirm booking? [y/N] ") {
		w.Dismiss()
		fmt.Fprintln(a.out, "booking not submitted")
		return 1
	}

	res := w.Confirm(ctx)
	if !res.Success {
		fmt.Fprintln(a.out, res.Message)
		return 1
	}
	fmt.Fprintf(a.out, "%s, reference %s\n", res.Message, res.Confirmation.ID)

	select {
	case conf := <-done:
		fmt.Fprintf(a.out, "booking %s is %s\n", conf.ID, conf.Status)
	case <-time.After(a.cfg.Booking.HandoffDelay() + time.Second):
	case <-ctx.Done():
	}
	return 0
}

func (a *app) printCost(c domain.CostBreakdown) {
	fmt.Fprintf(a.out, "  %d night(s) x %.2f\n", c.Nights, c.NightlyPrice)
	fmt.Fprintf(a.out, "  subtotal     %10.2f\n", c.Subtotal)
	fmt.Fprintf(a.out, "  tax          %10.2f\n", c.Tax)
	fmt.Fprintf(a.out, "  service fee  %10.2f\n", c.ServiceFee)
	fmt.Fprintf(a.out, "  total        %10.2f\n", c.Total)
}

func (a *app) ask(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

var _ wizard.Navigator = handoff(nil)
