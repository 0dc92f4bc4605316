// Package booking implements the sandbox API's reservation endpoint.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/service/cost"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid booking request")

// totalTolerance absorbs float noise between the client's and server's
// cost calculation.
const totalTolerance = 0.01

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID string, req domain.BookingRequest) (*repository.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]repository.Booking, error)
}

type BookingService struct {
	bookings   repository.BookingRepository
	hotels     repository.HotelRepository
	calculator cost.Calculator
	log        *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithCalculator(c cost.Calculator) BookingServiceOption {
	return func(s *BookingService) { s.calculator = c }
}

func WithLogger(log *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(bookings repository.BookingRepository, hotels repository.HotelRepository, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		bookings:   bookings,
		hotels:     hotels,
		calculator: cost.Default,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ BookingUseCase = (*BookingService)(nil)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// CreateBooking validates req, takes inventory and records a confirmed
// booking. Inventory is returned if the booking cannot be stored.
func (s *BookingService) CreateBooking(ctx context.Context, userID string, req domain.BookingRequest) (*repository.Booking, error) {
	checkIn, checkOut, err := parseStay(req)
	if err != nil {
		return nil, err
	}
	g := req.GuestDetails
	if strings.TrimSpace(g.FirstName) == "" || strings.TrimSpace(g.LastName) == "" || !strings.Contains(g.Email, "@") || strings.TrimSpace(g.Phone) == "" {
		return nil, invalid("guest details are incomplete")
	}

	hotel, err := s.hotels.Get(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	room, ok := hotel.Room(req.RoomID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if room.Capacity > 0 && req.Guests > room.Capacity*req.Rooms {
		return nil, invalid("room holds at most %d guests", room.Capacity*req.Rooms)
	}

	expected := s.calculator.Compute(room.NightlyPrice(), cost.Nights(checkIn, checkOut), req.Rooms).Total
	if math.Abs(expected-req.TotalAmount) > totalTolerance {
		return nil, invalid("total %.2f does not match current price %.2f", req.TotalAmount, expected)
	}

	if err := s.hotels.Reserve(ctx, req.HotelID, req.RoomID, req.Rooms); err != nil {
		return nil, err
	}

	booking := &repository.Booking{
		UserID:  userID,
		Request: req,
		Status:  domain.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if relErr := s.hotels.Release(ctx, req.HotelID, req.RoomID, req.Rooms); relErr != nil {
			s.log.Error("failed to release inventory", zap.String("hotel_id", req.HotelID), zap.Error(relErr))
		}
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", userID),
		zap.String("hotel_id", req.HotelID),
		zap.Int("rooms", req.Rooms),
	)
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]repository.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func parseStay(req domain.BookingRequest) (time.Time, time.Time, error) {
	if req.HotelID == "" || req.RoomID == "" {
		return time.Time{}, time.Time{}, invalid("hotel and room are required")
	}
	checkIn, err := time.Parse(domain.DateLayout, req.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("checkIn must be YYYY-MM-DD")
	}
	checkOut, err := time.Parse(domain.DateLayout, req.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("checkOut must be YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, invalid("checkOut must be after checkIn")
	}
	if req.Guests < 1 || req.Rooms < 1 {
		return time.Time{}, time.Time{}, invalid("guests and rooms must be at least 1")
	}
	return checkIn, checkOut, nil
}
