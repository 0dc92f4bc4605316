package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/google/uuid"
)

type Booking struct {
	ID        string
	UserID    string
	Request   domain.BookingRequest
	Status    domain.BookingStatus
	CreatedAt time.Time
}

func (b Booking) Confirmation() domain.BookingConfirmation {
	return domain.BookingConfirmation{
		ID:          b.ID,
		Status:      b.Status,
		HotelID:     b.Request.HotelID,
		RoomID:      b.Request.RoomID,
		TotalAmount: b.Request.TotalAmount,
	}
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
}

type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
}

func NewBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[string]Booking)}
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)

func (r *MemoryBookingRepository) Create(_ context.Context, booking *Booking) error {
	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()
	if booking.Status == "" {
		booking.Status = domain.BookingStatusConfirmed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

// ListByUser returns the user's bookings oldest first.
func (r *MemoryBookingRepository) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
