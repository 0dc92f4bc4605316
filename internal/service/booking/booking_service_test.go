package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *repository.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = "b-1"
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*repository.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]repository.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.Booking), args.Error(1)
}

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) Get(ctx context.Context, id string) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) Reserve(ctx context.Context, hotelID, roomID string, rooms int) error {
	return m.Called(ctx, hotelID, roomID, rooms).Error(0)
}

func (m *MockHotelRepository) Release(ctx context.Context, hotelID, roomID string, rooms int) error {
	return m.Called(ctx, hotelID, roomID, rooms).Error(0)
}

var hotel = &domain.Hotel{ID: "h1", Rooms: []domain.Room{{ID: "r1", Capacity: 2, Available: 1, Pricing: &domain.RoomPricing{BasePrice: 100}}}}

func validRequest() domain.BookingRequest {
	return domain.BookingRequest{
		HotelID:      "h1",
		RoomID:       "r1",
		CheckIn:      "2026-05-01",
		CheckOut:     "2026-05-04",
		Guests:       2,
		Rooms:        1,
		GuestDetails: domain.GuestDetails{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "555"},
		TotalAmount:  355,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	bookings := new(MockBookingRepository)
	hotels := new(MockHotelRepository)
	svc := NewBookingService(bookings, hotels)

	hotels.On("Get", mock.Anything, "h1").Return(hotel, nil)
	hotels.On("Reserve", mock.Anything, "h1", "r1", 1).Return(nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*repository.Booking")).Return(nil)

	b, err := svc.CreateBooking(context.Background(), "u1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "b-1", b.ID)
	assert.Equal(t, "u1", b.UserID)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	hotels.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.BookingRequest)
	}{
		{"missing room", func(r *domain.BookingRequest) { r.RoomID = "" }},
		{"bad date", func(r *domain.BookingRequest) { r.CheckIn = "05/01/2026" }},
		{"reversed dates", func(r *domain.BookingRequest) { r.CheckOut = "2026-04-30" }},
		{"zero rooms", func(r *domain.BookingRequest) { r.Rooms = 0 }},
		{"incomplete guest", func(r *domain.BookingRequest) { r.GuestDetails.Phone = "" }},
		{"over capacity", func(r *domain.BookingRequest) { r.Guests = 3 }},
		{"stale total", func(r *domain.BookingRequest) { r.TotalAmount = 300 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotels := new(MockHotelRepository)
			hotels.On("Get", mock.Anything, "h1").Return(hotel, nil).Maybe()
			svc := NewBookingService(new(MockBookingRepository), hotels)

			req := validRequest()
			tt.modify(&req)
			_, err := svc.CreateBooking(context.Background(), "u1", req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			hotels.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_NoInventory(t *testing.T) {
	hotels := new(MockHotelRepository)
	bookings := new(MockBookingRepository)
	svc := NewBookingService(bookings, hotels)

	hotels.On("Get", mock.Anything, "h1").Return(hotel, nil)
	hotels.On("Reserve", mock.Anything, "h1", "r1", 1).Return(repository.ErrNoInventory)

	_, err := svc.CreateBooking(context.Background(), "u1", validRequest())
	assert.ErrorIs(t, err, repository.ErrNoInventory)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_ReleasesOnStoreFailure(t *testing.T) {
	hotels := new(MockHotelRepository)
	bookings := new(MockBookingRepository)
	svc := NewBookingService(bookings, hotels)

	hotels.On("Get", mock.Anything, "h1").Return(hotel, nil)
	hotels.On("Reserve", mock.Anything, "h1", "r1", 1).Return(nil)
	hotels.On("Release", mock.Anything, "h1", "r1", 1).Return(nil).Once()
	bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.CreateBooking(context.Background(), "u1", validRequest())
	assert.EqualError(t, err, "disk full")
	hotels.AssertExpectations(t)
}

func TestCreateBooking_UnknownRoom(t *testing.T) {
	hotels := new(MockHotelRepository)
	svc := NewBookingService(new(MockBookingRepository), hotels)
	hotels.On("Get", mock.Anything, "h1").Return(hotel, nil)

	req := validRequest()
	req.RoomID = "r9"
	_, err := svc.CreateBooking(context.Background(), "u1", req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
