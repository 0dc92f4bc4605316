package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/hotelportal/internal/domain"
)

// CustomerAPI wraps the /api/customer endpoints used by the booking flow.
type CustomerAPI struct {
	client *Client
}

func NewCustomerAPI(client *Client) *CustomerAPI {
	return &CustomerAPI{client: client}
}

type hotelPayload struct {
	Hotel *domain.Hotel `json:"hotel"`
}

type bookingPayload struct {
	Booking *domain.BookingConfirmation `json:"booking"`
}

func (a *CustomerAPI) GetHotel(ctx context.Context, creds CredentialSource, hotelID string) (*domain.Hotel, error) {
	var out hotelPayload
	if _, err := a.client.Do(ctx, http.MethodGet, "/api/customer/hotels/"+url.PathEscape(hotelID), creds, nil, &out); err != nil {
		return nil, err
	}
	if out.Hotel == nil {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "Hotel not found"}
	}
	return out.Hotel, nil
}

func (a *CustomerAPI) CreateBooking(ctx context.Context, creds CredentialSource, req domain.BookingRequest) (*domain.BookingConfirmation, error) {
	var out bookingPayload
	if _, err := a.client.Do(ctx, http.MethodPost, "/api/customer/bookings", creds, req, &out); err != nil {
		return nil, err
	}
	if out.Booking == nil || out.Booking.ID == "" {
		return nil, &domain.Error{Kind: domain.KindServer, Message: "booking response had no confirmation"}
	}
	return out.Booking, nil
}
