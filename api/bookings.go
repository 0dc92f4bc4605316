package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *zap.Logger
}

type bookingResponse struct {
	Booking domain.BookingConfirmation `json:"booking"`
}

type bookingListResponse struct {
	Bookings []domain.BookingConfirmation `json:"bookings"`
}

func NewBookingHandler(service booking.BookingUseCase, log *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings", h.list)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req domain.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid booking payload")
		return
	}
	user := currentUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRequest):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNoInventory):
			fail(c, http.StatusConflict, "Room no longer available")
		case errors.Is(err, repository.ErrNotFound):
			fail(c, http.StatusNotFound, "Hotel or room not found")
		default:
			h.log.Error("create booking failed", zap.String("user_id", user.ID), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Booking failed, please try again")
		}
		return
	}
	respond(c, http.StatusCreated, bookingResponse{Booking: b.Confirmation()}, "Booking confirmed")
}

func (h *BookingHandler) list(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("list bookings failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Could not load bookings")
		return
	}
	out := make([]domain.BookingConfirmation, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Confirmation())
	}
	respond(c, http.StatusOK, bookingListResponse{Bookings: out}, "")
}
