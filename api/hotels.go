package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	hotels repository.HotelRepository
}

type hotelResponse struct {
	Hotel *domain.Hotel `json:"hotel"`
}

func NewHotelHandler(hotels repository.HotelRepository) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("/hotels/:hotelId", h.get)
}

func (h *HotelHandler) get(c *gin.Context) {
	hotel, err := h.hotels.Get(c.Request.Context(), c.Param("hotelId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fail(c, http.StatusNotFound, "Hotel not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Could not load hotel")
		return
	}
	respond(c, http.StatusOK, hotelResponse{Hotel: hotel}, "")
}
