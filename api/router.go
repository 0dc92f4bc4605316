package api

import (
	"net/http"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/service/account"
	"github.com/Domenick1991/hotelportal/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Accounts          account.AccountUseCase
	Bookings          booking.BookingUseCase
	Hotels            repository.HotelRepository
	AllowedOrigins    []string
	RequestsPerMinute int
	Logger            *zap.Logger
}

// NewRouter mounts /api/auth and the customer-only /api/customer group.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), CORS(deps.AllowedOrigins), RateLimit(deps.RequestsPerMinute, log))

	r.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "ok"}, "")
	})

	NewAuthHandler(deps.Accounts, log).Register(r.Group("/api/auth"))

	customer := r.Group("/api/customer", RequireAuth(deps.Accounts), RequireRole(domain.RoleCustomer, domain.RoleAdmin))
	NewHotelHandler(deps.Hotels).Register(customer)
	NewBookingHandler(deps.Bookings, log).Register(customer)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Route not found")
	})
	return r
}
