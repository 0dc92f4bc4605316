package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/hotelportal/api"
	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/logger"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/security"
	"github.com/Domenick1991/hotelportal/internal/service/account"
	"github.com/Domenick1991/hotelportal/internal/service/booking"
	"github.com/Domenick1991/hotelportal/internal/service/cost"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Sandbox is the in-memory REST backend with its repositories exposed for
// tests.
type Sandbox struct {
	Handler  *gin.Engine
	Accounts *account.AccountService
	Hotels   *repository.MemoryHotelRepository
	Bookings *repository.MemoryBookingRepository
}

// NewSandbox builds the router and seeds users and hotels from cfg.
func NewSandbox(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Sandbox, error) {
	log = logger.OrNop(log)
	sc := cfg.Sandbox

	accounts := account.NewAccountService(
		repository.NewUserRepository(),
		repository.NewTokenRepository(),
		security.NewIssuer(sc.JWTSecret, sc.TokenTTL()),
		account.WithBcryptCost(sc.BcryptCost),
		account.WithLogger(log.Named("account")),
	)
	if err := accounts.Seed(ctx, sc.Users); err != nil {
		return nil, err
	}

	hotels := repository.NewHotelRepository(seedHotels(sc.Hotels)...)
	bookings := repository.NewBookingRepository()
	bookingSvc := booking.NewBookingService(bookings, hotels,
		booking.WithCalculator(cost.New(cfg.Booking.Tax(), cfg.Booking.Fee())),
		booking.WithLogger(log.Named("booking")),
	)

	router := api.NewRouter(api.RouterDeps{
		Accounts:          accounts,
		Bookings:          bookingSvc,
		Hotels:            hotels,
		AllowedOrigins:    sc.AllowedOrigins,
		RequestsPerMinute: sc.RequestsPerMinute,
		Logger:            log.Named("http"),
	})

	if sc.SwaggerDir != "" {
		router.Static("/swagger", sc.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/sandbox.swagger.json"))))
	}

	return &Sandbox{Handler: router, Accounts: accounts, Hotels: hotels, Bookings: bookings}, nil
}

func seedHotels(seeds []config.SeedHotel) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(seeds))
	for _, h := range seeds {
		hotel := domain.Hotel{ID: h.ID, Name: h.Name, City: h.City, Address: h.Address, Rating: h.Rating}
		for _, r := range h.Rooms {
			room := domain.Room{ID: r.ID, Name: r.Name, Type: r.Type, Capacity: r.Capacity, Available: r.Available, Price: r.Price}
			if r.BasePrice > 0 {
				room.Pricing = &domain.RoomPricing{BasePrice: r.BasePrice}
			}
			hotel.Rooms = append(hotel.Rooms, room)
		}
		out = append(out, hotel)
	}
	return out
}

// RunSandbox serves the sandbox API and blocks until ctx is cancelled or the
// server fails.
func RunSandbox(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = logger.OrNop(log)
	sb, err := NewSandbox(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build sandbox: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Sandbox.Address,
		Handler:           sb.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("sandbox api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("sandbox api stopped")
		return nil
	}
}
