package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/apiclient"
	"github.com/Domenick1991/hotelportal/internal/cache"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/kafka"
	"github.com/Domenick1991/hotelportal/internal/logger"
	"github.com/Domenick1991/hotelportal/internal/service/catalog"
	"github.com/Domenick1991/hotelportal/internal/service/cost"
	"github.com/Domenick1991/hotelportal/internal/service/session"
	"github.com/Domenick1991/hotelportal/internal/service/wizard"
	"github.com/Domenick1991/hotelportal/internal/tokenstore"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Receipts depend on booking_confirmed, so it gets more than one attempt.
const bookingPublishAttempts = 3

// Portal is the client side composition root: one session manager and the
// collaborators every booking wizard shares.
type Portal struct {
	Session  *session.Manager
	Catalog  *catalog.CatalogService
	Customer *apiclient.CustomerAPI

	cfg           *config.Config
	log           *zap.Logger
	rdb           *redis.Client
	producer      *kafka.Producer
	schedule      wizard.Scheduler
	storeOverride tokenstore.Store
}

type PortalOption func(*Portal)

// WithStore overrides the configured token store.
func WithStore(store tokenstore.Store) PortalOption {
	return func(p *Portal) { p.storeOverride = store }
}

// WithScheduler replaces time.AfterFunc for the wizard hand-off.
func WithScheduler(s wizard.Scheduler) PortalOption {
	return func(p *Portal) { p.schedule = s }
}

func NewPortal(cfg *config.Config, log *zap.Logger, opts ...PortalOption) (*Portal, error) {
	log = logger.OrNop(log)
	p := &Portal{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(p)
	}

	if cfg.Redis.Enabled() {
		p.rdb = cache.NewRedisClient(cfg.Redis)
	}

	store := p.storeOverride
	if store == nil {
		var err error
		if store, err = tokenstore.New(cfg.Session, p.rdb); err != nil {
			p.Close()
			return nil, fmt.Errorf("token store: %w", err)
		}
	}

	client := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout()),
		apiclient.WithRateLimit(cfg.API.RatePerSecond, cfg.API.RateBurst),
		apiclient.WithLogger(log.Named("apiclient")),
	)
	p.Customer = apiclient.NewCustomerAPI(client)

	sessionOpts := []session.Option{session.WithLogger(log.Named("session"))}
	if cfg.Kafka.Enabled() {
		p.producer = kafka.NewProducer(cfg.Kafka.Brokers, log.Named("kafka"))
		sessionOpts = append(sessionOpts, session.WithEvents(p.producer, cfg.Kafka.EventsTopic))
	}
	p.Session = session.NewManager(apiclient.NewAuthAPI(client), store, sessionOpts...)

	// A nil *RedisCache must not reach the interface.
	if p.rdb != nil {
		p.Catalog = catalog.NewCatalogService(p.Customer, cache.NewRedisCache(p.rdb, cfg.Booking.HotelCacheTTLDuration()), log.Named("catalog"))
	} else {
		p.Catalog = catalog.NewCatalogService(p.Customer, nil, log.Named("catalog"))
	}
	return p, nil
}

// OpenWizard starts a booking for sel. nav receives the confirmation after
// the hand-off delay and may be nil.
func (p *Portal) OpenWizard(ctx context.Context, sel domain.Selection, nav wizard.Navigator) (*wizard.Wizard, error) {
	deps := wizard.Deps{
		Session:       p.Session,
		Catalog:       p.Catalog,
		Bookings:      p.Customer,
		Navigator:     nav,
		Calculator:    cost.New(p.cfg.Booking.Tax(), p.cfg.Booking.Fee()),
		HandoffDelay:  p.cfg.Booking.HandoffDelay(),
		SubmitTimeout: time.Duration(p.cfg.Booking.SubmitTimeoutMs) * time.Millisecond,
		Logger:        p.log.Named("wizard"),
		Schedule:      p.schedule,
	}
	if p.producer != nil {
		deps.Producer = kafka.Retrying{Producer: p.producer, Attempts: bookingPublishAttempts}
		deps.EventsTopic = p.cfg.Kafka.EventsTopic
	}
	return wizard.Open(ctx, deps, sel)
}

func (p *Portal) Close() error {
	var errs []error
	if p.producer != nil {
		errs = append(errs, p.producer.Close())
	}
	if p.rdb != nil {
		errs = append(errs, p.rdb.Close())
	}
	return errors.Join(errs...)
}
