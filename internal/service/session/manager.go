// Package session owns the client's authentication state. Manager is the
// only writer of the persisted token and the only source of credentials for
// outbound calls.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/hotelportal/internal/apiclient"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/kafka"
	"github.com/Domenick1991/hotelportal/internal/tokenstore"
	"go.uber.org/zap"
)

type AuthAPI interface {
	Me(ctx context.Context, creds apiclient.CredentialSource) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, form domain.RegistrationForm) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Result is what every operation reports instead of an error.
type Result struct {
	Success bool
	Message string
}

type Listener func(domain.Session)

type Manager struct {
	api         AuthAPI
	store       tokenstore.Store
	log         *zap.Logger
	producer    Producer
	eventsTopic string

	// persist orders store writes against the generation check so a
	// superseded call never writes the slot after its successor.
	persist sync.Mutex

	mu        sync.Mutex
	state     domain.Session
	gen       uint64
	listeners map[int]Listener
	nextID    int
}

type Option func(*Manager)

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithEvents publishes session_started/session_ended to topic.
func WithEvents(producer Producer, topic string) Option {
	return func(m *Manager) {
		m.producer = producer
		m.eventsTopic = topic
	}
}

func NewManager(api AuthAPI, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:       api,
		store:     store,
		log:       zap.NewNop(),
		state:     domain.Session{Status: domain.SessionUninitialized},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns a snapshot of the current state.
func (m *Manager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Token implements apiclient.CredentialSource. It always reflects the last
// resolved login, logout or initialize.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Credentials is the credential source callers pass to authenticated calls.
func (m *Manager) Credentials() apiclient.CredentialSource {
	return m
}

// Subscribe registers l to be called after every transition. The returned
// function removes it.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Initialize restores the session from the token store. A stored token that
// the identity call rejects is deleted and never retried.
func (m *Manager) Initialize(ctx context.Context) Result {
	token, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("could not read stored session", zap.Error(err))
		m.dispatch(m.begin(), anonymousEvent{message: "Stored session could not be read"})
		return Result{Message: "Stored session could not be read"}
	}
	if token == "" {
		m.dispatch(m.begin(), anonymousEvent{})
		return Result{Success: true}
	}

	gen := m.begin()
	m.dispatch(gen, loadingEvent{token: token})

	user, err := m.api.Me(ctx, apiclient.StaticToken(token))
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			m.log.Info("stored session rejected", zap.String("reason", domain.Message(err)))
		} else {
			m.log.Warn("could not verify stored session", zap.Error(err))
		}
		m.persist.Lock()
		if !m.current(gen) {
			m.persist.Unlock()
			return Result{Message: domain.Message(err)}
		}
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.log.Warn("could not clear stored session", zap.Error(clearErr))
		}
		m.persist.Unlock()
		m.dispatch(gen, anonymousEvent{})
		return Result{Message: domain.Message(err)}
	}

	if m.dispatch(gen, authenticatedEvent{user: *user, token: token}) {
		m.publish(ctx, kafka.EventSessionStarted, user)
	}
	return Result{Success: true}
}

func (m *Manager) Login(ctx context.Context, creds domain.Credentials) Result {
	gen := m.begin()

	m.mu.Lock()
	wasAuthenticated := m.state.Authenticated()
	m.mu.Unlock()
	if !wasAuthenticated {
		m.dispatch(gen, loadingEvent{})
	}

	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		msg := domain.Message(err)
		m.log.Info("login failed", zap.String("email", creds.Email), zap.String("reason", msg))
		m.dispatch(gen, loginFailedEvent{message: msg})
		return Result{Message: msg}
	}

	m.persist.Lock()
	if !m.current(gen) {
		m.persist.Unlock()
		return Result{Message: "Login was superseded"}
	}
	if err := m.store.Save(ctx, resp.Token); err != nil {
		// The session still works for this process; it just won't survive a restart.
		m.log.Warn("could not persist session token", zap.Error(err))
	}
	m.persist.Unlock()
	// A Logout that began during Save clears the slot once it gets the lock.
	if !m.dispatch(gen, authenticatedEvent{user: *resp.User, token: resp.Token}) {
		return Result{Message: "Login was superseded"}
	}
	m.log.Info("logged in", zap.String("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	m.publish(ctx, kafka.EventSessionStarted, resp.User)
	return Result{Success: true, Message: "Login successful"}
}

// Logout ends in anonymous unless a newer call supersedes it, and is safe
// to repeat.
func (m *Manager) Logout(ctx context.Context) Result {
	gen := m.begin()

	m.mu.Lock()
	var user *domain.User
	if m.state.User != nil {
		u := *m.state.User
		user = &u
	}
	m.mu.Unlock()

	// A newer Login owns the slot once it has begun.
	m.persist.Lock()
	if m.current(gen) {
		if err := m.store.Clear(ctx); err != nil {
			m.log.Warn("could not clear stored session", zap.Error(err))
		}
	}
	m.persist.Unlock()
	m.dispatch(gen, anonymousEvent{})
	if user != nil {
		m.publish(ctx, kafka.EventSessionEnded, user)
	}
	return Result{Success: true}
}

func (m *Manager) Register(ctx context.Context, form domain.RegistrationForm) Result {
	if form.Role == "" {
		form.Role = domain.RoleCustomer
	}
	return m.call(func() (string, error) { return m.api.Register(ctx, form) },
		"Registration successful. Please check your email to verify your account.")
}

func (m *Manager) VerifyEmail(ctx context.Context, token string) Result {
	return m.call(func() (string, error) { return m.api.VerifyEmail(ctx, token) },
		"Email verified. You can now log in.")
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) Result {
	return m.call(func() (string, error) { return m.api.ForgotPassword(ctx, email) },
		"If that email is registered, a reset link has been sent.")
}

func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) Result {
	return m.call(func() (string, error) { return m.api.ResetPassword(ctx, token, newPassword) },
		"Password reset. You can now log in with your new password.")
}

// call runs a one-shot request that never changes identity.
func (m *Manager) call(fn func() (string, error), fallback string) Result {
	msg, err := fn()
	if err != nil {
		msg = domain.Message(err)
		m.dispatchAlways(noticeEvent{message: msg})
		return Result{Message: msg}
	}
	if msg == "" {
		msg = fallback
	}
	return Result{Success: true, Message: msg}
}

// begin starts a new identity-changing operation. Results of older ones are
// dropped by dispatch.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen
}

func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen == gen
}

// dispatch applies ev if gen is still the latest operation and reports
// whether it did.
func (m *Manager) dispatch(gen uint64, ev event) bool {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return false
	}
	m.state = reduce(m.state, ev)
	snapshot, listeners := m.snapshotLocked()
	m.mu.Unlock()

	notify(snapshot, listeners)
	return true
}

func (m *Manager) dispatchAlways(ev event) {
	m.mu.Lock()
	m.state = reduce(m.state, ev)
	snapshot, listeners := m.snapshotLocked()
	m.mu.Unlock()

	notify(snapshot, listeners)
}

func (m *Manager) snapshotLocked() (domain.Session, []Listener) {
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	return m.state.Clone(), listeners
}

func notify(s domain.Session, listeners []Listener) {
	for _, l := range listeners {
		l(s.Clone())
	}
}

func (m *Manager) publish(ctx context.Context, eventType string, user *domain.User) {
	if m.producer == nil || m.eventsTopic == "" || user == nil {
		return
	}
	event := kafka.PortalEvent{
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.FullName(),
		OccurredAt: time.Now().UTC(),
	}
	if err := m.producer.Publish(ctx, m.eventsTopic, user.ID, event); err != nil {
		m.log.Warn("failed to publish session event", zap.String("type", eventType), zap.Error(err))
	}
}

var _ apiclient.CredentialSource = (*Manager)(nil)
