package session

import "github.com/Domenick1991/hotelportal/internal/domain"

// event is a session transition. reduce is the only place state changes.
type event interface {
	isEvent()
}

type (
	// loading starts an unauthenticated call; a token being verified may ride along.
	loadingEvent struct{ token string }
	// authenticated installs a verified identity.
	authenticatedEvent struct {
		user  domain.User
		token string
	}
	// anonymous drops user and token.
	anonymousEvent struct{ message string }
	// loginFailed keeps an existing authenticated session, otherwise moves to error.
	loginFailedEvent struct{ message string }
	// notice only touches LastError.
	noticeEvent struct{ message string }
)

func (loadingEvent) isEvent() {}
func (authenticatedEvent) isEvent() {}
func (anonymousEvent) isEvent() {}
func (loginFailedEvent) isEvent() {}
func (noticeEvent) isEvent() {}

func reduce(s domain.Session, ev event) domain.Session {
	switch e := ev.(type) {
	case loadingEvent:
		return domain.Session{Status: domain.SessionLoading, Token: e.token}
	case authenticatedEvent:
		user := e.user
		return domain.Session{Status: domain.SessionAuthenticated, User: &user, Token: e.token}
	case anonymousEvent:
		return domain.Session{Status: domain.SessionAnonymous, LastError: e.message}
	case loginFailedEvent:
		if s.Authenticated() {
			s.LastError = e.message
			return s
		}
		return domain.Session{Status: domain.SessionError, LastError: e.message}
	case noticeEvent:
		s.LastError = e.message
		return s
	default:
		return s
	}
}
