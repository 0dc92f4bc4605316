package session

import (
	"testing"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReduce_AuthenticatedInvariant(t *testing.T) {
	user := domain.User{ID: "u1"}
	events := []event{
		loadingEvent{},
		loadingEvent{token: "pending"},
		authenticatedEvent{user: user, token: "t"},
		noticeEvent{message: "hi"},
		loginFailedEvent{message: "bad"},
		anonymousEvent{},
		loginFailedEvent{message: "bad"},
		noticeEvent{message: "again"},
	}

	s := domain.Session{Status: domain.SessionUninitialized}
	for _, ev := range events {
		s = reduce(s, ev)
		authed := s.Status == domain.SessionAuthenticated
		assert.Equal(t, authed, s.User != nil && s.Token != "", "after %T", ev)
	}
}

func TestReduce_LoginFailed(t *testing.T) {
	authed := reduce(domain.Session{}, authenticatedEvent{user: domain.User{ID: "u1"}, token: "t"})

	kept := reduce(authed, loginFailedEvent{message: "nope"})
	assert.Equal(t, domain.SessionAuthenticated, kept.Status)
	assert.Equal(t, "t", kept.Token)
	assert.Equal(t, "nope", kept.LastError)

	failed := reduce(domain.Session{Status: domain.SessionLoading}, loginFailedEvent{message: "nope"})
	assert.Equal(t, domain.SessionError, failed.Status)
	assert.Nil(t, failed.User)
}

func TestReduce_Anonymous(t *testing.T) {
	authed := reduce(domain.Session{}, authenticatedEvent{user: domain.User{ID: "u1"}, token: "t"})
	s := reduce(authed, anonymousEvent{})
	assert.Equal(t, domain.Session{Status: domain.SessionAnonymous}, s)
}
