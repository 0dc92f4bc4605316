package domain

type SessionStatus string

const (
	SessionUninitialized SessionStatus = "uninitialized"
	SessionLoading       SessionStatus = "loading"
	SessionAuthenticated SessionStatus = "authenticated"
	SessionAnonymous     SessionStatus = "anonymous"
	SessionError         SessionStatus = "error"
)

// Session is the client's authentication identity. Status is authenticated
// if and only if both User and Token are set.
type Session struct {
	User      *User
	Token     string
	Status    SessionStatus
	LastError string
}

func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated && s.User != nil && s.Token != ""
}

// Clone returns a copy that does not share the User pointer.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
