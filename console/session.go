package console

import "time"

// Session is the operator's authenticated context. It is constructed at
// login and passed explicitly to whatever needs it; there is no ambient
// global session state.
type Session struct {
	AccessToken string
	Operator    string
	StartedAt   time.Time
}

// NewSession constructs a session for an authenticated operator.
func NewSession(token, operator string) *Session {
	return &Session{AccessToken: token, Operator: operator, StartedAt: time.Now().UTC()}
}

// Token implements api.TokenSource.
func (s *Session) Token() string { return s.AccessToken }
