package domain

import "errors"

// SessionState is the lifecycle state of the local session.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
	StateRefreshing      SessionState = "refreshing"
)

// Fixed storage keys for the credential pair.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// validTransitions defines the allowed session state machine transitions.
var validTransitions = map[SessionState][]SessionState{
	StateUnauthenticated: {StateAuthenticating, StateRefreshing},
	StateAuthenticating:  {StateAuthenticated, StateRefreshing, StateUnauthenticated},
	StateAuthenticated:   {StateAuthenticating, StateRefreshing, StateUnauthenticated},
	StateRefreshing:      {StateAuthenticated, StateUnauthenticated},
}

// CanTransitionTo reports whether a transition from s to next is valid.
// Re-entering the same state is always allowed.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CredentialPair is the bearer/refresh pair issued by the auth endpoints.
// Both values are opaque to the client.
type CredentialPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both credentials are present.
func (p CredentialPair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}
