package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/campusprint/stationery-admin/internal/api/metrics"
	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
)

const refreshTimeout = 30 * time.Second

// SessionService owns the authenticated session: the Identity, the persisted
// credential pair and the lifecycle state. It satisfies
// ports.CredentialSource so the gateway can read the current access value.
type SessionService struct {
	auth     ports.AuthAPI
	store    ports.CredentialStore
	nav      ports.Navigator
	validate *validator.Validate
	log      zerolog.Logger

	// opMu serializes operations that talk to the network or storage.
	opMu    sync.Mutex
	refresh singleflight.Group

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
	access   string
}

var _ ports.CredentialSource = (*SessionService)(nil)

// NewSessionService returns a store in the unauthenticated state. Call
// Bootstrap to pick up a persisted session. nav may be nil.
func NewSessionService(auth ports.AuthAPI, store ports.CredentialStore, nav ports.Navigator, log zerolog.Logger) *SessionService {
	if nav == nil {
		nav = ports.NavigatorFunc(func() {})
	}
	s := &SessionService{
		auth:     auth,
		store:    store,
		nav:      nav,
		validate: newValidator(),
		log:      log,
		state:    domain.StateUnauthenticated,
	}
	s.reportState(domain.StateUnauthenticated)
	return s
}

func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the current identity, or nil.
func (s *SessionService) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

func (s *SessionService) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// Bootstrap restores a persisted session. When both credentials are stored it
// fetches the Identity, and on failure tries exactly one refresh. A session
// that cannot be restored ends unauthenticated with storage cleared; that is
// not an error.
func (s *SessionService) Bootstrap(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	pair, err := s.loadPair(ctx)
	if err != nil {
		return err
	}
	if !pair.Complete() {
		s.log.Debug().Msg("no persisted session")
		return nil
	}

	if err := s.transition(domain.StateAuthenticating); err != nil {
		return err
	}
	s.setAccess(pair.Access)

	if err := s.resolveIdentity(ctx, pair.Access); err != nil {
		s.log.Info().Err(err).Msg("persisted session could not be restored")
	}
	return nil
}

// SignIn exchanges email and password for a credential pair, persists it and
// loads the Identity.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	prev := s.State()
	if err := s.transition(domain.StateAuthenticating); err != nil {
		return nil, err
	}

	pair, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.restore(prev)
		return nil, err
	}
	if err := s.savePair(ctx, pair); err != nil {
		s.restore(prev)
		return nil, err
	}
	s.setAccess(pair.Access)

	if err := s.resolveIdentity(ctx, pair.Access); err != nil {
		return nil, err
	}
	s.log.Info().Str("email", email).Msg("signed in")
	return s.Identity(), nil
}

// SignUp validates reg locally, registers it upstream and then signs in with
// the same email and password.
func (s *SessionService) SignUp(ctx context.Context, reg domain.Registration) (*domain.Identity, error) {
	if err := validate(s.validate, reg); err != nil {
		return nil, err
	}
	if err := s.auth.Register(ctx, reg); err != nil {
		return nil, err
	}
	s.log.Info().Str("email", reg.Email).Str("role", reg.Role).Msg("registered")
	return s.SignIn(ctx, reg.Email, reg.Password)
}

// SignOut revokes the refresh credential upstream on a best-effort basis,
// then clears all local session state and navigates to login.
func (s *SessionService) SignOut(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	refresh, err := s.store.Get(ctx, domain.KeyRefreshToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("read refresh credential for sign-out")
	}
	if refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil {
			s.log.Warn().Err(err).Msg("upstream logout failed")
		}
	}

	clearErr := s.clear(ctx)
	s.nav.RedirectToLogin()
	s.log.Info().Msg("signed out")
	return clearErr
}

// RefreshAccessToken obtains a new access credential. Concurrent callers
// share one upstream call and all receive its result. The shared call is
// detached from any single caller's cancellation and bounded by
// refreshTimeout; a caller whose own ctx ends stops waiting with ctx.Err().
// Failure is terminal: local state is cleared, the user is sent to login and
// ErrSessionExpired is returned.
func (s *SessionService) RefreshAccessToken(ctx context.Context) error {
	ch := s.refresh.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		s.opMu.Lock()
		defer s.opMu.Unlock()
		return nil, s.refreshLocked(rctx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			s.log.Debug().Msg("joined in-flight refresh")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolveIdentity fetches the Identity for access. A failure is retried once
// after a refresh. Caller holds opMu.
func (s *SessionService) resolveIdentity(ctx context.Context, access string) error {
	id, err := s.auth.UserDetails(ctx, access)
	if err == nil {
		s.setIdentity(id)
		return s.transition(domain.StateAuthenticated)
	}
	s.log.Debug().Err(err).Msg("identity fetch failed, refreshing")
	if err := s.refreshLocked(ctx); err != nil {
		// expire has already cleared; anything else must not leave the
		// session half-open.
		if !errors.Is(err, domain.ErrSessionExpired) {
			if cerr := s.clear(context.WithoutCancel(ctx)); cerr != nil {
				s.log.Error().Err(cerr).Msg("clear credentials")
			}
		}
		return err
	}
	return nil
}

// refreshLocked performs a single refresh. Caller holds opMu.
func (s *SessionService) refreshLocked(ctx context.Context) error {
	refresh, err := s.store.Get(ctx, domain.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("read refresh credential: %w", err)
	}
	if refresh == "" {
		metrics.SessionRefreshTotal.WithLabelValues("missing").Inc()
		return domain.ErrNoRefreshCredential
	}

	if err := s.transition(domain.StateRefreshing); err != nil {
		return err
	}

	pair, err := s.auth.Refresh(ctx, refresh)
	if err != nil {
		return s.expire(ctx, "refresh rejected", err)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	if err := s.savePair(ctx, pair); err != nil {
		return s.expire(ctx, "persist refreshed credentials", err)
	}
	s.setAccess(pair.Access)

	id, err := s.auth.UserDetails(ctx, pair.Access)
	if err != nil {
		return s.expire(ctx, "identity fetch after refresh", err)
	}
	s.setIdentity(id)
	metrics.SessionRefreshTotal.WithLabelValues("ok").Inc()
	s.log.Debug().Msg("access credential refreshed")
	return s.transition(domain.StateAuthenticated)
}

// expire handles a terminal refresh failure.
func (s *SessionService) expire(ctx context.Context, stage string, cause error) error {
	metrics.SessionRefreshTotal.WithLabelValues("failed").Inc()
	s.log.Warn().Err(cause).Str("stage", stage).Msg("session expired")
	if err := s.clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("clear credentials")
	}
	s.nav.RedirectToLogin()
	return domain.ErrSessionExpired
}

// clear removes both persisted credentials and the in-memory session. The
// in-memory part is cleared even when storage fails.
func (s *SessionService) clear(ctx context.Context) error {
	err := s.store.Delete(ctx, domain.KeyAccessToken, domain.KeyRefreshToken)

	s.mu.Lock()
	s.identity = nil
	s.access = ""
	s.state = domain.StateUnauthenticated
	s.mu.Unlock()
	s.reportState(domain.StateUnauthenticated)

	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *SessionService) loadPair(ctx context.Context) (domain.CredentialPair, error) {
	access, err := s.store.Get(ctx, domain.KeyAccessToken)
	if err != nil {
		return domain.CredentialPair{}, fmt.Errorf("read access credential: %w", err)
	}
	refresh, err := s.store.Get(ctx, domain.KeyRefreshToken)
	if err != nil {
		return domain.CredentialPair{}, fmt.Errorf("read refresh credential: %w", err)
	}
	return domain.CredentialPair{Access: access, Refresh: refresh}, nil
}

func (s *SessionService) savePair(ctx context.Context, pair domain.CredentialPair) error {
	if err := s.store.Set(ctx, domain.KeyAccessToken, pair.Access); err != nil {
		return fmt.Errorf("persist access credential: %w", err)
	}
	if pair.Refresh == "" {
		return nil
	}
	if err := s.store.Set(ctx, domain.KeyRefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("persist refresh credential: %w", err)
	}
	return nil
}

func (s *SessionService) transition(next domain.SessionState) error {
	s.mu.Lock()
	cur := s.state
	if !cur.CanTransitionTo(next) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur, next)
	}
	s.state = next
	s.mu.Unlock()

	if cur != next {
		s.log.Debug().Str("from", string(cur)).Str("to", string(next)).Msg("session state")
	}
	s.reportState(next)
	return nil
}

// restore returns to prev after a failed sign-in attempt.
func (s *SessionService) restore(prev domain.SessionState) {
	if err := s.transition(prev); err != nil {
		s.log.Error().Err(err).Msg("restore session state")
	}
}

func (s *SessionService) setAccess(v string) {
	s.mu.Lock()
	s.access = v
	s.mu.Unlock()
}

func (s *SessionService) setIdentity(id *domain.Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func (s *SessionService) reportState(cur domain.SessionState) {
	for _, st := range []domain.SessionState{
		domain.StateUnauthenticated,
		domain.StateAuthenticating,
		domain.StateAuthenticated,
		domain.StateRefreshing,
	} {
		v := 0.0
		if st == cur {
			v = 1
		}
		metrics.SessionState.WithLabelValues(string(st)).Set(v)
	}
}
