package ports

import (
	"context"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// AuthAPI is the subset of the upstream API the session store talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.CredentialPair, error)
	Register(ctx context.Context, reg domain.Registration) error
	Refresh(ctx context.Context, refreshToken string) (domain.CredentialPair, error)
	Logout(ctx context.Context, refreshToken string) error
	UserDetails(ctx context.Context, accessToken string) (*domain.Identity, error)
}
