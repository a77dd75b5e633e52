package ports

import "context"

// CredentialStore persists opaque string values under fixed keys.
// Get returns "" with a nil error when the key is absent.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// CredentialSource hands out the current access credential. The empty string
// means no credential is present.
type CredentialSource interface {
	AccessToken() string
}
