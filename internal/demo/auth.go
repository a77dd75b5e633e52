package demo

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var errInvalidToken = errors.New("Token is invalid or expired")

// TokenIssuer signs and verifies HS256 access and refresh tokens carrying
// user_id, email, role, token_type and a unique jti.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: now}
}

// Issue returns a fresh access/refresh pair for id.
func (t *TokenIssuer) Issue(id domain.Identity) (domain.CredentialPair, error) {
	access, err := t.sign(id, tokenTypeAccess, t.accessTTL)
	if err != nil {
		return domain.CredentialPair{}, err
	}
	refresh, err := t.sign(id, tokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return domain.CredentialPair{}, err
	}
	return domain.CredentialPair{Access: access, Refresh: refresh}, nil
}

func (t *TokenIssuer) sign(id domain.Identity, typ string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"user_id":    id.ID,
		"email":      id.Email,
		"role":       id.Role,
		"token_type": typ,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// tokenClaims is the verified subject of an access or refresh token.
type tokenClaims struct {
	UserID int64
	Role   string
	JTI    string
}

// ParseAccess verifies an access token.
func (t *TokenIssuer) ParseAccess(token string) (tokenClaims, error) {
	return t.parse(token, tokenTypeAccess)
}

// ParseRefresh verifies a refresh token.
func (t *TokenIssuer) ParseRefresh(token string) (tokenClaims, error) {
	return t.parse(token, tokenTypeRefresh)
}

// parse checks signature, expiry and token_type. An access token is never
// accepted where a refresh token is expected, nor the other way round.
func (t *TokenIssuer) parse(token, typ string) (tokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !tkn.Valid {
		return tokenClaims{}, errInvalidToken
	}
	if got, _ := claims["token_type"].(string); got != typ {
		return tokenClaims{}, errInvalidToken
	}
	// JSON numbers decode as float64.
	uid, ok := claims["user_id"].(float64)
	jti, _ := claims["jti"].(string)
	if !ok || jti == "" {
		return tokenClaims{}, errInvalidToken
	}
	role, _ := claims["role"].(string)
	return tokenClaims{UserID: int64(uid), Role: role, JTI: jti}, nil
}
