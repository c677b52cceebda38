package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Issuer builds access and refresh claim sets and delegates signing to the
// Codec. It is stateless beyond the TTLs fixed at startup.
type Issuer struct {
	codec      Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(codec Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessToken issues an access token for subject. An optional TTL override
// replaces the configured default for this one token.
func (i *Issuer) AccessToken(subject string, ttlOverride ...time.Duration) (string, error) {
	ttl := i.accessTTL
	if len(ttlOverride) > 0 && ttlOverride[0] > 0 {
		ttl = ttlOverride[0]
	}
	return i.issue(subject, TokenTypeAccess, ttl)
}

// RefreshToken issues a refresh token for subject with the configured
// refresh TTL.
func (i *Issuer) RefreshToken(subject string) (string, error) {
	return i.issue(subject, TokenTypeRefresh, i.refreshTTL)
}

// Pair issues a fresh access+refresh pair for subject.
func (i *Issuer) Pair(subject string) (*TokenPair, error) {
	access, err := i.AccessToken(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := i.RefreshToken(subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (i *Issuer) issue(subject string, tokenType TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return i.codec.Encode(claims)
}
