package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"stash/internal/shared/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Codec signs claims into an opaque token string and verifies them back.
// Two variants exist: HMACCodec (shared secret, the default for a
// single-process deployment) and RSACodec (private key signs, public key
// verifies, for split trust domains). The variant is chosen once at
// startup from config.
type Codec interface {
	Encode(claims *Claims) (string, error)
	Decode(tokenString string) (*Claims, error)
}

// NewCodec builds the codec selected by cfg.Algorithm.
func NewCodec(cfg config.JWTConfig) (Codec, error) {
	switch cfg.Algorithm {
	case "", "HS256":
		if cfg.Secret == "" {
			return nil, errors.New("JWT_SECRET is required for HS256")
		}
		return &HMACCodec{secret: []byte(cfg.Secret)}, nil
	case "RS256":
		return NewRSACodec(cfg.PrivateKeyPEM, cfg.PublicKeyPEM)
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm %q", cfg.Algorithm)
	}
}

// HMACCodec signs and verifies with a single shared secret (HS256).
type HMACCodec struct {
	secret []byte
}

func NewHMACCodec(secret []byte) *HMACCodec {
	return &HMACCodec{secret: secret}
}

func (c *HMACCodec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *HMACCodec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		// Signature mismatch, malformed structure and expiry all collapse
		// into the same failure; callers never see the parser internals.
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RSACodec signs with a private key and verifies with the matching public
// key (RS256). Either side may be absent when a process only encodes or
// only decodes.
type RSACodec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewRSACodec(privateKeyPEM, publicKeyPEM string) (*RSACodec, error) {
	codec := &RSACodec{}

	if privateKeyPEM != "" {
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA private key: %w", err)
		}
		codec.privateKey = key
		codec.publicKey = &key.PublicKey
	}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		codec.publicKey = key
	}
	if codec.privateKey == nil && codec.publicKey == nil {
		return nil, errors.New("RS256 requires JWT_PRIVATE_KEY or JWT_PUBLIC_KEY")
	}

	return codec, nil
}

func (c *RSACodec) Encode(claims *Claims) (string, error) {
	if c.privateKey == nil {
		return "", errors.New("private key required for encoding")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(c.privateKey)
}

func (c *RSACodec) Decode(tokenString string) (*Claims, error) {
	if c.publicKey == nil {
		return nil, errors.New("public key required for decoding")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return c.publicKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
