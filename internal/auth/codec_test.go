package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"stash/internal/shared/config"
)

func configJWT(algorithm, secret string) config.JWTConfig {
	return config.JWTConfig{
		Algorithm: algorithm,
		Secret:    secret,
	}
}

func signedClaims(t *testing.T, codec Codec, subject string, tokenType TokenType, ttl time.Duration) string {
	t.Helper()

	now := time.Now().UTC()
	token, err := codec.Encode(&Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	return token
}

func TestHMACCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("test-secret"))
	token := signedClaims(t, codec, "user-42", TokenTypeAccess, time.Hour)

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-42")
	}
	if claims.Type != TokenTypeAccess {
		t.Errorf("type = %q, want %q", claims.Type, TokenTypeAccess)
	}
}

func TestHMACCodecExpired(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("test-secret"))
	token := signedClaims(t, codec, "user-42", TokenTypeAccess, -time.Minute)

	if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode of expired token = %v, want ErrInvalidToken", err)
	}
}

func TestHMACCodecTamperedSignature(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("test-secret"))
	token := signedClaims(t, codec, "user-42", TokenTypeAccess, time.Hour)

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.Decode(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode of tampered token = %v, want ErrInvalidToken", err)
	}
}

func TestHMACCodecWrongSecret(t *testing.T) {
	t.Parallel()

	signer := NewHMACCodec([]byte("secret-one"))
	verifier := NewHMACCodec([]byte("secret-two"))
	token := signedClaims(t, signer, "user-42", TokenTypeAccess, time.Hour)

	if _, err := verifier.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestHMACCodecMalformed(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := codec.Decode(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Decode(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

// generateKeyPEMs returns a fresh RSA keypair as PEM strings.
func generateKeyPEMs(t *testing.T) (privatePEM, publicPEM string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}

	privatePEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey returned error: %v", err)
	}
	publicPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}))

	return privatePEM, publicPEM
}

func TestRSACodecRoundTrip(t *testing.T) {
	t.Parallel()

	privatePEM, _ := generateKeyPEMs(t)
	codec, err := NewRSACodec(privatePEM, "")
	if err != nil {
		t.Fatalf("NewRSACodec returned error: %v", err)
	}

	token := signedClaims(t, codec, "user-42", TokenTypeAccess, time.Hour)

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-42")
	}
	if claims.Type != TokenTypeAccess {
		t.Errorf("type = %q, want %q", claims.Type, TokenTypeAccess)
	}
}

func TestRSACodecVerifyOnly(t *testing.T) {
	t.Parallel()

	privatePEM, publicPEM := generateKeyPEMs(t)
	signer, err := NewRSACodec(privatePEM, "")
	if err != nil {
		t.Fatalf("NewRSACodec(private) returned error: %v", err)
	}
	verifier, err := NewRSACodec("", publicPEM)
	if err != nil {
		t.Fatalf("NewRSACodec(public) returned error: %v", err)
	}

	token := signedClaims(t, signer, "user-42", TokenTypeRefresh, time.Hour)

	claims, err := verifier.Decode(token)
	if err != nil {
		t.Fatalf("Decode with public key = %v, want success", err)
	}
	if claims.Type != TokenTypeRefresh {
		t.Errorf("type = %q, want %q", claims.Type, TokenTypeRefresh)
	}

	// A verify-only codec must refuse to sign, not panic or mis-sign.
	if _, err := verifier.Encode(&Claims{}); err == nil {
		t.Fatal("Encode without a private key must fail")
	}
}

func TestRSACodecWrongKey(t *testing.T) {
	t.Parallel()

	privatePEM, _ := generateKeyPEMs(t)
	_, otherPublicPEM := generateKeyPEMs(t)

	signer, err := NewRSACodec(privatePEM, "")
	if err != nil {
		t.Fatalf("NewRSACodec(private) returned error: %v", err)
	}
	verifier, err := NewRSACodec("", otherPublicPEM)
	if err != nil {
		t.Fatalf("NewRSACodec(public) returned error: %v", err)
	}

	token := signedClaims(t, signer, "user-42", TokenTypeAccess, time.Hour)
	if _, err := verifier.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode with mismatched key = %v, want ErrInvalidToken", err)
	}
}

func TestRSACodecRejectsHMACToken(t *testing.T) {
	t.Parallel()

	privatePEM, _ := generateKeyPEMs(t)
	rsaCodec, err := NewRSACodec(privatePEM, "")
	if err != nil {
		t.Fatalf("NewRSACodec returned error: %v", err)
	}

	hmacToken := signedClaims(t, NewHMACCodec([]byte("test-secret")), "user-42", TokenTypeAccess, time.Hour)
	if _, err := rsaCodec.Decode(hmacToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode of HMAC token = %v, want ErrInvalidToken", err)
	}
}

func TestNewCodecAlgorithmSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algorithm string
		secret    string
		wantErr   bool
	}{
		{"default is HS256", "", "s3cret", false},
		{"explicit HS256", "HS256", "s3cret", false},
		{"HS256 without secret", "HS256", "", true},
		{"unknown algorithm", "ES512", "s3cret", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCodec(configJWT(tt.algorithm, tt.secret))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCodec error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
