package auth

import (
	"testing"
	"time"
)

func TestIssuerTokenTypes(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("issuer-secret"))
	issuer := NewIssuer(codec, 30*time.Minute, 7*24*time.Hour)

	access, err := issuer.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken returned error: %v", err)
	}
	refresh, err := issuer.RefreshToken("user-1")
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}

	accessClaims, err := codec.Decode(access)
	if err != nil {
		t.Fatalf("Decode access token: %v", err)
	}
	if accessClaims.Type != TokenTypeAccess {
		t.Errorf("access token type = %q, want %q", accessClaims.Type, TokenTypeAccess)
	}
	if accessClaims.Subject != "user-1" {
		t.Errorf("access token subject = %q, want %q", accessClaims.Subject, "user-1")
	}

	refreshClaims, err := codec.Decode(refresh)
	if err != nil {
		t.Fatalf("Decode refresh token: %v", err)
	}
	if refreshClaims.Type != TokenTypeRefresh {
		t.Errorf("refresh token type = %q, want %q", refreshClaims.Type, TokenTypeRefresh)
	}
}

func TestIssuerTTLs(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("issuer-secret"))
	issuer := NewIssuer(codec, 30*time.Minute, 7*24*time.Hour)

	access, err := issuer.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken returned error: %v", err)
	}
	claims, err := codec.Decode(access)
	if err != nil {
		t.Fatalf("Decode access token: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 30*time.Minute {
		t.Errorf("access token lifetime = %v, want %v", lifetime, 30*time.Minute)
	}
}

func TestIssuerTTLOverride(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("issuer-secret"))
	issuer := NewIssuer(codec, 30*time.Minute, 7*24*time.Hour)

	access, err := issuer.AccessToken("user-1", 2*time.Hour)
	if err != nil {
		t.Fatalf("AccessToken returned error: %v", err)
	}
	claims, err := codec.Decode(access)
	if err != nil {
		t.Fatalf("Decode access token: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 2*time.Hour {
		t.Errorf("access token lifetime = %v, want %v", lifetime, 2*time.Hour)
	}
}

func TestIssuerPair(t *testing.T) {
	t.Parallel()

	codec := NewHMACCodec([]byte("issuer-secret"))
	issuer := NewIssuer(codec, 30*time.Minute, 7*24*time.Hour)

	pair, err := issuer.Pair("user-1")
	if err != nil {
		t.Fatalf("Pair returned error: %v", err)
	}

	if pair.TokenType != "bearer" {
		t.Errorf("token type = %q, want %q", pair.TokenType, "bearer")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("pair must contain both tokens")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
}
