package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestGetRateLimitType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/ping", RateLimitTypeHealth},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/auth/register", RateLimitTypeAuth},
		{"/api/v1/users", RateLimitTypeAdmin},
		{"/api/v1/users/:id", RateLimitTypeAdmin},
		{"/api/v1/items", RateLimitTypeDefault},
		{"/api/v1/items/:id", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := getRateLimitType(tt.path); got != tt.want {
				t.Errorf("getRateLimitType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseCheckResult(t *testing.T) {
	t.Parallel()

	t.Run("denied at saturated window", func(t *testing.T) {
		t.Parallel()
		result, err := parseCheckResult([]interface{}{int64(0), int64(10)}, 10, 1700000060)
		if err != nil {
			t.Fatalf("parseCheckResult returned error: %v", err)
		}
		if result.Allowed {
			t.Fatal("a denied verdict must not be reported as allowed")
		}
		if result.Remaining != 0 {
			t.Errorf("remaining = %d, want 0", result.Remaining)
		}
		if result.ResetTime != 1700000060 {
			t.Errorf("reset time = %d, want 1700000060", result.ResetTime)
		}
	})

	t.Run("allowed below the limit", func(t *testing.T) {
		t.Parallel()
		result, err := parseCheckResult([]interface{}{int64(1), int64(3)}, 10, 1700000060)
		if err != nil {
			t.Fatalf("parseCheckResult returned error: %v", err)
		}
		if !result.Allowed {
			t.Fatal("an allowed verdict must pass")
		}
		if result.Remaining != 7 {
			t.Errorf("remaining = %d, want 7", result.Remaining)
		}
	})

	t.Run("allowed final request of the window", func(t *testing.T) {
		t.Parallel()
		result, err := parseCheckResult([]interface{}{int64(1), int64(10)}, 10, 1700000060)
		if err != nil {
			t.Fatalf("parseCheckResult returned error: %v", err)
		}
		if !result.Allowed {
			t.Fatal("the request that fills the window is still allowed")
		}
		if result.Remaining != 0 {
			t.Errorf("remaining = %d, want 0", result.Remaining)
		}
	})

	t.Run("malformed responses error instead of allowing", func(t *testing.T) {
		t.Parallel()
		malformed := []interface{}{
			"not a slice",
			[]interface{}{int64(1)},
			[]interface{}{1.5, int64(3)},
		}
		for _, v := range malformed {
			if _, err := parseCheckResult(v, 10, 0); err == nil {
				t.Errorf("parseCheckResult(%v) = nil error, want failure", v)
			}
		}
	})
}

func TestIsAllowedWhenDisabled(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(nil, &Config{
		Enabled:         false,
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
		AuthRequests:    10,
	})

	result, err := limiter.IsAllowed(context.Background(), "203.0.113.7", RateLimitTypeAuth)
	if err != nil {
		t.Fatalf("IsAllowed returned error: %v", err)
	}
	if !result.Allowed {
		t.Fatal("disabled limiter must allow everything")
	}
	if result.Limit != 10 {
		t.Errorf("limit = %d, want the auth budget 10", result.Limit)
	}
	if result.Remaining != 10 {
		t.Errorf("remaining = %d, want 10", result.Remaining)
	}
}
