package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/config"
)

func newTestContext(t *testing.T, method, target string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetPath("/v1/listings")
	return c
}

func TestCacheKeyIncludesQueryByDefault(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "estate:cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/listings?min_price=100"))
	b := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/listings?min_price=200"))
	if a == b {
		t.Fatalf("different query strings produced the same key %q", a)
	}

	a2 := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/listings?min_price=100"))
	if a != a2 {
		t.Fatalf("same request produced different keys: %q vs %q", a, a2)
	}
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "estate:cache", KeyStrategy: "route"}

	a := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/listings?min_price=100"))
	b := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/listings?min_price=200"))
	if a != b {
		t.Fatalf("route strategy should ignore the query: %q vs %q", a, b)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}

	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decodePayload rejected a valid payload")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 0, 99}} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Fatalf("decodePayload accepted %v", bs)
		}
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "estate:rl"}

	anon := newTestContext(t, http.MethodPost, "/v1/auth/login")
	anon.SetPath("/v1/auth/login")

	user := newTestContext(t, http.MethodPost, "/v1/auth/login")
	user.SetPath("/v1/auth/login")
	user.Set("user_id", uint64(7))

	cfg.KeyStrategy = "ip_route"
	if got := buildRateKey(cfg, anon); got != "estate:rl:ip:203.0.113.9:route:POST /v1/auth/login" {
		t.Fatalf("ip_route key = %q", got)
	}

	cfg.KeyStrategy = "user"
	if got := buildRateKey(cfg, anon); got != "estate:rl:user:anon" {
		t.Fatalf("anonymous user key = %q", got)
	}
	if got := buildRateKey(cfg, user); got != "estate:rl:user:7" {
		t.Fatalf("authenticated user key = %q", got)
	}
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
	}{
		{int64(5), 5},
		{int(4), 4},
		{float64(3), 3},
		{"12", 12},
		{"not-a-number", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := asInt64(tc.in); got != tc.want {
			t.Errorf("asInt64(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
