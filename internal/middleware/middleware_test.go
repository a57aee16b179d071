package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/iliyamo/client-reservations/internal/config"
	"github.com/iliyamo/client-reservations/internal/session"
	"github.com/iliyamo/client-reservations/internal/utils"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	store := session.NewStore(time.Hour, language.Und, nil)
	s := store.Create()
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentSession(c).ID)
	}, SessionAuth("secret", store))

	good, _ := utils.NewSessionToken("secret", s.ID, time.Hour)
	unknown, _ := utils.NewSessionToken("secret", "no-such-session", time.Hour)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + good.Token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer nope", http.StatusUnauthorized},
		{"unknown session", "Bearer " + unknown.Token, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := serve(e, req)
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.status)
		}
		if tc.status == http.StatusOK && rec.Body.String() != s.ID {
			t.Errorf("%s: body = %q, want session id", tc.name, rec.Body.String())
		}
	}

	store.End(s.ID)
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+good.Token)
	if rec := serve(e, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("ended session: status = %d, want 401", rec.Code)
	}
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	cache := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil), cache.Middleware())
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "x" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Fatal("disabled cache set X-Cache")
	}
	if err := cache.Invalidate(context.Background(), "sid"); err != nil {
		t.Fatalf("Invalidate on disabled cache: %v", err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"total":0}`))
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"total":0}` {
		t.Fatalf("decodePayload = %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodePayload([]byte{1, 2}); ok {
		t.Fatal("short payload decoded")
	}
}

func TestKeysAreSessionScoped(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Prefix: "cache", KeyStrategy: "session_route_query"}, nil)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reservations?a=1", nil), httptest.NewRecorder())
	c.SetPath("/v1/reservations")
	c.Set(CtxSessionID, "s1")
	k1 := rc.keyFor(c, 0)
	c.Set(CtxSessionID, "s2")
	k2 := rc.keyFor(c, 0)
	if k1 == k2 {
		t.Fatal("different sessions share a cache key")
	}
	if want := "cache:session:s1:"; k1[:len(want)] != want {
		t.Fatalf("key %q lacks prefix %q", k1, want)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/reservations")
	c.Set(CtxSessionID, "s1")

	got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_session"}, c)
	if got != "rl:ip:10.0.0.1:session:s1" {
		t.Fatalf("key = %q", got)
	}
	got = buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c)
	if got != "rl:ip:10.0.0.1:session:s1:route:POST /v1/reservations" {
		t.Fatalf("default key = %q", got)
	}
	if !isWrite(http.MethodDelete) || isWrite(http.MethodGet) {
		t.Fatal("isWrite misclassifies methods")
	}
}
