package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status string            `json:"status"`
	Deps   map[string]string `json:"deps"`
	Time   string            `json:"time"`
}

func callHealth(t *testing.T, h *Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return rec, body
}

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	start := time.Now().UTC()
	rec, body := callHealth(t, NewHandler())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}

	// Time is RFC3339Nano and UTC (with 'Z')
	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestHealth_AllDepsUp(t *testing.T) {
	up := func(context.Context) error { return nil }
	rec, body := callHealth(t, NewHandler(Check{Name: "db", Ping: up}, Check{Name: "redis", Ping: up}))

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("got %d %q, want 200 ok", rec.Code, body.Status)
	}
	if body.Deps["db"] != "ok" || body.Deps["redis"] != "ok" {
		t.Fatalf("unexpected deps: %+v", body.Deps)
	}
}

func TestHealth_DegradedWhenADepFails(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }
	rec, body := callHealth(t, NewHandler(Check{Name: "db", Ping: up}, Check{Name: "redis", Ping: down}))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf(`status = %q, want "degraded"`, body.Status)
	}
	if body.Deps["db"] != "ok" || !strings.Contains(body.Deps["redis"], "connection refused") {
		t.Fatalf("unexpected deps: %+v", body.Deps)
	}
}

func TestHealth_PingGetsDeadline(t *testing.T) {
	var hasDeadline bool
	ping := func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}
	callHealth(t, NewHandler(Check{Name: "db", Ping: ping}))
	if !hasDeadline {
		t.Fatalf("expected the ping context to carry a deadline")
	}
}
