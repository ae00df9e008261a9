package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/babinc0270-design/mirrormind-bot/internal/server"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, pingErr error, webhookCalled *bool) *httptest.Server {
	t.Helper()

	webhook := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if webhookCalled != nil {
			*webhookCalled = true
		}
		w.WriteHeader(http.StatusOK)
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := server.New(":0", "/webhook", webhook, fakePinger{err: pingErr}, log)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthOK(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s, want ok status", body)
	}
}

func TestHealthDatabaseUnavailable(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, errors.New("db is down"), nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWebhookRouting(t *testing.T) {
	t.Parallel()

	called := false
	ts := newTestServer(t, nil, &called)

	resp, err := http.Post(ts.URL+"/webhook", "application/json", strings.NewReader(`{"update_id":1}`))
	if err != nil {
		t.Fatalf("POST /webhook error = %v", err)
	}
	defer resp.Body.Close()

	if !called {
		t.Errorf("webhook handler was not invoked")
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "MirrorMind Bot Running") {
		t.Errorf("body = %s, want banner", body)
	}
}
