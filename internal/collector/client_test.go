package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGetJSONDecodesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "insightiq/1.0" {
			t.Errorf("unexpected user agent: %s", ua)
		}
		if got := r.URL.Query().Get("q"); got != "AI" {
			t.Errorf("unexpected query: %s", got)
		}
		_, _ = w.Write([]byte(`{"total": 3}`))
	}))
	defer server.Close()

	params := url.Values{}
	params.Set("q", "AI")

	var payload struct {
		Total int `json:"total"`
	}
	c := NewClient(5*time.Second, 0)
	if err := c.GetJSON(context.Background(), server.URL, params, nil, &payload); err != nil {
		t.Fatalf("GetJSON error: %v", err)
	}
	if payload.Total != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDoNonOKStatusIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 0)
	if _, err := c.Do(context.Background(), server.URL, nil, nil); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestDoHonorsCancellation(t *testing.T) {
	t.Parallel()

	c := NewClient(5*time.Second, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	if _, err := c.Do(ctx, server.URL, nil, nil); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(namedCollector("zeta"))
	r.Register(namedCollector("alpha"))
	r.Register(namedCollector("zeta"))

	names := r.Names()
	if len(names) != 2 || names[0] != "zeta" || names[1] != "alpha" {
		t.Fatalf("unexpected order: %v", names)
	}

	if _, err := r.Resolve("missing"); err == nil {
		t.Fatal("expected error for unregistered collector")
	}
}

type namedCollector string

func (n namedCollector) Name() string { return string(n) }

func (namedCollector) Collect(context.Context, Request) ([]Row, error) {
	return nil, nil
}
