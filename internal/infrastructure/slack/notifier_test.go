package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotifyPostsMessage(t *testing.T) {
	t.Parallel()

	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}
	}))
	defer server.Close()

	n := NewNotifier(server.URL)
	if err := n.Notify(context.Background(), "🚨 Keyword Surge Detected"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	if received["text"] != "🚨 Keyword Surge Detected" {
		t.Fatalf("unexpected payload text: %q", received["text"])
	}
}

func TestNotifyNonOKStatusIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier(server.URL)
	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestNotifyEmptyWebhookIsError(t *testing.T) {
	t.Parallel()

	n := NewNotifier("")
	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Fatal("expected error with empty webhook URL")
	}
}
