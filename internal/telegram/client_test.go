package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payrun/internal/telegram"
)

func TestSendPostsCodeBlockMessage(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	client, err := telegram.New("test-token", telegram.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Send(context.Background(), 1001, "Hello @alice"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if captured["chat_id"].(float64) != 1001 {
		t.Fatalf("chat_id = %v", captured["chat_id"])
	}
	if captured["parse_mode"] != "MarkdownV2" {
		t.Fatalf("parse_mode = %v", captured["parse_mode"])
	}
	text := captured["text"].(string)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		t.Fatalf("message must be wrapped in a code block: %q", text)
	}
}

func TestSendSurfacesAPIRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer server.Close()

	client, err := telegram.New("test-token", telegram.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.Send(context.Background(), 42, "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := telegram.New("  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
