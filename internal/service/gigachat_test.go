package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domli-search/internal/config"
)

func newGigaChatTestServer(t *testing.T, authCalls *int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		*authCalls++
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Basic ") {
			t.Errorf("auth request has Authorization %q, want Basic", got)
		}
		if r.Header.Get("RqUID") == "" {
			t.Error("auth request has no RqUID header")
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("scope") != "GIGACHAT_API_PERS" {
			t.Errorf("auth request has scope %q", r.PostForm.Get("scope"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_at":   time.Now().Add(30*time.Minute).UnixMilli(),
		})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("completion request has Authorization %q", got)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding completion request: %v", err)
		}
		if req.Model != "GigaChat:latest" {
			t.Errorf("completion request has model %q", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Показываю варианты."}},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func gigaChatTestConfig(serverURL string) *config.GigaChatConfig {
	return &config.GigaChatConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		Scope:        "GIGACHAT_API_PERS",
		AuthURL:      serverURL + "/oauth",
		APIBase:      serverURL,
		Model:        "GigaChat:latest",
		MaxTokens:    1000,
		Temperature:  0.7,
		Timeout:      5,
		Enabled:      true,
	}
}

func TestGigaChatClient_ChatCompletion(t *testing.T) {
	var authCalls int
	server := newGigaChatTestServer(t, &authCalls)
	client := NewGigaChatClient(gigaChatTestConfig(server.URL))

	reply, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "квартиры"},
	})
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if reply != "Показываю варианты." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestGigaChatClient_TokenIsCached(t *testing.T) {
	var authCalls int
	server := newGigaChatTestServer(t, &authCalls)
	client := NewGigaChatClient(gigaChatTestConfig(server.URL))

	for i := 0; i < 3; i++ {
		if _, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "тест"}}); err != nil {
			t.Fatalf("ChatCompletion returned error: %v", err)
		}
	}
	if authCalls != 1 {
		t.Errorf("expected 1 auth call for 3 completions, got %d", authCalls)
	}
}

func TestGigaChatClient_DisabledWithoutCredentials(t *testing.T) {
	client := NewGigaChatClient(&config.GigaChatConfig{Enabled: false})

	if client.IsEnabled() {
		t.Error("client without credentials reports enabled")
	}
	if _, err := client.ChatCompletion(context.Background(), nil); err == nil {
		t.Error("expected an error from a disabled client")
	}
}
