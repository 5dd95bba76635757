package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/config"
)

func newChatRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewChatHandler(cfg, nil, logger)
	r := gin.New()
	r.POST("/api/chat", h.Relay)
	r.OPTIONS("/api/chat", h.Preflight)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRelayMissingCredentials(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	cfg := &config.Config{AIGatewayURL: upstream.URL, AIGatewayAPIKey: ""}
	w := postChat(t, newChatRouter(cfg), `{"messages":[{"role":"user","content":"olá"}]}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if upstreamCalled {
		t.Error("upstream must not be contacted without credentials")
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("expected an error field, got %s", w.Body.String())
	}
}

func TestRelayInjectsSystemPromptAndStreams(t *testing.T) {
	var gotAuth string
	var gotMessages []map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Stream   bool                `json:"stream"`
			Messages []map[string]string `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotMessages = req.Messages
		if !req.Stream {
			t.Error("expected stream=true in upstream request")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"olá\"}}]}\n\ndata: [DONE]\n\n"))
	}))
	defer upstream.Close()

	cfg := &config.Config{AIGatewayURL: upstream.URL, AIGatewayAPIKey: "sk-test", AIModel: "test-model"}
	w := postChat(t, newChatRouter(cfg), `{"messages":[{"role":"user","content":"quanto custa?"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content-type = %q", ct)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if len(gotMessages) != 2 || gotMessages[0]["role"] != "system" {
		t.Fatalf("expected system prompt prepended, got %+v", gotMessages)
	}
	if gotMessages[1]["content"] != "quanto custa?" {
		t.Errorf("user message not forwarded: %+v", gotMessages[1])
	}
	// Bytes come through untouched.
	if !strings.Contains(w.Body.String(), `data: {"choices":[{"delta":{"content":"olá"}}]}`) {
		t.Errorf("stream body altered: %q", w.Body.String())
	}
}

func TestRelayStatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		upstreamCode int
		wantCode     int
	}{
		{"rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests},
		{"quota exhausted", http.StatusPaymentRequired, http.StatusPaymentRequired},
		{"bad gateway", http.StatusBadGateway, http.StatusInternalServerError},
		{"unauthorized upstream", http.StatusUnauthorized, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.upstreamCode)
				_, _ = w.Write([]byte(`{"error":{"message":"internal detail that must not leak"}}`))
			}))
			defer upstream.Close()

			cfg := &config.Config{AIGatewayURL: upstream.URL, AIGatewayAPIKey: "sk-test"}
			w := postChat(t, newChatRouter(cfg), `{"messages":[{"role":"user","content":"x"}]}`)

			if w.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tc.wantCode)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body not JSON: %s", w.Body.String())
			}
			if body["error"] == "" || strings.Contains(body["error"], "internal detail") {
				t.Errorf("upstream detail leaked or error missing: %q", body["error"])
			}
		})
	}
}

func TestRelayMalformedBody(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	cfg := &config.Config{AIGatewayURL: upstream.URL, AIGatewayAPIKey: "sk-test"}
	w := postChat(t, newChatRouter(cfg), `{"messages": not json`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if upstreamCalled {
		t.Error("upstream must not be contacted for an unparseable body")
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("expected an error field, got %s", w.Body.String())
	}
}

func TestRelayPreflight(t *testing.T) {
	r := newChatRouter(&config.Config{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
