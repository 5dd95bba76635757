package chatstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			_, _ = w.Write([]byte(l + "\n"))
		}
	}))
}

func TestSendAccumulatesDeltasInOrder(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"Olá"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":", "}}]}`,
		`data: {"choices":[{"delta":{"content":"como posso ajudar?"}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Send(context.Background(), "olá"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "olá" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", msgs[1].Role)
	}
	if got, want := msgs[1].Content, "Olá, como posso ajudar?"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestSendSkipsMalformedChunks(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"A"}}]}`,
		`data: {not json`,
		`: comment line`,
		`data: {"choices":[{"delta":{"content":"B"}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Send(context.Background(), "x"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := c.Messages()
	if got := msgs[len(msgs)-1].Content; got != "AB" {
		t.Errorf("content = %q, want %q", got, "AB")
	}
}

func TestSendStopsAtDoneSentinel(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"antes"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":" depois"}}]}`,
	})
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Send(context.Background(), "x"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := c.Messages()
	if got := msgs[len(msgs)-1].Content; got != "antes" {
		t.Errorf("content after [DONE] = %q, want %q", got, "antes")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestSendRelaysLocalizedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Muitas mensagens. Tente novamente em instantes."}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Send(context.Background(), "x"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := c.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		t.Fatalf("expected assistant message, got %q", last.Role)
	}
	if last.Content != "Muitas mensagens. Tente novamente em instantes." {
		t.Errorf("content = %q", last.Content)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestSendNetworkFailureAppendsApology(t *testing.T) {
	c := New("http://127.0.0.1:0")
	if err := c.Send(context.Background(), "x"); err == nil {
		t.Fatal("expected transport error")
	}
	msgs := c.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant || last.Content != Apology {
		t.Errorf("expected apology assistant message, got %+v", last)
	}
}

func TestSendNonStreamFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"content field", `{"content":"resposta directa"}`, "resposta directa"},
		{"choices message", `{"choices":[{"message":{"content":"via choices"}}]}`, "via choices"},
		{"neither", `{"ok":true}`, Apology},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			if err := c.Send(context.Background(), "x"); err != nil {
				t.Fatalf("Send: %v", err)
			}
			msgs := c.Messages()
			if got := msgs[len(msgs)-1].Content; got != tc.want {
				t.Errorf("content = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSendRefusedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		<-release
	}))
	defer srv.Close()

	c := New(srv.URL)
	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "primeiro") }()

	// Wait until the first send has left idle.
	for c.State() == StateIdle {
		time.Sleep(time.Millisecond)
	}
	if err := c.Send(context.Background(), "segundo"); err != ErrBusy {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
}

func TestSendPostsFullTranscript(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotLen = len(req.Messages)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\ndata: [DONE]\n"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_ = c.Send(context.Background(), "um")
	_ = c.Send(context.Background(), "dois")
	// Second request carries user+assistant+user.
	if gotLen != 3 {
		t.Errorf("second request transcript length = %d, want 3", gotLen)
	}
}
