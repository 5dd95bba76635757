// Package chatstream consumes the /api/chat relay: it keeps the visible
// transcript, streams assistant deltas into it, and degrades to fixed
// fallback messages on every failure so the conversation never dead-ends.
package chatstream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Message roles on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// State of the widget. A send is only accepted from StateIdle; done and
// error both return to idle so input re-enables.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

// Apology shown whenever the exchange fails and no localized error from
// the relay is available.
const Apology = "Peço desculpa, ocorreu um problema ao processar a sua mensagem. Por favor, tente novamente."

var ErrBusy = errors.New("chatstream: send already in progress")

// Client drives one conversation against the relay endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client

	mu       sync.Mutex
	state    State
	messages []Message
}

func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTP: http.DefaultClient}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the transcript.
func (c *Client) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Send appends the user message, posts the whole transcript to the relay
// and accumulates the assistant reply into a new transcript entry. It
// always leaves a visible assistant message behind, even on failure, and
// always returns the client to idle.
func (c *Client) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSending
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	payload := struct {
		Messages []Message `json:"messages"`
	}{Messages: append([]Message(nil), c.messages...)}
	c.mu.Unlock()

	defer c.setState(StateIdle)

	body, err := json.Marshal(payload)
	if err != nil {
		c.appendAssistant(Apology)
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.appendAssistant(Apology)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		c.appendAssistant(Apology)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.appendAssistant(relayError(resp.Body))
		return nil
	}

	// The empty assistant message goes in before any byte is read; deltas
	// mutate this last entry in place.
	c.appendAssistant("")

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		c.setState(StateStreaming)
		c.consumeStream(resp.Body)
		return nil
	}
	c.consumeJSON(resp.Body)
	return nil
}

// consumeStream reads SSE lines and appends each delta, in arrival order,
// to the last transcript message.
func (c *Client) consumeStream(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}
		// The sentinel ends the stream; nothing after it is appended.
		if payload == "[DONE]" {
			return
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		// Malformed chunks are dropped without disturbing the stream.
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		c.appendDelta(chunk.Choices[0].Delta.Content)
	}
}

// consumeJSON handles a relay that answered with a plain JSON body instead
// of a stream.
func (c *Client) consumeJSON(r io.Reader) {
	var data struct {
		Content string `json:"content"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		c.replaceLast(Apology)
		return
	}
	switch {
	case data.Content != "":
		c.replaceLast(data.Content)
	case len(data.Choices) > 0 && data.Choices[0].Message.Content != "":
		c.replaceLast(data.Choices[0].Message.Content)
	default:
		c.replaceLast(Apology)
	}
}

// relayError extracts the localized error message the relay sends with
// non-200 statuses, falling back to the generic apology.
func relayError(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Error == "" {
		return Apology
	}
	return body.Error
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) appendAssistant(content string) {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content})
	c.mu.Unlock()
}

func (c *Client) appendDelta(delta string) {
	if delta == "" {
		return
	}
	c.mu.Lock()
	if n := len(c.messages); n > 0 {
		c.messages[n-1].Content += delta
	}
	c.mu.Unlock()
}

func (c *Client) replaceLast(content string) {
	c.mu.Lock()
	if n := len(c.messages); n > 0 {
		c.messages[n-1].Content = content
	}
	c.mu.Unlock()
}
