package aivet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors carrying the machine-distinguishable gateway failure reasons.
// Callers present distinct user messages for these and never retry automatically.
var (
	ErrRateLimited   = errors.New("ai gateway: rate limited")
	ErrQuotaExceeded = errors.New("ai gateway: quota exceeded")
)

// Message is one role-tagged turn of a triage conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

// StreamChat opens a streaming triage completion for the given conversation
// and pet context. Each content delta is passed to flush in arrival order;
// the reassembled full text is returned once the stream ends.
func (c *Client) StreamChat(ctx context.Context, messages []Message, pet *PetInfo, language string, flush func(string)) (string, error) {
	system := triageSystemPrompt(pet)
	if language != "" {
		system += "\n\nActive display language: " + language
	}

	payload := map[string]interface{}{
		"model":    c.model,
		"stream":   true,
		"messages": append([]Message{{Role: "system", Content: system}}, messages...),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai gateway call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		io.Copy(io.Discard, resp.Body)
		return "", ErrQuotaExceeded
	case resp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ai gateway status %d: %s", resp.StatusCode, data)
	}

	var full strings.Builder
	var dec streamDecoder
	chunk := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			for _, ev := range dec.feed(chunk[:n]) {
				if ev.Done {
					return full.String(), nil
				}
				full.WriteString(ev.Content)
				if flush != nil {
					flush(ev.Content)
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				for _, ev := range dec.flush() {
					if ev.Done {
						break
					}
					full.WriteString(ev.Content)
					if flush != nil {
						flush(ev.Content)
					}
				}
				return full.String(), nil
			}
			if ctx.Err() != nil {
				return "", fmt.Errorf("ai gateway stream: %w", ctx.Err())
			}
			return "", fmt.Errorf("ai gateway stream: %w", readErr)
		}
	}
}
