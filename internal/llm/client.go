// Package llm calls an OpenAI-compatible chat completions API to translate text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"translateapi/internal/config"
)

// ErrUpstream is returned for transport failures, non-2xx responses and empty completions.
var ErrUpstream = errors.New("llm: upstream failure")

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *resty.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// New builds a client from cfg. Requests are traced and bounded by cfg.Timeout.
func New(cfg config.LLMConfig) *Client {
	hc := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	rc := resty.NewWithClient(hc).SetTimeout(cfg.Timeout)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    rc,
	}
}

// Prompt is the single user message sent for a translation.
func Prompt(text, language string) string {
	return fmt.Sprintf("Translate the following text to %s: \"%s\"", LanguageName(language), text)
}

// Translate makes one request and returns the first choice's content verbatim.
func (c *Client) Translate(ctx context.Context, text, language string) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: Prompt(text, language)}},
	}

	var resp chatResponse
	rr, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("%w: chat completions: %s; body: %s", ErrUpstream, rr.Status(), abbreviate(rr.String(), 512))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
