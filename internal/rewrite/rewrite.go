// Package rewrite asks a hosted language model to edit a preset according to
// a natural-language instruction, through the Anthropic Messages API.
package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mj1618/arrange/internal/layout"
)

const (
	DefaultEndpoint  = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-6"
	DefaultMaxTokens = 2048
	DefaultTimeout   = 60 * time.Second

	apiVersion = "2023-06-01"
)

const systemPrompt = `You are a window layout assistant. You receive a JSON layout preset and a user instruction.
Modify the preset according to the instruction and return ONLY the modified JSON.
The layout has columns (each with a flex value) containing apps (each with an id and flex value).
Flex values control proportional sizing. Higher flex = larger.
alignRows controls whether rows across columns are aligned.
Every flex must be a positive number and every column needs at least one app.
Return valid JSON only, no markdown, no explanation.`

var (
	// ErrEmptyResponse is returned when the answer has no text block.
	ErrEmptyResponse = errors.New("empty response from rewriter")
	// ErrInvalidJSON is returned when the answer is not a preset.
	ErrInvalidJSON = errors.New("could not parse layout JSON")
)

// APIError is a non-200 answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("API error %d: %s", e.Status, body)
}

// Config holds the client settings.
type Config struct {
	Endpoint  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	APIKey    string
}

// Client implements platform.Rewriter.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a client. Zero config fields take the defaults.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Rewrite sends p and the instruction and decodes the returned preset. The
// result is validated; structural problems wrap layout.ErrInvalidPreset.
func (c *Client) Rewrite(ctx context.Context, p layout.Preset, instruction string, apps []string) (layout.Preset, error) {
	presetJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return layout.Preset{}, fmt.Errorf("failed to encode preset: %w", err)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Current layout:\n%s\n\n", presetJSON)
	if len(apps) > 0 {
		fmt.Fprintf(&user, "Slots are currently occupied by (col:slot: app):\n%s\n\n", strings.Join(apps, "\n"))
	}
	fmt.Fprintf(&user, "Instruction: %s\n\nReturn the modified layout JSON only.", instruction)

	body, err := json.Marshal(request{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: user.String()}},
	})
	if err != nil {
		return layout.Preset{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return layout.Preset{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return layout.Preset{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return layout.Preset{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return layout.Preset{}, &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return layout.Preset{}, fmt.Errorf("failed to decode response: %w", err)
	}
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			return ParsePreset(block.Text)
		}
	}
	return layout.Preset{}, ErrEmptyResponse
}

// ParsePreset decodes a preset from model output, tolerating a surrounding
// markdown code fence.
func ParsePreset(text string) (layout.Preset, error) {
	var p layout.Preset
	if err := json.Unmarshal([]byte(StripFences(text)), &p); err != nil {
		return layout.Preset{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := p.Validate(); err != nil {
		return layout.Preset{}, err
	}
	return p, nil
}

// StripFences removes a leading ```lang line and a trailing ``` fence.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "```")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
