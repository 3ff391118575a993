// Package textgen provides an HTTP client for a chat-completion style
// text-generation API used to phrase performance commentary.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/config"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// ErrDisabled is returned when the collaborator is turned off in config.
// Callers treat it like any other failure and fall back.
var ErrDisabled = errors.New("text generation is disabled")

// Commentary is the structured output requested from the model.
type Commentary struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// PlayerContext carries the computed metrics the prompt is built from.
type PlayerContext struct {
	GamerTag       string
	Game           string
	Rank           string
	WinProbability float64
	Consistency    float64
	MVPScore       float64
}

// Generator produces commentary for a player's tournament showing.
type Generator interface {
	GenerateCommentary(ctx context.Context, player PlayerContext) (*Commentary, error)
	Model() string
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	enabled bool
	client  *http.Client
	log     *logger.Logger
}

// NewClient creates a text-generation client.
func NewClient(cfg *config.TextGenConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		enabled: cfg.Enabled,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *format       `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type format struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are an esports performance coach. Reply with a JSON object " +
	`containing "summary" (two sentences), "strengths" (array of short strings) and ` +
	`"improvements" (array of short strings). No other text.`

// GenerateCommentary asks the model for structured commentary on a player's
// metrics.
func (c *Client) GenerateCommentary(ctx context.Context, player PlayerContext) (*Commentary, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}

	prompt := fmt.Sprintf(
		"Player %s (%s, rank %s): win probability %.0f%%, consistency %.0f%%, MVP score %.0f/100.",
		player.GamerTag, player.Game, player.Rank,
		player.WinProbability*100, player.Consistency*100, player.MVPScore,
	)

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.7,
		ResponseFormat: &format{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call text generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("text generation API returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("text generation API returned no choices")
	}

	var commentary Commentary
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &commentary); err != nil {
		return nil, fmt.Errorf("failed to parse commentary: %w", err)
	}
	if commentary.Summary == "" {
		return nil, errors.New("text generation API returned empty summary")
	}

	c.log.Debug().
		Str("model", c.model).
		Str("gamer_tag", player.GamerTag).
		Msg("Generated commentary")

	return &commentary, nil
}
