package oracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/sourcescout/pkg/config"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
	"github.com/matzehuels/sourcescout/pkg/observability"
)

// maxReplyBytes bounds how much of a completion response is read.
const maxReplyBytes = 4 << 20

// Completer turns a prompt into a reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatClient is a [Completer] backed by an OpenAI-compatible
// /chat/completions endpoint. Transport-level retries come from the
// [httputil.Transport]; the client itself never retries.
type ChatClient struct {
	url         string
	key         string
	model       string
	temperature float64
	transport   *httputil.Transport
}

// NewChatClient creates a client for the endpoint described by cfg.
func NewChatClient(cfg config.APIConfig, transport *httputil.Transport) *ChatClient {
	return &ChatClient{
		url:         cfg.URL,
		key:         cfg.Key,
		model:       cfg.ModelID,
		temperature: cfg.Temperature,
		transport:   transport,
	}
}

// Model returns the configured model identifier.
func (c *ChatClient) Model() string { return c.model }

// Complete sends prompt as a single user message and returns the content of
// the first choice.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (reply string, err error) {
	start := time.Now()
	defer func() {
		observability.Oracle().OnCompletion(ctx, c.model, len(prompt), time.Since(start), err)
	}()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode completion request")
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if c.key != "" {
		header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.transport.Post(ctx, c.url, body, header)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOracleContract, err, "read completion response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Wrap(errors.ErrCodeOracleContract,
			errors.NewStatusError(c.url, resp.StatusCode),
			"completion endpoint returned %d: %s", resp.StatusCode, snippet(data))
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", errors.Wrap(errors.ErrCodeOracleContract, err, "decode completion response")
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New(errors.ErrCodeOracleContract, "completion response has no choices")
	}
	content := decoded.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New(errors.ErrCodeOracleContract, "completion response has empty content")
	}
	return content, nil
}

func snippet(data []byte) string {
	const n = 200
	s := strings.TrimSpace(string(data))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

var _ Completer = (*ChatClient)(nil)
