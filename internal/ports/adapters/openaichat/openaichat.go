// Package openaichat reorders candidates through any OpenAI-compatible chat
// completions endpoint.
package openaichat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/forPelevin/hookcut/internal/ports/adapters/llmmix"
	"github.com/forPelevin/hookcut/internal/types"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

var defaultAllowedHosts = []string{"api.openai.com"}

type Adapter struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func New(apiKey, model, baseURL string, timeout time.Duration) *Adapter {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Adapter{client: openai.NewClient(opts...), model: model, timeout: timeout}
}

// ValidateBaseURL checks an OpenAI-compatible base URL against allowedHosts,
// or api.openai.com when none are configured.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	return llmmix.ValidateBaseURL(strings.TrimSpace(baseURL), allowedHosts, defaultAllowedHosts)
}

// Reorder makes a single JSON-mode completion call and maps the answer onto
// cands.
func (a *Adapter) Reorder(ctx context.Context, tr types.Transcript, cands []types.Candidate, k int) ([]types.Highlight, error) {
	if k <= 0 || len(cands) == 0 {
		return nil, llmmix.ErrNoUsableClips
	}
	userPrompt, err := llmmix.UserPrompt(tr, cands, k)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llmmix.SystemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       a.model,
		Temperature: openai.Float(0.3),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("openai timeout after %s (model=%s)", a.timeout, a.model)
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: no choices in response")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, errors.New("openai: empty content")
	}
	return llmmix.Resolve(content, cands, k)
}
