package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// DefaultModel is used when no model is configured
const DefaultModel = "claude-sonnet-4-5"

const extractPrompt = `Extract all tasks from this description. For each task, create a structured JSON array entry with:
- name: Task name (string)
- durationMinutes: Duration in minutes (int)
- idealStart: Start time like "08:00" (string)
- idealEnd: End time like "09:00" (string)
- days: Array of days like ["MONDAY", "TUESDAY"] (array of strings)
- dependsOn: Array of dependency task names (array of strings, empty if none)
Return ONLY the JSON array, no other text. Example:
[
  {"name": "Morning Meeting", "durationMinutes": 30, "idealStart": "08:00", "idealEnd": "09:00", "days": ["MONDAY"], "dependsOn": []}
]
Description: `

// completer is the slice of the messages API the seeder needs
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type anthropicCompleter struct {
	inner anthropic.Client
	model anthropic.Model
}

func (c *anthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(4096),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// LLMSeeder extracts tasks from free text with a language model. It never fails
// outright: without an API key, or once retries are spent, it returns the
// fallback task set.
type LLMSeeder struct {
	client completer
	policy retryPolicy
	log    zerolog.Logger
}

// NewLLMSeeder builds a seeder. apiKey defaults to ANTHROPIC_API_KEY; when neither
// is set the seeder only ever returns the fallback tasks.
func NewLLMSeeder(apiKey, model string, log zerolog.Logger) *LLMSeeder {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	s := &LLMSeeder{
		policy: retryPolicy{MaxAttempts: 3, InitialInterval: 5 * time.Second},
		log:    log,
	}
	if apiKey == "" {
		return s
	}
	if model == "" {
		model = DefaultModel
	}
	s.client = &anthropicCompleter{
		// Retries are ours so rate limits back off the same way everywhere.
		inner: anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model: anthropic.Model(model),
	}
	return s
}

// Seed extracts tasks from input, falling back to FallbackTasks on any failure
func (s *LLMSeeder) Seed(ctx context.Context, input string) (map[string]*models.Task, error) {
	specs, err := s.Extract(ctx, input)
	if err != nil {
		s.log.Error().Err(err).Msg("task extraction failed, falling back to built-in tasks")
		return FallbackTasks(), nil
	}
	tasks, err := BuildTasks(specs, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("extracted tasks are invalid, falling back to built-in tasks")
		return FallbackTasks(), nil
	}
	s.log.Info().Int("tasks", len(tasks)).Msg("seeded tasks from language model")
	return tasks, nil
}

// ErrNoAPIKey is returned by Extract when the seeder has no model client
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY not set")

// Extract asks the model for task specs, retrying on rate limits
func (s *LLMSeeder) Extract(ctx context.Context, input string) ([]models.TaskSpec, error) {
	if s.client == nil {
		return nil, ErrNoAPIKey
	}

	var specs []models.TaskSpec
	op := func(ctx context.Context) error {
		text, err := s.client.Complete(ctx, extractPrompt+input)
		if err != nil {
			return err
		}
		s.log.Debug().Str("response", text).Msg("model response")
		parsed, err := parseSpecs(text)
		if err != nil {
			return err
		}
		specs = parsed
		return nil
	}
	onRetry := func(attempt int, wait time.Duration, err error) {
		s.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", s.policy.MaxAttempts).
			Dur("backoff", wait).
			Msg("rate limited, retrying")
	}
	if err := retry(ctx, op, s.policy, isRateLimited, onRetry); err != nil {
		return nil, fmt.Errorf("extract tasks: %w", err)
	}
	return specs, nil
}

func parseSpecs(text string) ([]models.TaskSpec, error) {
	var specs []models.TaskSpec
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &specs); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return specs, nil
}

func isRateLimited(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate_limit")
}

// stripJSONFences removes markdown code fences models sometimes add
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
