package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/examportal/internal/bank"
	"github.com/pavelanni/examportal/internal/llm/prompts"
	"github.com/pavelanni/examportal/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoQuestions is returned when a response holds no usable question.
var ErrNoQuestions = errors.New("LLM returned no usable questions")

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

type generated struct {
	Questions []struct {
		Prompt     string           `json:"prompt"`
		Options    []string         `json:"options"`
		Answer     int              `json:"answer"`
		Difficulty model.Difficulty `json:"difficulty"`
	} `json:"questions"`
}

// GenerateQuestions asks the model for count questions on subject. Entries
// that fail import validation are dropped; ErrNoQuestions is returned when
// none survive. avoid lists prompts already in the bank.
func (c *Client) GenerateQuestions(ctx context.Context, subject string, count int, avoid []string) ([]model.Question, error) {
	if err := prompts.Load(prompts.FS); err != nil {
		return nil, err
	}
	system, err := prompts.System()
	if err != nil {
		return nil, err
	}
	user, err := prompts.BuildGenerate(subject, count, "", avoid)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	qs, err := parseQuestions(subject, raw)
	if err != nil {
		return nil, err
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	slog.Info("generated questions", "subject", subject, "requested", count, "accepted", len(qs))
	return qs, nil
}

func parseQuestions(subject, raw string) ([]model.Question, error) {
	var g generated
	if err := json.Unmarshal([]byte(stripFence(raw)), &g); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	var out []model.Question
	for i, q := range g.Questions {
		item := model.QuestionImport{
			Subject:    subject,
			Prompt:     q.Prompt,
			Options:    q.Options,
			Answer:     q.Answer,
			Difficulty: q.Difficulty,
		}
		imported, err := bank.FromImports([]model.QuestionImport{item})
		if err != nil {
			slog.Warn("dropping generated question", "index", i, "error", err)
			continue
		}
		out = append(out, imported[0])
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	for i := range out {
		out[i].ID = i + 1
	}
	return out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
