// Copyright 2024 Restaurant AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package backend abstracts over interchangeable generative backends. Exactly
// one backend is selected at startup from configuration; the orchestrator
// falls back to the rule engine whenever a call fails.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// MaxTokens bounds the generated reply length.
	MaxTokens = 80
	// Temperature is the fixed sampling temperature for chat replies.
	Temperature = 0.8
	// CallTimeout bounds a single backend call.
	CallTimeout = 10 * time.Second

	openAIModel = "gpt-3.5-turbo"
	groqModel   = "llama3-70b-8192"
	groqBaseURL = "https://api.groq.com/openai/v1"
)

// Error carries the upstream status and detail of a failed backend call.
// The orchestrator catches it and falls back to the rule engine; it never
// reaches the end user.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error: %s", e.Detail)
}

// Generator is the capability contract for a generative backend.
type Generator interface {
	// Generate produces response text for the rendered system prompt and the
	// raw user message. Failures are reported as *Error.
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
	// Name identifies the backend for logging.
	Name() string
}

// Options configures a backend client.
type Options struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
	name   string
	logger *zap.Logger
}

// New creates a backend client for an OpenAI-compatible endpoint.
func New(opts Options, logger *zap.Logger) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		name:   opts.Name,
		logger: logger,
	}
}

// NewOpenAI creates a client for the OpenAI chat completion API.
func NewOpenAI(apiKey string, logger *zap.Logger) *Client {
	return New(Options{Name: "openai", APIKey: apiKey, Model: openAIModel}, logger)
}

// NewGroq creates a client for the Groq OpenAI-compatible API.
func NewGroq(apiKey string, logger *zap.Logger) *Client {
	return New(Options{Name: "groq", APIKey: apiKey, Model: groqModel, BaseURL: groqBaseURL}, logger)
}

// Select picks the active backend from configured credentials: OpenAI first,
// then Groq, else nil for the rule-based path.
func Select(openAIKey, groqKey string, logger *zap.Logger) Generator {
	switch {
	case openAIKey != "":
		logger.Info("Using OpenAI as generative backend")
		return NewOpenAI(openAIKey, logger)
	case groqKey != "":
		logger.Info("Using Groq as generative backend")
		return NewGroq(groqKey, logger)
	default:
		logger.Warn("No backend API keys configured, using rule-based responses")
		return nil
	}
}

// Name identifies the backend for logging.
func (c *Client) Name() string {
	return c.name
}

// Generate sends the prompt and user message to the backend and returns the
// trimmed reply text.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return "", c.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Detail: "no choices in response"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debug("Backend call completed",
		zap.String("backend", c.name),
		zap.String("model", c.model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return text, nil
}

// wrapError normalizes transport and API failures into *Error with the
// upstream status preserved for logging.
func (c *Client) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Status: apiErr.HTTPStatusCode, Detail: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Status: reqErr.HTTPStatusCode, Detail: reqErr.Error()}
	}

	return &Error{Detail: err.Error()}
}
