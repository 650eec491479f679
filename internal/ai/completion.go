package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/config"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("completion returned no content")

// Cache stores completions by prompt digest.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CompletionClient talks to an OpenAI-compatible chat completion endpoint.
type CompletionClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	maxRetries  int
	retryDelay  time.Duration
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewCompletionClient builds a client from config. cache may be nil.
func NewCompletionClient(cfg config.SkillInferenceConfig, cache Cache, logger *zap.Logger) *CompletionClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &CompletionClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay(),
		cache:       cache,
		cacheTTL:    cfg.CacheTTL(),
		logger:      logger,
	}
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	key := c.cacheKey(prompt)
	if c.cache != nil && c.cacheTTL > 0 {
		if cached, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Debug("completion cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, c.retryDelay*time.Duration(attempt)); err != nil {
				return "", err
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if !retryable(err) {
				break
			}
			c.logger.Warn("completion attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", ErrEmptyCompletion
		}

		content := resp.Choices[0].Message.Content
		if c.cache != nil && c.cacheTTL > 0 {
			if err := c.cache.Set(ctx, key, content, c.cacheTTL); err != nil {
				c.logger.Debug("completion cache write failed", zap.Error(err))
			}
		}
		return content, nil
	}
	return "", fmt.Errorf("chat completion: %w", lastErr)
}

func (c *CompletionClient) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + prompt))
	return "skill-inference:" + hex.EncodeToString(sum[:])
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// transport errors
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
