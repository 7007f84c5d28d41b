package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/metrics"
	"github.com/saasfinder/backend/pkg/circuitbreaker"
	"github.com/saasfinder/backend/pkg/logger"
	"github.com/saasfinder/backend/pkg/retry"
)

const (
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelPositive = "positive"
)

// Result is a classifier verdict for one piece of text.
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier assigns a sentiment label with a confidence to a text. The
// pipeline treats it as a black box model.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// OpenAIClassifier classifies sentiment through a chat model. Calls run
// under a per-call deadline with retry and a circuit breaker, since model
// inference is the dominant latency source of the advanced detector.
type OpenAIClassifier struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

const systemPrompt = `You are a sentiment classifier. Respond with a single JSON object of the form {"label": "negative"|"neutral"|"positive", "confidence": <0.0-1.0>} and nothing else.`

func NewOpenAIClassifier(apiKey, model string, timeout time.Duration) *OpenAIClassifier {
	cb := circuitbreaker.NewCircuitBreaker("sentiment", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Sentiment classifier initialized", zap.String("model", model))

	return &OpenAIClassifier{
		client:      openai.NewClient(apiKey),
		model:       model,
		timeout:     timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result Result

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model: c.model,
					Messages: []openai.ChatCompletionMessage{
						{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
						{Role: openai.ChatMessageRoleUser, Content: text},
					},
					Temperature: 0,
					MaxTokens:   64,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to classify sentiment: %w", err)
			}

			if len(resp.Choices) == 0 {
				return fmt.Errorf("classifier returned no choices")
			}

			parsed, err := parseResult(resp.Choices[0].Message.Content)
			if err != nil {
				return err
			}

			result = parsed
			return nil
		})
	})

	if err != nil {
		metrics.ClassifierCalls.WithLabelValues("error").Inc()
		return Result{}, err
	}
	metrics.ClassifierCalls.WithLabelValues("success").Inc()

	logger.Debug("Sentence classified",
		zap.String("label", result.Label),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

func parseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)

	// Some models wrap JSON in a code fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse classifier response %q: %w", content, err)
	}

	switch result.Label {
	case LabelNegative, LabelNeutral, LabelPositive:
	default:
		return Result{}, fmt.Errorf("unexpected sentiment label %q", result.Label)
	}

	if result.Confidence < 0 || result.Confidence > 1 {
		return Result{}, fmt.Errorf("classifier confidence %f out of range", result.Confidence)
	}

	return result, nil
}
