package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	critiqueDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clab",
		Subsystem: "analysis",
		Name:      "critique_duration_seconds",
		Help:      "Duration of AI critique requests",
	}, []string{"model"})

	critiqueFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clab",
		Subsystem: "analysis",
		Name:      "critique_failures_total",
		Help:      "Number of AI critique failures",
	}, []string{"model"})
)

// critiqueTimeout bounds a single remote critique call. A timeout is a
// call failure, handled by the caller's degrade path.
const critiqueTimeout = 20 * time.Second

// OpenAIAnalyzer implements Analyzer against the OpenAI chat completion
// API. Once configured it never silently falls back to the heuristic
// analyzer: call and parse failures surface as errors.
type OpenAIAnalyzer struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAnalyzer builds a remote critique analyzer.
func NewOpenAIAnalyzer(cfg Config) (*OpenAIAnalyzer, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}

	tracer := otel.Tracer("github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/analysis")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.OpenAIAPIKey))

	return &OpenAIAnalyzer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Analyze sends the critique request to OpenAI and parses the response.
func (a *OpenAIAnalyzer) Analyze(parent context.Context, input Input) (Report, error) {
	ctx, span := a.tracer.Start(parent, "openai.critique", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, critiqueTimeout)
	defer cancel()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: critiqueSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildCritiquePrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	critiqueDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		critiqueFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, fmt.Errorf("openai critique: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		critiqueFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	report, err := parseCritiqueResponse(strings.TrimSpace(resp.Choices[0].Message.Content))
	if err != nil {
		critiqueFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	return report, nil
}

func critiqueSystemPrompt() string {
	return "You are a C programming tutor reviewing a student submission. Respond with a JSON object containing feedback (str" +
		"ing), suggestions (array of strings), and score (integer 0-100). Judge correctness against the problem statement and " +
		"expected output, then code quality."
}

func buildCritiquePrompt(input Input) string {
	builder := strings.Builder{}
	builder.WriteString("# Problem\n")
	builder.WriteString(input.Title)
	builder.WriteString("\n\n## Statement\n")
	builder.WriteString(input.Statement)
	if input.Constraints != "" {
		builder.WriteString("\n\n## Constraints\n")
		builder.WriteString(input.Constraints)
	}
	builder.WriteString("\n\n## Sample Input\n")
	builder.WriteString(input.SampleInput)
	builder.WriteString("\n\n## Expected Sample Output\n")
	builder.WriteString(input.SampleOutput)
	builder.WriteString("\n\n## Submitted Code\n")
	builder.WriteString(input.Code)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseCritiqueResponse(content string) (Report, error) {
	type payload struct {
		Feedback    string   `json:"feedback"`
		Suggestions []string `json:"suggestions"`
		Score       int      `json:"score"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return Report{}, fmt.Errorf("parse critique json: %w", err)
	}

	if data.Suggestions == nil {
		data.Suggestions = []string{}
	}

	return Report{
		Feedback:    data.Feedback,
		Suggestions: data.Suggestions,
		Score:       clampScore(data.Score),
	}, nil
}
