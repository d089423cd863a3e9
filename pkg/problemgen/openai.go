package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clab",
		Subsystem: "problemgen",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI problem generation requests",
	}, []string{"model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clab",
		Subsystem: "problemgen",
		Name:      "generation_failures_total",
		Help:      "Number of AI problem generation failures",
	}, []string{"model"})
)

const generationSchemaJSON = `{
  "type": "object",
  "required": ["problems"],
  "properties": {
    "problems": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": [
          "title", "statement", "input_format", "output_format",
          "constraints", "sample_input", "sample_output", "difficulty",
          "time_limit_sec", "memory_limit_mb", "test_cases"
        ],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "statement": {"type": "string", "minLength": 1},
          "input_format": {"type": "string"},
          "output_format": {"type": "string"},
          "constraints": {"type": "string"},
          "sample_input": {"type": "string"},
          "sample_output": {"type": "string"},
          "difficulty": {"enum": ["easy", "medium", "hard"]},
          "time_limit_sec": {"type": "integer", "minimum": 1},
          "memory_limit_mb": {"type": "integer", "minimum": 1},
          "test_cases": {
            "type": "array",
            "minItems": 3,
            "items": {
              "type": "object",
              "required": ["input", "expected_output"],
              "properties": {
                "input": {"type": "string"},
                "expected_output": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var generationSchema = jsonschema.MustCompileString("problems.schema.json", generationSchemaJSON)

// OpenAIGenerator produces problems via a single chat-completion request.
// Once AI mode is selected, call or parse failures surface as generation
// errors: there is no silent fallback to the template bank.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGenerator builds an AI-backed problem generator.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	tracer := otel.Tracer("github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/problemgen")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.OpenAIAPIKey))

	return &OpenAIGenerator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Generate asks the model for the full batch in one request and validates
// the structured response before returning it.
func (g *OpenAIGenerator) Generate(parent context.Context, topic string, dist Distribution) ([]Draft, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("topic", topic),
		attribute.Int("problem_count", dist.Total()),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: generationSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildGenerationPrompt(topic, dist),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	generationDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		generationFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		generationFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	drafts, err := parseGenerationPayload(strings.TrimSpace(resp.Choices[0].Message.Content), dist)
	if err != nil {
		generationFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return drafts, nil
}

func generationSystemPrompt() string {
	return "You are an instructor authoring C programming problems. Respond with a JSON object of the form {\"problems\": [...]}" +
		". Each problem must contain title, statement, input_format, output_format, constraints, sample_input, sample_output, " +
		"difficulty (easy|medium|hard), time_limit_sec, memory_limit_mb, and at least 3 test_cases of {input, expected_output}."
}

func buildGenerationPrompt(topic string, dist Distribution) string {
	builder := strings.Builder{}
	builder.WriteString("Generate C programming problems for the topic: ")
	builder.WriteString(topic)
	builder.WriteString("\n\nProduce exactly:\n")
	fmt.Fprintf(&builder, "- %d easy problems\n", dist.Easy)
	fmt.Fprintf(&builder, "- %d medium problems\n", dist.Medium)
	fmt.Fprintf(&builder, "- %d hard problems\n", dist.Hard)
	builder.WriteString("\nEvery problem needs a title, a full statement, input and output format descriptions, constraints, ")
	builder.WriteString("sample input and output, its difficulty, a time limit in seconds, a memory limit in MB, and at least ")
	builder.WriteString("3 test cases with input and expected_output. Return JSON.")
	return builder.String()
}

// parseGenerationPayload validates the model response against the problem
// schema, checks that the difficulty counts match the request exactly and
// reassigns sequential slugs in easy, medium, hard order.
func parseGenerationPayload(content string, dist Distribution) ([]Draft, error) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, fmt.Errorf("parse generation json: %w", err)
	}

	if err := generationSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("generation payload rejected by schema: %w", err)
	}

	var payload struct {
		Problems []Draft `json:"problems"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse generation json: %w", err)
	}

	counts := map[string]int{}
	for _, draft := range payload.Problems {
		counts[draft.Difficulty]++
	}
	if counts[DifficultyEasy] != dist.Easy || counts[DifficultyMedium] != dist.Medium || counts[DifficultyHard] != dist.Hard {
		return nil, fmt.Errorf("generated difficulty counts %de/%dm/%dh do not match requested %de/%dm/%dh",
			counts[DifficultyEasy], counts[DifficultyMedium], counts[DifficultyHard],
			dist.Easy, dist.Medium, dist.Hard)
	}

	drafts := payload.Problems
	sort.SliceStable(drafts, func(i, j int) bool {
		return difficultyRank(drafts[i].Difficulty) < difficultyRank(drafts[j].Difficulty)
	})
	for i := range drafts {
		drafts[i].Slug = fmt.Sprintf("problem_%d", i+1)
	}

	return drafts, nil
}

func difficultyRank(difficulty string) int {
	switch difficulty {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	default:
		return 2
	}
}
