package problemgen

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
)

// Difficulty values produced by generators.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ErrInvalidDistribution indicates a difficulty distribution string that
// does not match the accepted "<n> Easy, <n> Medium, <n> Hard" pattern.
var ErrInvalidDistribution = errors.New("invalid difficulty distribution")

// Distribution is the requested number of problems per difficulty.
type Distribution struct {
	Easy   int
	Medium int
	Hard   int
}

// Total returns the number of problems the distribution asks for.
func (d Distribution) Total() int {
	return d.Easy + d.Medium + d.Hard
}

var distributionPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*easy\s*,\s*(\d+)\s*medium\s*,\s*(\d+)\s*hard\s*$`)

// ParseDistribution parses a difficulty distribution string such as
// "2 Easy, 2 Medium, 1 Hard". The total must be at least one.
func ParseDistribution(value string) (Distribution, error) {
	matches := distributionPattern.FindStringSubmatch(value)
	if matches == nil {
		return Distribution{}, fmt.Errorf("%w: %q", ErrInvalidDistribution, value)
	}

	easy, _ := strconv.Atoi(matches[1])
	medium, _ := strconv.Atoi(matches[2])
	hard, _ := strconv.Atoi(matches[3])

	dist := Distribution{Easy: easy, Medium: medium, Hard: hard}
	if dist.Total() < 1 {
		return Distribution{}, fmt.Errorf("%w: at least one problem is required", ErrInvalidDistribution)
	}

	return dist, nil
}

// TestCaseDraft is one generated input/expected-output pair.
type TestCaseDraft struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// Draft is a generated problem before it is attached to an assignment.
type Draft struct {
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Statement     string          `json:"statement"`
	InputFormat   string          `json:"input_format"`
	OutputFormat  string          `json:"output_format"`
	Constraints   string          `json:"constraints"`
	SampleInput   string          `json:"sample_input"`
	SampleOutput  string          `json:"sample_output"`
	Difficulty    string          `json:"difficulty"`
	TimeLimitSec  int             `json:"time_limit_sec"`
	MemoryLimitMB int             `json:"memory_limit_mb"`
	TestCases     []TestCaseDraft `json:"test_cases"`
}

// Generator produces a batch of problem drafts for a topic. The batch is
// ordered easy block, then medium, then hard, with slugs problem_1..problem_N.
type Generator interface {
	Generate(ctx context.Context, topic string, dist Distribution) ([]Draft, error)
}

// Config selects and configures the generator implementation at startup.
type Config struct {
	// OpenAIAPIKey enables AI generation when set; otherwise the template
	// bank is used. The choice is made once here, never per call.
	OpenAIAPIKey string
	Model        string
	MaxTokens    int
	Temperature  float32
	Logger       zerolog.Logger
}

// New builds the generator for the given configuration.
func New(cfg Config) (Generator, error) {
	if cfg.OpenAIAPIKey == "" {
		return NewTemplateGenerator(), nil
	}
	return NewOpenAIGenerator(cfg)
}

// limitsFor returns the default time and memory limits for a difficulty band.
func limitsFor(difficulty string) (timeLimitSec, memoryLimitMB int) {
	switch difficulty {
	case DifficultyMedium:
		return 2, 128
	case DifficultyHard:
		return 5, 256
	default:
		return 1, 64
	}
}
