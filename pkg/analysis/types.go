package analysis

import (
	"context"

	"github.com/rs/zerolog"
)

// Input contains the artefacts needed to review a C submission.
type Input struct {
	Code         string
	Title        string
	Statement    string
	Constraints  string
	SampleInput  string
	SampleOutput string
}

// Report is the structured feedback produced for a submission. Score is
// always within [0, 100] and Suggestions is never empty.
type Report struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"`
}

// Analyzer reviews submitted code against a problem and produces a report.
type Analyzer interface {
	Analyze(ctx context.Context, input Input) (Report, error)
}

// Config selects and configures the analyzer implementation.
type Config struct {
	// OpenAIAPIKey enables the remote critique when set. When empty the
	// built-in heuristic analyzer is used; that is the documented default
	// for installations without a configured provider, not a degraded mode.
	OpenAIAPIKey string
	Model        string
	MaxTokens    int
	Temperature  float32
	Logger       zerolog.Logger
}

// New builds the analyzer for the given configuration.
func New(cfg Config) (Analyzer, error) {
	if cfg.OpenAIAPIKey == "" {
		return NewHeuristicAnalyzer(), nil
	}
	return NewOpenAIAnalyzer(cfg)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
