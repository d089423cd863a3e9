package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/observability"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/analysis"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/runner"
)

// SubmissionService evaluates and stores student submissions.
type SubmissionService interface {
	Submit(ctx context.Context, studentID uint, role models.Role, payload dto.SubmitCodeRequest) (dto.SubmitCodeResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	GetForStudent(ctx context.Context, studentID, id uint) (dto.SubmissionResponse, error)
}

// ErrSubmissionForbidden indicates the caller may not submit or view the
// requested submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// ErrProblemIndexOutOfRange indicates the problem index does not address
// a problem of the assignment.
var ErrProblemIndexOutOfRange = errors.New("problem index out of range")

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// Pass threshold and the fixed score assigned when code fails the
// structural pre-check.
const (
	passThreshold        = 60
	structuralFailScore  = 20
	fallbackFeedbackText = "Automated analysis was unavailable for this submission. Your score reflects the test case results only."
)

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	runner      runner.Runner
	analyzer    analysis.Analyzer
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, codeRunner runner.Runner, analyzer analysis.Analyzer, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		runner:      codeRunner,
		analyzer:    analyzer,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("clab/submission"),
	}
}

// Submit runs the full evaluation pipeline and persists the judged
// submission. The record is fully evaluated before it is inserted, so a
// stored submission is never in a partially judged state.
func (s *submissionService) Submit(ctx context.Context, studentID uint, role models.Role, payload dto.SubmitCodeRequest) (dto.SubmitCodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.Int64("assignment.id", int64(payload.AssignmentID)),
		attribute.Int("problem.index", payload.ProblemIndex),
	))
	defer span.End()

	started := time.Now()

	if !role.IsStudent() {
		return dto.SubmitCodeResponse{}, ErrSubmissionForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitCodeResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitCodeResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmitCodeResponse{}, err
	}

	if !assignment.IsActive {
		return dto.SubmitCodeResponse{}, ErrAssignmentNotFound
	}

	problem, ok := assignment.ProblemAt(payload.ProblemIndex)
	if !ok {
		return dto.SubmitCodeResponse{}, ErrProblemIndexOutOfRange
	}

	submission := models.Submission{
		StudentID:    studentID,
		AssignmentID: assignment.ID,
		ProblemIndex: payload.ProblemIndex,
		Code:         payload.Code,
	}

	if missing := missingStructure(payload.Code); len(missing) > 0 {
		s.evaluateStructuralFailure(&submission, missing)
	} else if err := s.evaluate(ctx, &submission, problem, payload.Code); err != nil {
		return dto.SubmitCodeResponse{}, err
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmitCodeResponse{}, err
	}

	observability.Submissions().WithLabelValues(submission.Status).Inc()
	observability.EvaluationLatency().Observe(time.Since(started).Seconds())

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", studentID).
		Uint("assignment_id", assignment.ID).
		Int("problem_index", payload.ProblemIndex).
		Str("status", submission.Status).
		Msg("submission evaluated")

	response := dto.NewSubmissionResponse(submission)
	return dto.SubmitCodeResponse{
		Submission:  response,
		TestResults: response.TestResults,
		Feedback:    response.Feedback,
		Suggestions: response.Suggestions,
	}, nil
}

func (s *submissionService) ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionListResponse(submissions), nil
}

func (s *submissionService) GetForStudent(ctx context.Context, studentID, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.StudentID != studentID {
		return dto.SubmissionResponse{}, ErrSubmissionForbidden
	}

	return dto.NewSubmissionResponse(submission), nil
}

// evaluate runs test cases and merges in the code analysis. The analysis
// can only lower the score; when the analyzer fails the test case score
// stands and the submission carries fallback feedback.
func (s *submissionService) evaluate(ctx context.Context, submission *models.Submission, problem models.Problem, code string) error {
	set := runner.CaseSet{
		TimeLimitSec:  problem.TimeLimitSec,
		MemoryLimitMB: problem.MemoryLimitMB,
	}
	for _, testCase := range problem.TestCases {
		set.Cases = append(set.Cases, runner.Case{
			Index:          testCase.Position,
			Input:          testCase.Input,
			ExpectedOutput: testCase.ExpectedOutput,
		})
	}

	outcomes, err := s.runner.RunCases(ctx, code, set)
	if err != nil {
		return fmt.Errorf("run test cases: %w", err)
	}

	passed := 0
	for _, outcome := range outcomes {
		if outcome.Passed {
			passed++
		}
		submission.TestResults = append(submission.TestResults, models.TestResult{
			CaseIndex:      outcome.CaseIndex,
			Passed:         outcome.Passed,
			ExpectedOutput: outcome.ExpectedOutput,
			ActualOutput:   outcome.ActualOutput,
			Detail:         outcome.Detail,
		})
	}

	score := 0
	if len(outcomes) > 0 {
		score = int(math.Round(float64(passed) / float64(len(outcomes)) * 100))
	}

	if score >= passThreshold {
		submission.Status = models.SubmissionStatusPassed
	} else {
		submission.Status = models.SubmissionStatusFailed
	}

	report, err := s.analyzer.Analyze(ctx, analysis.Input{
		Code:         code,
		Title:        problem.Title,
		Statement:    problem.Statement,
		Constraints:  problem.Constraints,
		SampleInput:  problem.SampleInput,
		SampleOutput: problem.SampleOutput,
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint("assignment_id", submission.AssignmentID).Msg("code analysis unavailable")
		submission.Score = &score
		submission.Feedback = fallbackFeedbackText
		submission.Suggestions = mustMarshalSuggestions([]string{})
		return nil
	}

	final := score
	if report.Score < final {
		final = report.Score
	}

	submission.Score = &final
	submission.Feedback = report.Feedback
	submission.Suggestions = mustMarshalSuggestions(report.Suggestions)
	return nil
}

// evaluateStructuralFailure records a failed submission without running
// test cases or analysis. The score is fixed at 20.
func (s *submissionService) evaluateStructuralFailure(submission *models.Submission, missing []string) {
	score := structuralFailScore
	detail := fmt.Sprintf("missing required structure: %s", strings.Join(missing, ", "))

	suggestions := make([]string, 0, len(missing))
	for _, element := range missing {
		suggestions = append(suggestions, fmt.Sprintf("Add %s to your program.", element))
	}

	submission.Status = models.SubmissionStatusFailed
	submission.Score = &score
	submission.Feedback = "Your code is missing required C program structure and was not executed."
	submission.Suggestions = mustMarshalSuggestions(suggestions)
	submission.TestResults = []models.TestResult{{
		CaseIndex: 0,
		Passed:    false,
		Detail:    detail,
	}}
}

// missingStructure names the structural elements absent from the code.
// An empty result means the code may be executed.
func missingStructure(code string) []string {
	var missing []string
	if !strings.Contains(code, "int main") {
		missing = append(missing, "an int main function")
	}
	if !strings.Contains(code, "#include") {
		missing = append(missing, "an #include directive")
	}
	if !strings.Contains(code, "return") {
		missing = append(missing, "a return statement")
	}
	return missing
}

func mustMarshalSuggestions(suggestions []string) []byte {
	if suggestions == nil {
		suggestions = []string{}
	}
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return []byte("[]")
	}
	return payload
}
