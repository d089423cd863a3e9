package dto

import (
	"time"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
)

// TestCaseRequest is one authored input/expected-output pair.
type TestCaseRequest struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output" validate:"required"`
}

// ProblemRequest is one manually authored problem.
type ProblemRequest struct {
	Title         string            `json:"title" validate:"required,max=255"`
	Statement     string            `json:"statement" validate:"required"`
	InputFormat   string            `json:"input_format"`
	OutputFormat  string            `json:"output_format"`
	Constraints   string            `json:"constraints"`
	SampleInput   string            `json:"sample_input"`
	SampleOutput  string            `json:"sample_output"`
	Difficulty    string            `json:"difficulty" validate:"required,oneof=easy medium hard"`
	TimeLimitSec  int               `json:"time_limit_sec" validate:"required,gt=0"`
	MemoryLimitMB int               `json:"memory_limit_mb" validate:"required,gt=0"`
	TestCases     []TestCaseRequest `json:"test_cases" validate:"required,min=1,dive"`
}

// CreateAssignmentRequest is the payload for manual assignment authoring.
type CreateAssignmentRequest struct {
	Title            string           `json:"title" validate:"required,max=255"`
	Description      string           `json:"description"`
	TimeLimitMinutes *int             `json:"time_limit_minutes" validate:"omitempty,gt=0"`
	DueDate          *time.Time       `json:"due_date"`
	IsActive         bool             `json:"is_active"`
	Problems         []ProblemRequest `json:"problems" validate:"required,min=1,dive"`
}

// GenerateAssignmentRequest asks the service to synthesise an assignment
// for a topic. DifficultyDistribution follows the fixed
// "<n> Easy, <n> Medium, <n> Hard" pattern.
type GenerateAssignmentRequest struct {
	Topic                  string `json:"topic" validate:"required,max=255"`
	DifficultyDistribution string `json:"difficulty_distribution" validate:"required"`
	TimeLimitMinutes       *int   `json:"time_limit_minutes" validate:"omitempty,gt=0"`
}

// UpdateAssignmentRequest applies a partial update. Ownership and the
// problem list are never updatable.
type UpdateAssignmentRequest struct {
	Title            *string    `json:"title" validate:"omitempty,max=255"`
	Description      *string    `json:"description"`
	TimeLimitMinutes *int       `json:"time_limit_minutes" validate:"omitempty,gt=0"`
	DueDate          *time.Time `json:"due_date"`
	IsActive         *bool      `json:"is_active"`
}

// TestCaseResponse represents a test case to API consumers.
type TestCaseResponse struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// ProblemResponse represents a problem to API consumers. Test cases are
// only included on the teacher surface.
type ProblemResponse struct {
	Slug          string             `json:"slug"`
	Title         string             `json:"title"`
	Statement     string             `json:"statement"`
	InputFormat   string             `json:"input_format"`
	OutputFormat  string             `json:"output_format"`
	Constraints   string             `json:"constraints"`
	SampleInput   string             `json:"sample_input"`
	SampleOutput  string             `json:"sample_output"`
	Difficulty    string             `json:"difficulty"`
	TimeLimitSec  int                `json:"time_limit_sec"`
	MemoryLimitMB int                `json:"memory_limit_mb"`
	TestCases     []TestCaseResponse `json:"test_cases,omitempty"`
}

// AssignmentResponse represents an assignment to API consumers.
type AssignmentResponse struct {
	ID               uint              `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	TeacherID        uint              `json:"teacher_id"`
	TimeLimitMinutes *int              `json:"time_limit_minutes"`
	DueDate          *time.Time        `json:"due_date"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	Problems         []ProblemResponse `json:"problems"`
}

// NewAssignmentResponse builds a response DTO from a model.
func NewAssignmentResponse(assignment models.Assignment, includeTestCases bool) AssignmentResponse {
	problems := make([]ProblemResponse, 0, len(assignment.Problems))
	for _, problem := range assignment.Problems {
		problems = append(problems, newProblemResponse(problem, includeTestCases))
	}

	return AssignmentResponse{
		ID:               assignment.ID,
		Title:            assignment.Title,
		Description:      assignment.Description,
		TeacherID:        assignment.TeacherID,
		TimeLimitMinutes: assignment.TimeLimitMinutes,
		DueDate:          assignment.DueDate,
		IsActive:         assignment.IsActive,
		CreatedAt:        assignment.CreatedAt,
		Problems:         problems,
	}
}

// NewAssignmentListResponse converts a slice of assignments.
func NewAssignmentListResponse(assignments []models.Assignment, includeTestCases bool) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, includeTestCases))
	}
	return responses
}

func newProblemResponse(problem models.Problem, includeTestCases bool) ProblemResponse {
	response := ProblemResponse{
		Slug:          problem.Slug,
		Title:         problem.Title,
		Statement:     problem.Statement,
		InputFormat:   problem.InputFormat,
		OutputFormat:  problem.OutputFormat,
		Constraints:   problem.Constraints,
		SampleInput:   problem.SampleInput,
		SampleOutput:  problem.SampleOutput,
		Difficulty:    problem.Difficulty,
		TimeLimitSec:  problem.TimeLimitSec,
		MemoryLimitMB: problem.MemoryLimitMB,
	}

	if includeTestCases {
		cases := make([]TestCaseResponse, 0, len(problem.TestCases))
		for _, testCase := range problem.TestCases {
			cases = append(cases, TestCaseResponse{
				Input:          testCase.Input,
				ExpectedOutput: testCase.ExpectedOutput,
			})
		}
		response.TestCases = cases
	}

	return response
}
