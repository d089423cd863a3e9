package dto

import (
	"time"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
)

// SubmitCodeRequest is the payload for evaluating a solution against one
// problem of an assignment, addressed by its zero-based index.
type SubmitCodeRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	ProblemIndex int    `json:"problem_index" validate:"gte=0"`
	Code         string `json:"code" validate:"required,min=1"`
}

// TestResultResponse is one judged test case outcome.
type TestResultResponse struct {
	CaseIndex      int    `json:"case_index"`
	Passed         bool   `json:"passed"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
	Detail         string `json:"detail,omitempty"`
}

// SubmissionResponse represents a stored submission to API consumers.
type SubmissionResponse struct {
	ID           uint                 `json:"id"`
	StudentID    uint                 `json:"student_id"`
	AssignmentID uint                 `json:"assignment_id"`
	ProblemIndex int                  `json:"problem_index"`
	Status       string               `json:"status"`
	Score        *int                 `json:"score"`
	Feedback     string               `json:"feedback"`
	Suggestions  []string             `json:"suggestions"`
	TestResults  []TestResultResponse `json:"test_results"`
	SubmittedAt  time.Time            `json:"submitted_at"`
}

// SubmitCodeResponse is returned from the submission endpoint. Feedback
// and suggestions are surfaced alongside the persisted record.
type SubmitCodeResponse struct {
	Submission  SubmissionResponse   `json:"submission"`
	TestResults []TestResultResponse `json:"test_results"`
	Feedback    string               `json:"feedback"`
	Suggestions []string             `json:"suggestions"`
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	results := make([]TestResultResponse, 0, len(submission.TestResults))
	for _, result := range submission.TestResults {
		results = append(results, TestResultResponse{
			CaseIndex:      result.CaseIndex,
			Passed:         result.Passed,
			ExpectedOutput: result.ExpectedOutput,
			ActualOutput:   result.ActualOutput,
			Detail:         result.Detail,
		})
	}

	return SubmissionResponse{
		ID:           submission.ID,
		StudentID:    submission.StudentID,
		AssignmentID: submission.AssignmentID,
		ProblemIndex: submission.ProblemIndex,
		Status:       submission.Status,
		Score:        submission.Score,
		Feedback:     submission.Feedback,
		Suggestions:  submission.SuggestionList(),
		TestResults:  results,
		SubmittedAt:  submission.SubmittedAt,
	}
}

// NewSubmissionListResponse converts a slice of submissions.
func NewSubmissionListResponse(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
