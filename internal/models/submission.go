package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Submission status values.
const (
	SubmissionStatusPending = "pending"
	SubmissionStatusPassed  = "passed"
	SubmissionStatusFailed  = "failed"
	SubmissionStatusError   = "error"
)

// Submission is one student's code attempt against one problem of one
// assignment. It is evaluated before insertion and never updated in the
// normal flow.
type Submission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StudentID    uint           `gorm:"not null;index" json:"student_id"`
	AssignmentID uint           `gorm:"not null;index" json:"assignment_id"`
	ProblemIndex int            `gorm:"not null" json:"problem_index"`
	Code         string         `gorm:"type:text" json:"code"`
	Status       string         `gorm:"size:16;not null" json:"status"`
	Score        *int           `json:"score"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	Suggestions  datatypes.JSON `json:"suggestions"`
	TestResults  []TestResult   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test_results"`
	SubmittedAt  time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
}

// Passed reports whether the submission cleared the pass threshold.
func (s Submission) Passed() bool {
	return s.Status == SubmissionStatusPassed
}

// SuggestionList decodes the stored suggestions payload. A missing or
// malformed payload decodes to an empty list.
func (s Submission) SuggestionList() []string {
	if len(s.Suggestions) == 0 {
		return []string{}
	}
	var suggestions []string
	if err := json.Unmarshal(s.Suggestions, &suggestions); err != nil {
		return []string{}
	}
	return suggestions
}

// TestResult is the outcome of one test case of one submission.
type TestResult struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	SubmissionID   uint   `gorm:"not null;index" json:"submission_id"`
	CaseIndex      int    `gorm:"not null" json:"case_index"`
	Passed         bool   `gorm:"not null" json:"passed"`
	ExpectedOutput string `gorm:"type:text" json:"expected_output"`
	ActualOutput   string `gorm:"type:text" json:"actual_output"`
	Detail         string `gorm:"type:text" json:"detail"`
}
