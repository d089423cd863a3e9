package dto

import "time"

// SubmissionActivity is one recent submission entry on a dashboard.
type SubmissionActivity struct {
	SubmissionID    uint      `json:"submission_id"`
	AssignmentID    uint      `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	Status          string    `json:"status"`
	Score           *int      `json:"score"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// TeacherDashboardResponse aggregates activity across a teacher's assignments.
type TeacherDashboardResponse struct {
	AssignmentCount int                  `json:"assignment_count"`
	SubmissionCount int                  `json:"submission_count"`
	StudentCount    int                  `json:"student_count"`
	RecentActivity  []SubmissionActivity `json:"recent_activity"`
}

// StudentDashboardResponse aggregates a student's own progress.
type StudentDashboardResponse struct {
	ActiveAssignments int                  `json:"active_assignments"`
	SubmissionCount   int                  `json:"submission_count"`
	PassedCount       int                  `json:"passed_count"`
	RecentActivity    []SubmissionActivity `json:"recent_activity"`
}
