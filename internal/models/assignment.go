package models

import "time"

// Problem difficulty bands. Synthesised problems derive their default
// time and memory limits from these.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Assignment is an ordered bundle of problems owned by a teacher.
// Problem order is significant: submissions reference problems by index.
type Assignment struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Title            string       `gorm:"size:255;not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	TeacherID        uint         `gorm:"not null;index" json:"teacher_id"`
	TimeLimitMinutes *int         `json:"time_limit_minutes"`
	DueDate          *time.Time   `json:"due_date"`
	IsActive         bool         `gorm:"not null;default:false" json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Problems         []Problem    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"problems"`
	Submissions      []Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// ProblemAt returns the problem at the given zero-based index.
func (a Assignment) ProblemAt(index int) (Problem, bool) {
	if index < 0 || index >= len(a.Problems) {
		return Problem{}, false
	}
	return a.Problems[index], true
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && reference.After(*a.DueDate)
}

// Problem is a single graded exercise embedded in an assignment. Its slug
// is only unique within the owning assignment's problem list.
type Problem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AssignmentID  uint       `gorm:"not null;index" json:"assignment_id"`
	Slug          string     `gorm:"size:64;not null" json:"slug"`
	Position      int        `gorm:"not null" json:"position"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Statement     string     `gorm:"type:text" json:"statement"`
	InputFormat   string     `gorm:"type:text" json:"input_format"`
	OutputFormat  string     `gorm:"type:text" json:"output_format"`
	Constraints   string     `gorm:"type:text" json:"constraints"`
	SampleInput   string     `gorm:"type:text" json:"sample_input"`
	SampleOutput  string     `gorm:"type:text" json:"sample_output"`
	Difficulty    string     `gorm:"size:16;not null" json:"difficulty"`
	TimeLimitSec  int        `gorm:"not null" json:"time_limit_sec"`
	MemoryLimitMB int        `gorm:"not null" json:"memory_limit_mb"`
	TestCases     []TestCase `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test_cases"`
}

// TestCase is an immutable input/expected-output pair used to judge a
// solution against its problem.
type TestCase struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ProblemID      uint   `gorm:"not null;index" json:"problem_id"`
	Position       int    `gorm:"not null" json:"position"`
	Input          string `gorm:"type:text" json:"input"`
	ExpectedOutput string `gorm:"type:text" json:"expected_output"`
}
