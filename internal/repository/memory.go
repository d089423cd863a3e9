package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
)

// In-memory repositories back the service when no database DSN is
// configured and double as fixtures in tests. Filtered queries are linear
// scans over mutex-guarded maps; single-record writes are atomic.

// MemoryUserRepository is a map-backed UserRepository.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

// NewMemoryUserRepository constructs an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: map[uint]models.User{}}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uint) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	return nil
}

// MemoryAssignmentRepository is a map-backed AssignmentRepository.
type MemoryAssignmentRepository struct {
	mu          sync.RWMutex
	nextID      uint
	assignments map[uint]models.Assignment
}

// NewMemoryAssignmentRepository constructs an empty in-memory assignment store.
func NewMemoryAssignmentRepository() *MemoryAssignmentRepository {
	return &MemoryAssignmentRepository{nextID: 1, assignments: map[uint]models.Assignment{}}
}

func cloneAssignment(assignment models.Assignment) models.Assignment {
	clone := assignment
	clone.Problems = make([]models.Problem, len(assignment.Problems))
	for i, problem := range assignment.Problems {
		problemClone := problem
		problemClone.TestCases = append([]models.TestCase(nil), problem.TestCases...)
		clone.Problems[i] = problemClone
	}
	clone.Submissions = nil
	return clone
}

func (r *MemoryAssignmentRepository) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignment, ok := r.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return cloneAssignment(assignment), nil
}

func (r *MemoryAssignmentRepository) ListByTeacher(_ context.Context, teacherID uint) ([]models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := make([]models.Assignment, 0)
	for _, assignment := range r.assignments {
		if assignment.TeacherID == teacherID {
			assignments = append(assignments, cloneAssignment(assignment))
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (r *MemoryAssignmentRepository) ListActive(_ context.Context) ([]models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := make([]models.Assignment, 0)
	for _, assignment := range r.assignments {
		if assignment.IsActive {
			assignments = append(assignments, cloneAssignment(assignment))
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (r *MemoryAssignmentRepository) Create(_ context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignment.ID = r.nextID
	r.nextID++

	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	for i := range assignment.Problems {
		assignment.Problems[i].ID = uint(i + 1)
		assignment.Problems[i].AssignmentID = assignment.ID
		for j := range assignment.Problems[i].TestCases {
			assignment.Problems[i].TestCases[j].ID = uint(j + 1)
			assignment.Problems[i].TestCases[j].ProblemID = assignment.Problems[i].ID
		}
	}

	r.assignments[assignment.ID] = cloneAssignment(*assignment)
	return nil
}

func (r *MemoryAssignmentRepository) Update(_ context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now().UTC()
	r.assignments[assignment.ID] = cloneAssignment(*assignment)
	return nil
}

func sortAssignments(assignments []models.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].CreatedAt.Equal(assignments[j].CreatedAt) {
			return assignments[i].ID > assignments[j].ID
		}
		return assignments[i].CreatedAt.After(assignments[j].CreatedAt)
	})
}

// MemorySubmissionRepository is a map-backed SubmissionRepository.
type MemorySubmissionRepository struct {
	mu          sync.RWMutex
	nextID      uint
	submissions map[uint]models.Submission
}

// NewMemorySubmissionRepository constructs an empty in-memory submission store.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{nextID: 1, submissions: map[uint]models.Submission{}}
}

func cloneSubmission(submission models.Submission) models.Submission {
	clone := submission
	clone.TestResults = append([]models.TestResult(nil), submission.TestResults...)
	clone.Suggestions = append([]byte(nil), submission.Suggestions...)
	return clone
}

func (r *MemorySubmissionRepository) GetByID(_ context.Context, id uint) (models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submission, ok := r.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return cloneSubmission(submission), nil
}

func (r *MemorySubmissionRepository) ListByStudent(_ context.Context, studentID uint) ([]models.Submission, error) {
	return r.list(func(s models.Submission) bool { return s.StudentID == studentID })
}

func (r *MemorySubmissionRepository) ListByAssignment(_ context.Context, assignmentID uint) ([]models.Submission, error) {
	return r.list(func(s models.Submission) bool { return s.AssignmentID == assignmentID })
}

func (r *MemorySubmissionRepository) ListByStudentAndAssignment(_ context.Context, studentID, assignmentID uint) ([]models.Submission, error) {
	return r.list(func(s models.Submission) bool {
		return s.StudentID == studentID && s.AssignmentID == assignmentID
	})
}

func (r *MemorySubmissionRepository) list(match func(models.Submission) bool) ([]models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submissions := make([]models.Submission, 0)
	for _, submission := range r.submissions {
		if match(submission) {
			submissions = append(submissions, cloneSubmission(submission))
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		if submissions[i].SubmittedAt.Equal(submissions[j].SubmittedAt) {
			return submissions[i].ID > submissions[j].ID
		}
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	return submissions, nil
}

func (r *MemorySubmissionRepository) Create(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	submission.ID = r.nextID
	r.nextID++
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	for i := range submission.TestResults {
		submission.TestResults[i].ID = uint(i + 1)
		submission.TestResults[i].SubmissionID = submission.ID
	}
	r.submissions[submission.ID] = cloneSubmission(*submission)
	return nil
}

func (r *MemorySubmissionRepository) Update(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.submissions[submission.ID] = cloneSubmission(*submission)
	return nil
}
