package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/database"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Assignment{},
		&models.Problem{},
		&models.TestCase{},
		&models.Submission{},
		&models.TestResult{},
	))
	return db
}

func fixtureAssignment(teacherID uint, active bool) models.Assignment {
	return models.Assignment{
		Title:     "Week 1 - Basics",
		TeacherID: teacherID,
		IsActive:  active,
		Problems: []models.Problem{
			{
				Slug:          "problem_1",
				Position:      0,
				Title:         "Hello World Program",
				Difficulty:    models.DifficultyEasy,
				TimeLimitSec:  1,
				MemoryLimitMB: 64,
				TestCases: []models.TestCase{
					{Position: 0, Input: "", ExpectedOutput: "Hello, World!"},
				},
			},
			{
				Slug:          "problem_2",
				Position:      1,
				Title:         "Sum of Two Numbers",
				Difficulty:    models.DifficultyEasy,
				TimeLimitSec:  1,
				MemoryLimitMB: 64,
				TestCases: []models.TestCase{
					{Position: 0, Input: "3 5", ExpectedOutput: "8"},
					{Position: 1, Input: "0 0", ExpectedOutput: "0"},
				},
			},
		},
	}
}

func TestAssignmentRepositoryPreservesProblemOrder(t *testing.T) {
	db := testDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	assignment := fixtureAssignment(1, true)
	require.NoError(t, repo.Create(ctx, &assignment))

	loaded, err := repo.GetByID(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Problems, 2)
	require.Equal(t, "problem_1", loaded.Problems[0].Slug)
	require.Equal(t, "problem_2", loaded.Problems[1].Slug)
	require.Len(t, loaded.Problems[1].TestCases, 2)
	require.Equal(t, "3 5", loaded.Problems[1].TestCases[0].Input)
}

func TestAssignmentRepositoryListActiveFiltersInactive(t *testing.T) {
	db := testDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	active := fixtureAssignment(1, true)
	inactive := fixtureAssignment(1, false)
	require.NoError(t, repo.Create(ctx, &active))
	require.NoError(t, repo.Create(ctx, &inactive))

	assignments, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, active.ID, assignments[0].ID)
}

func TestAssignmentRepositoryListByTeacher(t *testing.T) {
	db := testDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	mine := fixtureAssignment(1, true)
	other := fixtureAssignment(2, true)
	require.NoError(t, repo.Create(ctx, &mine))
	require.NoError(t, repo.Create(ctx, &other))

	assignments, err := repo.ListByTeacher(ctx, 1)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, mine.ID, assignments[0].ID)
}

func TestUserRepositoryUniqueUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.User{Username: "alice", Email: "other@example.com", FullName: "Alice Again", PasswordHash: "x", Role: models.RoleStudent}
	require.Error(t, repo.Create(ctx, &duplicate))

	loaded, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, first.ID, loaded.ID)
}

func TestSubmissionRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	assignments := NewAssignmentRepository(db)
	submissions := NewSubmissionRepository(db)
	ctx := context.Background()

	assignment := fixtureAssignment(1, true)
	require.NoError(t, assignments.Create(ctx, &assignment))

	score := 80
	submission := models.Submission{
		StudentID:    7,
		AssignmentID: assignment.ID,
		ProblemIndex: 1,
		Code:         "int main(){return 0;}",
		Status:       models.SubmissionStatusPassed,
		Score:        &score,
		Feedback:     "ok",
		Suggestions:  []byte(`["keep going"]`),
		TestResults: []models.TestResult{
			{CaseIndex: 0, Passed: true, ExpectedOutput: "8", ActualOutput: "8"},
			{CaseIndex: 1, Passed: false, ExpectedOutput: "0", Detail: "output did not match expected output"},
		},
	}
	require.NoError(t, submissions.Create(ctx, &submission))

	loaded, err := submissions.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"keep going"}, loaded.SuggestionList())
	require.Len(t, loaded.TestResults, 2)
	require.Equal(t, 0, loaded.TestResults[0].CaseIndex)

	byStudent, err := submissions.ListByStudentAndAssignment(ctx, 7, assignment.ID)
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
}

func TestMemoryRepositoriesMatchGormSemantics(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()
	assignments := NewMemoryAssignmentRepository()
	submissions := NewMemorySubmissionRepository()

	user := models.User{Username: "bob", Email: "bob@example.com", FullName: "Bob", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, users.Create(ctx, &user))
	require.Error(t, users.Create(ctx, &models.User{Username: "bob", Email: "new@example.com"}))

	_, err := users.GetByID(ctx, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assignment := fixtureAssignment(user.ID, true)
	require.NoError(t, assignments.Create(ctx, &assignment))

	loaded, err := assignments.GetByID(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Problems, 2)

	active, err := assignments.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	first := models.Submission{StudentID: 1, AssignmentID: assignment.ID, Status: models.SubmissionStatusFailed}
	second := models.Submission{StudentID: 1, AssignmentID: assignment.ID, Status: models.SubmissionStatusPassed}
	require.NoError(t, submissions.Create(ctx, &first))
	require.NoError(t, submissions.Create(ctx, &second))
	require.NotEqual(t, first.ID, second.ID)

	listed, err := submissions.ListByStudentAndAssignment(ctx, 1, assignment.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}
