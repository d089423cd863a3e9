package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
)

func seedDashboardData(t *testing.T, assignments *repository.MemoryAssignmentRepository, submissions *repository.MemorySubmissionRepository) uint {
	t.Helper()

	assignment := models.Assignment{
		Title:     "Lab 1",
		TeacherID: 1,
		IsActive:  true,
		Problems: []models.Problem{{
			Slug: "problem_1", Title: "Hello World", Difficulty: models.DifficultyEasy,
			TimeLimitSec: 1, MemoryLimitMB: 64,
			TestCases: []models.TestCase{{ExpectedOutput: "Hello, World!"}},
		}},
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))

	passedScore := 100
	failedScore := 40
	for _, submission := range []models.Submission{
		{StudentID: 2, AssignmentID: assignment.ID, Status: models.SubmissionStatusPassed, Score: &passedScore},
		{StudentID: 2, AssignmentID: assignment.ID, Status: models.SubmissionStatusFailed, Score: &failedScore},
		{StudentID: 3, AssignmentID: assignment.ID, Status: models.SubmissionStatusPassed, Score: &passedScore},
	} {
		record := submission
		require.NoError(t, submissions.Create(context.Background(), &record))
	}

	return assignment.ID
}

func TestTeacherDashboardAggregates(t *testing.T) {
	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()
	seedDashboardData(t, assignments, submissions)

	svc := NewDashboardService(assignments, submissions, nil, time.Minute, zerolog.Nop())

	resp, err := svc.TeacherDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, resp.AssignmentCount)
	require.Equal(t, 3, resp.SubmissionCount)
	require.Equal(t, 2, resp.StudentCount)
	require.Len(t, resp.RecentActivity, 3)
	require.Equal(t, "Lab 1", resp.RecentActivity[0].AssignmentTitle)
}

func TestStudentDashboardAggregates(t *testing.T) {
	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()
	seedDashboardData(t, assignments, submissions)

	svc := NewDashboardService(assignments, submissions, nil, time.Minute, zerolog.Nop())

	resp, err := svc.StudentDashboard(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 1, resp.ActiveAssignments)
	require.Equal(t, 2, resp.SubmissionCount)
	require.Equal(t, 1, resp.PassedCount)
	require.Len(t, resp.RecentActivity, 2)
}

func TestTeacherDashboardServesFromCache(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()
	assignmentID := seedDashboardData(t, assignments, submissions)

	svc := NewDashboardService(assignments, submissions, cache, time.Minute, zerolog.Nop())

	first, err := svc.TeacherDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, server.Exists("dashboard:teacher:1"))

	// New submissions are not reflected until the cache entry expires.
	score := 100
	extra := models.Submission{StudentID: 4, AssignmentID: assignmentID, Status: models.SubmissionStatusPassed, Score: &score}
	require.NoError(t, submissions.Create(context.Background(), &extra))

	second, err := svc.TeacherDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, first.SubmissionCount, second.SubmissionCount)

	server.FastForward(2 * time.Minute)

	third, err := svc.TeacherDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, first.SubmissionCount+1, third.SubmissionCount)
}

func TestDashboardWithoutCacheClient(t *testing.T) {
	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()

	svc := NewDashboardService(assignments, submissions, nil, 0, zerolog.Nop())

	resp, err := svc.StudentDashboard(context.Background(), 42)
	require.NoError(t, err)
	require.Zero(t, resp.SubmissionCount)
	require.Empty(t, resp.RecentActivity)
}
