package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
)

// DashboardService aggregates activity summaries for both roles.
type DashboardService interface {
	TeacherDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error)
	StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

const recentActivityLimit = 10

type dashboardService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService constructs the dashboard service. A nil cache
// client disables caching; every request then aggregates from storage.
func NewDashboardService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &dashboardService{
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) TeacherDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacherID)

	var cached dto.TeacherDashboardResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	titles := make(map[uint]string, len(assignments))
	for _, assignment := range assignments {
		titles[assignment.ID] = assignment.Title
	}

	students := make(map[uint]struct{})
	var activity []dto.SubmissionActivity
	submissionCount := 0

	for _, assignment := range assignments {
		submissions, err := s.submissions.ListByAssignment(ctx, assignment.ID)
		if err != nil {
			return dto.TeacherDashboardResponse{}, err
		}

		submissionCount += len(submissions)
		for _, submission := range submissions {
			students[submission.StudentID] = struct{}{}
			activity = append(activity, newActivity(submission, titles))
		}
	}

	response := dto.TeacherDashboardResponse{
		AssignmentCount: len(assignments),
		SubmissionCount: submissionCount,
		StudentCount:    len(students),
		RecentActivity:  trimActivity(activity),
	}

	s.cacheSet(ctx, cacheKey, response)
	return response, nil
}

func (s *dashboardService) StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	var cached dto.StudentDashboardResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	active, err := s.assignments.ListActive(ctx)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	titles := make(map[uint]string, len(active))
	for _, assignment := range active {
		titles[assignment.ID] = assignment.Title
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	passed := 0
	activity := make([]dto.SubmissionActivity, 0, len(submissions))
	for _, submission := range submissions {
		if submission.Passed() {
			passed++
		}
		activity = append(activity, newActivity(submission, titles))
	}

	response := dto.StudentDashboardResponse{
		ActiveAssignments: len(active),
		SubmissionCount:   len(submissions),
		PassedCount:       passed,
		RecentActivity:    trimActivity(activity),
	}

	s.cacheSet(ctx, cacheKey, response)
	return response, nil
}

// cacheGet loads a cached dashboard. Cache failures are logged and
// treated as misses so a broken cache never fails a request.
func (s *dashboardService) cacheGet(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}

	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache payload invalid")
		return false
	}

	return true
}

func (s *dashboardService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
}

func newActivity(submission models.Submission, titles map[uint]string) dto.SubmissionActivity {
	return dto.SubmissionActivity{
		SubmissionID:    submission.ID,
		AssignmentID:    submission.AssignmentID,
		AssignmentTitle: titles[submission.AssignmentID],
		Status:          submission.Status,
		Score:           submission.Score,
		SubmittedAt:     submission.SubmittedAt,
	}
}

func trimActivity(activity []dto.SubmissionActivity) []dto.SubmissionActivity {
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].SubmittedAt.After(activity[j].SubmittedAt)
	})
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}
	if activity == nil {
		activity = []dto.SubmissionActivity{}
	}
	return activity
}
