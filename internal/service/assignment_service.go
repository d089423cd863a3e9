package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/problemgen"
)

// AssignmentService exposes assignment authoring and listing operations.
type AssignmentService interface {
	Create(ctx context.Context, teacherID uint, payload dto.CreateAssignmentRequest) (dto.AssignmentResponse, error)
	Generate(ctx context.Context, teacherID uint, payload dto.GenerateAssignmentRequest) (dto.AssignmentResponse, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error)
	ListActive(ctx context.Context) ([]dto.AssignmentResponse, error)
	GetForTeacher(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	GetForStudent(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacherID, id uint, payload dto.UpdateAssignmentRequest) (dto.AssignmentResponse, error)
	ListSubmissions(ctx context.Context, teacherID, id uint) ([]dto.SubmissionResponse, error)
}

// ErrAssignmentNotFound indicates the assignment cannot be located, or is
// not visible to the caller.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrAssignmentForbidden indicates the caller does not own the assignment.
var ErrAssignmentForbidden = errors.New("forbidden")

// ErrGenerationFailed wraps AI generation failures; no assignment is
// created when it occurs.
var ErrGenerationFailed = errors.New("problem generation failed")

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	generator   problemgen.Generator
	validator   *validator.Validate
	policy      *bluemonday.Policy
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, generator problemgen.Generator, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		generator:   generator,
		validator:   validate,
		policy:      bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.CreateAssignmentRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:            s.policy.Sanitize(payload.Title),
		Description:      s.policy.Sanitize(payload.Description),
		TeacherID:        teacherID,
		TimeLimitMinutes: payload.TimeLimitMinutes,
		DueDate:          payload.DueDate,
		IsActive:         payload.IsActive,
	}

	for i, problem := range payload.Problems {
		testCases := make([]models.TestCase, 0, len(problem.TestCases))
		for j, testCase := range problem.TestCases {
			testCases = append(testCases, models.TestCase{
				Position:       j,
				Input:          testCase.Input,
				ExpectedOutput: testCase.ExpectedOutput,
			})
		}

		assignment.Problems = append(assignment.Problems, models.Problem{
			Slug:          fmt.Sprintf("problem_%d", i+1),
			Position:      i,
			Title:         s.policy.Sanitize(problem.Title),
			Statement:     s.policy.Sanitize(problem.Statement),
			InputFormat:   problem.InputFormat,
			OutputFormat:  problem.OutputFormat,
			Constraints:   problem.Constraints,
			SampleInput:   problem.SampleInput,
			SampleOutput:  problem.SampleOutput,
			Difficulty:    problem.Difficulty,
			TimeLimitSec:  problem.TimeLimitSec,
			MemoryLimitMB: problem.MemoryLimitMB,
			TestCases:     testCases,
		})
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("teacher_id", teacherID).Int("problems", len(assignment.Problems)).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) Generate(ctx context.Context, teacherID uint, payload dto.GenerateAssignmentRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dist, err := problemgen.ParseDistribution(payload.DifficultyDistribution)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	drafts, err := s.generator.Generate(ctx, payload.Topic, dist)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", payload.Topic).Msg("problem generation failed")
		return dto.AssignmentResponse{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	assignment := models.Assignment{
		Title:            fmt.Sprintf("AI Generated Assignment - %s", payload.Topic),
		Description:      fmt.Sprintf("Auto-generated assignment covering %s concepts", payload.Topic),
		TeacherID:        teacherID,
		TimeLimitMinutes: payload.TimeLimitMinutes,
		IsActive:         true,
	}

	for i, draft := range drafts {
		testCases := make([]models.TestCase, 0, len(draft.TestCases))
		for j, testCase := range draft.TestCases {
			testCases = append(testCases, models.TestCase{
				Position:       j,
				Input:          testCase.Input,
				ExpectedOutput: testCase.ExpectedOutput,
			})
		}

		assignment.Problems = append(assignment.Problems, models.Problem{
			Slug:          draft.Slug,
			Position:      i,
			Title:         s.policy.Sanitize(draft.Title),
			Statement:     s.policy.Sanitize(draft.Statement),
			InputFormat:   draft.InputFormat,
			OutputFormat:  draft.OutputFormat,
			Constraints:   draft.Constraints,
			SampleInput:   draft.SampleInput,
			SampleOutput:  draft.SampleOutput,
			Difficulty:    draft.Difficulty,
			TimeLimitSec:  draft.TimeLimitSec,
			MemoryLimitMB: draft.MemoryLimitMB,
			TestCases:     testCases,
		})
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Str("topic", payload.Topic).Int("problems", len(assignment.Problems)).Msg("assignment generated")

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) ListByTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentListResponse(assignments, true), nil
}

func (s *assignmentService) ListActive(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentListResponse(assignments, false), nil
}

func (s *assignmentService) GetForTeacher(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.loadAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if assignment.TeacherID != teacherID {
		return dto.AssignmentResponse{}, ErrAssignmentForbidden
	}

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) GetForStudent(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.loadAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !assignment.IsActive {
		return dto.AssignmentResponse{}, ErrAssignmentNotFound
	}

	return dto.NewAssignmentResponse(assignment, false), nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id uint, payload dto.UpdateAssignmentRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if assignment.TeacherID != teacherID {
		return dto.AssignmentResponse{}, ErrAssignmentForbidden
	}

	if payload.Title != nil {
		assignment.Title = s.policy.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = s.policy.Sanitize(*payload.Description)
	}
	if payload.TimeLimitMinutes != nil {
		assignment.TimeLimitMinutes = payload.TimeLimitMinutes
	}
	if payload.DueDate != nil {
		assignment.DueDate = payload.DueDate
	}
	if payload.IsActive != nil {
		assignment.IsActive = *payload.IsActive
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, teacherID, id uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.loadAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	if assignment.TeacherID != teacherID {
		return nil, ErrAssignmentForbidden
	}

	submissions, err := s.submissions.ListByAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionListResponse(submissions), nil
}

func (s *assignmentService) loadAssignment(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	return assignment, nil
}
