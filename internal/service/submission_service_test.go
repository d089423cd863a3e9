package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/analysis"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/runner"
)

const validCode = `#include <stdio.h>

int main() {
    printf("Hello, World!\n");
    return 0;
}
`

// stubRunner fails the cases whose index appears in failCases and passes
// the rest.
type stubRunner struct {
	failCases map[int]bool
	calls     int
}

func (r *stubRunner) RunCases(_ context.Context, _ string, set runner.CaseSet) ([]runner.Outcome, error) {
	r.calls++
	outcomes := make([]runner.Outcome, 0, len(set.Cases))
	for _, testCase := range set.Cases {
		passed := !r.failCases[testCase.Index]
		outcome := runner.Outcome{
			CaseIndex:      testCase.Index,
			Passed:         passed,
			ExpectedOutput: testCase.ExpectedOutput,
		}
		if passed {
			outcome.ActualOutput = testCase.ExpectedOutput
		} else {
			outcome.Detail = "output did not match expected output"
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

type stubAnalyzer struct {
	report analysis.Report
	err    error
	calls  int
}

func (a *stubAnalyzer) Analyze(context.Context, analysis.Input) (analysis.Report, error) {
	a.calls++
	return a.report, a.err
}

type submissionFixture struct {
	svc          SubmissionService
	submissions  *repository.MemorySubmissionRepository
	runner       *stubRunner
	analyzer     *stubAnalyzer
	assignmentID uint
}

func newSubmissionFixture(t *testing.T, active bool) *submissionFixture {
	t.Helper()

	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()
	codeRunner := &stubRunner{failCases: map[int]bool{}}
	analyzer := &stubAnalyzer{report: analysis.Report{
		Feedback:    "Looks solid.",
		Suggestions: []string{"Consider edge cases."},
		Score:       90,
	}}

	assignment := models.Assignment{
		Title:     "Lab 1",
		TeacherID: 1,
		IsActive:  active,
		Problems: []models.Problem{{
			Slug:          "problem_1",
			Position:      0,
			Title:         "Hello World",
			Statement:     "Print Hello, World!",
			Difficulty:    models.DifficultyEasy,
			TimeLimitSec:  1,
			MemoryLimitMB: 64,
			TestCases: []models.TestCase{
				{Position: 0, ExpectedOutput: "Hello, World!"},
				{Position: 1, Input: "extra", ExpectedOutput: "Hello, World!"},
			},
		}},
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))

	svc := NewSubmissionService(submissions, assignments, codeRunner, analyzer, validator.New(), zerolog.Nop())

	return &submissionFixture{
		svc:          svc,
		submissions:  submissions,
		runner:       codeRunner,
		analyzer:     analyzer,
		assignmentID: assignment.ID,
	}
}

func (f *submissionFixture) submit(t *testing.T, code string) (dto.SubmitCodeResponse, error) {
	t.Helper()
	return f.svc.Submit(context.Background(), 2, models.RoleStudent, dto.SubmitCodeRequest{
		AssignmentID: f.assignmentID,
		ProblemIndex: 0,
		Code:         code,
	})
}

func TestSubmitMergesAnalysisWithTestResults(t *testing.T) {
	fixture := newSubmissionFixture(t, true)
	fixture.analyzer.report.Score = 70

	resp, err := fixture.submit(t, validCode)
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusPassed, resp.Submission.Status)
	require.NotNil(t, resp.Submission.Score)
	require.Equal(t, 70, *resp.Submission.Score)
	require.Equal(t, "Looks solid.", resp.Feedback)
	require.Equal(t, []string{"Consider edge cases."}, resp.Suggestions)
	require.Len(t, resp.TestResults, 2)
	require.Equal(t, 1, fixture.runner.calls)
	require.Equal(t, 1, fixture.analyzer.calls)
}

func TestSubmitAnalysisNeverRaisesScore(t *testing.T) {
	fixture := newSubmissionFixture(t, true)
	fixture.runner.failCases[1] = true
	fixture.analyzer.report.Score = 95

	resp, err := fixture.submit(t, validCode)
	require.NoError(t, err)

	// One of two cases passed, so the test case score of 50 stands.
	require.Equal(t, models.SubmissionStatusFailed, resp.Submission.Status)
	require.Equal(t, 50, *resp.Submission.Score)
}

func TestSubmitAnalyzerFailureKeepsTestScore(t *testing.T) {
	fixture := newSubmissionFixture(t, true)
	fixture.analyzer.err = errors.New("provider timeout")

	resp, err := fixture.submit(t, validCode)
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusPassed, resp.Submission.Status)
	require.Equal(t, 100, *resp.Submission.Score)
	require.Equal(t, fallbackFeedbackText, resp.Feedback)
	require.Empty(t, resp.Suggestions)

	stored, err := fixture.submissions.GetByID(context.Background(), resp.Submission.ID)
	require.NoError(t, err)
	require.Equal(t, []string{}, stored.SuggestionList())
}

func TestSubmitStructuralFailureSkipsExecution(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	resp, err := fixture.submit(t, "int x = 5;")
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusFailed, resp.Submission.Status)
	require.Equal(t, structuralFailScore, *resp.Submission.Score)
	require.Len(t, resp.TestResults, 1)
	require.False(t, resp.TestResults[0].Passed)
	require.NotEmpty(t, resp.Suggestions)
	require.Zero(t, fixture.runner.calls)
	require.Zero(t, fixture.analyzer.calls)

	stored, err := fixture.submissions.ListByStudent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, structuralFailScore, *stored[0].Score)
}

func TestSubmitProblemIndexOutOfRange(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	_, err := fixture.svc.Submit(context.Background(), 2, models.RoleStudent, dto.SubmitCodeRequest{
		AssignmentID: fixture.assignmentID,
		ProblemIndex: 5,
		Code:         validCode,
	})
	require.ErrorIs(t, err, ErrProblemIndexOutOfRange)

	stored, err := fixture.submissions.ListByStudent(context.Background(), 2)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSubmitRejectsNonStudent(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	_, err := fixture.svc.Submit(context.Background(), 1, models.RoleTeacher, dto.SubmitCodeRequest{
		AssignmentID: fixture.assignmentID,
		ProblemIndex: 0,
		Code:         validCode,
	})
	require.ErrorIs(t, err, ErrSubmissionForbidden)
}

func TestSubmitInactiveAssignmentNotFound(t *testing.T) {
	fixture := newSubmissionFixture(t, false)

	_, err := fixture.submit(t, validCode)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitUnknownAssignmentNotFound(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	_, err := fixture.svc.Submit(context.Background(), 2, models.RoleStudent, dto.SubmitCodeRequest{
		AssignmentID: 9999,
		ProblemIndex: 0,
		Code:         validCode,
	})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitDuplicatesBothPersist(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	first, err := fixture.submit(t, validCode)
	require.NoError(t, err)
	second, err := fixture.submit(t, validCode)
	require.NoError(t, err)
	require.NotEqual(t, first.Submission.ID, second.Submission.ID)

	stored, err := fixture.submissions.ListByStudent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestGetForStudentOwnership(t *testing.T) {
	fixture := newSubmissionFixture(t, true)

	resp, err := fixture.submit(t, validCode)
	require.NoError(t, err)

	own, err := fixture.svc.GetForStudent(context.Background(), 2, resp.Submission.ID)
	require.NoError(t, err)
	require.Equal(t, resp.Submission.ID, own.ID)

	_, err = fixture.svc.GetForStudent(context.Background(), 3, resp.Submission.ID)
	require.ErrorIs(t, err, ErrSubmissionForbidden)

	_, err = fixture.svc.GetForStudent(context.Background(), 2, 9999)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
