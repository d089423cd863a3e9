package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/handler"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/analysis"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/runner"
)

func newSubmissionApp(t *testing.T) (*fiber.App, uint) {
	t.Helper()

	assignments := repository.NewMemoryAssignmentRepository()
	submissions := repository.NewMemorySubmissionRepository()

	assignment := models.Assignment{
		Title:     "Lab 1",
		TeacherID: 1,
		IsActive:  true,
		Problems: []models.Problem{{
			Slug: "problem_1", Title: "Hello World Program",
			Statement: "Write a program that prints Hello, World!",
			Difficulty: models.DifficultyEasy, TimeLimitSec: 1, MemoryLimitMB: 64,
			TestCases: []models.TestCase{{ExpectedOutput: "Hello, World!"}},
		}},
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))

	svc := service.NewSubmissionService(
		submissions,
		assignments,
		runner.NewSimulatedRunner(),
		analysis.NewHeuristicAnalyzer(),
		validator.New(),
		zerolog.Nop(),
	)
	h := handler.NewSubmissionHandler(svc, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(2))
		c.Locals("user_role", models.RoleStudent)
		return c.Next()
	})
	app.Post("/api/v1/student/submissions", h.Submit)
	app.Get("/api/v1/student/submissions", h.ListMine)

	return app, assignment.ID
}

func TestSubmissionHandlerSubmit(t *testing.T) {
	app, assignmentID := newSubmissionApp(t)

	code := "#include <stdio.h>\n\nint main() {\n    printf(\"Hello, World!\\n\");\n    return 0;\n}\n"
	resp := postJSON(t, app, "/api/v1/student/submissions", map[string]any{
		"assignment_id": assignmentID,
		"problem_index": 0,
		"code":          code,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Submission struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
				Score  *int   `json:"score"`
			} `json:"submission"`
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NotZero(t, envelope.Data.Submission.ID)
	require.NotNil(t, envelope.Data.Submission.Score)
	require.NotEmpty(t, envelope.Data.Suggestions)
}

func TestSubmissionHandlerOutOfRangeIndex(t *testing.T) {
	app, assignmentID := newSubmissionApp(t)

	resp := postJSON(t, app, "/api/v1/student/submissions", map[string]any{
		"assignment_id": assignmentID,
		"problem_index": 3,
		"code":          "#include <stdio.h>\nint main() { return 0; }",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.Success)
}
