package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/handler"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/middleware"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/observability"
)

// Dependencies bundles everything the route table needs.
type Dependencies struct {
	JWTSecret string

	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Assignments *handler.AssignmentHandler
	Submissions *handler.SubmissionHandler
	Dashboards  *handler.DashboardHandler
}

// Register wires the full route table onto the app.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")
	api.Get("/health", deps.Health.Check)

	auth := api.Group("/auth")
	auth.Post("/register", deps.Auth.Register)
	auth.Post("/login", deps.Auth.Login)
	auth.Get("/me", middleware.JWTProtected(deps.JWTSecret), deps.Auth.Me)

	teacher := api.Group("/teacher",
		middleware.JWTProtected(deps.JWTSecret),
		middleware.RequireRole(models.RoleTeacher),
	)
	teacher.Get("/dashboard", deps.Dashboards.Teacher)
	teacher.Post("/assignments", deps.Assignments.Create)
	teacher.Post("/assignments/generate", deps.Assignments.Generate)
	teacher.Get("/assignments", deps.Assignments.ListMine)
	teacher.Get("/assignments/:id", deps.Assignments.GetMine)
	teacher.Patch("/assignments/:id", deps.Assignments.Update)
	teacher.Get("/assignments/:id/submissions", deps.Assignments.ListSubmissions)

	student := api.Group("/student",
		middleware.JWTProtected(deps.JWTSecret),
		middleware.RequireRole(models.RoleStudent),
	)
	student.Get("/dashboard", deps.Dashboards.Student)
	student.Get("/assignments", deps.Assignments.ListActive)
	student.Get("/assignments/:id", deps.Assignments.GetActive)
	student.Post("/submissions", middleware.RateLimit("submit", 10, time.Minute), deps.Submissions.Submit)
	student.Get("/submissions", deps.Submissions.ListMine)
	student.Get("/submissions/:id", deps.Submissions.GetMine)
}
