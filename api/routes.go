package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes registers the public catalog reads and the authenticated routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Catalog reads
		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Get("/project/slug/{slug}", handlers.projectHandler.getProjectBySlug())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			// Tag Handler endpoints
			r.Post("/tag", handlers.tagHandler.createTag())
			r.Delete("/tag/{tagID}", handlers.tagHandler.deleteTag())

			// Project Handler endpoints
			r.Post("/project", handlers.projectHandler.createProject())
			r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
			r.Post("/project/{projectID}/publish", handlers.projectHandler.publishProject())
			r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

			// User Project Handler endpoints
			r.Post("/project/{projectID}/enroll", handlers.userProjectHandler.enroll())
			r.Get("/user-projects", handlers.userProjectHandler.getMyProjects())
			r.Get("/user-project/{instanceID}", handlers.userProjectHandler.getUserProject())
			r.Patch("/user-project/{instanceID}", handlers.userProjectHandler.updateUserProject())
			r.Post("/user-project/{instanceID}/start", handlers.userProjectHandler.startUserProject())
			r.Post("/user-project/{instanceID}/archive", handlers.userProjectHandler.archiveUserProject())

			// Submission Handler endpoints
			r.Post("/user-project/{instanceID}/submissions", handlers.submissionHandler.submit())
			r.Get("/user-project/{instanceID}/submissions", handlers.submissionHandler.getSubmissions())
			r.Get("/submission/{submissionID}", handlers.submissionHandler.getSubmission())
			r.Patch("/submission/{submissionID}", handlers.submissionHandler.updateSubmission())

			// Assessment Handler endpoints
			r.Get("/submission/{submissionID}/assessment", handlers.assessmentHandler.getSubmissionAssessment())
			r.Get("/assessment/{assessmentID}", handlers.assessmentHandler.getAssessment())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.requireScope(scopeAssessmentsWrite))
				r.Post("/submission/{submissionID}/assessment", handlers.assessmentHandler.assess())
				r.Patch("/assessment/{assessmentID}", handlers.assessmentHandler.updateAssessment())
			})
		})
	})
}
