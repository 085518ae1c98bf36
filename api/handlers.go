package api

import (
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, maxBodyBytes int64) *routeHandlers {
	catalog := services.NewCatalogService(db)
	progress := services.NewProgressService(db)

	return &routeHandlers{
		healthHandler:      newHealthHandler(db),
		tagHandler:         newTagHandler(catalog, maxBodyBytes),
		projectHandler:     newProjectHandler(catalog, maxBodyBytes),
		userProjectHandler: newUserProjectHandler(progress, maxBodyBytes),
		submissionHandler:  newSubmissionHandler(progress, maxBodyBytes),
		assessmentHandler:  newAssessmentHandler(progress, maxBodyBytes),
	}
}
