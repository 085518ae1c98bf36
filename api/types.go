package api

import "github.com/rpupo63/learning-projects-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	tagHandler         tagHandler
	projectHandler     projectHandler
	userProjectHandler userProjectHandler
	submissionHandler  submissionHandler
	assessmentHandler  assessmentHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

type TagCollection struct {
	Tags  []*models.ProjectTag `json:"tags"`
	Total int                  `json:"total"`
}

type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

type UserProjectCollection struct {
	UserProjects []*models.UserProject `json:"user_projects"`
	Total        int                   `json:"total"`
}

type SubmissionCollection struct {
	Submissions []*models.ProjectSubmission `json:"submissions"`
	Total       int                         `json:"total"`
}

// SubmissionResult is returned when a submission is recorded, with the instance
// status it produced
type SubmissionResult struct {
	Submission  *models.ProjectSubmission `json:"submission"`
	UserProject *models.UserProject       `json:"user_project"`
}

// AssessmentResult carries the instance only when the assessment changed its status
type AssessmentResult struct {
	Assessment  *models.ProjectAssessment `json:"assessment"`
	UserProject *models.UserProject       `json:"user_project,omitempty"`
}

type PublishRequest struct {
	Published bool `json:"published"`
}

type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
