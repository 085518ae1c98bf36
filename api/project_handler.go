package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	catalog      *services.CatalogService
	maxBodyBytes int64
}

func newProjectHandler(catalog *services.CatalogService, maxBodyBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		catalog:      catalog,
		maxBodyBytes: maxBodyBytes,
	}
}

// getAllProjects retrieves the projects matching the query filters, with their tags
// @Summary Get all projects
// @Description Retrieves projects, newest first, optionally filtered by publication, difficulty and tag slug
// @Tags Projects
// @Produce json
// @Param published query bool false "Only published or unpublished projects"
// @Param difficulty query string false "beginner, intermediate, advanced or expert"
// @Param tag query string false "Tag slug"
// @Success 200 {object} ProjectCollection "List of projects with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		published, err := queryBool(r, "published")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := r.URL.Query()
		filter := database.ProjectFilter{
			Published:  published,
			Difficulty: models.Difficulty(query.Get("difficulty")),
			TagSlug:    query.Get("tag"),
		}

		projects, err := h.catalog.ListProjects(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProject retrieves a specific project by ID with its tags
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlUUID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.catalog.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if !models.ValidSlug(slug) {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid slug"))
			return
		}

		project, err := h.catalog.GetProjectBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project authored by the caller
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body services.ProjectInput true "Project data"
// @Success 201 {object} models.Project "Created project with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already used"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var input services.ProjectInput
		if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.catalog.CreateProject(r.Context(), &userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces the editable fields of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body services.ProjectInput true "Updated project data"
// @Success 200 {object} models.Project "Updated project with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlUUID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.ProjectInput
		if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.catalog.UpdateProject(r.Context(), projectID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

func (h projectHandler) publishProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlUUID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input := PublishRequest{Published: true}
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		project, err := h.catalog.PublishProject(r.Context(), projectID, input.Published)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID along with every instance of it
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusMessage "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlUUID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, StatusMessage{Status: "success", Message: "project deleted successfully"})
	}
}
