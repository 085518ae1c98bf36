package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userProjectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	progress     *services.ProgressService
	maxBodyBytes int64
}

func newUserProjectHandler(progress *services.ProgressService, maxBodyBytes int64) userProjectHandler {
	logger := log.With().Str("handlerName", "userProjectHandler").Logger()

	return userProjectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		progress:     progress,
		maxBodyBytes: maxBodyBytes,
	}
}

// ownedInstance loads an instance and checks that it belongs to the caller
func ownedInstance(r *http.Request, progress *services.ProgressService, instanceID uuid.UUID) (*models.UserProject, error) {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		return nil, errs.Unauthorized
	}

	instance, err := progress.GetInstance(r.Context(), instanceID)
	if err != nil {
		return nil, err
	}
	if instance.UserID != userID {
		return nil, errs.NewNotOwnerError("user project")
	}
	return instance, nil
}

// enroll creates the caller's instance of a project
// @Summary Enroll in project
// @Tags User Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param input body services.EnrollInput false "Initial status and links"
// @Success 201 {object} models.UserProject "Created instance"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 409 {object} ErrorResponse "Conflict - Already enrolled"
// @Router /project/{projectID}/enroll [post]
func (h userProjectHandler) enroll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		projectID, err := urlUUID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.EnrollInput
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		instance, err := h.progress.Enroll(r.Context(), userID, projectID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, instance)
	}
}

// getMyProjects lists the caller's instances, optionally narrowed by ?status=
func (h userProjectHandler) getMyProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		status := models.ProjectStatus(r.URL.Query().Get("status"))
		instances, err := h.progress.ListInstances(r.Context(), userID, status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, UserProjectCollection{UserProjects: instances, Total: len(instances)})
	}
}

func (h userProjectHandler) getUserProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, err := urlUUID(r, "instanceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		instance, err := ownedInstance(r, h.progress, instanceID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, instance)
	}
}

// updateUserProject applies a caller edit to status or links
// @Summary Update user project
// @Tags User Projects
// @Accept json
// @Produce json
// @Param instanceID path string true "User project ID" format(uuid)
// @Param patch body services.InstancePatch true "Fields to change"
// @Success 200 {object} models.UserProject "Updated instance"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid field"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 409 {object} ErrorResponse "Conflict - Status transition not allowed"
// @Router /user-project/{instanceID} [patch]
func (h userProjectHandler) updateUserProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, err := urlUUID(r, "instanceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.InstancePatch
		if err := decodeJSON(w, r, h.maxBodyBytes, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := ownedInstance(r, h.progress, instanceID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		instance, err := h.progress.UpdateInstance(r.Context(), instanceID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, instance)
	}
}

func (h userProjectHandler) startUserProject() http.HandlerFunc {
	return h.moveTo(h.progress.StartInstance)
}

func (h userProjectHandler) archiveUserProject() http.HandlerFunc {
	return h.moveTo(h.progress.ArchiveInstance)
}

func (h userProjectHandler) moveTo(apply func(ctx context.Context, id uuid.UUID) (*models.UserProject, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, err := urlUUID(r, "instanceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := ownedInstance(r, h.progress, instanceID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		instance, err := apply(r.Context(), instanceID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, instance)
	}
}
