package api

import (
	"net/http"

	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type submissionHandler struct {
	responder    Responder
	logger       zerolog.Logger
	progress     *services.ProgressService
	maxBodyBytes int64
}

func newSubmissionHandler(progress *services.ProgressService, maxBodyBytes int64) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		progress:     progress,
		maxBodyBytes: maxBodyBytes,
	}
}

// ownedSubmission loads a submission and checks that its instance belongs to the caller
func (h submissionHandler) ownedSubmission(r *http.Request) (*models.ProjectSubmission, error) {
	submissionID, err := urlUUID(r, "submissionID")
	if err != nil {
		return nil, err
	}
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		return nil, errs.Unauthorized
	}

	submission, err := h.progress.GetSubmission(r.Context(), submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserProject == nil || submission.UserProject.UserID != userID {
		return nil, errs.NewNotOwnerError("project submission")
	}
	return submission, nil
}

// submit records a new submission and marks the instance submitted
// @Summary Submit work
// @Description Records the next submission version for the instance. The instance moves to submitted whatever its prior status.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param instanceID path string true "User project ID" format(uuid)
// @Param input body services.SubmissionInput false "Notes and artifacts"
// @Success 201 {object} SubmissionResult "Created submission and updated instance"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Instance not found"
// @Router /user-project/{instanceID}/submissions [post]
func (h submissionHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceID, err := urlUUID(r, "instanceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.SubmissionInput
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		if _, err := ownedInstance(r, h.progress, instanceID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, instance, err := h.progress.Submit(r.Context(), instanceID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, SubmissionResult{Submission: submission, UserProject: instance})
	}
}

func (h submissionHandler) getSubmissions() http.HandlerFunc {
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

		submissions, err := h.progress.ListSubmissions(r.Context(), instanceID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, SubmissionCollection{Submissions: submissions, Total: len(submissions)})
	}
}

func (h submissionHandler) getSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := h.ownedSubmission(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, submission)
	}
}

// updateSubmission edits notes or artifacts; version and instance status are untouched
func (h submissionHandler) updateSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch services.SubmissionPatch
		if err := decodeJSON(w, r, h.maxBodyBytes, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, err := h.ownedSubmission(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.progress.UpdateSubmission(r.Context(), submission.ID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}
