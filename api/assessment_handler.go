package api

import (
	"net/http"

	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// assessmentHandler serves the assessment pipeline. Any authenticated caller
// may record or amend an assessment.
type assessmentHandler struct {
	responder    Responder
	logger       zerolog.Logger
	progress     *services.ProgressService
	maxBodyBytes int64
}

func newAssessmentHandler(progress *services.ProgressService, maxBodyBytes int64) assessmentHandler {
	logger := log.With().Str("handlerName", "assessmentHandler").Logger()

	return assessmentHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		progress:     progress,
		maxBodyBytes: maxBodyBytes,
	}
}

// assess records the assessment of a submission
// @Summary Assess submission
// @Description Records the single assessment of a submission and moves the instance to completed (passed) or failed.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param submissionID path string true "Submission ID" format(uuid)
// @Param input body services.AssessmentInput true "Assessment result"
// @Success 201 {object} AssessmentResult "Created assessment and updated instance"
// @Failure 400 {object} ErrorResponse "Bad Request - Score out of range"
// @Failure 404 {object} ErrorResponse "Not Found - Submission not found"
// @Failure 409 {object} ErrorResponse "Conflict - Submission already assessed"
// @Router /submission/{submissionID}/assessment [post]
func (h assessmentHandler) assess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := urlUUID(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.AssessmentInput
		if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		assessment, instance, err := h.progress.Assess(r.Context(), submissionID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, AssessmentResult{Assessment: assessment, UserProject: instance})
	}
}

func (h assessmentHandler) getSubmissionAssessment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := urlUUID(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		assessment, err := h.progress.GetAssessmentForSubmission(r.Context(), submissionID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, assessment)
	}
}

func (h assessmentHandler) getAssessment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assessmentID, err := urlUUID(r, "assessmentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		assessment, err := h.progress.GetAssessment(r.Context(), assessmentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, assessment)
	}
}

// updateAssessment amends an assessment; a patch carrying "passed" re-applies
// the outcome to the instance
func (h assessmentHandler) updateAssessment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assessmentID, err := urlUUID(r, "assessmentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.AssessmentPatch
		if err := decodeJSON(w, r, h.maxBodyBytes, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		assessment, instance, err := h.progress.UpdateAssessment(r.Context(), assessmentID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, AssessmentResult{Assessment: assessment, UserProject: instance})
	}
}
