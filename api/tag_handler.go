package api

import (
	"net/http"

	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder    Responder
	logger       zerolog.Logger
	catalog      *services.CatalogService
	maxBodyBytes int64
}

func newTagHandler(catalog *services.CatalogService, maxBodyBytes int64) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		catalog:      catalog,
		maxBodyBytes: maxBodyBytes,
	}
}

// getAllTags lists the tag registry
// @Summary Get all tags
// @Tags Tags
// @Produce json
// @Success 200 {object} TagCollection "Tags ordered by name"
// @Router /tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.catalog.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// createTag registers a tag; the slug is derived from the name when omitted
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body services.TagInput true "Tag data"
// @Success 201 {object} models.ProjectTag "Created tag"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid tag data"
// @Failure 409 {object} ErrorResponse "Conflict - Name or slug already used"
// @Router /tag [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.TagInput
		if err := decodeJSON(w, r, h.maxBodyBytes, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.catalog.CreateTag(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, tag)
	}
}

func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := urlUUID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.DeleteTag(r.Context(), tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusMessage{Status: "success", Message: "tag deleted successfully"})
	}
}
