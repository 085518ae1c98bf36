package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
)

const defaultMaxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document from the request body into v.
// Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.NewMaxBodySizeExceededError(maxBytes)
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError("request body", err)
		default:
			return errs.NewInvalidJSONError(err)
		}
	}
	if decoder.More() {
		return errs.NewMalformedPayloadError("request body", errors.New("body must contain a single JSON document"))
	}
	return nil
}

// urlUUID parses a UUID path parameter
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestErrorWithField("invalid "+name, name, err.Error())
	}
	return id, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError(name, "must be true or false")
	}
	return &v, nil
}
