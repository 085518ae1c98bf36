package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"validation", errs.NewInvalidFieldError("status", "unknown"), http.StatusBadRequest, "status"},
		{"transition", errs.NewInvalidTransitionError("archived", "in_progress"), http.StatusConflict, "status"},
		{"score", errs.NewScoreOutOfRangeError(101), http.StatusBadRequest, "score"},
		{"not owner", errs.NewNotOwnerError("user project"), http.StatusForbidden, ""},
		{"not found", errs.NewNotFound("project"), http.StatusNotFound, ""},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			responder.WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			body := decodeError(t, rec)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestWriteErrorHidesUnexpectedDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errors.New("password=hunter2"))
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name  string
		body  string
		check func(error) bool
	}{
		{"valid", `{"name":"go"}`, func(err error) bool { return err == nil }},
		{"unknown field", `{"nme":"go"}`, errs.IsInvalidJSONError},
		{"syntax error", `{"name":`, errs.IsInvalidJSONError},
		{"empty", ``, errs.IsMalformedPayloadError},
		{"two documents", `{"name":"a"}{"name":"b"}`, errs.IsMalformedPayloadError},
		{"too large", `{"name":"` + strings.Repeat("x", 64) + `"}`, func(err error) bool { return errors.Is(err, errs.ErrMaxBodySizeExceeded) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := decodeJSON(httptest.NewRecorder(), req, 32, &p)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/projects?published=true&bad=maybe", nil)

	v, err := queryBool(req, "published")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = queryBool(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = queryBool(req, "bad")
	assert.True(t, errs.IsInvalidFieldError(err))
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthHandler(fakePinger{}).health()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newHealthHandler(fakePinger{err: errors.New("refused")}).health()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoutesRejectBadRequestsBeforeTouchingTheDatabase(t *testing.T) {
	router := newRouter(database.Database{}, withConfig(map[string]string{"JWT_SECRET": testSecret}))
	token := signToken(t, testSecret, "8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11", time.Now().Add(time.Hour), scopeAssessmentsWrite)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		status int
	}{
		{"bad project id", http.MethodGet, "/project/not-a-uuid", "", false, http.StatusBadRequest},
		{"bad slug", http.MethodGet, "/project/slug/has%20space", "", false, http.StatusBadRequest},
		{"bad published filter", http.MethodGet, "/projects?published=sometimes", "", false, http.StatusBadRequest},
		{"bad difficulty filter", http.MethodGet, "/projects?difficulty=legendary", "", false, http.StatusBadRequest},
		{"enroll needs a token", http.MethodPost, "/project/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11/enroll", "", false, http.StatusUnauthorized},
		{"bad instance id", http.MethodGet, "/user-project/123", "", true, http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/user-projects?status=paused", "", true, http.StatusBadRequest},
		{"unknown status in patch", http.MethodPatch, "/user-project/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11", `{"status":"paused"}`, true, http.StatusBadRequest},
		{"score out of range", http.MethodPost, "/submission/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11/assessment", `{"score":120,"passed":true}`, true, http.StatusBadRequest},
		{"bad assessment id", http.MethodPatch, "/assessment/nope", `{}`, true, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestNewServerRequiresJWTSecret(t *testing.T) {
	_, err := NewServer(database.Database{}, map[string]string{})
	assert.Error(t, err)

	server, err := NewServer(database.Database{}, map[string]string{"JWT_SECRET": testSecret, "PORT": "9191"})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9191", server.Addr)
}
