package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time, scopes ...string) string {
	t.Helper()
	claims := accessClaims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "learning-projects-test",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	m := newAuthMiddleware(testSecret, "learning-projects-test")

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := ctxGetUserID(r.Context())
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})
	handler := m.authenticate(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc", http.StatusUnauthorized},
		{"empty bearer token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", userID.String(), time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, userID.String(), time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"subject is not a uuid", "Bearer " + signToken(t, testSecret, "alice", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour)), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user-projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "error", decodeError(t, rec).Status)
			}
		})
	}
	assert.Equal(t, userID, seen)
}

func TestAuthenticateRejectsOtherSigningMethods(t *testing.T) {
	m := newAuthMiddleware(testSecret, "")
	claims := jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = m.verify(token)
	assert.Error(t, err)
}

func TestAssessmentWritesRequireScope(t *testing.T) {
	router := newRouter(database.Database{}, withConfig(map[string]string{"JWT_SECRET": testSecret}))
	learner := signToken(t, testSecret, uuid.NewString(), time.Now().Add(time.Hour))
	grader := signToken(t, testSecret, uuid.NewString(), time.Now().Add(time.Hour), "projects:read", scopeAssessmentsWrite)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"learner records an assessment", http.MethodPost, "/submission/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11/assessment", learner, http.StatusForbidden},
		{"learner amends an assessment", http.MethodPatch, "/assessment/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11", learner, http.StatusForbidden},
		// the grader gets past the scope check and fails on the body instead
		{"grader records an assessment", http.MethodPost, "/submission/8b4c3c58-0f5e-4a43-9d59-1f1f7f0c2b11/assessment", grader, http.StatusBadRequest},
		{"grader amends an assessment", http.MethodPatch, "/assessment/nope", grader, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"score":120}`))
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusForbidden {
				assert.Contains(t, decodeError(t, rec).Details, scopeAssessmentsWrite)
			}
		})
	}
}

func TestLogInternalServerErrorsRecoversPanics(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	router := newRouter(database.Database{}, withConfig(map[string]string{
		"JWT_SECRET":       testSecret,
		"ACCEPTED_ORIGINS": "https://app.example.com",
	}))

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
