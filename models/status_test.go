package models

import (
	"encoding/json"
	"testing"

	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectStatus(t *testing.T) {
	for _, s := range ProjectStatuses {
		parsed, err := ParseProjectStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		assert.NotEqual(t, string(s), s.Label(), "label should be human readable")
	}

	_, err := ParseProjectStatus("needs_revision")
	assert.Error(t, err)
	_, err = ParseProjectStatus("")
	assert.Error(t, err)
}

func TestProjectStatusUnmarshalJSON(t *testing.T) {
	var payload struct {
		Status ProjectStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress"}`), &payload))
	assert.Equal(t, StatusInProgress, payload.Status)

	err := json.Unmarshal([]byte(`{"status":"done"}`), &payload)
	assert.Error(t, err)
}

func TestValidateCallerTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ProjectStatus
		to      ProjectStatus
		wantErr bool
	}{
		{name: "start", from: StatusNotStarted, to: StatusInProgress},
		{name: "rework after failure", from: StatusFailed, to: StatusInProgress},
		{name: "keep working after submitting", from: StatusSubmitted, to: StatusInProgress},
		{name: "mark assessed", from: StatusSubmitted, to: StatusAssessed},
		{name: "same status", from: StatusCompleted, to: StatusCompleted},
		{name: "archive from anywhere", from: StatusCompleted, to: StatusArchived},
		{name: "archive not started", from: StatusNotStarted, to: StatusArchived},
		{name: "caller cannot submit", from: StatusInProgress, to: StatusSubmitted, wantErr: true},
		{name: "caller cannot complete", from: StatusSubmitted, to: StatusCompleted, wantErr: true},
		{name: "caller cannot fail", from: StatusSubmitted, to: StatusFailed, wantErr: true},
		{name: "no reset", from: StatusInProgress, to: StatusNotStarted, wantErr: true},
		{name: "no unarchive", from: StatusArchived, to: StatusInProgress, wantErr: true},
		{name: "completed stays completed", from: StatusCompleted, to: StatusInProgress, wantErr: true},
		{name: "assessed only from submitted", from: StatusInProgress, to: StatusAssessed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCallerTransition(tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsInvalidTransitionError(err))
				assert.Equal(t, 409, errs.StatusCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateCallerTransitionUnknownStatus(t *testing.T) {
	err := ValidateCallerTransition(StatusNotStarted, ProjectStatus("bogus"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestParseDifficulty(t *testing.T) {
	for _, raw := range []string{"beginner", "intermediate", "advanced", "expert"} {
		d, err := ParseDifficulty(raw)
		require.NoError(t, err)
		assert.True(t, d.Valid())
	}
	_, err := ParseDifficulty("legendary")
	assert.Error(t, err)

	var d Difficulty
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.Equal(t, Difficulty(""), d)
	assert.Error(t, json.Unmarshal([]byte(`"legendary"`), &d))
}
