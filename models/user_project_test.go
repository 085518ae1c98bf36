package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStartRule(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	up := UserProject{Status: StatusNotStarted}
	assert.False(t, up.ApplyStartRule(first))
	assert.Nil(t, up.StartedAt)

	up.Status = StatusInProgress
	assert.True(t, up.ApplyStartRule(first))
	require.NotNil(t, up.StartedAt)
	assert.Equal(t, first, *up.StartedAt)

	// stamping again never moves the original start
	assert.False(t, up.ApplyStartRule(later))
	assert.Equal(t, first, *up.StartedAt)

	up.Status = StatusSubmitted
	up.Status = StatusInProgress
	up.ApplyStartRule(later)
	assert.Equal(t, first, *up.StartedAt)
}

func TestApplyAssessmentOutcome(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("pass completes", func(t *testing.T) {
		up := UserProject{Status: StatusSubmitted}
		up.ApplyAssessmentOutcome(true, now)
		assert.Equal(t, StatusCompleted, up.Status)
		require.NotNil(t, up.CompletedAt)
		assert.Equal(t, now, *up.CompletedAt)
	})

	t.Run("fail leaves completed_at alone", func(t *testing.T) {
		up := UserProject{Status: StatusSubmitted}
		up.ApplyAssessmentOutcome(false, now)
		assert.Equal(t, StatusFailed, up.Status)
		assert.Nil(t, up.CompletedAt)

		earlier := now.Add(-time.Hour)
		up = UserProject{Status: StatusSubmitted, CompletedAt: &earlier}
		up.ApplyAssessmentOutcome(false, now)
		assert.Equal(t, StatusFailed, up.Status)
		assert.Equal(t, earlier, *up.CompletedAt)
	})
}

func TestUserProjectValidate(t *testing.T) {
	good := "https://github.com/someone/todo-app"
	bad := "github.com/someone/todo-app"

	up := UserProject{UserID: uuid.New(), ProjectID: uuid.New(), Status: StatusNotStarted, RepositoryURL: &good}
	assert.NoError(t, up.Validate())

	up.LiveURL = &bad
	err := up.Validate()
	require.Error(t, err)
	assert.True(t, errs.IsInvalidFieldError(err))

	up.LiveURL = nil
	up.Status = "paused"
	assert.Error(t, up.Validate())

	assert.True(t, errs.IsMissingRequiredFieldError((&UserProject{ProjectID: uuid.New()}).Validate()))
}

func TestUserProjectBeforeSaveDefaultsAndStamps(t *testing.T) {
	up := UserProject{UserID: uuid.New(), ProjectID: uuid.New()}
	require.NoError(t, up.BeforeSave(nil))
	assert.Equal(t, StatusNotStarted, up.Status)
	assert.Nil(t, up.StartedAt)

	up.Status = StatusInProgress
	require.NoError(t, up.BeforeSave(nil))
	assert.NotNil(t, up.StartedAt)
}

func TestUserProjectString(t *testing.T) {
	user := uuid.MustParse("7a0d1b9e-8f4e-4f61-9f3b-2f6f0b1d8e11")
	up := UserProject{UserID: user, Status: StatusInProgress, Project: &Project{Title: "Todo API"}}
	assert.Equal(t, "7a0d1b9e-8f4e-4f61-9f3b-2f6f0b1d8e11's work on 'Todo API' (In Progress)", up.String())
}
