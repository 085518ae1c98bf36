package models

import (
	"encoding/json"
	"fmt"

	"github.com/rpupo63/learning-projects-backend/errs"
)

// ProjectStatus is the lifecycle state of a user's project instance
type ProjectStatus string

const (
	StatusNotStarted ProjectStatus = "not_started"
	StatusInProgress ProjectStatus = "in_progress"
	StatusSubmitted  ProjectStatus = "submitted"
	// StatusAssessed is never emitted by the submission or assessment cascades;
	// only a caller can move an instance into it.
	StatusAssessed  ProjectStatus = "assessed"
	StatusCompleted ProjectStatus = "completed"
	StatusFailed    ProjectStatus = "failed"
	StatusArchived  ProjectStatus = "archived"
)

// ProjectStatuses lists every status in lifecycle order
var ProjectStatuses = []ProjectStatus{
	StatusNotStarted,
	StatusInProgress,
	StatusSubmitted,
	StatusAssessed,
	StatusCompleted,
	StatusFailed,
	StatusArchived,
}

// ParseProjectStatus converts a raw value into a ProjectStatus, rejecting unknown values
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	s := ProjectStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown project status %q", raw)
	}
	return s, nil
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusSubmitted, StatusAssessed,
		StatusCompleted, StatusFailed, StatusArchived:
		return true
	}
	return false
}

// Label returns the human readable name of the status
func (s ProjectStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusSubmitted:
		return "Submitted for Assessment"
	case StatusAssessed:
		return "Assessed"
	case StatusCompleted:
		return "Completed Successfully"
	case StatusFailed:
		return "Failed Assessment"
	case StatusArchived:
		return "Archived"
	}
	return string(s)
}

func (s ProjectStatus) String() string {
	return string(s)
}

func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseProjectStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ValidateCallerTransition reports whether a caller (as opposed to a submission
// or assessment cascade) may move an instance from one status to another.
func ValidateCallerTransition(from, to ProjectStatus) error {
	if !to.Valid() {
		return errs.NewInvalidFieldError("status", fmt.Sprintf("unknown project status %q", to))
	}
	if from == to {
		return nil
	}

	var allowed bool
	switch to {
	case StatusArchived:
		allowed = true
	case StatusInProgress:
		switch from {
		case StatusNotStarted, StatusSubmitted, StatusAssessed, StatusFailed:
			allowed = true
		}
	case StatusAssessed:
		allowed = from == StatusSubmitted
	case StatusNotStarted, StatusSubmitted, StatusCompleted, StatusFailed:
		// reached only through cascades
		allowed = false
	}

	if !allowed {
		return errs.NewInvalidTransitionError(string(from), string(to))
	}
	return nil
}
