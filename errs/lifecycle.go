package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Project lifecycle errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrScoreOutOfRange   = errors.New("score out of range")
	ErrAlreadyAssessed   = errors.New("submission already assessed")
	ErrAlreadyEnrolled   = errors.New("user already has an instance of this project")
)

func NewInvalidTransitionError(from, to string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrInvalidTransition,
		Details:    fmt.Sprintf("cannot move project instance from %s to %s", from, to),
		Field:      "status",
	}
}

func NewScoreOutOfRangeError(score float64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrScoreOutOfRange,
		Details:    fmt.Sprintf("score %.2f must be between 0 and 100", score),
		Field:      "score",
	}
}

func NewAlreadyAssessedError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrAlreadyAssessed,
		Details:    "each submission carries exactly one assessment",
		Field:      "submission_id",
		Cause:      cause,
	}
}

// NewAlreadyEnrolledError names the instance the user already holds so the
// client can continue with it. existingID may be empty when it could not be read.
func NewAlreadyEnrolledError(existingID string, cause error) *ApiErr {
	e := &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrAlreadyEnrolled,
		Field:      "project_id",
		Cause:      cause,
	}
	if existingID != "" {
		e.Details = "existing instance " + existingID
	}
	return e
}

func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsScoreOutOfRangeError(err error) bool {
	return errors.Is(err, ErrScoreOutOfRange)
}

func IsAlreadyAssessedError(err error) bool {
	return errors.Is(err, ErrAlreadyAssessed)
}

func IsAlreadyEnrolledError(err error) bool {
	return errors.Is(err, ErrAlreadyEnrolled)
}
