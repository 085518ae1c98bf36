package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectSubmission is one attempt a user hands in for their project instance.
// Versions start at 1 and grow per instance.
type ProjectSubmission struct {
	ID                  uuid.UUID          `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserProjectID       uuid.UUID          `json:"user_project_id" db:"user_project_id" gorm:"type:uuid;not null;uniqueIndex:idx_submission_version,priority:1"`
	UserProject         *UserProject       `json:"user_project,omitempty" gorm:"foreignKey:UserProjectID;references:ID;constraint:OnDelete:CASCADE"`
	SubmittedAt         time.Time          `json:"submitted_at" db:"submitted_at" gorm:"type:timestamptz;not null;autoCreateTime"`
	SubmissionNotes     *string            `json:"submission_notes,omitempty" db:"submission_notes" gorm:"type:text"`
	SubmissionArtifacts datatypes.JSONMap  `json:"submission_artifacts" db:"submission_artifacts" gorm:"type:jsonb;not null"`
	SubmissionVersion   int                `json:"submission_version" db:"submission_version" gorm:"not null;uniqueIndex:idx_submission_version,priority:2;check:chk_submission_version,submission_version >= 1"`
	Assessment          *ProjectAssessment `json:"assessment,omitempty" gorm:"foreignKey:SubmissionID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectSubmission) TableName() string { return "project_submissions" }

func (s ProjectSubmission) String() string {
	return fmt.Sprintf("Submission v%d for %s at %s", s.SubmissionVersion, s.UserProjectID, s.SubmittedAt.Format("2006-01-02 15:04"))
}

func (s *ProjectSubmission) Validate() error {
	if s.UserProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("user_project_id")
	}
	if s.SubmissionVersion < 1 {
		return errs.NewInvalidFieldError("submission_version", "must be at least 1")
	}
	return nil
}

func (s *ProjectSubmission) BeforeSave(tx *gorm.DB) error {
	if s.SubmissionArtifacts == nil {
		s.SubmissionArtifacts = datatypes.JSONMap{}
	}
	return s.Validate()
}
