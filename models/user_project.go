package models

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"gorm.io/gorm"
)

// UserProject is one user's attempt at a project template. A user holds at most
// one instance per project.
type UserProject struct {
	ID            uuid.UUID           `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID        uuid.UUID           `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_project_unique,priority:1"`
	ProjectID     uuid.UUID           `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_project_unique,priority:2"`
	Project       *Project            `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Status        ProjectStatus       `json:"status" db:"status" gorm:"type:varchar(30);not null;default:'not_started';check:chk_user_project_status,status IN ('not_started','in_progress','submitted','assessed','completed','failed','archived')"`
	StartedAt     *time.Time          `json:"started_at,omitempty" db:"started_at" gorm:"type:timestamptz"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty" db:"completed_at" gorm:"type:timestamptz"`
	RepositoryURL *string             `json:"repository_url,omitempty" db:"repository_url" gorm:"type:text"`
	LiveURL       *string             `json:"live_url,omitempty" db:"live_url" gorm:"type:text"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime"`
	Submissions   []ProjectSubmission `json:"submissions,omitempty" gorm:"foreignKey:UserProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (UserProject) TableName() string { return "user_projects" }

func (u UserProject) String() string {
	title := u.ProjectID.String()
	if u.Project != nil {
		title = u.Project.Title
	}
	return fmt.Sprintf("%s's work on '%s' (%s)", u.UserID, title, u.Status.Label())
}

// ApplyStartRule stamps StartedAt the first time the instance is seen in progress.
// Later calls never move the stamp.
func (u *UserProject) ApplyStartRule(now time.Time) bool {
	if u.Status != StatusInProgress || u.StartedAt != nil {
		return false
	}
	u.StartedAt = &now
	return true
}

// ApplyAssessmentOutcome moves the instance to completed or failed. CompletedAt
// is only written on a pass.
func (u *UserProject) ApplyAssessmentOutcome(passed bool, now time.Time) {
	if passed {
		u.Status = StatusCompleted
		u.CompletedAt = &now
		return
	}
	u.Status = StatusFailed
}

func (u *UserProject) Validate() error {
	if u.UserID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("user_id")
	}
	if u.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	if !u.Status.Valid() {
		return errs.NewInvalidFieldError("status", fmt.Sprintf("unknown project status %q", u.Status))
	}
	if u.RepositoryURL != nil {
		if err := validateURL("repository_url", *u.RepositoryURL); err != nil {
			return err
		}
	}
	if u.LiveURL != nil {
		if err := validateURL("live_url", *u.LiveURL); err != nil {
			return err
		}
	}
	return nil
}

func (u *UserProject) BeforeSave(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = StatusNotStarted
	}
	u.ApplyStartRule(time.Now())
	return u.Validate()
}

func validateURL(field, raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errs.NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return nil
}
