package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ProjectTag categorizes projects by technology or topic (e.g. Python, Machine Learning)
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_project_tag_name"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:varchar(60);not null;uniqueIndex:idx_project_tag_slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime"`
}

func (ProjectTag) TableName() string { return "project_tags" }

func (t ProjectTag) String() string { return t.Name }

func (t *ProjectTag) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	switch {
	case t.Name == "":
		return errs.NewMissingRequiredFieldError("name")
	case len(t.Name) > 50:
		return errs.NewInvalidFieldError("name", "must be at most 50 characters")
	case t.Slug == "":
		return errs.NewMissingRequiredFieldError("slug")
	case len(t.Slug) > 60:
		return errs.NewInvalidFieldError("slug", "must be at most 60 characters")
	case !ValidSlug(t.Slug):
		return errs.NewInvalidFieldError("slug", "may only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func (t *ProjectTag) BeforeSave(tx *gorm.DB) error {
	return t.Validate()
}

// ValidSlug reports whether s is usable as a URL slug
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
