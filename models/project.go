package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Resource is a helpful link attached to a project (docs, starter code, ...)
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Project is a challenge template that users take on, authored by an instructor or generated by AI
type Project struct {
	ID                     uuid.UUID                     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title                  string                        `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Slug                   string                        `json:"slug" db:"slug" gorm:"type:varchar(220);not null;uniqueIndex:idx_project_slug"`
	Description            string                        `json:"description" db:"description" gorm:"type:text;not null"`
	Difficulty             Difficulty                    `json:"difficulty_level" db:"difficulty_level" gorm:"column:difficulty_level;type:varchar(20);not null;default:'intermediate';check:chk_project_difficulty,difficulty_level IN ('beginner','intermediate','advanced','expert')"`
	EstimatedDurationHours *int                          `json:"estimated_duration_hours,omitempty" db:"estimated_duration_hours" gorm:"type:integer;check:chk_project_duration,estimated_duration_hours IS NULL OR estimated_duration_hours >= 0"`
	LearningOutcomes       datatypes.JSONSlice[string]   `json:"learning_outcomes" db:"learning_outcomes" gorm:"type:jsonb;not null"`
	Prerequisites          datatypes.JSONSlice[string]   `json:"prerequisites" db:"prerequisites" gorm:"type:jsonb;not null"`
	Guidelines             datatypes.JSONMap             `json:"guidelines" db:"guidelines" gorm:"type:jsonb;not null"`
	Resources              datatypes.JSONSlice[Resource] `json:"resources" db:"resources" gorm:"type:jsonb;not null"`
	IsPublished            bool                          `json:"is_published" db:"is_published" gorm:"not null;default:false;index"`
	CreatedBy              *uuid.UUID                    `json:"created_by,omitempty" db:"created_by" gorm:"type:uuid;index"`
	AIGenerated            bool                          `json:"ai_generated" db:"ai_generated" gorm:"column:ai_generated;not null;default:false"`
	AIGenerationPrompt     *string                       `json:"ai_generation_prompt,omitempty" db:"ai_generation_prompt" gorm:"column:ai_generation_prompt;type:text"`
	CreatedAt              time.Time                     `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime"`
	UpdatedAt              time.Time                     `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime"`
	Tags                   []ProjectTag                  `json:"tags,omitempty" gorm:"many2many:project_technologies;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string { return "projects" }

func (p Project) String() string { return p.Title }

// Normalize fills defaults so JSON columns never store SQL NULL or a JSON null
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	if p.Difficulty == "" {
		p.Difficulty = DifficultyIntermediate
	}
	if p.LearningOutcomes == nil {
		p.LearningOutcomes = datatypes.JSONSlice[string]{}
	}
	if p.Prerequisites == nil {
		p.Prerequisites = datatypes.JSONSlice[string]{}
	}
	if p.Guidelines == nil {
		p.Guidelines = datatypes.JSONMap{}
	}
	if p.Resources == nil {
		p.Resources = datatypes.JSONSlice[Resource]{}
	}
}

func (p *Project) Validate() error {
	switch {
	case p.Title == "":
		return errs.NewMissingRequiredFieldError("title")
	case len(p.Title) > 200:
		return errs.NewInvalidFieldError("title", "must be at most 200 characters")
	case p.Slug == "":
		return errs.NewMissingRequiredFieldError("slug")
	case len(p.Slug) > 220:
		return errs.NewInvalidFieldError("slug", "must be at most 220 characters")
	case !ValidSlug(p.Slug):
		return errs.NewInvalidFieldError("slug", "may only contain letters, numbers, hyphens and underscores")
	case strings.TrimSpace(p.Description) == "":
		return errs.NewMissingRequiredFieldError("description")
	case !p.Difficulty.Valid():
		return errs.NewInvalidFieldError("difficulty_level", "must be one of beginner, intermediate, advanced, expert")
	case p.EstimatedDurationHours != nil && *p.EstimatedDurationHours < 0:
		return errs.NewInvalidFieldError("estimated_duration_hours", "must not be negative")
	}
	for i, r := range p.Resources {
		if strings.TrimSpace(r.URL) == "" {
			return errs.NewInvalidFieldError("resources", "resource "+r.Title+" has no url")
		}
		if err := validateURL("resources", r.URL); err != nil {
			return err
		}
		p.Resources[i].Title = strings.TrimSpace(r.Title)
	}
	return nil
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return p.Validate()
}
