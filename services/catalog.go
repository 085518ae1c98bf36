package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	maxTagSlugLen     = 60
	maxProjectSlugLen = 220
)

// CatalogService manages the tag registry and the project template catalog
type CatalogService struct {
	db database.Database
}

func NewCatalogService(db database.Database) *CatalogService {
	return &CatalogService{db: db}
}

type TagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProjectInput carries every caller-editable project field. Tags are referenced by slug.
type ProjectInput struct {
	Title                  string                 `json:"title"`
	Slug                   string                 `json:"slug"`
	Description            string                 `json:"description"`
	Difficulty             models.Difficulty      `json:"difficulty_level"`
	EstimatedDurationHours *int                   `json:"estimated_duration_hours"`
	LearningOutcomes       []string               `json:"learning_outcomes"`
	Prerequisites          []string               `json:"prerequisites"`
	Guidelines             map[string]interface{} `json:"guidelines"`
	Resources              []models.Resource      `json:"resources"`
	IsPublished            bool                   `json:"is_published"`
	AIGenerated            bool                   `json:"ai_generated"`
	AIGenerationPrompt     *string                `json:"ai_generation_prompt"`
	Tags                   []string               `json:"tags"`
}

func (s *CatalogService) ListTags(ctx context.Context) ([]*models.ProjectTag, error) {
	tags, err := s.db.ProjectTagRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project tags", err)
	}
	return tags, nil
}

// CreateTag registers a tag. The slug is derived from the name when omitted.
func (s *CatalogService) CreateTag(ctx context.Context, in TagInput) (*models.ProjectTag, error) {
	tag := &models.ProjectTag{
		Name: strings.TrimSpace(in.Name),
		Slug: strings.TrimSpace(in.Slug),
	}
	if tag.Slug == "" {
		tag.Slug = Slugify(tag.Name, maxTagSlugLen)
	}

	if err := s.db.ProjectTagRepo().Add(ctx, tag); err != nil {
		return nil, errs.NewDatabaseError("create", "project tag", err)
	}
	log.Info().Str("tag", tag.Slug).Msg("Created project tag")
	return tag, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.db.ProjectTagRepo().Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "project tag", err)
	}
	return nil
}

func (s *CatalogService) ListProjects(ctx context.Context, filter database.ProjectFilter) ([]*models.Project, error) {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, errs.NewInvalidFieldError("difficulty", "must be one of beginner, intermediate, advanced, expert")
	}
	projects, err := s.db.ProjectRepo().FindAll(ctx, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

func (s *CatalogService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project", err)
	}
	return project, nil
}

func (s *CatalogService) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindBySlug(ctx, slug)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project", err)
	}
	return project, nil
}

// CreateProject adds a project template. When no slug is given one is derived
// from the title and suffixed until it is free.
func (s *CatalogService) CreateProject(ctx context.Context, createdBy *uuid.UUID, in ProjectInput) (*models.Project, error) {
	project := &models.Project{CreatedBy: createdBy}
	in.apply(project)

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		tags, err := resolveTags(ctx, tx, in.Tags)
		if err != nil {
			return err
		}
		project.Tags = tags

		if project.Slug == "" && project.Title != "" {
			base := Slugify(project.Title, maxProjectSlugLen)
			project.Slug, err = uniqueSlug(ctx, base, maxProjectSlugLen, tx.ProjectRepo().SlugExists)
			if err != nil {
				return err
			}
		}
		return tx.ProjectRepo().Add(ctx, project)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	log.Info().Str("project", project.Slug).Int("tags", len(project.Tags)).Msg("Created project")
	return project, nil
}

// UpdateProject replaces the editable fields of a project. An empty slug keeps
// the current one and a nil tag list keeps the current tags.
func (s *CatalogService) UpdateProject(ctx context.Context, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	var updated *models.Project
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		currentSlug := project.Slug
		in.apply(project)
		if project.Slug == "" {
			project.Slug = currentSlug
		}
		if in.Tags != nil {
			if project.Tags, err = resolveTags(ctx, tx, in.Tags); err != nil {
				return err
			}
		}
		if err := tx.ProjectRepo().Update(ctx, project); err != nil {
			return err
		}

		updated, err = tx.ProjectRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}
	return updated, nil
}

// PublishProject flips the visibility of a project
func (s *CatalogService) PublishProject(ctx context.Context, id uuid.UUID, published bool) (*models.Project, error) {
	var updated *models.Project
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		project.IsPublished = published
		if err := tx.ProjectRepo().Update(ctx, project); err != nil {
			return err
		}

		updated, err = tx.ProjectRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("publish", "project", err)
	}
	return updated, nil
}

// DeleteProject removes a project with every instance, submission and assessment under it
func (s *CatalogService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.db.ProjectRepo().Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	log.Info().Str("project_id", id.String()).Msg("Deleted project")
	return nil
}

func (in ProjectInput) apply(p *models.Project) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = strings.TrimSpace(in.Slug)
	p.Description = in.Description
	p.Difficulty = in.Difficulty
	p.EstimatedDurationHours = in.EstimatedDurationHours
	p.LearningOutcomes = datatypes.JSONSlice[string](in.LearningOutcomes)
	p.Prerequisites = datatypes.JSONSlice[string](in.Prerequisites)
	p.Guidelines = datatypes.JSONMap(in.Guidelines)
	p.Resources = datatypes.JSONSlice[models.Resource](in.Resources)
	p.IsPublished = in.IsPublished
	p.AIGenerated = in.AIGenerated
	p.AIGenerationPrompt = in.AIGenerationPrompt
}

// resolveTags loads the tags named by slug. Unknown slugs are rejected.
func resolveTags(ctx context.Context, db database.Database, slugs []string) ([]models.ProjectTag, error) {
	wanted := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		if s = strings.TrimSpace(s); s != "" {
			wanted[s] = struct{}{}
		}
	}
	unique := make([]string, 0, len(wanted))
	for s := range wanted {
		unique = append(unique, s)
	}
	sort.Strings(unique)

	tags, err := db.ProjectTagRepo().FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) == len(unique) {
		return tags, nil
	}

	for _, t := range tags {
		delete(wanted, t.Slug)
	}
	var missing []string
	for s := range wanted {
		missing = append(missing, s)
	}
	sort.Strings(missing)
	return nil, errs.NewInvalidFieldError("tags", "unknown tag: "+strings.Join(missing, ", "))
}
