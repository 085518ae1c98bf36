package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter narrows FindAll. Zero values match everything.
type ProjectFilter struct {
	Published  *bool
	Difficulty models.Difficulty
	TagSlug    string
	CreatedBy  *uuid.UUID
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("project_tags.name")
}

// FindAll returns the projects matching filter, newest first
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Preload("Tags", preloadTags)

	if filter.Published != nil {
		query = query.Where("projects.is_published = ?", *filter.Published)
	}
	if filter.Difficulty != "" {
		query = query.Where("projects.difficulty_level = ?", filter.Difficulty)
	}
	if filter.CreatedBy != nil {
		query = query.Where("projects.created_by = ?", *filter.CreatedBy)
	}
	if filter.TagSlug != "" {
		query = query.Where(`EXISTS (
			SELECT 1 FROM project_technologies pt
			JOIN project_tags t ON t.id = pt.project_tag_id
			WHERE pt.project_id = projects.id AND t.slug = ?)`, filter.TagSlug)
	}

	var projects []*models.Project
	err := query.Order("projects.created_at DESC").Order("projects.title").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID with its tags
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Tags", preloadTags).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its slug with its tags
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Tags", preloadTags).First(&project, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SlugExists reports whether any project already uses slug
func (r *ProjectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Add inserts a new project and links its (already persisted) tags
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Tags.*").Create(project).Error
}

// Update writes every column of project and replaces its tag links
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(project).Error; err != nil {
		return err
	}
	return db.Model(project).Omit("Tags.*").Association("Tags").Replace(project.Tags)
}

// Delete removes a project by id. Instances, submissions and assessments go with it.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
