package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// FindAll returns all project tags ordered by name
func (r *ProjectTagRepo) FindAll(ctx context.Context) ([]*models.ProjectTag, error) {
	var projectTags []*models.ProjectTag
	err := r.db.WithContext(ctx).Order("name").Find(&projectTags).Error
	return projectTags, err
}

// FindByID returns a project tag by its ID
func (r *ProjectTagRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectTag, error) {
	var projectTag models.ProjectTag
	if err := r.db.WithContext(ctx).First(&projectTag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &projectTag, nil
}

// FindBySlug returns a project tag by its slug
func (r *ProjectTagRepo) FindBySlug(ctx context.Context, slug string) (*models.ProjectTag, error) {
	var projectTag models.ProjectTag
	if err := r.db.WithContext(ctx).First(&projectTag, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &projectTag, nil
}

// FindBySlugs returns the tags matching the given slugs; unknown slugs are ignored
func (r *ProjectTagRepo) FindBySlugs(ctx context.Context, slugs []string) ([]models.ProjectTag, error) {
	var projectTags []models.ProjectTag
	if len(slugs) == 0 {
		return projectTags, nil
	}
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name").Find(&projectTags).Error
	return projectTags, err
}

// Add inserts a new project tag into the database
func (r *ProjectTagRepo) Add(ctx context.Context, projectTag *models.ProjectTag) error {
	return r.db.WithContext(ctx).Create(projectTag).Error
}

// Delete removes a project tag and its project links
func (r *ProjectTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ProjectTag{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
