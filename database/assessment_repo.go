package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepo struct {
	db *gorm.DB
}

func NewAssessmentRepo(db *gorm.DB) *AssessmentRepo {
	return &AssessmentRepo{db}
}

// FindByID returns an assessment by its ID
func (r *AssessmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectAssessment, error) {
	var assessment models.ProjectAssessment
	if err := r.db.WithContext(ctx).First(&assessment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// FindBySubmission returns the assessment recorded for a submission
func (r *AssessmentRepo) FindBySubmission(ctx context.Context, submissionID uuid.UUID) (*models.ProjectAssessment, error) {
	var assessment models.ProjectAssessment
	if err := r.db.WithContext(ctx).First(&assessment, "submission_id = ?", submissionID).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Add inserts a new assessment
func (r *AssessmentRepo) Add(ctx context.Context, assessment *models.ProjectAssessment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(assessment).Error
}

// UpdateFields writes only the named columns of an existing assessment
func (r *AssessmentRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.ProjectAssessment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
