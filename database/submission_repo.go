package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db}
}

// FindByID returns a submission with its instance and assessment
func (r *SubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectSubmission, error) {
	var submission models.ProjectSubmission
	err := r.db.WithContext(ctx).
		Preload("UserProject").
		Preload("Assessment").
		First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByUserProject returns every submission of an instance, latest version first
func (r *SubmissionRepo) FindByUserProject(ctx context.Context, userProjectID uuid.UUID) ([]*models.ProjectSubmission, error) {
	var submissions []*models.ProjectSubmission
	err := r.db.WithContext(ctx).
		Preload("Assessment").
		Where("user_project_id = ?", userProjectID).
		Order("submission_version DESC").
		Find(&submissions).Error
	return submissions, err
}

// LatestVersion returns the highest submission version recorded for an
// instance, or 0 when it has none. Gaps left by deleted submissions are kept.
func (r *SubmissionRepo) LatestVersion(ctx context.Context, userProjectID uuid.UUID) (int, error) {
	var versions []int
	err := r.db.WithContext(ctx).
		Model(&models.ProjectSubmission{}).
		Where("user_project_id = ?", userProjectID).
		Order("submission_version DESC").
		Limit(1).
		Pluck("submission_version", &versions).Error
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, nil
	}
	return versions[0], nil
}

// Add inserts a new submission
func (r *SubmissionRepo) Add(ctx context.Context, submission *models.ProjectSubmission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error
}

// UpdateFields writes only the named columns of an existing submission
func (r *SubmissionRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.ProjectSubmission{}).
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

// Delete removes a submission and its assessment
func (r *SubmissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ProjectSubmission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
