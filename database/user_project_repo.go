package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProjectRepo struct {
	db *gorm.DB
}

func NewUserProjectRepo(db *gorm.DB) *UserProjectRepo {
	return &UserProjectRepo{db}
}

// FindByID returns an instance with its project definition
func (r *UserProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProject, error) {
	var userProject models.UserProject
	err := r.db.WithContext(ctx).Preload("Project").First(&userProject, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &userProject, nil
}

// FindByIDForUpdate loads an instance and holds a row lock on it until the
// surrounding transaction ends. Must be called inside Database.Transaction.
func (r *UserProjectRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserProject, error) {
	var userProject models.UserProject
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&userProject, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &userProject, nil
}

// FindByUser returns a user's instances, most recently touched first. An empty
// status matches every status.
func (r *UserProjectRepo) FindByUser(ctx context.Context, userID uuid.UUID, status models.ProjectStatus) ([]*models.UserProject, error) {
	query := r.db.WithContext(ctx).Preload("Project").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var userProjects []*models.UserProject
	err := query.Order("updated_at DESC").Order("created_at DESC").Find(&userProjects).Error
	return userProjects, err
}

// FindByUserAndProject returns the single instance a user holds for a project
func (r *UserProjectRepo) FindByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*models.UserProject, error) {
	var userProject models.UserProject
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&userProject).Error
	if err != nil {
		return nil, err
	}
	return &userProject, nil
}

// Add inserts a new instance. The start rule and validation run in the model's BeforeSave hook.
func (r *UserProjectRepo) Add(ctx context.Context, userProject *models.UserProject) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(userProject).Error
}

// Save writes every column of an existing instance
func (r *UserProjectRepo) Save(ctx context.Context, userProject *models.UserProject) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(userProject).Error
}

// UpdateFields writes only the named columns. Model hooks are skipped, so
// callers are responsible for passing valid values.
func (r *UserProjectRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.UserProject{}).
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
