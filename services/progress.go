package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressService drives a user's work on a project: enrollment, caller edits,
// versioned submissions and their assessments. Status changes that follow from
// a submission or an assessment are written in the same transaction as the
// record that caused them.
type ProgressService struct {
	db  database.Database
	now func() time.Time
}

func NewProgressService(db database.Database) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

type EnrollInput struct {
	Status        models.ProjectStatus `json:"status"`
	RepositoryURL *string              `json:"repository_url"`
	LiveURL       *string              `json:"live_url"`
}

// InstancePatch lists the caller-editable fields of an instance. Nil fields are
// left alone and an empty URL clears the stored one.
type InstancePatch struct {
	Status        *models.ProjectStatus `json:"status"`
	RepositoryURL *string               `json:"repository_url"`
	LiveURL       *string               `json:"live_url"`
}

type SubmissionInput struct {
	Notes     *string                `json:"submission_notes"`
	Artifacts map[string]interface{} `json:"submission_artifacts"`
}

// SubmissionPatch edits an existing submission. It never changes the version or
// the instance status.
type SubmissionPatch struct {
	Notes     *string                `json:"submission_notes"`
	Artifacts map[string]interface{} `json:"submission_artifacts"`
}

// AssessmentInput records the result for a submission. AssessedByAI defaults to true.
type AssessmentInput struct {
	AssessedByAI        *bool                  `json:"assessed_by_ai"`
	AssessorAIAgentName *string                `json:"assessor_ai_agent_name"`
	ManualAssessorID    *uuid.UUID             `json:"manual_assessor_id"`
	Score               *float64               `json:"score"`
	Passed              bool                   `json:"passed"`
	FeedbackSummary     *string                `json:"feedback_summary"`
	DetailedFeedback    map[string]interface{} `json:"detailed_feedback"`
}

// AssessmentPatch edits a recorded assessment. Setting Passed, even to its
// current value, re-applies the outcome to the instance.
type AssessmentPatch struct {
	AssessorAIAgentName *string                `json:"assessor_ai_agent_name"`
	ManualAssessorID    *uuid.UUID             `json:"manual_assessor_id"`
	Score               *float64               `json:"score"`
	Passed              *bool                  `json:"passed"`
	FeedbackSummary     *string                `json:"feedback_summary"`
	DetailedFeedback    map[string]interface{} `json:"detailed_feedback"`
}

// Enroll creates the user's instance of a project. A user holds at most one
// instance per project.
func (s *ProgressService) Enroll(ctx context.Context, userID, projectID uuid.UUID, in EnrollInput) (*models.UserProject, error) {
	if in.Status == "" {
		in.Status = models.StatusNotStarted
	}
	if err := models.ValidateCallerTransition(models.StatusNotStarted, in.Status); err != nil {
		return nil, err
	}

	project, err := s.db.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("enroll", "project", err)
	}

	existing, err := s.db.UserProjectRepo().FindByUserAndProject(ctx, userID, projectID)
	switch {
	case err == nil:
		return nil, errs.NewAlreadyEnrolledError(existing.ID.String(), nil)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.NewDatabaseError("enroll", "user project", err)
	}

	instance := &models.UserProject{
		UserID:        userID,
		ProjectID:     projectID,
		Status:        in.Status,
		RepositoryURL: blankToNil(in.RepositoryURL),
		LiveURL:       blankToNil(in.LiveURL),
	}
	if err := s.db.UserProjectRepo().Add(ctx, instance); err != nil {
		// lost a race with a concurrent enrollment
		if errs.IsUniqueViolation(err) {
			var existingID string
			if existing, lookupErr := s.db.UserProjectRepo().FindByUserAndProject(ctx, userID, projectID); lookupErr == nil {
				existingID = existing.ID.String()
			}
			return nil, errs.NewAlreadyEnrolledError(existingID, err)
		}
		return nil, errs.NewDatabaseError("enroll", "user project", err)
	}
	instance.Project = project

	EnrollmentsTotal.Inc()
	log.Info().
		Str("user_id", userID.String()).
		Str("project", project.Slug).
		Str("status", instance.Status.String()).
		Msg("Enrolled user in project")
	return instance, nil
}

func (s *ProgressService) GetInstance(ctx context.Context, id uuid.UUID) (*models.UserProject, error) {
	instance, err := s.db.UserProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "user project", err)
	}
	return instance, nil
}

// ListInstances returns a user's instances, optionally narrowed to one status
func (s *ProgressService) ListInstances(ctx context.Context, userID uuid.UUID, status models.ProjectStatus) ([]*models.UserProject, error) {
	if status != "" && !status.Valid() {
		return nil, errs.NewInvalidFieldError("status", "unknown project status "+status.String())
	}
	instances, err := s.db.UserProjectRepo().FindByUser(ctx, userID, status)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "user projects", err)
	}
	return instances, nil
}

// UpdateInstance applies a caller edit. Status moves are limited to the
// transitions a caller may make; the start timestamp is stamped on save. The
// returned row is read back inside the transaction, on the primary.
func (s *ProgressService) UpdateInstance(ctx context.Context, id uuid.UUID, patch InstancePatch) (*models.UserProject, error) {
	var updated *models.UserProject
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		instance, err := tx.UserProjectRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if patch.Status != nil {
			if err := models.ValidateCallerTransition(instance.Status, *patch.Status); err != nil {
				return err
			}
			instance.Status = *patch.Status
		}
		if patch.RepositoryURL != nil {
			instance.RepositoryURL = blankToNil(patch.RepositoryURL)
		}
		if patch.LiveURL != nil {
			instance.LiveURL = blankToNil(patch.LiveURL)
		}
		if err := tx.UserProjectRepo().Save(ctx, instance); err != nil {
			return err
		}

		updated, err = tx.UserProjectRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "user project", err)
	}
	return updated, nil
}

func (s *ProgressService) StartInstance(ctx context.Context, id uuid.UUID) (*models.UserProject, error) {
	status := models.StatusInProgress
	return s.UpdateInstance(ctx, id, InstancePatch{Status: &status})
}

func (s *ProgressService) ArchiveInstance(ctx context.Context, id uuid.UUID) (*models.UserProject, error) {
	status := models.StatusArchived
	return s.UpdateInstance(ctx, id, InstancePatch{Status: &status})
}

// Submit records a new submission for an instance and marks the instance
// submitted. The version is one past the highest recorded for the instance;
// the instance row stays locked until the transaction ends so concurrent
// submissions never share a version.
func (s *ProgressService) Submit(ctx context.Context, instanceID uuid.UUID, in SubmissionInput) (*models.ProjectSubmission, *models.UserProject, error) {
	var (
		submission *models.ProjectSubmission
		instance   *models.UserProject
		previous   models.ProjectStatus
	)

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		instance, err = tx.UserProjectRepo().FindByIDForUpdate(ctx, instanceID)
		if err != nil {
			return err
		}
		previous = instance.Status

		latest, err := tx.SubmissionRepo().LatestVersion(ctx, instanceID)
		if err != nil {
			return err
		}

		submission = &models.ProjectSubmission{
			UserProjectID:       instanceID,
			SubmissionNotes:     in.Notes,
			SubmissionArtifacts: datatypes.JSONMap(in.Artifacts),
			SubmissionVersion:   latest + 1,
		}
		if err := tx.SubmissionRepo().Add(ctx, submission); err != nil {
			return err
		}

		now := s.now()
		err = tx.UserProjectRepo().UpdateFields(ctx, instanceID, map[string]interface{}{
			"status":     models.StatusSubmitted.String(),
			"updated_at": now,
		})
		if err != nil {
			return err
		}
		instance.Status = models.StatusSubmitted
		instance.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, nil, errs.NewDatabaseError("submit", "project submission", err)
	}

	SubmissionsTotal.Inc()
	StatusCascadesTotal.WithLabelValues("submission", models.StatusSubmitted.String()).Inc()
	log.Info().
		Str("user_project_id", instanceID.String()).
		Int("version", submission.SubmissionVersion).
		Str("previous_status", previous.String()).
		Msg("Recorded submission")
	return submission, instance, nil
}

func (s *ProgressService) GetSubmission(ctx context.Context, id uuid.UUID) (*models.ProjectSubmission, error) {
	submission, err := s.db.SubmissionRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project submission", err)
	}
	return submission, nil
}

// ListSubmissions returns an instance's submissions, newest version first
func (s *ProgressService) ListSubmissions(ctx context.Context, instanceID uuid.UUID) ([]*models.ProjectSubmission, error) {
	submissions, err := s.db.SubmissionRepo().FindByUserProject(ctx, instanceID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project submissions", err)
	}
	return submissions, nil
}

// UpdateSubmission edits the notes or artifacts of a recorded submission
func (s *ProgressService) UpdateSubmission(ctx context.Context, id uuid.UUID, patch SubmissionPatch) (*models.ProjectSubmission, error) {
	fields := map[string]interface{}{}
	if patch.Notes != nil {
		fields["submission_notes"] = blankToNil(patch.Notes)
	}
	if patch.Artifacts != nil {
		fields["submission_artifacts"] = datatypes.JSONMap(patch.Artifacts)
	}

	var updated *models.ProjectSubmission
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if len(fields) > 0 {
			if err := tx.SubmissionRepo().UpdateFields(ctx, id, fields); err != nil {
				return err
			}
		}

		var err error
		updated, err = tx.SubmissionRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "project submission", err)
	}
	return updated, nil
}

// Assess records the single assessment of a submission and moves the parent
// instance to completed or failed.
func (s *ProgressService) Assess(ctx context.Context, submissionID uuid.UUID, in AssessmentInput) (*models.ProjectAssessment, *models.UserProject, error) {
	if err := models.ValidateScore(in.Score); err != nil {
		return nil, nil, err
	}

	assessment := &models.ProjectAssessment{
		SubmissionID:        submissionID,
		AssessedByAI:        in.AssessedByAI == nil || *in.AssessedByAI,
		AssessorAIAgentName: blankToNil(in.AssessorAIAgentName),
		ManualAssessorID:    in.ManualAssessorID,
		Score:               in.Score,
		Passed:              in.Passed,
		FeedbackSummary:     in.FeedbackSummary,
		DetailedFeedback:    datatypes.JSONMap(in.DetailedFeedback),
	}

	var instance *models.UserProject
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		submission, err := tx.SubmissionRepo().FindByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission.Assessment != nil {
			return errs.NewAlreadyAssessedError(nil)
		}

		if instance, err = tx.UserProjectRepo().FindByIDForUpdate(ctx, submission.UserProjectID); err != nil {
			return err
		}
		if err := tx.AssessmentRepo().Add(ctx, assessment); err != nil {
			if errs.IsUniqueViolation(err) {
				return errs.NewAlreadyAssessedError(err)
			}
			return err
		}
		return s.applyOutcome(ctx, tx, instance, assessment.Passed)
	})
	if err != nil {
		return nil, nil, errs.NewDatabaseError("assess", "project assessment", err)
	}

	AssessmentsTotal.WithLabelValues(outcomeLabel(assessment.Passed), assessorLabel(assessment.AssessedByAI)).Inc()
	StatusCascadesTotal.WithLabelValues("assessment", instance.Status.String()).Inc()
	logAssessment(assessment, instance)
	return assessment, instance, nil
}

// UpdateAssessment writes the patched fields. When the patch carries Passed the
// outcome is re-applied to the parent instance in the same transaction, and the
// updated instance is returned; otherwise the returned instance is nil.
func (s *ProgressService) UpdateAssessment(ctx context.Context, id uuid.UUID, patch AssessmentPatch) (*models.ProjectAssessment, *models.UserProject, error) {
	if err := models.ValidateScore(patch.Score); err != nil {
		return nil, nil, err
	}

	fields := map[string]interface{}{}
	if patch.AssessorAIAgentName != nil {
		if len(*patch.AssessorAIAgentName) > 100 {
			return nil, nil, errs.NewInvalidFieldError("assessor_ai_agent_name", "must be at most 100 characters")
		}
		fields["assessor_ai_agent_name"] = blankToNil(patch.AssessorAIAgentName)
	}
	if patch.ManualAssessorID != nil {
		fields["manual_assessor_id"] = *patch.ManualAssessorID
	}
	if patch.Score != nil {
		fields["score"] = *patch.Score
	}
	if patch.Passed != nil {
		fields["passed"] = *patch.Passed
	}
	if patch.FeedbackSummary != nil {
		fields["feedback_summary"] = blankToNil(patch.FeedbackSummary)
	}
	if patch.DetailedFeedback != nil {
		fields["detailed_feedback"] = datatypes.JSONMap(patch.DetailedFeedback)
	}

	var (
		assessment *models.ProjectAssessment
		instance   *models.UserProject
	)
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if assessment, err = tx.AssessmentRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.AssessmentRepo().UpdateFields(ctx, id, fields); err != nil {
				return err
			}
			if assessment, err = tx.AssessmentRepo().FindByID(ctx, id); err != nil {
				return err
			}
		}
		if patch.Passed == nil {
			return nil
		}

		submission, err := tx.SubmissionRepo().FindByID(ctx, assessment.SubmissionID)
		if err != nil {
			return err
		}
		if instance, err = tx.UserProjectRepo().FindByIDForUpdate(ctx, submission.UserProjectID); err != nil {
			return err
		}
		return s.applyOutcome(ctx, tx, instance, *patch.Passed)
	})
	if err != nil {
		return nil, nil, errs.NewDatabaseError("update", "project assessment", err)
	}

	if instance != nil {
		StatusCascadesTotal.WithLabelValues("assessment", instance.Status.String()).Inc()
		logAssessment(assessment, instance)
	}
	return assessment, instance, nil
}

func (s *ProgressService) GetAssessment(ctx context.Context, id uuid.UUID) (*models.ProjectAssessment, error) {
	assessment, err := s.db.AssessmentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project assessment", err)
	}
	return assessment, nil
}

func (s *ProgressService) GetAssessmentForSubmission(ctx context.Context, submissionID uuid.UUID) (*models.ProjectAssessment, error) {
	assessment, err := s.db.AssessmentRepo().FindBySubmission(ctx, submissionID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project assessment", err)
	}
	return assessment, nil
}

// applyOutcome writes only status, completed_at and updated_at. completed_at is
// left as it was on a fail.
func (s *ProgressService) applyOutcome(ctx context.Context, tx database.Database, instance *models.UserProject, passed bool) error {
	now := s.now()
	instance.ApplyAssessmentOutcome(passed, now)
	instance.UpdatedAt = now

	fields := map[string]interface{}{
		"status":     instance.Status.String(),
		"updated_at": now,
	}
	if passed {
		fields["completed_at"] = now
	}
	return tx.UserProjectRepo().UpdateFields(ctx, instance.ID, fields)
}

func logAssessment(a *models.ProjectAssessment, instance *models.UserProject) {
	event := log.Info().
		Str("submission_id", a.SubmissionID.String()).
		Str("user_project_id", instance.ID.String()).
		Bool("passed", a.Passed).
		Str("status", instance.Status.String())
	if a.Score != nil {
		event = event.Float64("score", *a.Score)
	}
	if reason, ok := a.TutorTriggerReason(); ok {
		event = event.Str("tutor_trigger_reason", reason)
	}
	event.Msg("Applied assessment outcome")
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
