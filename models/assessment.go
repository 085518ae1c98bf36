package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/learning-projects-backend/errs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// FeedbackTutorTriggerKey is the detailed_feedback entry an assessment pipeline
// uses to explain why a tutoring follow-up should run. It is a convention only.
const FeedbackTutorTriggerKey = "ai_tutor_trigger_reason"

// ProjectAssessment is the single result recorded for a submission, usually by an AI agent
type ProjectAssessment struct {
	ID                  uuid.UUID          `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SubmissionID        uuid.UUID          `json:"submission_id" db:"submission_id" gorm:"type:uuid;not null;uniqueIndex:idx_assessment_submission"`
	Submission          *ProjectSubmission `json:"submission,omitempty" gorm:"foreignKey:SubmissionID;references:ID;constraint:OnDelete:CASCADE"`
	AssessedByAI        bool               `json:"assessed_by_ai" db:"assessed_by_ai" gorm:"column:assessed_by_ai;not null"`
	AssessorAIAgentName *string            `json:"assessor_ai_agent_name,omitempty" db:"assessor_ai_agent_name" gorm:"column:assessor_ai_agent_name;type:varchar(100)"`
	ManualAssessorID    *uuid.UUID         `json:"manual_assessor_id,omitempty" db:"manual_assessor_id" gorm:"type:uuid"`
	Score               *float64           `json:"score,omitempty" db:"score" gorm:"type:double precision;check:chk_assessment_score,score IS NULL OR (score >= 0 AND score <= 100)"`
	Passed              bool               `json:"passed" db:"passed" gorm:"not null;default:false"`
	FeedbackSummary     *string            `json:"feedback_summary,omitempty" db:"feedback_summary" gorm:"type:text"`
	DetailedFeedback    datatypes.JSONMap  `json:"detailed_feedback" db:"detailed_feedback" gorm:"type:jsonb;not null"`
	AssessedAt          time.Time          `json:"assessed_at" db:"assessed_at" gorm:"type:timestamptz;not null;autoCreateTime"`
}

func (ProjectAssessment) TableName() string { return "project_assessments" }

func (a ProjectAssessment) String() string {
	score := "N/A"
	if a.Score != nil {
		score = fmt.Sprintf("%g", *a.Score)
	}
	outcome := "Failed"
	if a.Passed {
		outcome = "Passed"
	}
	return fmt.Sprintf("Assessment for submission %s (Score: %s - %s)", a.SubmissionID, score, outcome)
}

// ValidateScore rejects scores outside [0, 100]. A nil score is allowed.
func ValidateScore(score *float64) error {
	if score == nil {
		return nil
	}
	if math.IsNaN(*score) || *score < MinScore || *score > MaxScore {
		return errs.NewScoreOutOfRangeError(*score)
	}
	return nil
}

func (a *ProjectAssessment) Validate() error {
	if a.SubmissionID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("submission_id")
	}
	if a.AssessorAIAgentName != nil && len(*a.AssessorAIAgentName) > 100 {
		return errs.NewInvalidFieldError("assessor_ai_agent_name", "must be at most 100 characters")
	}
	return ValidateScore(a.Score)
}

func (a *ProjectAssessment) BeforeSave(tx *gorm.DB) error {
	if a.DetailedFeedback == nil {
		a.DetailedFeedback = datatypes.JSONMap{}
	}
	return a.Validate()
}

// TutorTriggerReason returns the tutoring hint left in detailed_feedback, if any
func (a ProjectAssessment) TutorTriggerReason() (string, bool) {
	v, ok := a.DetailedFeedback[FeedbackTutorTriggerKey]
	if !ok {
		return "", false
	}
	reason, ok := v.(string)
	return reason, ok && reason != ""
}
