package models

import (
	"fmt"
	"time"
)

// Self-assessment statuses.
const (
	AssessmentStatusUnscored  = "UNSCORED"
	AssessmentStatusFilled    = "FILLED"
	AssessmentStatusSubmitted = "SUBMITTED"
)

// SelfAssessment is a program's own scored response to one element within
// one audit session. Exactly one row exists per (session, element) once the
// session has been initialized; the synchronizer creates missing rows.
type SelfAssessment struct {
	AssessmentID int        `gorm:"primaryKey;column:assessment_id" json:"assessment_id"`
	SessionID    int        `gorm:"column:session_id;uniqueIndex:uq_assessments_session_element" json:"session_id"`
	ElementID    int        `gorm:"column:element_id;uniqueIndex:uq_assessments_session_element" json:"element_id"`
	Score        *float64   `gorm:"column:score" json:"score"`
	EvidenceURL  *string    `gorm:"column:evidence_url" json:"evidence_url,omitempty"`
	Comment      *string    `gorm:"column:comment" json:"comment,omitempty"`
	Status       string     `gorm:"column:status;default:UNSCORED" json:"status"`
	AssessedAt   *time.Time `gorm:"column:assessed_at" json:"assessed_at,omitempty"`

	// Relations
	Session AuditSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Element Element      `gorm:"foreignKey:ElementID" json:"element,omitempty"`
}

func (SelfAssessment) TableName() string {
	return "self_assessments"
}

// ValidateScore checks the score bound against the element's maximum.
// Out-of-range scores are rejected, never clamped.
func ValidateScore(score float64, maxScore float64) error {
	if score < 0 {
		return fmt.Errorf("score must not be less than 0")
	}
	if score > maxScore {
		return fmt.Errorf("score must not exceed %g (maximum score for this element)", maxScore)
	}
	return nil
}

// SupportingDocument is an uploaded evidence file attached to one
// self-assessment. Zero or more per assessment.
type SupportingDocument struct {
	DocumentID   int       `gorm:"primaryKey;column:document_id" json:"document_id"`
	AssessmentID int       `gorm:"column:assessment_id" json:"assessment_id"`
	Name         string    `gorm:"column:name" json:"name"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredPath   string    `gorm:"column:stored_path" json:"stored_path"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`

	// Relations
	Assessment SelfAssessment `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
}

func (SupportingDocument) TableName() string {
	return "supporting_documents"
}
