package models

import "time"

// Condition categories assigned by auditors.
const (
	ConditionCompliant = "COMPLIANT"
	ConditionMinorNC   = "MINOR_NC"
	ConditionMajorNC   = "MAJOR_NC"
)

// Follow-up priorities.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// Follow-up statuses.
const (
	FollowUpStatusPending    = "PENDING"
	FollowUpStatusInProgress = "IN_PROGRESS"
	FollowUpStatusDone       = "DONE"
)

// AuditResult is an auditor's independent review of one self-assessment.
// One-to-one with the assessment; the auditor reference stays null until a
// reviewer saves a score.
type AuditResult struct {
	ResultID             int        `gorm:"primaryKey;column:result_id" json:"result_id"`
	AssessmentID         int        `gorm:"column:assessment_id;unique" json:"assessment_id"`
	Score                *float64   `gorm:"column:score" json:"score"`
	ConditionDescription string     `gorm:"column:condition_description" json:"condition_description"`
	ConditionCategory    *string    `gorm:"column:condition_category" json:"condition_category,omitempty"`
	Comment              *string    `gorm:"column:comment" json:"comment,omitempty"`
	AuditorID            *int       `gorm:"column:auditor_id" json:"auditor_id,omitempty"`
	AuditedAt            *time.Time `gorm:"column:audited_at" json:"audited_at,omitempty"`

	// Relations
	Assessment SelfAssessment `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
	Auditor    *Auditor       `gorm:"foreignKey:AuditorID" json:"auditor,omitempty"`
}

func (AuditResult) TableName() string {
	return "audit_results"
}

// AuditNote is a free-text note on an audit result. Notes thread through a
// nullable parent reference; a reply always points at an earlier note.
type AuditNote struct {
	NoteID       int       `gorm:"primaryKey;column:note_id" json:"note_id"`
	ResultID     int       `gorm:"column:result_id" json:"result_id"`
	AuditorID    *int      `gorm:"column:auditor_id" json:"auditor_id,omitempty"`
	Note         string    `gorm:"column:note" json:"note"`
	ParentNoteID *int      `gorm:"column:parent_note_id" json:"parent_note_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	Result  AuditResult `gorm:"foreignKey:ResultID" json:"result,omitempty"`
	Auditor *Auditor    `gorm:"foreignKey:AuditorID" json:"auditor,omitempty"`
}

func (AuditNote) TableName() string {
	return "audit_notes"
}

// FollowUpRecommendation is a remediation action assigned after an audit
// finding, tracked to completion by the program coordinator.
type FollowUpRecommendation struct {
	RecommendationID int        `gorm:"primaryKey;column:recommendation_id" json:"recommendation_id"`
	ResultID         int        `gorm:"column:result_id" json:"result_id"`
	Description      string     `gorm:"column:description" json:"description"`
	Priority         string     `gorm:"column:priority;default:MEDIUM" json:"priority"`
	DueDate          time.Time  `gorm:"column:due_date" json:"due_date"`
	Status           string     `gorm:"column:status;default:PENDING" json:"status"`
	EvidencePath     *string    `gorm:"column:evidence_path" json:"evidence_path,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	// Relations
	Result AuditResult `gorm:"foreignKey:ResultID" json:"result,omitempty"`
}

func (FollowUpRecommendation) TableName() string {
	return "follow_up_recommendations"
}
