package models

import "time"

// Audit session lifecycle statuses. The sequence is strictly forward:
// DRAFT -> SELF_ASSESSMENT -> AUDITOR_REVIEW -> DONE, with DONE terminal.
const (
	SessionStatusDraft          = "DRAFT"
	SessionStatusSelfAssessment = "SELF_ASSESSMENT"
	SessionStatusAuditorReview  = "AUDITOR_REVIEW"
	SessionStatusDone           = "DONE"
)

// Semesters.
const (
	SemesterOdd  = "odd"
	SemesterEven = "even"
)

// AuditSession is one time-boxed assessment cycle for one program, unique
// per (program, academic year, semester). The four phase dates drive the
// date-based status transitions; all are optional until scheduling.
type AuditSession struct {
	SessionID    int    `gorm:"primaryKey;column:session_id" json:"session_id"`
	ProgramID    int    `gorm:"column:program_id;uniqueIndex:uq_sessions_program_term" json:"program_id"`
	AcademicYear string `gorm:"column:academic_year;uniqueIndex:uq_sessions_program_term" json:"academic_year"`
	Semester     string `gorm:"column:semester;uniqueIndex:uq_sessions_program_term" json:"semester"`

	SelfAssessmentStart *time.Time `gorm:"column:self_assessment_start" json:"self_assessment_start,omitempty"`
	SelfAssessmentEnd   *time.Time `gorm:"column:self_assessment_end" json:"self_assessment_end,omitempty"`
	AuditorReviewStart  *time.Time `gorm:"column:auditor_review_start" json:"auditor_review_start,omitempty"`
	AuditorReviewEnd    *time.Time `gorm:"column:auditor_review_end" json:"auditor_review_end,omitempty"`

	Status        string `gorm:"column:status;default:DRAFT" json:"status"`
	LeadAuditorID *int   `gorm:"column:lead_auditor_id" json:"lead_auditor_id,omitempty"`

	// Relations
	Program        Program   `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	LeadAuditor    *Auditor  `gorm:"foreignKey:LeadAuditorID" json:"lead_auditor,omitempty"`
	MemberAuditors []Auditor `gorm:"many2many:audit_session_members;foreignKey:SessionID;joinForeignKey:session_id;References:AuditorID;joinReferences:auditor_id" json:"member_auditors,omitempty"`
}

func (AuditSession) TableName() string {
	return "audit_sessions"
}

// IsDone reports whether the session reached its terminal status.
func (s *AuditSession) IsDone() bool {
	return s.Status == SessionStatusDone
}

// InAuditorReviewWindow reports whether today falls inside the configured
// auditor-review date window. Both bounds are inclusive.
func (s *AuditSession) InAuditorReviewWindow(today time.Time) bool {
	if s.AuditorReviewStart == nil || s.AuditorReviewEnd == nil {
		return false
	}
	day := today.Truncate(24 * time.Hour)
	return !day.Before(s.AuditorReviewStart.Truncate(24*time.Hour)) &&
		!day.After(s.AuditorReviewEnd.Truncate(24*time.Hour))
}
