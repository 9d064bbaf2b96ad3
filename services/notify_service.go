package services

import (
	"fmt"
	"log"

	"accreditation-audit-api/config"
	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// NotifyService sends best-effort mail around lifecycle events. Delivery
// failures are logged and never fail the triggering request.
type NotifyService struct {
	db *gorm.DB
}

func NewNotifyService(db *gorm.DB) *NotifyService {
	return &NotifyService{db: db}
}

// NotifySubmitted tells the session's lead auditor that a coordinator has
// submitted the self-assessment for audit.
func (s *NotifyService) NotifySubmitted(sessionID int) {
	var session models.AuditSession
	if err := s.db.Preload("Program").Preload("LeadAuditor").Preload("LeadAuditor.User").
		First(&session, sessionID).Error; err != nil {
		log.Printf("notify: load session %d: %v", sessionID, err)
		return
	}
	if session.LeadAuditor == nil || session.LeadAuditor.User.Email == "" {
		return
	}

	subject := fmt.Sprintf("Self-assessment submitted: %s (%s %s)",
		session.Program.Name, session.AcademicYear, session.Semester)
	body := fmt.Sprintf(
		"<p>The self-assessment for <b>%s</b> (%s, semester %s) has been submitted and is ready for auditor review.</p>",
		session.Program.Name, session.AcademicYear, session.Semester)

	if err := config.SendMail([]string{session.LeadAuditor.User.Email}, subject, body); err != nil {
		log.Printf("notify: mail lead auditor for session %d: %v", sessionID, err)
	}
}

// NotifyPhaseChanged tells the program's coordinator that the session moved
// into a new phase. Used by the periodic sweep.
func (s *NotifyService) NotifyPhaseChanged(sessionID int, newStatus string) {
	var session models.AuditSession
	if err := s.db.Preload("Program").First(&session, sessionID).Error; err != nil {
		log.Printf("notify: load session %d: %v", sessionID, err)
		return
	}

	var coordinator models.Coordinator
	err := s.db.Preload("User").
		Where("program_id = ?", session.ProgramID).
		First(&coordinator).Error
	if err != nil || coordinator.User.Email == "" {
		return
	}

	subject := fmt.Sprintf("Audit session entered %s: %s", newStatus, session.Program.Name)
	body := fmt.Sprintf(
		"<p>The audit session for <b>%s</b> (%s, semester %s) is now in the <b>%s</b> phase.</p>",
		session.Program.Name, session.AcademicYear, session.Semester, newStatus)

	if err := config.SendMail([]string{coordinator.User.Email}, subject, body); err != nil {
		log.Printf("notify: mail coordinator for session %d: %v", sessionID, err)
	}
}
