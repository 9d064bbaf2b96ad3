package services

import (
	"errors"
	"log"
	"time"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// LifecycleService drives the audit-session status machine. Transitions are
// date-driven, strictly forward, and applied one step per invocation; the
// function is safe to call on every page view and from the periodic sweep.
type LifecycleService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db, now: time.Now}
}

// NewLifecycleServiceAt pins "today" for deterministic evaluation.
func NewLifecycleServiceAt(db *gorm.DB, now func() time.Time) *LifecycleService {
	return &LifecycleService{db: db, now: now}
}

// AdvanceLifecycle evaluates the single next transition for the session and
// persists it if one applies. Re-evaluating a session already in a later
// state is a no-op; nothing ever moves backward and DONE is terminal.
func (s *LifecycleService) AdvanceLifecycle(sessionID int) (string, error) {
	var session models.AuditSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound("audit session", sessionID)
		}
		return "", err
	}

	next, ok := s.nextStatus(&session)
	if !ok {
		return session.Status, nil
	}

	// Guarded single-row update: only move if the row still holds the
	// status we decided from, so concurrent calls cannot double-step.
	res := s.db.Model(&models.AuditSession{}).
		Where("session_id = ? AND status = ?", session.SessionID, session.Status).
		Update("status", next)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race; report whatever is current.
		if err := s.db.First(&session, sessionID).Error; err != nil {
			return "", err
		}
		return session.Status, nil
	}
	return next, nil
}

// nextStatus decides at most one forward transition from the session's
// current status and phase dates.
func (s *LifecycleService) nextStatus(session *models.AuditSession) (string, bool) {
	today := dateOnly(s.now())

	switch session.Status {
	case models.SessionStatusDraft:
		if session.SelfAssessmentStart != nil && !today.Before(dateOnly(*session.SelfAssessmentStart)) {
			return models.SessionStatusSelfAssessment, true
		}
	case models.SessionStatusSelfAssessment:
		if session.SelfAssessmentEnd != nil && today.After(dateOnly(*session.SelfAssessmentEnd)) {
			if session.AuditorReviewStart != nil && !today.Before(dateOnly(*session.AuditorReviewStart)) {
				return models.SessionStatusAuditorReview, true
			}
		}
	case models.SessionStatusAuditorReview:
		if session.AuditorReviewEnd != nil && today.After(dateOnly(*session.AuditorReviewEnd)) {
			return models.SessionStatusDone, true
		}
	}
	return "", false
}

// SubmitSelfAssessment is the coordinator's explicit submit action. It
// requires the session to be in the self-assessment phase, the caller to be
// the program's coordinator, and every assessment scored. On success all
// assessments become SUBMITTED and the session moves to AUDITOR_REVIEW
// ahead of its dates; on any failure nothing changes.
func (s *LifecycleService) SubmitSelfAssessment(sessionID int, p *Principal) error {
	var session models.AuditSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("audit session", sessionID)
		}
		return err
	}

	if !p.IsAdmin() {
		if p.Coordinator == nil || p.Coordinator.ProgramID == nil ||
			*p.Coordinator.ProgramID != session.ProgramID {
			return ErrForbidden
		}
	}

	if session.Status != models.SessionStatusSelfAssessment {
		return &PhaseViolation{RequiredPhase: models.SessionStatusSelfAssessment}
	}

	var unscored int64
	if err := s.db.Model(&models.SelfAssessment{}).
		Where("session_id = ? AND score IS NULL", sessionID).
		Count(&unscored).Error; err != nil {
		return err
	}
	if unscored > 0 {
		return &UnscoredCountError{Count: int(unscored)}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SelfAssessment{}).
			Where("session_id = ?", sessionID).
			Update("status", models.AssessmentStatusSubmitted).Error; err != nil {
			return err
		}

		res := tx.Model(&models.AuditSession{}).
			Where("session_id = ? AND status = ?", sessionID, models.SessionStatusSelfAssessment).
			Update("status", models.SessionStatusAuditorReview)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &PhaseViolation{RequiredPhase: models.SessionStatusSelfAssessment}
		}
		return nil
	})
}

// PhaseChange records one session transition performed by SweepSessions.
type PhaseChange struct {
	SessionID int
	OldStatus string
	NewStatus string
}

// SweepSessions runs AdvanceLifecycle over every non-terminal session and
// returns the transitions that happened. Invoked by the status-sweep job on
// an external schedule.
func (s *LifecycleService) SweepSessions() ([]PhaseChange, error) {
	var sessions []models.AuditSession
	if err := s.db.Where("status <> ?", models.SessionStatusDone).Find(&sessions).Error; err != nil {
		return nil, err
	}

	var changes []PhaseChange
	for _, session := range sessions {
		before := session.Status
		after, err := s.AdvanceLifecycle(session.SessionID)
		if err != nil {
			log.Printf("sweep: session %d: %v", session.SessionID, err)
			continue
		}
		if after != before {
			changes = append(changes, PhaseChange{
				SessionID: session.SessionID,
				OldStatus: before,
				NewStatus: after,
			})
		}
	}
	return changes, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
