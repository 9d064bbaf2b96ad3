package services

import (
	"errors"
	"time"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// AuditService handles auditor scoring, threaded notes and follow-up
// recommendations. Auditor writes are gated on session status and the
// configured auditor-review date window.
type AuditService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db, now: time.Now}
}

// NewAuditServiceAt pins "today" for deterministic window checks.
func NewAuditServiceAt(db *gorm.DB, now func() time.Time) *AuditService {
	return &AuditService{db: db, now: now}
}

// ResultUpdate carries the editable fields of an audit result.
type ResultUpdate struct {
	Score                *float64
	ConditionDescription *string
	ConditionCategory    *string
	Comment              *string
}

var conditionCategories = map[string]bool{
	models.ConditionCompliant: true,
	models.ConditionMinorNC:   true,
	models.ConditionMajorNC:   true,
}

// UpdateResult saves an auditor's review of one self-assessment. The caller
// must be an auditor assigned to the session (lead or member); the session
// must be in auditor review and today inside the review date window.
func (s *AuditService) UpdateResult(resultID int, p *Principal, update ResultUpdate) (*models.AuditResult, error) {
	result, session, err := s.loadResult(resultID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAuditorWrite(p, session); err != nil {
		return nil, err
	}

	if update.Score != nil {
		if err := models.ValidateScore(*update.Score, result.Assessment.Element.MaxScore); err != nil {
			return nil, &ValidationError{Field: "score", Message: err.Error()}
		}
		result.Score = update.Score
	}
	if update.ConditionDescription != nil {
		result.ConditionDescription = *update.ConditionDescription
	}
	if update.ConditionCategory != nil {
		if !conditionCategories[*update.ConditionCategory] {
			return nil, &ValidationError{Field: "condition_category", Message: "must be one of COMPLIANT, MINOR_NC, MAJOR_NC"}
		}
		result.ConditionCategory = update.ConditionCategory
	}
	if update.Comment != nil {
		result.Comment = update.Comment
	}

	if p.Auditor != nil {
		result.AuditorID = &p.Auditor.AuditorID
	}
	now := s.now()
	result.AuditedAt = &now

	if err := s.db.Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// AddNote appends a note to an audit result, optionally threading it under
// a parent note. The parent must belong to the same result and must not
// form a cycle.
func (s *AuditService) AddNote(resultID int, p *Principal, text string, parentNoteID *int) (*models.AuditNote, error) {
	_, session, err := s.loadResult(resultID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAuditorWrite(p, session); err != nil {
		return nil, err
	}

	if text == "" {
		return nil, &ValidationError{Field: "note", Message: "note text is required"}
	}

	if parentNoteID != nil {
		var parent models.AuditNote
		if err := s.db.First(&parent, *parentNoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("audit note", *parentNoteID)
			}
			return nil, err
		}
		if parent.ResultID != resultID {
			return nil, &ValidationError{Field: "parent_note_id", Message: "parent note belongs to a different audit result"}
		}
	}

	note := models.AuditNote{
		ResultID:     resultID,
		Note:         text,
		ParentNoteID: parentNoteID,
		CreatedAt:    s.now(),
	}
	if p.Auditor != nil {
		note.AuditorID = &p.Auditor.AuditorID
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListNotes returns a result's notes in chronological order.
func (s *AuditService) ListNotes(resultID int) ([]models.AuditNote, error) {
	var notes []models.AuditNote
	err := s.db.Where("result_id = ?", resultID).
		Order("created_at, note_id").
		Preload("Auditor").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateRecommendation attaches a follow-up recommendation to an audit
// result. Auditor-gated like result updates.
func (s *AuditService) CreateRecommendation(resultID int, p *Principal, rec *models.FollowUpRecommendation) error {
	_, session, err := s.loadResult(resultID)
	if err != nil {
		return err
	}

	if err := s.checkAuditorWrite(p, session); err != nil {
		return err
	}

	if rec.Description == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	switch rec.Priority {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
	case "":
		rec.Priority = models.PriorityMedium
	default:
		return &ValidationError{Field: "priority", Message: "must be one of HIGH, MEDIUM, LOW"}
	}
	if rec.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Message: "due date is required"}
	}

	rec.ResultID = resultID
	rec.Status = models.FollowUpStatusPending
	rec.CreatedAt = s.now()
	return s.db.Create(rec).Error
}

// UpdateRecommendationStatus lets the program's coordinator progress a
// follow-up (pending -> in progress -> done) and attach completion evidence.
func (s *AuditService) UpdateRecommendationStatus(recommendationID int, p *Principal, status string, evidencePath *string) (*models.FollowUpRecommendation, error) {
	var rec models.FollowUpRecommendation
	err := s.db.Preload("Result").Preload("Result.Assessment").First(&rec, recommendationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("follow-up recommendation", recommendationID)
		}
		return nil, err
	}

	var session models.AuditSession
	if err := s.db.First(&session, rec.Result.Assessment.SessionID).Error; err != nil {
		return nil, err
	}

	if !p.IsAdmin() {
		if p.Coordinator == nil || p.Coordinator.ProgramID == nil ||
			*p.Coordinator.ProgramID != session.ProgramID {
			return nil, ErrForbidden
		}
	}

	switch status {
	case models.FollowUpStatusPending, models.FollowUpStatusInProgress, models.FollowUpStatusDone:
	default:
		return nil, &ValidationError{Field: "status", Message: "must be one of PENDING, IN_PROGRESS, DONE"}
	}

	rec.Status = status
	if evidencePath != nil {
		rec.EvidencePath = evidencePath
	}
	if status == models.FollowUpStatusDone {
		now := s.now()
		rec.CompletedAt = &now
	} else {
		rec.CompletedAt = nil
	}

	if err := s.db.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecommendations returns a session's follow-ups ordered by due date,
// most urgent last per the original report layout.
func (s *AuditService) ListRecommendations(sessionID int) ([]models.FollowUpRecommendation, error) {
	var recs []models.FollowUpRecommendation
	err := s.db.
		Joins("JOIN audit_results ON audit_results.result_id = follow_up_recommendations.result_id").
		Joins("JOIN self_assessments ON self_assessments.assessment_id = audit_results.assessment_id").
		Where("self_assessments.session_id = ?", sessionID).
		Order("follow_up_recommendations.due_date DESC").
		Preload("Result").
		Preload("Result.Assessment").
		Preload("Result.Assessment.Element").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *AuditService) loadResult(resultID int) (*models.AuditResult, *models.AuditSession, error) {
	var result models.AuditResult
	err := s.db.Preload("Assessment").Preload("Assessment.Element").First(&result, resultID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFound("audit result", resultID)
		}
		return nil, nil, err
	}

	var session models.AuditSession
	if err := s.db.First(&session, result.Assessment.SessionID).Error; err != nil {
		return nil, nil, err
	}
	return &result, &session, nil
}

// checkAuditorWrite enforces the auditor mutation guard: assigned auditor
// (or admin), session in auditor review, today inside the review window.
func (s *AuditService) checkAuditorWrite(p *Principal, session *models.AuditSession) error {
	if !p.IsAdmin() {
		if p.Auditor == nil {
			return ErrForbidden
		}
		assigned := session.LeadAuditorID != nil && *session.LeadAuditorID == p.Auditor.AuditorID
		if !assigned {
			var count int64
			err := s.db.Table("audit_session_members").
				Where("session_id = ? AND auditor_id = ?", session.SessionID, p.Auditor.AuditorID).
				Count(&count).Error
			if err != nil {
				return err
			}
			assigned = count > 0
		}
		if !assigned {
			return ErrForbidden
		}
	}

	if session.Status != models.SessionStatusAuditorReview {
		return &PhaseViolation{RequiredPhase: models.SessionStatusAuditorReview}
	}
	if !session.InAuditorReviewWindow(s.now()) {
		return &PhaseViolation{
			RequiredPhase: models.SessionStatusAuditorReview,
			Message:       "auditor scoring is only allowed within the configured auditor-review date window",
		}
	}
	return nil
}
