package services

import (
	"errors"
	"time"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// AssessmentService handles coordinator edits to self-assessments. Every
// mutation re-checks, in order: existence, role permission, lifecycle phase.
type AssessmentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAssessmentService(db *gorm.DB) *AssessmentService {
	return &AssessmentService{db: db, now: time.Now}
}

// AssessmentUpdate carries the editable fields of a self-assessment.
type AssessmentUpdate struct {
	Score       *float64
	EvidenceURL *string
	Comment     *string
}

// UpdateAssessment saves a coordinator's score, evidence link and comment
// for one element. Requires the session to be in the self-assessment phase;
// the score must satisfy 0 <= score <= element max score or the whole
// update is rejected.
func (s *AssessmentService) UpdateAssessment(assessmentID int, p *Principal, update AssessmentUpdate) (*models.SelfAssessment, error) {
	var assessment models.SelfAssessment
	if err := s.db.Preload("Element").Preload("Session").First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("self-assessment", assessmentID)
		}
		return nil, err
	}

	if !p.IsAdmin() {
		if p.Coordinator == nil || p.Coordinator.ProgramID == nil ||
			*p.Coordinator.ProgramID != assessment.Session.ProgramID {
			return nil, ErrForbidden
		}
	}

	if assessment.Session.Status != models.SessionStatusSelfAssessment {
		return nil, &PhaseViolation{RequiredPhase: models.SessionStatusSelfAssessment}
	}

	if update.Score != nil {
		if err := models.ValidateScore(*update.Score, assessment.Element.MaxScore); err != nil {
			return nil, &ValidationError{Field: "score", Message: err.Error()}
		}
		assessment.Score = update.Score
		assessment.Status = models.AssessmentStatusFilled
	}
	if update.EvidenceURL != nil {
		assessment.EvidenceURL = update.EvidenceURL
	}
	if update.Comment != nil {
		assessment.Comment = update.Comment
	}
	now := s.now()
	assessment.AssessedAt = &now

	if err := s.db.Save(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// AttachDocument records an uploaded supporting document against an
// assessment. Same permission and phase rules as score edits.
func (s *AssessmentService) AttachDocument(assessmentID int, p *Principal, doc *models.SupportingDocument) error {
	var assessment models.SelfAssessment
	if err := s.db.Preload("Session").First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("self-assessment", assessmentID)
		}
		return err
	}

	if !p.IsAdmin() {
		if p.Coordinator == nil || p.Coordinator.ProgramID == nil ||
			*p.Coordinator.ProgramID != assessment.Session.ProgramID {
			return ErrForbidden
		}
	}

	if assessment.Session.Status != models.SessionStatusSelfAssessment {
		return &PhaseViolation{RequiredPhase: models.SessionStatusSelfAssessment}
	}

	doc.AssessmentID = assessmentID
	doc.UploadedAt = s.now()
	return s.db.Create(doc).Error
}
