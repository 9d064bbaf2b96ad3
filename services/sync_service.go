package services

import (
	"errors"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// SyncService reconciles the per-session assessment rows against the
// current element catalog. It runs at session entry and materializes the
// full row set up front, so later reads never create rows one by one.
type SyncService struct {
	db *gorm.DB
}

func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{db: db}
}

// EnsureAssessments guarantees one self-assessment per active element under
// the session program's accrediting body. Idempotent: existing rows are
// never touched, and a concurrent duplicate insert is treated as "already
// exists". Returns the full set ordered by (criterion code, element code).
func (s *SyncService) EnsureAssessments(sessionID int) ([]models.SelfAssessment, error) {
	var session models.AuditSession
	if err := s.db.Preload("Program").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("audit session", sessionID)
		}
		return nil, err
	}

	elements, err := s.activeElements(session.Program.BodyID)
	if err != nil {
		return nil, err
	}

	existing := make(map[int]bool)
	var current []models.SelfAssessment
	if err := s.db.Where("session_id = ?", sessionID).Find(&current).Error; err != nil {
		return nil, err
	}
	for _, a := range current {
		existing[a.ElementID] = true
	}

	for _, element := range elements {
		if existing[element.ElementID] {
			continue
		}
		assessment := models.SelfAssessment{
			SessionID: sessionID,
			ElementID: element.ElementID,
			Status:    models.AssessmentStatusUnscored,
		}
		if err := s.db.Create(&assessment).Error; err != nil {
			// Another request created the same row first; keep theirs.
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
	}

	return s.orderedAssessments(sessionID)
}

// EnsureAuditResults guarantees one audit result per self-assessment in the
// session, creating the assessments first if the session has never been
// initialized. Same idempotence contract as EnsureAssessments.
func (s *SyncService) EnsureAuditResults(sessionID int) ([]models.AuditResult, error) {
	assessments, err := s.EnsureAssessments(sessionID)
	if err != nil {
		return nil, err
	}

	existing := make(map[int]bool)
	var current []models.AuditResult
	assessmentIDs := make([]int, 0, len(assessments))
	for _, a := range assessments {
		assessmentIDs = append(assessmentIDs, a.AssessmentID)
	}
	if len(assessmentIDs) > 0 {
		if err := s.db.Where("assessment_id IN ?", assessmentIDs).Find(&current).Error; err != nil {
			return nil, err
		}
	}
	for _, r := range current {
		existing[r.AssessmentID] = true
	}

	for _, assessment := range assessments {
		if existing[assessment.AssessmentID] {
			continue
		}
		result := models.AuditResult{
			AssessmentID:         assessment.AssessmentID,
			ConditionDescription: "",
		}
		if err := s.db.Create(&result).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
	}

	var results []models.AuditResult
	err = s.db.
		Joins("JOIN self_assessments ON self_assessments.assessment_id = audit_results.assessment_id").
		Joins("JOIN elements ON elements.element_id = self_assessments.element_id").
		Joins("JOIN criteria ON criteria.criterion_id = elements.criterion_id").
		Where("self_assessments.session_id = ?", sessionID).
		Order("criteria.code, elements.code").
		Preload("Assessment").
		Preload("Assessment.Element").
		Preload("Auditor").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *SyncService) activeElements(bodyID int) ([]models.Element, error) {
	var elements []models.Element
	err := s.db.
		Joins("JOIN criteria ON criteria.criterion_id = elements.criterion_id").
		Where("criteria.body_id = ? AND elements.status = ?", bodyID, models.CatalogStatusActive).
		Order("criteria.code, elements.code").
		Find(&elements).Error
	if err != nil {
		return nil, err
	}
	return elements, nil
}

func (s *SyncService) orderedAssessments(sessionID int) ([]models.SelfAssessment, error) {
	var assessments []models.SelfAssessment
	err := s.db.
		Joins("JOIN elements ON elements.element_id = self_assessments.element_id").
		Joins("JOIN criteria ON criteria.criterion_id = elements.criterion_id").
		Where("self_assessments.session_id = ?", sessionID).
		Order("criteria.code, elements.code").
		Preload("Element").
		Preload("Element.Criterion").
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}
	return assessments, nil
}
