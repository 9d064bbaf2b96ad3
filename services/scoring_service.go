package services

import (
	"errors"
	"math"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// ScoringService computes per-criterion and overall averages over submitted
// self-assessment scores. Pure reads; cheap enough to recompute per render.
type ScoringService struct {
	db *gorm.DB
}

func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{db: db}
}

// CriterionScore is one criterion's row in a session report.
type CriterionScore struct {
	CriterionID   int     `json:"criterion_id"`
	CriterionCode string  `json:"criterion_code"`
	CriterionName string  `json:"criterion_name"`
	Average       float64 `json:"average"`
	Count         int     `json:"count"`
}

// SessionReport aggregates a full session for dashboards and reports.
type SessionReport struct {
	SessionID      int              `json:"session_id"`
	TotalElements  int              `json:"total_elements"`
	ScoredElements int              `json:"scored_elements"`
	FilledPercent  float64          `json:"filled_percent"`
	Criteria       []CriterionScore `json:"criteria"`
	OverallScore   float64          `json:"overall_score"`
}

// CriterionAverage averages the non-null scores of the criterion's elements
// within the session. Unscored elements are excluded from numerator and
// denominator; (0, 0) means no scores exist.
func (s *ScoringService) CriterionAverage(sessionID, criterionID int) (float64, int, error) {
	var scores []float64
	err := s.db.Model(&models.SelfAssessment{}).
		Joins("JOIN elements ON elements.element_id = self_assessments.element_id").
		Where("self_assessments.session_id = ? AND elements.criterion_id = ? AND self_assessments.score IS NOT NULL",
			sessionID, criterionID).
		Pluck("self_assessments.score", &scores).Error
	if err != nil {
		return 0, 0, err
	}
	if len(scores) == 0 {
		return 0, 0, nil
	}

	total := 0.0
	for _, score := range scores {
		total += score
	}
	return total / float64(len(scores)), len(scores), nil
}

// OverallScore is the count-weighted average of per-criterion means,
// rounded to 2 decimal places: sum(avg_i * count_i) / sum(count_i).
// This weighting matches the published report format and is kept as-is
// even though it is not a flat mean over all elements.
func (s *ScoringService) OverallScore(sessionID int) (float64, error) {
	criteria, err := s.sessionCriteria(sessionID)
	if err != nil {
		return 0, err
	}

	totalScore := 0.0
	totalCount := 0
	for _, criterion := range criteria {
		avg, count, err := s.CriterionAverage(sessionID, criterion.CriterionID)
		if err != nil {
			return 0, err
		}
		if count == 0 {
			continue
		}
		totalScore += round2(avg) * float64(count)
		totalCount += count
	}

	if totalCount == 0 {
		return 0, nil
	}
	return round2(totalScore / float64(totalCount)), nil
}

// Report builds the full per-criterion breakdown plus overall score and
// fill percentage for one session.
func (s *ScoringService) Report(sessionID int) (*SessionReport, error) {
	var session models.AuditSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("audit session", sessionID)
		}
		return nil, err
	}

	report := &SessionReport{SessionID: sessionID}

	var total, scored int64
	if err := s.db.Model(&models.SelfAssessment{}).
		Where("session_id = ?", sessionID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.SelfAssessment{}).
		Where("session_id = ? AND score IS NOT NULL", sessionID).Count(&scored).Error; err != nil {
		return nil, err
	}
	report.TotalElements = int(total)
	report.ScoredElements = int(scored)
	if total > 0 {
		report.FilledPercent = round2(float64(scored) / float64(total) * 100)
	}

	criteria, err := s.sessionCriteria(sessionID)
	if err != nil {
		return nil, err
	}

	totalScore := 0.0
	totalCount := 0
	for _, criterion := range criteria {
		avg, count, err := s.CriterionAverage(sessionID, criterion.CriterionID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		row := CriterionScore{
			CriterionID:   criterion.CriterionID,
			CriterionCode: criterion.Code,
			CriterionName: criterion.Name,
			Average:       round2(avg),
			Count:         count,
		}
		report.Criteria = append(report.Criteria, row)
		totalScore += row.Average * float64(count)
		totalCount += count
	}

	if totalCount > 0 {
		report.OverallScore = round2(totalScore / float64(totalCount))
	}
	return report, nil
}

func (s *ScoringService) sessionCriteria(sessionID int) ([]models.Criterion, error) {
	var criteria []models.Criterion
	err := s.db.
		Joins("JOIN programs ON programs.body_id = criteria.body_id").
		Joins("JOIN audit_sessions ON audit_sessions.program_id = programs.program_id").
		Where("audit_sessions.session_id = ?", sessionID).
		Order("criteria.code").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
