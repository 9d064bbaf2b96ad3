package services

import (
	"errors"
	"testing"

	"accreditation-audit-api/models"
)

// scoreElement sets one element's self-assessment score directly.
func scoreElement(t *testing.T, f *fixture, elementID int, score float64) {
	t.Helper()
	err := f.db.Model(&models.SelfAssessment{}).
		Where("session_id = ? AND element_id = ?", f.Session.SessionID, elementID).
		Updates(map[string]interface{}{"score": score, "status": models.AssessmentStatusFilled}).Error
	if err != nil {
		t.Fatalf("score element %d: %v", elementID, err)
	}
}

func TestCriterionAverageIgnoresUnscoredElements(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	if _, err := NewSyncService(db).EnsureAssessments(f.Session.SessionID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	svc := NewScoringService(db)

	// Nothing scored yet.
	avg, count, err := svc.CriterionAverage(f.Session.SessionID, f.CriterionA.CriterionID)
	if err != nil {
		t.Fatalf("CriterionAverage returned error: %v", err)
	}
	if avg != 0 || count != 0 {
		t.Fatalf("expected (0, 0) with no scores, got (%v, %d)", avg, count)
	}

	// One of criterion A's two elements scored: the unscored one is
	// excluded from both numerator and denominator.
	scoreElement(t, f, f.ElementA1.ElementID, 3.0)
	avg, count, err = svc.CriterionAverage(f.Session.SessionID, f.CriterionA.CriterionID)
	if err != nil {
		t.Fatalf("CriterionAverage returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if avg != 3.0 {
		t.Fatalf("expected average 3.0, got %v", avg)
	}
}

func TestOverallScoreIsCountWeighted(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	if _, err := NewSyncService(db).EnsureAssessments(f.Session.SessionID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	// Criterion A: two elements averaging 3.0; criterion B: one element at
	// 4.0. The overall is weighted by element count:
	// (3.0*2 + 4.0*1) / 3 = 3.33, not the flat criterion mean 3.5.
	scoreElement(t, f, f.ElementA1.ElementID, 2.5)
	scoreElement(t, f, f.ElementA2.ElementID, 3.5)
	scoreElement(t, f, f.ElementB1.ElementID, 4.0)

	overall, err := NewScoringService(db).OverallScore(f.Session.SessionID)
	if err != nil {
		t.Fatalf("OverallScore returned error: %v", err)
	}
	if overall != 3.33 {
		t.Fatalf("expected 3.33, got %v", overall)
	}
}

func TestOverallScoreEmptySessionIsZero(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	if _, err := NewSyncService(db).EnsureAssessments(f.Session.SessionID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	overall, err := NewScoringService(db).OverallScore(f.Session.SessionID)
	if err != nil {
		t.Fatalf("OverallScore returned error: %v", err)
	}
	if overall != 0 {
		t.Fatalf("expected 0 for an unscored session, got %v", overall)
	}
}

func TestReportAggregatesFillAndCriteria(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	if _, err := NewSyncService(db).EnsureAssessments(f.Session.SessionID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	scoreElement(t, f, f.ElementA1.ElementID, 2.5)
	scoreElement(t, f, f.ElementA2.ElementID, 3.5)

	report, err := NewScoringService(db).Report(f.Session.SessionID)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if report.TotalElements != 3 || report.ScoredElements != 2 {
		t.Fatalf("expected 2/3 scored, got %d/%d", report.ScoredElements, report.TotalElements)
	}
	if report.FilledPercent != 66.67 {
		t.Fatalf("expected 66.67%% filled, got %v", report.FilledPercent)
	}

	// Criterion B has no scores and is omitted from the breakdown.
	if len(report.Criteria) != 1 {
		t.Fatalf("expected 1 criterion row, got %d", len(report.Criteria))
	}
	row := report.Criteria[0]
	if row.CriterionCode != "C1" || row.Average != 3.0 || row.Count != 2 {
		t.Fatalf("unexpected criterion row: %+v", row)
	}
	if report.OverallScore != 3.0 {
		t.Fatalf("expected overall 3.0, got %v", report.OverallScore)
	}
}

func TestReportUnknownSession(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)

	_, err := NewScoringService(db).Report(424242)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
