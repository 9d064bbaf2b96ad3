package services

import (
	"errors"
	"testing"

	"accreditation-audit-api/models"
)

func setupAssessment(t *testing.T) (*fixture, models.SelfAssessment) {
	t.Helper()
	db := newTestDB(t)
	f := seedFixture(t, db)
	f.setStatus(t, models.SessionStatusSelfAssessment)

	assessments, err := NewSyncService(db).EnsureAssessments(f.Session.SessionID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	return f, assessments[0]
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestUpdateAssessmentAcceptsBoundaryScores(t *testing.T) {
	f, assessment := setupAssessment(t)
	svc := NewAssessmentService(f.db)

	for _, score := range []float64{0, 4.0} {
		updated, err := svc.UpdateAssessment(assessment.AssessmentID, f.coordinatorPrincipal(),
			AssessmentUpdate{Score: floatPtr(score)})
		if err != nil {
			t.Fatalf("score %v rejected: %v", score, err)
		}
		if updated.Score == nil || *updated.Score != score {
			t.Fatalf("score %v not saved: %+v", score, updated)
		}
		if updated.Status != models.AssessmentStatusFilled {
			t.Fatalf("scored assessment should be FILLED, got %s", updated.Status)
		}
		if updated.AssessedAt == nil {
			t.Fatalf("assessed_at not set")
		}
	}
}

func TestUpdateAssessmentRejectsOutOfRangeScores(t *testing.T) {
	f, assessment := setupAssessment(t)
	svc := NewAssessmentService(f.db)

	for _, score := range []float64{-0.01, 4.01} {
		_, err := svc.UpdateAssessment(assessment.AssessmentID, f.coordinatorPrincipal(),
			AssessmentUpdate{Score: floatPtr(score)})
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("score %v: expected ValidationError, got %v", score, err)
		}
		if validation.Field != "score" {
			t.Fatalf("score %v: expected field score, got %s", score, validation.Field)
		}
	}

	// The rejected updates left the row untouched.
	var reloaded models.SelfAssessment
	if err := f.db.First(&reloaded, assessment.AssessmentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Score != nil {
		t.Fatalf("rejected update persisted a score: %v", *reloaded.Score)
	}
	if reloaded.Status != models.AssessmentStatusUnscored {
		t.Fatalf("rejected update changed status to %s", reloaded.Status)
	}
}

func TestUpdateAssessmentRejectsWholeUpdateOnBadScore(t *testing.T) {
	f, assessment := setupAssessment(t)

	_, err := NewAssessmentService(f.db).UpdateAssessment(assessment.AssessmentID, f.coordinatorPrincipal(),
		AssessmentUpdate{Score: floatPtr(5.0), Comment: strPtr("great progress")})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var reloaded models.SelfAssessment
	if err := f.db.First(&reloaded, assessment.AssessmentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Comment != nil {
		t.Fatalf("comment saved despite invalid score: %v", *reloaded.Comment)
	}
}

func TestUpdateAssessmentPhaseGate(t *testing.T) {
	f, assessment := setupAssessment(t)
	svc := NewAssessmentService(f.db)

	for _, status := range []string{
		models.SessionStatusDraft,
		models.SessionStatusAuditorReview,
		models.SessionStatusDone,
	} {
		f.setStatus(t, status)
		_, err := svc.UpdateAssessment(assessment.AssessmentID, f.coordinatorPrincipal(),
			AssessmentUpdate{Score: floatPtr(3.0)})
		var phase *PhaseViolation
		if !errors.As(err, &phase) {
			t.Fatalf("status %s: expected PhaseViolation, got %v", status, err)
		}
		if phase.RequiredPhase != models.SessionStatusSelfAssessment {
			t.Fatalf("status %s: expected required phase SELF_ASSESSMENT, got %s", status, phase.RequiredPhase)
		}
	}
}

func TestUpdateAssessmentPermissions(t *testing.T) {
	f, assessment := setupAssessment(t)
	svc := NewAssessmentService(f.db)

	// Coordinator of an unrelated program.
	otherProgram := models.Program{BodyID: f.Body.BodyID, Code: "TI-S1", Name: "Computer Engineering", Faculty: "Engineering", DegreeLevel: "Bachelor"}
	mustCreate(t, f.db, &otherProgram)
	otherUser := models.User{FullName: "Other Coordinator", Email: "other@example.edu", Password: "x", RoleID: models.RoleCoordinator}
	mustCreate(t, f.db, &otherUser)
	other := models.Coordinator{UserID: otherUser.UserID, RegistrationNumber: "K-009", FullName: otherUser.FullName, ProgramID: &otherProgram.ProgramID}
	mustCreate(t, f.db, &other)

	_, err := svc.UpdateAssessment(assessment.AssessmentID,
		&Principal{UserID: otherUser.UserID, Kind: RoleCoordinator, Coordinator: &other},
		AssessmentUpdate{Score: floatPtr(3.0)})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign coordinator: expected ErrForbidden, got %v", err)
	}

	// Auditors never edit self-assessments.
	_, err = svc.UpdateAssessment(assessment.AssessmentID, f.auditorPrincipal(),
		AssessmentUpdate{Score: floatPtr(3.0)})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("auditor: expected ErrForbidden, got %v", err)
	}

	// Admin override works.
	if _, err := svc.UpdateAssessment(assessment.AssessmentID, adminPrincipal(),
		AssessmentUpdate{Score: floatPtr(3.0)}); err != nil {
		t.Fatalf("admin: %v", err)
	}
}

func TestAttachDocumentFollowsAssessmentRules(t *testing.T) {
	f, assessment := setupAssessment(t)
	svc := NewAssessmentService(f.db)

	doc := models.SupportingDocument{
		Name:         "a1b2c3.pdf",
		OriginalName: "evidence.pdf",
		StoredPath:   "uploads/assessments/a1b2c3.pdf",
	}
	if err := svc.AttachDocument(assessment.AssessmentID, f.coordinatorPrincipal(), &doc); err != nil {
		t.Fatalf("AttachDocument returned error: %v", err)
	}
	if doc.AssessmentID != assessment.AssessmentID {
		t.Fatalf("document not linked to assessment: %+v", doc)
	}
	if doc.UploadedAt.IsZero() {
		t.Fatalf("uploaded_at not set")
	}

	// Outside the self-assessment phase uploads are rejected.
	f.setStatus(t, models.SessionStatusAuditorReview)
	err := svc.AttachDocument(assessment.AssessmentID, f.coordinatorPrincipal(), &models.SupportingDocument{
		Name: "late.pdf", OriginalName: "late.pdf", StoredPath: "uploads/assessments/late.pdf",
	})
	var phase *PhaseViolation
	if !errors.As(err, &phase) {
		t.Fatalf("expected PhaseViolation, got %v", err)
	}
}
