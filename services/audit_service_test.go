package services

import (
	"errors"
	"testing"
	"time"

	"accreditation-audit-api/models"
)

// setupAuditReview puts the fixture session into auditor review with a
// window of 2026-04-01 .. 2026-04-30 and initialized audit results.
func setupAuditReview(t *testing.T) (*fixture, models.AuditResult) {
	t.Helper()
	db := newTestDB(t)
	f := seedFixture(t, db)
	f.setDates(t,
		day(2026, time.March, 1), day(2026, time.March, 31),
		day(2026, time.April, 1), day(2026, time.April, 30))
	f.setStatus(t, models.SessionStatusAuditorReview)

	results, err := NewSyncService(db).EnsureAuditResults(f.Session.SessionID)
	if err != nil {
		t.Fatalf("sync results: %v", err)
	}
	return f, results[0]
}

func inWindow() func() time.Time { return at(day(2026, time.April, 15)) }

func pastWindow() func() time.Time { return at(day(2026, time.May, 2)) }

func TestUpdateResultSavesAuditorReview(t *testing.T) {
	f, result := setupAuditReview(t)
	svc := NewAuditServiceAt(f.db, inWindow())

	updated, err := svc.UpdateResult(result.ResultID, f.auditorPrincipal(), ResultUpdate{
		Score:                floatPtr(3.0),
		ConditionDescription: strPtr("Documentation largely complete"),
		ConditionCategory:    strPtr(models.ConditionMinorNC),
	})
	if err != nil {
		t.Fatalf("UpdateResult returned error: %v", err)
	}
	if updated.Score == nil || *updated.Score != 3.0 {
		t.Fatalf("score not saved: %+v", updated)
	}
	if updated.AuditorID == nil || *updated.AuditorID != f.Auditor.AuditorID {
		t.Fatalf("auditor not recorded: %+v", updated)
	}
	if updated.AuditedAt == nil {
		t.Fatalf("audited_at not set")
	}
}

func TestUpdateResultValidations(t *testing.T) {
	f, result := setupAuditReview(t)
	svc := NewAuditServiceAt(f.db, inWindow())

	_, err := svc.UpdateResult(result.ResultID, f.auditorPrincipal(), ResultUpdate{Score: floatPtr(4.5)})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "score" {
		t.Fatalf("expected score ValidationError, got %v", err)
	}

	_, err = svc.UpdateResult(result.ResultID, f.auditorPrincipal(), ResultUpdate{ConditionCategory: strPtr("SEVERE")})
	if !errors.As(err, &validation) || validation.Field != "condition_category" {
		t.Fatalf("expected condition_category ValidationError, got %v", err)
	}
}

func TestUpdateResultGatedOnWindowAndPhase(t *testing.T) {
	f, result := setupAuditReview(t)

	// Outside the review window.
	_, err := NewAuditServiceAt(f.db, pastWindow()).UpdateResult(result.ResultID, f.auditorPrincipal(),
		ResultUpdate{Score: floatPtr(3.0)})
	var phase *PhaseViolation
	if !errors.As(err, &phase) {
		t.Fatalf("past window: expected PhaseViolation, got %v", err)
	}

	// Inclusive window bounds: the end date itself is still writable.
	_, err = NewAuditServiceAt(f.db, at(day(2026, time.April, 30))).UpdateResult(result.ResultID,
		f.auditorPrincipal(), ResultUpdate{Score: floatPtr(3.0)})
	if err != nil {
		t.Fatalf("on window end: %v", err)
	}

	// Wrong phase.
	f.setStatus(t, models.SessionStatusDone)
	_, err = NewAuditServiceAt(f.db, inWindow()).UpdateResult(result.ResultID, f.auditorPrincipal(),
		ResultUpdate{Score: floatPtr(3.0)})
	if !errors.As(err, &phase) {
		t.Fatalf("DONE session: expected PhaseViolation, got %v", err)
	}
	if phase.RequiredPhase != models.SessionStatusAuditorReview {
		t.Fatalf("expected required phase AUDITOR_REVIEW, got %s", phase.RequiredPhase)
	}
}

func TestUpdateResultRequiresAssignedAuditor(t *testing.T) {
	f, result := setupAuditReview(t)
	svc := NewAuditServiceAt(f.db, inWindow())

	// An auditor not assigned to this session.
	strayUser := models.User{FullName: "Stray Auditor", Email: "stray@example.edu", Password: "x", RoleID: models.RoleAuditor}
	mustCreate(t, f.db, &strayUser)
	stray := models.Auditor{UserID: strayUser.UserID, RegistrationNumber: "A-099", FullName: strayUser.FullName, Status: models.AuditorStatusActive}
	mustCreate(t, f.db, &stray)

	_, err := svc.UpdateResult(result.ResultID,
		&Principal{UserID: strayUser.UserID, Kind: RoleAuditor, Auditor: &stray},
		ResultUpdate{Score: floatPtr(3.0)})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("unassigned auditor: expected ErrForbidden, got %v", err)
	}

	// Coordinators never write audit results.
	_, err = svc.UpdateResult(result.ResultID, f.coordinatorPrincipal(), ResultUpdate{Score: floatPtr(3.0)})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("coordinator: expected ErrForbidden, got %v", err)
	}

	// A member auditor (not lead) may write once added to the session.
	if err := f.db.Exec("INSERT INTO audit_session_members (session_id, auditor_id) VALUES (?, ?)",
		f.Session.SessionID, stray.AuditorID).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
	_, err = svc.UpdateResult(result.ResultID,
		&Principal{UserID: strayUser.UserID, Kind: RoleAuditor, Auditor: &stray},
		ResultUpdate{Score: floatPtr(3.0)})
	if err != nil {
		t.Fatalf("member auditor: %v", err)
	}
}

func TestAddNoteThreading(t *testing.T) {
	f, result := setupAuditReview(t)
	svc := NewAuditServiceAt(f.db, inWindow())

	root, err := svc.AddNote(result.ResultID, f.auditorPrincipal(), "Initial finding", nil)
	if err != nil {
		t.Fatalf("AddNote returned error: %v", err)
	}
	if root.AuditorID == nil || *root.AuditorID != f.Auditor.AuditorID {
		t.Fatalf("note author not recorded: %+v", root)
	}

	reply, err := svc.AddNote(result.ResultID, f.auditorPrincipal(), "Clarified with coordinator", &root.NoteID)
	if err != nil {
		t.Fatalf("reply returned error: %v", err)
	}
	if reply.ParentNoteID == nil || *reply.ParentNoteID != root.NoteID {
		t.Fatalf("reply not threaded under %d: %+v", root.NoteID, reply)
	}

	// A parent from another result is rejected.
	var otherResult models.AuditResult
	err = f.db.Where("result_id <> ?", result.ResultID).First(&otherResult).Error
	if err != nil {
		t.Fatalf("load other result: %v", err)
	}
	_, err = svc.AddNote(otherResult.ResultID, f.auditorPrincipal(), "Cross-thread reply", &root.NoteID)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "parent_note_id" {
		t.Fatalf("expected parent_note_id ValidationError, got %v", err)
	}

	// A missing parent is NotFound, and empty text is rejected.
	missing := 424242
	_, err = svc.AddNote(result.ResultID, f.auditorPrincipal(), "Orphan", &missing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
	_, err = svc.AddNote(result.ResultID, f.auditorPrincipal(), "", nil)
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for empty note, got %v", err)
	}

	notes, err := svc.ListNotes(result.ResultID)
	if err != nil {
		t.Fatalf("ListNotes returned error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].NoteID != root.NoteID {
		t.Fatalf("notes not in chronological order: %+v", notes)
	}
}

func TestCreateRecommendationValidation(t *testing.T) {
	f, result := setupAuditReview(t)
	svc := NewAuditServiceAt(f.db, inWindow())

	due := day(2026, time.June, 1)

	// Description and due date are required; an unknown priority is
	// rejected and an empty one defaults to MEDIUM.
	err := svc.CreateRecommendation(result.ResultID, f.auditorPrincipal(), &models.FollowUpRecommendation{DueDate: due})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "description" {
		t.Fatalf("expected description ValidationError, got %v", err)
	}

	err = svc.CreateRecommendation(result.ResultID, f.auditorPrincipal(), &models.FollowUpRecommendation{
		Description: "Revise curriculum map", Priority: "URGENT", DueDate: due,
	})
	if !errors.As(err, &validation) || validation.Field != "priority" {
		t.Fatalf("expected priority ValidationError, got %v", err)
	}

	err = svc.CreateRecommendation(result.ResultID, f.auditorPrincipal(), &models.FollowUpRecommendation{
		Description: "Revise curriculum map", Priority: models.PriorityHigh,
	})
	if !errors.As(err, &validation) || validation.Field != "due_date" {
		t.Fatalf("expected due_date ValidationError, got %v", err)
	}

	rec := models.FollowUpRecommendation{Description: "Revise curriculum map", DueDate: due}
	if err := svc.CreateRecommendation(result.ResultID, f.auditorPrincipal(), &rec); err != nil {
		t.Fatalf("CreateRecommendation returned error: %v", err)
	}
	if rec.Priority != models.PriorityMedium {
		t.Fatalf("expected default priority MEDIUM, got %s", rec.Priority)
	}
	if rec.Status != models.FollowUpStatusPending {
		t.Fatalf("expected initial status PENDING, got %s", rec.Status)
	}
}

func TestUpdateRecommendationStatusLifecycle(t *testing.T) {
	f, result := setupAuditReview(t)
	auditSvc := NewAuditServiceAt(f.db, inWindow())

	rec := models.FollowUpRecommendation{Description: "Archive meeting minutes", DueDate: day(2026, time.June, 1)}
	if err := auditSvc.CreateRecommendation(result.ResultID, f.auditorPrincipal(), &rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Only the program's coordinator (or admin) progresses follow-ups.
	_, err := auditSvc.UpdateRecommendationStatus(rec.RecommendationID, f.auditorPrincipal(),
		models.FollowUpStatusInProgress, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("auditor: expected ErrForbidden, got %v", err)
	}

	updated, err := auditSvc.UpdateRecommendationStatus(rec.RecommendationID, f.coordinatorPrincipal(),
		models.FollowUpStatusInProgress, nil)
	if err != nil {
		t.Fatalf("in progress: %v", err)
	}
	if updated.Status != models.FollowUpStatusInProgress || updated.CompletedAt != nil {
		t.Fatalf("unexpected state after in-progress: %+v", updated)
	}

	evidence := "uploads/follow-ups/minutes.pdf"
	updated, err = auditSvc.UpdateRecommendationStatus(rec.RecommendationID, f.coordinatorPrincipal(),
		models.FollowUpStatusDone, &evidence)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if updated.Status != models.FollowUpStatusDone {
		t.Fatalf("expected DONE, got %s", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Fatalf("completed_at not set on DONE")
	}
	if updated.EvidencePath == nil || *updated.EvidencePath != evidence {
		t.Fatalf("evidence path not saved: %+v", updated)
	}

	// Moving back off DONE clears the completion timestamp.
	updated, err = auditSvc.UpdateRecommendationStatus(rec.RecommendationID, f.coordinatorPrincipal(),
		models.FollowUpStatusInProgress, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("completed_at not cleared on reopen")
	}

	_, err = auditSvc.UpdateRecommendationStatus(rec.RecommendationID, f.coordinatorPrincipal(), "FINISHED", nil)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "status" {
		t.Fatalf("expected status ValidationError, got %v", err)
	}
}
