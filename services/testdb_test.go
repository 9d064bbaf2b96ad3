package services

import (
	"testing"
	"time"

	"accreditation-audit-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// A single pooled connection keeps every query on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.AccreditingBody{},
		&models.Criterion{},
		&models.Element{},
		&models.Program{},
		&models.Coordinator{},
		&models.Auditor{},
		&models.AuditSession{},
		&models.SelfAssessment{},
		&models.SupportingDocument{},
		&models.AuditResult{},
		&models.AuditNote{},
		&models.FollowUpRecommendation{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is the standard seeded world: one accrediting body with criteria
// A (two elements) and B (one element), one program, its coordinator, and
// one lead auditor.
type fixture struct {
	db *gorm.DB

	Body       models.AccreditingBody
	CriterionA models.Criterion
	CriterionB models.Criterion
	ElementA1  models.Element
	ElementA2  models.Element
	ElementB1  models.Element

	Program     models.Program
	Coordinator models.Coordinator
	Auditor     models.Auditor
	Session     models.AuditSession
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.Body = models.AccreditingBody{Code: "LAM-IK", Name: "LAM InfoKom"}
	mustCreate(t, db, &f.Body)

	f.CriterionA = models.Criterion{BodyID: f.Body.BodyID, Code: "C1", Name: "Governance", Status: models.CatalogStatusActive}
	mustCreate(t, db, &f.CriterionA)
	f.CriterionB = models.Criterion{BodyID: f.Body.BodyID, Code: "C2", Name: "Curriculum", Status: models.CatalogStatusActive}
	mustCreate(t, db, &f.CriterionB)

	f.ElementA1 = models.Element{CriterionID: f.CriterionA.CriterionID, Code: "C1.1", Name: "Vision", MaxScore: 4, Status: models.CatalogStatusActive}
	mustCreate(t, db, &f.ElementA1)
	f.ElementA2 = models.Element{CriterionID: f.CriterionA.CriterionID, Code: "C1.2", Name: "Mission", MaxScore: 4, Status: models.CatalogStatusActive}
	mustCreate(t, db, &f.ElementA2)
	f.ElementB1 = models.Element{CriterionID: f.CriterionB.CriterionID, Code: "C2.1", Name: "Syllabus", MaxScore: 4, Status: models.CatalogStatusActive}
	mustCreate(t, db, &f.ElementB1)

	f.Program = models.Program{BodyID: f.Body.BodyID, Code: "IF-S1", Name: "Informatics", Faculty: "Engineering", DegreeLevel: "Bachelor"}
	mustCreate(t, db, &f.Program)

	coordUser := models.User{FullName: "Program Coordinator", Email: "coordinator@example.edu", Password: "x", RoleID: models.RoleCoordinator}
	mustCreate(t, db, &coordUser)
	f.Coordinator = models.Coordinator{UserID: coordUser.UserID, RegistrationNumber: "K-001", FullName: coordUser.FullName, ProgramID: &f.Program.ProgramID}
	mustCreate(t, db, &f.Coordinator)

	auditorUser := models.User{FullName: "Lead Auditor", Email: "auditor@example.edu", Password: "x", RoleID: models.RoleAuditor}
	mustCreate(t, db, &auditorUser)
	f.Auditor = models.Auditor{UserID: auditorUser.UserID, RegistrationNumber: "A-001", FullName: auditorUser.FullName, IsLeadAuditor: true, Status: models.AuditorStatusActive}
	mustCreate(t, db, &f.Auditor)

	f.Session = models.AuditSession{
		ProgramID:     f.Program.ProgramID,
		AcademicYear:  "2025/2026",
		Semester:      models.SemesterOdd,
		Status:        models.SessionStatusDraft,
		LeadAuditorID: &f.Auditor.AuditorID,
	}
	mustCreate(t, db, &f.Session)

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

// setStatus force-sets the session status, bypassing the lifecycle rules.
func (f *fixture) setStatus(t *testing.T, status string) {
	t.Helper()
	err := f.db.Model(&models.AuditSession{}).
		Where("session_id = ?", f.Session.SessionID).
		Update("status", status).Error
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	f.Session.Status = status
}

// setDates schedules the session's four phase dates.
func (f *fixture) setDates(t *testing.T, saStart, saEnd, arStart, arEnd time.Time) {
	t.Helper()
	err := f.db.Model(&models.AuditSession{}).
		Where("session_id = ?", f.Session.SessionID).
		Updates(map[string]interface{}{
			"self_assessment_start": saStart,
			"self_assessment_end":   saEnd,
			"auditor_review_start":  arStart,
			"auditor_review_end":    arEnd,
		}).Error
	if err != nil {
		t.Fatalf("set dates: %v", err)
	}
	f.Session.SelfAssessmentStart = &saStart
	f.Session.SelfAssessmentEnd = &saEnd
	f.Session.AuditorReviewStart = &arStart
	f.Session.AuditorReviewEnd = &arEnd
}

// scoreAll fills every assessment of the session with the given score.
func (f *fixture) scoreAll(t *testing.T, score float64) {
	t.Helper()
	err := f.db.Model(&models.SelfAssessment{}).
		Where("session_id = ?", f.Session.SessionID).
		Updates(map[string]interface{}{
			"score":  score,
			"status": models.AssessmentStatusFilled,
		}).Error
	if err != nil {
		t.Fatalf("score all: %v", err)
	}
}

func (f *fixture) coordinatorPrincipal() *Principal {
	return &Principal{UserID: f.Coordinator.UserID, Kind: RoleCoordinator, Coordinator: &f.Coordinator}
}

func (f *fixture) auditorPrincipal() *Principal {
	return &Principal{UserID: f.Auditor.UserID, Kind: RoleAuditor, Auditor: &f.Auditor}
}

func adminPrincipal() *Principal {
	return &Principal{UserID: 9999, Kind: RoleAdmin}
}

// day builds a date-only time in UTC.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// at returns a now func pinned to the given day.
func at(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
