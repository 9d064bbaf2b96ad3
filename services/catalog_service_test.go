package services

import (
	"errors"
	"testing"

	"accreditation-audit-api/models"
)

func TestCreateBodyRejectsDuplicateCodeOrName(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewCatalogService(db)

	var validation *ValidationError

	err := svc.CreateBody(&models.AccreditingBody{Code: f.Body.Code, Name: "Another Agency"})
	if !errors.As(err, &validation) {
		t.Fatalf("duplicate code: expected ValidationError, got %v", err)
	}
	err = svc.CreateBody(&models.AccreditingBody{Code: "BAN-PT", Name: f.Body.Name})
	if !errors.As(err, &validation) {
		t.Fatalf("duplicate name: expected ValidationError, got %v", err)
	}

	if err := svc.CreateBody(&models.AccreditingBody{Code: "BAN-PT", Name: "National Board"}); err != nil {
		t.Fatalf("distinct body rejected: %v", err)
	}
}

func TestDeleteBodyIsDeleteProtected(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewCatalogService(db)

	// Programs and criteria both reference the fixture body.
	err := svc.DeleteBody(f.Body.BodyID)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var count int64
	db.Model(&models.AccreditingBody{}).Where("body_id = ?", f.Body.BodyID).Count(&count)
	if count != 1 {
		t.Fatalf("protected body was deleted")
	}

	// An unreferenced body deletes cleanly.
	empty := models.AccreditingBody{Code: "EMPTY", Name: "Unused Agency"}
	mustCreate(t, db, &empty)
	if err := svc.DeleteBody(empty.BodyID); err != nil {
		t.Fatalf("DeleteBody returned error: %v", err)
	}

	if err := svc.DeleteBody(424242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCriterionScopedUniqueness(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewCatalogService(db)

	err := svc.CreateCriterion(&models.Criterion{BodyID: f.Body.BodyID, Code: "C1", Name: "Shadow"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("duplicate code in body: expected ValidationError, got %v", err)
	}

	// Same code under a different body is fine.
	other := models.AccreditingBody{Code: "BAN-PT", Name: "National Board"}
	mustCreate(t, db, &other)
	created := models.Criterion{BodyID: other.BodyID, Code: "C1", Name: "Governance"}
	if err := svc.CreateCriterion(&created); err != nil {
		t.Fatalf("same code under other body rejected: %v", err)
	}
	if created.Status != models.CatalogStatusActive {
		t.Fatalf("expected default status active, got %s", created.Status)
	}

	err = svc.CreateCriterion(&models.Criterion{BodyID: 424242, Code: "C9", Name: "Orphan"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown body: expected ErrNotFound, got %v", err)
	}
}

func TestCreateElementDefaultsAndUniqueness(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewCatalogService(db)

	err := svc.CreateElement(&models.Element{CriterionID: f.CriterionA.CriterionID, Code: "C1.1", Name: "Shadow"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("duplicate code in criterion: expected ValidationError, got %v", err)
	}

	created := models.Element{CriterionID: f.CriterionA.CriterionID, Code: "C1.3", Name: "Strategy"}
	if err := svc.CreateElement(&created); err != nil {
		t.Fatalf("CreateElement returned error: %v", err)
	}
	if created.MaxScore != 4.0 {
		t.Fatalf("expected default max score 4, got %v", created.MaxScore)
	}
	if created.Status != models.CatalogStatusActive {
		t.Fatalf("expected default status active, got %s", created.Status)
	}
}

func TestDeleteCriterionCascadesToElements(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)

	if err := NewCatalogService(db).DeleteCriterion(f.CriterionA.CriterionID); err != nil {
		t.Fatalf("DeleteCriterion returned error: %v", err)
	}

	var elements int64
	db.Model(&models.Element{}).Where("criterion_id = ?", f.CriterionA.CriterionID).Count(&elements)
	if elements != 0 {
		t.Fatalf("%d elements survived the cascade", elements)
	}

	// The sibling criterion is untouched.
	var siblings int64
	db.Model(&models.Element{}).Where("criterion_id = ?", f.CriterionB.CriterionID).Count(&siblings)
	if siblings != 1 {
		t.Fatalf("cascade crossed criteria, %d sibling elements left", siblings)
	}
}

func TestListCatalogOrdering(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewCatalogService(db)

	// Insert out of code order.
	if err := svc.CreateCriterion(&models.Criterion{BodyID: f.Body.BodyID, Code: "C0", Name: "Identity"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	criteria, err := svc.ListCriteria(f.Body.BodyID)
	if err != nil {
		t.Fatalf("ListCriteria returned error: %v", err)
	}
	want := []string{"C0", "C1", "C2"}
	if len(criteria) != len(want) {
		t.Fatalf("expected %d criteria, got %d", len(want), len(criteria))
	}
	for i, code := range want {
		if criteria[i].Code != code {
			t.Fatalf("position %d: expected %s, got %s", i, code, criteria[i].Code)
		}
	}
}
