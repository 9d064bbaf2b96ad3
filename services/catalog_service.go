package services

import (
	"errors"
	"fmt"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// CatalogService manages the accrediting-body / criterion / element
// hierarchy: scoped code uniqueness, ordered listings, cascade and
// delete-protection rules.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateBody inserts a new accrediting body after checking code and name
// uniqueness.
func (s *CatalogService) CreateBody(body *models.AccreditingBody) error {
	var count int64
	if err := s.db.Model(&models.AccreditingBody{}).
		Where("code = ? OR name = ?", body.Code, body.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{Field: "code", Message: "an accrediting body with this code or name already exists"}
	}
	return s.db.Create(body).Error
}

// DeleteBody removes a body only when nothing references it. A body with
// programs or criteria attached is delete-protected, never cascaded.
func (s *CatalogService) DeleteBody(bodyID int) error {
	var body models.AccreditingBody
	if err := s.db.First(&body, bodyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("accrediting body", bodyID)
		}
		return err
	}

	var programs int64
	if err := s.db.Model(&models.Program{}).Where("body_id = ?", bodyID).Count(&programs).Error; err != nil {
		return err
	}
	if programs > 0 {
		return &ValidationError{
			Field:   "body_id",
			Message: fmt.Sprintf("cannot delete accrediting body %q: %d program(s) still reference it", body.Name, programs),
		}
	}

	var criteria int64
	if err := s.db.Model(&models.Criterion{}).Where("body_id = ?", bodyID).Count(&criteria).Error; err != nil {
		return err
	}
	if criteria > 0 {
		return &ValidationError{
			Field:   "body_id",
			Message: fmt.Sprintf("cannot delete accrediting body %q: %d criteria still reference it", body.Name, criteria),
		}
	}

	return s.db.Delete(&body).Error
}

// CreateCriterion inserts a criterion; the code must be unique within its
// body.
func (s *CatalogService) CreateCriterion(criterion *models.Criterion) error {
	var body models.AccreditingBody
	if err := s.db.First(&body, criterion.BodyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("accrediting body", criterion.BodyID)
		}
		return err
	}

	var count int64
	if err := s.db.Model(&models.Criterion{}).
		Where("body_id = ? AND code = ?", criterion.BodyID, criterion.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{Field: "code", Message: "criterion code already exists for this accrediting body"}
	}
	if criterion.Status == "" {
		criterion.Status = models.CatalogStatusActive
	}
	return s.db.Create(criterion).Error
}

// DeleteCriterion removes a criterion and cascades to its elements in one
// transaction.
func (s *CatalogService) DeleteCriterion(criterionID int) error {
	var criterion models.Criterion
	if err := s.db.First(&criterion, criterionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("criterion", criterionID)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("criterion_id = ?", criterionID).Delete(&models.Element{}).Error; err != nil {
			return err
		}
		return tx.Delete(&criterion).Error
	})
}

// CreateElement inserts an element; the code must be unique within its
// criterion and the max score positive.
func (s *CatalogService) CreateElement(element *models.Element) error {
	var criterion models.Criterion
	if err := s.db.First(&criterion, element.CriterionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("criterion", element.CriterionID)
		}
		return err
	}

	var count int64
	if err := s.db.Model(&models.Element{}).
		Where("criterion_id = ? AND code = ?", element.CriterionID, element.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{Field: "code", Message: "element code already exists for this criterion"}
	}

	if element.MaxScore == 0 {
		element.MaxScore = 4.0
	}
	if element.MaxScore < 0 {
		return &ValidationError{Field: "max_score", Message: "maximum score must be positive"}
	}
	if element.Status == "" {
		element.Status = models.CatalogStatusActive
	}
	return s.db.Create(element).Error
}

// ListCriteria returns a body's criteria ordered by code.
func (s *CatalogService) ListCriteria(bodyID int) ([]models.Criterion, error) {
	var criteria []models.Criterion
	err := s.db.Where("body_id = ?", bodyID).Order("code").Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

// ListElements returns a criterion's elements ordered by code.
func (s *CatalogService) ListElements(criterionID int) ([]models.Element, error) {
	var elements []models.Element
	err := s.db.Where("criterion_id = ?", criterionID).Order("code").Find(&elements).Error
	if err != nil {
		return nil, err
	}
	return elements, nil
}
