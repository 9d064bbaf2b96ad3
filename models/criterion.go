package models

// Catalog activity states.
const (
	CatalogStatusActive   = "active"
	CatalogStatusInactive = "inactive"
)

// Criterion is a top-level assessment category within a body's framework.
// Codes are unique per body and listings are ordered by code.
type Criterion struct {
	CriterionID int      `gorm:"primaryKey;column:criterion_id" json:"criterion_id"`
	BodyID      int      `gorm:"column:body_id;uniqueIndex:uq_criteria_body_code" json:"body_id"`
	Code        string   `gorm:"column:code;uniqueIndex:uq_criteria_body_code" json:"code"`
	Name        string   `gorm:"column:name" json:"name"`
	Description *string  `gorm:"column:description" json:"description,omitempty"`
	Weight      *float64 `gorm:"column:weight" json:"weight,omitempty"`
	Status      string   `gorm:"column:status;default:active" json:"status"`

	// Relations
	Body     AccreditingBody `gorm:"foreignKey:BodyID" json:"body,omitempty"`
	Elements []Element       `gorm:"foreignKey:CriterionID" json:"elements,omitempty"`
}

// Element is the atomic assessable unit under a criterion. It carries its
// own maximum score; self-assessments and audit results score it directly.
type Element struct {
	ElementID   int     `gorm:"primaryKey;column:element_id" json:"element_id"`
	CriterionID int     `gorm:"column:criterion_id;uniqueIndex:uq_elements_criterion_code" json:"criterion_id"`
	Code        string  `gorm:"column:code;uniqueIndex:uq_elements_criterion_code" json:"code"`
	Name        string  `gorm:"column:name" json:"name"`
	Guidance    *string `gorm:"column:guidance" json:"guidance,omitempty"`
	MaxScore    float64 `gorm:"column:max_score;default:4" json:"max_score"`
	Status      string  `gorm:"column:status;default:active" json:"status"`

	// Relations
	Criterion Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

func (Criterion) TableName() string {
	return "criteria"
}

func (Element) TableName() string {
	return "elements"
}

func (c *Criterion) IsActive() bool {
	return c.Status == CatalogStatusActive
}

func (e *Element) IsActive() bool {
	return e.Status == CatalogStatusActive
}
