package models

// Auditor statuses.
const (
	AuditorStatusActive   = "active"
	AuditorStatusInactive = "inactive"
)

// Auditor reviews self-assessments during the auditor-review phase.
// One-to-one with a user account; never the same user as a coordinator.
type Auditor struct {
	AuditorID          int     `gorm:"primaryKey;column:auditor_id" json:"auditor_id"`
	UserID             int     `gorm:"column:user_id;unique" json:"user_id"`
	RegistrationNumber string  `gorm:"column:registration_number;unique" json:"registration_number"`
	FullName           string  `gorm:"column:full_name" json:"full_name"`
	Position           *string `gorm:"column:position" json:"position,omitempty"`
	Unit               *string `gorm:"column:unit" json:"unit,omitempty"`
	IsLeadAuditor      bool    `gorm:"column:is_lead_auditor;default:false" json:"is_lead_auditor"`
	Status             string  `gorm:"column:status;default:active" json:"status"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Auditor) TableName() string {
	return "auditors"
}
