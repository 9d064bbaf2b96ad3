package models

import "time"

// Program is an accredited academic program. The accrediting body reference
// is delete-protected: removing a body with programs attached must fail.
type Program struct {
	ProgramID          int        `gorm:"primaryKey;column:program_id" json:"program_id"`
	BodyID             int        `gorm:"column:body_id" json:"body_id"`
	Code               string     `gorm:"column:code;unique" json:"code"`
	Name               string     `gorm:"column:name" json:"name"`
	Faculty            string     `gorm:"column:faculty" json:"faculty"`
	DegreeLevel        string     `gorm:"column:degree_level" json:"degree_level"`
	AccreditationGrade *string    `gorm:"column:accreditation_grade" json:"accreditation_grade,omitempty"`
	AccreditationDate  *time.Time `gorm:"column:accreditation_date" json:"accreditation_date,omitempty"`

	// Relations
	Body AccreditingBody `gorm:"foreignKey:BodyID" json:"body,omitempty"`
}

func (Program) TableName() string {
	return "programs"
}
