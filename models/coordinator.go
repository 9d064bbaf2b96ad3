package models

// Coordinator is the single person authorized to submit self-assessments on
// behalf of one program. One-to-one with a user account; the program link is
// nullable and its absence is a legitimate non-privileged state.
type Coordinator struct {
	CoordinatorID      int    `gorm:"primaryKey;column:coordinator_id" json:"coordinator_id"`
	UserID             int    `gorm:"column:user_id;unique" json:"user_id"`
	RegistrationNumber string `gorm:"column:registration_number;unique" json:"registration_number"`
	FullName           string `gorm:"column:full_name" json:"full_name"`
	ProgramID          *int   `gorm:"column:program_id" json:"program_id,omitempty"`

	// Relations
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

func (Coordinator) TableName() string {
	return "coordinators"
}
