package models

// AccreditingBody is an external accreditation agency (e.g. LAM InfoKom)
// whose criteria catalog programs are assessed against.
type AccreditingBody struct {
	BodyID      int     `gorm:"primaryKey;column:body_id" json:"body_id"`
	Code        string  `gorm:"column:code;unique" json:"code"`
	Name        string  `gorm:"column:name;unique" json:"name"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	Website     *string `gorm:"column:website" json:"website,omitempty"`
	Contact     *string `gorm:"column:contact" json:"contact,omitempty"`
}

func (AccreditingBody) TableName() string {
	return "accrediting_bodies"
}
