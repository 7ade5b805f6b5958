package models

// Category is referenced from questions by ID only; nothing enforces that a
// referenced category still exists.
type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Value string `json:"value" gorm:"type:varchar(191);uniqueIndex;not null"`
	Label string `json:"label" gorm:"not null"`
}
