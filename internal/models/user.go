package models

// User represents an account holder whose positions are tracked.
type User struct {
	Base
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`

	Positions []Position `gorm:"foreignKey:UserID" json:"positions,omitempty"`
}
