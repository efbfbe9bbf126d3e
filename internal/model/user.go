package model

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"size:100" json:"name"`

	// Platform role. Cooldown exemption is NOT stored here; it is resolved
	// per request from the configured email allow-lists.
	Role string `gorm:"default:'user'" json:"role"`
}
