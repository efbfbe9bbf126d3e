package model

import "time"

// Upload is a PDF a user submitted for estimation.
type Upload struct {
	BaseModel
	// Redundant owner id for fast ownership checks
	UserID uint `gorm:"index;not null" json:"user_id"`

	FileName string `json:"file_name"`
	// Public object URL, e.g. http://.../consultabid-uploads/uploads/3/<uuid>.pdf
	FileURL  string `gorm:"not null" json:"file_url"`
	FileSize int64  `json:"file_size"`
	MimeType string `gorm:"size:100" json:"mime_type"`

	// Filled in later by the engine, if ever
	PageCount *int `json:"page_count"`

	// Flipped only when the document's estimate completes
	IsProcessed bool       `gorm:"default:false" json:"is_processed"`
	ProcessedAt *time.Time `json:"processed_at"`
}
