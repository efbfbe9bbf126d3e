package model

import (
	"time"

	"gorm.io/datatypes"
)

// Estimate statuses. "pending" never lands on a row; it is the derived
// listing status of an upload that has no estimate yet.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusPending    = "pending"
)

// Estimate is the latest processing attempt for one upload. The unique
// index on SourcePdfID is what keeps it to a single row per document:
// re-running processing re-enters this row instead of appending a new one.
type Estimate struct {
	BaseModel
	UserID uint `gorm:"index;not null" json:"user_id"`

	SourcePdfID uint `gorm:"uniqueIndex;not null" json:"source_pdf_id"`

	// Result artifact. Placeholder name until the engine produces it.
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileSize int64  `json:"file_size"`
	MimeType string `gorm:"size:100" json:"mime_type"`

	// State machine: processing -> completed / failed
	Status   string `gorm:"default:'processing';index" json:"status"`
	ErrorMsg string `json:"error_msg"`

	// Engine output
	TotalAmount *float64       `json:"total_amount"`
	Extraction  datatypes.JSON `json:"extraction"`

	// Reset on every re-entry; drives the per-user cooldown query
	ProcessingStartedAt *time.Time `gorm:"index" json:"processing_started_at"`
}
