package dto

import (
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/model"
)

// UploadItem is the shape the frontend consumes for every document row.
type UploadItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"upload_date"`
	Status      string    `json:"status"`
	FileURL     string    `json:"file_url"`
	MimeType    string    `json:"mime_type"`
	Pages       *int      `json:"pages"`
	HasEstimate bool      `json:"has_estimate"`
	EstimateID  *uint     `json:"estimate_id"`
}

// ProcessResp is returned by the start-processing endpoint.
type ProcessResp struct {
	EstimateID uint       `json:"estimate_id"`
	Upload     UploadItem `json:"upload"`
}

// NewUploadItem derives the listing status from the upload's estimate:
// processing / failed come straight off the row, any other existing
// estimate reads as completed, and no estimate at all means pending.
func NewUploadItem(u *model.Upload, est *model.Estimate) UploadItem {
	item := UploadItem{
		ID:         u.ID,
		Name:       u.FileName,
		Size:       u.FileSize,
		UploadDate: u.CreatedAt,
		Status:     model.StatusPending,
		FileURL:    u.FileURL,
		MimeType:   u.MimeType,
		Pages:      u.PageCount,
	}
	if est == nil {
		return item
	}
	item.HasEstimate = true
	id := est.ID
	item.EstimateID = &id
	switch est.Status {
	case model.StatusProcessing:
		item.Status = model.StatusProcessing
	case model.StatusFailed:
		item.Status = model.StatusFailed
	default:
		item.Status = model.StatusCompleted
	}
	return item
}
