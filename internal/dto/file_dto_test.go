package dto

import (
	"testing"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/model"
)

func TestNewUploadItem_StatusDerivation(t *testing.T) {
	upload := &model.Upload{
		BaseModel: model.BaseModel{ID: 5, CreatedAt: time.Now()},
		FileName:  "bid.pdf",
		FileURL:   "http://store/uploads/1/bid.pdf",
		FileSize:  2048,
		MimeType:  "application/pdf",
	}

	cases := []struct {
		name     string
		estimate *model.Estimate
		want     string
	}{
		{"no estimate", nil, model.StatusPending},
		{"processing", &model.Estimate{Status: model.StatusProcessing}, model.StatusProcessing},
		{"failed", &model.Estimate{Status: model.StatusFailed}, model.StatusFailed},
		{"completed", &model.Estimate{Status: model.StatusCompleted}, model.StatusCompleted},
	}

	for _, tc := range cases {
		item := NewUploadItem(upload, tc.estimate)
		if item.Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, item.Status)
		}
		if tc.estimate == nil {
			if item.HasEstimate || item.EstimateID != nil {
				t.Fatalf("%s: expected no estimate linkage", tc.name)
			}
		} else if !item.HasEstimate {
			t.Fatalf("%s: expected HasEstimate", tc.name)
		}
	}
}

func TestNewUploadItem_CarriesUploadFields(t *testing.T) {
	pages := 14
	upload := &model.Upload{
		BaseModel: model.BaseModel{ID: 9, CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		FileName:  "site-plan.pdf",
		FileURL:   "http://store/uploads/2/site-plan.pdf",
		FileSize:  4096,
		MimeType:  "application/pdf",
		PageCount: &pages,
	}
	est := &model.Estimate{BaseModel: model.BaseModel{ID: 3}, Status: model.StatusCompleted}

	item := NewUploadItem(upload, est)
	if item.ID != 9 || item.Name != "site-plan.pdf" || item.Size != 4096 {
		t.Fatalf("upload fields not carried: %+v", item)
	}
	if item.Pages == nil || *item.Pages != 14 {
		t.Fatalf("expected pages 14, got %v", item.Pages)
	}
	if item.EstimateID == nil || *item.EstimateID != 3 {
		t.Fatalf("expected estimate id 3, got %v", item.EstimateID)
	}
}
