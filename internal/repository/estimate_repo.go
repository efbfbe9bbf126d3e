package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterruptedMsg is written onto processing rows the stale sweeper fails.
const InterruptedMsg = "processing interrupted"

type EstimateRepository interface {
	// UpsertProcessing creates the estimate row for an upload or, if one
	// already exists, re-enters it: status back to processing, start time
	// reset. The unique index on source_pdf_id guarantees a single row per
	// document even under concurrent calls.
	UpsertProcessing(ctx context.Context, userID uint, upload *model.Upload, startedAt time.Time) (*model.Estimate, error)

	// Complete finishes an attempt successfully. The estimate update and
	// the upload's processed flag land in one transaction so "completed"
	// and "processed" can never diverge.
	Complete(ctx context.Context, estimateID, uploadID uint, fileURL string, total *float64, extraction []byte, at time.Time) error

	// Fail terminates an attempt after an engine error.
	Fail(ctx context.Context, estimateID uint, message string) error

	GetBySourcePdfID(ctx context.Context, sourcePdfID uint) (*model.Estimate, error)
	MapBySourcePdfIDs(ctx context.Context, sourcePdfIDs []uint) (map[uint]*model.Estimate, error)
	DeleteBySourcePdfID(ctx context.Context, sourcePdfID uint) error

	// LatestStartedAt is the cooldown query: the most recent processing
	// start across ALL of the user's estimates, nil if none exists.
	LatestStartedAt(ctx context.Context, userID uint) (*time.Time, error)

	// FailStale marks processing rows older than cutoff as failed and
	// returns how many it touched.
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type estimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) EstimateRepository {
	return &estimateRepository{db: db}
}

func (r *estimateRepository) UpsertProcessing(ctx context.Context, userID uint, upload *model.Upload, startedAt time.Time) (*model.Estimate, error) {
	est := &model.Estimate{
		UserID:              userID,
		SourcePdfID:         upload.ID,
		FileName:            resultFileName(upload.FileName),
		FileURL:             "",
		FileSize:            0,
		MimeType:            "application/json",
		Status:              model.StatusProcessing,
		ProcessingStartedAt: &startedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_pdf_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":                model.StatusProcessing,
			"error_msg":             "",
			"processing_started_at": startedAt,
			"updated_at":            startedAt,
		}),
	}).Create(est).Error
	if err != nil {
		return nil, err
	}
	// On conflict Create does not refill the struct; read the row back.
	return r.GetBySourcePdfID(ctx, upload.ID)
}

func (r *estimateRepository) Complete(ctx context.Context, estimateID, uploadID uint, fileURL string, total *float64, extraction []byte, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       model.StatusCompleted,
			"error_msg":    "",
			"file_url":     fileURL,
			"total_amount": total,
		}
		if len(extraction) > 0 {
			updates["extraction"] = extraction
		}
		if err := tx.Model(&model.Estimate{}).
			Where("id = ?", estimateID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&model.Upload{}).
			Where("id = ?", uploadID).
			Updates(map[string]interface{}{
				"is_processed": true,
				"processed_at": at,
			}).Error
	})
}

func (r *estimateRepository) Fail(ctx context.Context, estimateID uint, message string) error {
	return r.db.WithContext(ctx).Model(&model.Estimate{}).
		Where("id = ?", estimateID).
		Updates(map[string]interface{}{
			"status":    model.StatusFailed,
			"error_msg": message,
		}).Error
}

func (r *estimateRepository) GetBySourcePdfID(ctx context.Context, sourcePdfID uint) (*model.Estimate, error) {
	var est model.Estimate
	err := r.db.WithContext(ctx).
		Where("source_pdf_id = ?", sourcePdfID).
		First(&est).Error
	if err != nil {
		return nil, translate(err)
	}
	return &est, nil
}

func (r *estimateRepository) MapBySourcePdfIDs(ctx context.Context, sourcePdfIDs []uint) (map[uint]*model.Estimate, error) {
	result := make(map[uint]*model.Estimate, len(sourcePdfIDs))
	if len(sourcePdfIDs) == 0 {
		return result, nil
	}
	var estimates []model.Estimate
	err := r.db.WithContext(ctx).
		Where("source_pdf_id IN ?", sourcePdfIDs).
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	for i := range estimates {
		result[estimates[i].SourcePdfID] = &estimates[i]
	}
	return result, nil
}

func (r *estimateRepository) DeleteBySourcePdfID(ctx context.Context, sourcePdfID uint) error {
	return r.db.WithContext(ctx).
		Where("source_pdf_id = ?", sourcePdfID).
		Delete(&model.Estimate{}).Error
}

func (r *estimateRepository) LatestStartedAt(ctx context.Context, userID uint) (*time.Time, error) {
	var est model.Estimate
	err := r.db.WithContext(ctx).
		Select("processing_started_at").
		Where("user_id = ? AND processing_started_at IS NOT NULL", userID).
		Order("processing_started_at DESC").
		Take(&est).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return est.ProcessingStartedAt, nil
}

func (r *estimateRepository) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Estimate{}).
		Where("status = ? AND processing_started_at < ?", model.StatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":    model.StatusFailed,
			"error_msg": InterruptedMsg,
		})
	return res.RowsAffected, res.Error
}

func resultFileName(sourceName string) string {
	return strings.TrimSuffix(sourceName, ".pdf") + "-estimate.json"
}
