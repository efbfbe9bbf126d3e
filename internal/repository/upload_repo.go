package repository

import (
	"context"

	"github.com/VanshChitransh/ConsultabidV1/internal/model"

	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *model.Upload) error
	// GetByIDAndUser returns ErrNotFound for both a missing row and a row
	// owned by someone else, so existence never leaks across users.
	GetByIDAndUser(ctx context.Context, id, userID uint) (*model.Upload, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Upload, error)
	Delete(ctx context.Context, id uint) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *uploadRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&upload).Error
	if err != nil {
		return nil, translate(err)
	}
	return &upload, nil
}

func (r *uploadRepository) ListByUser(ctx context.Context, userID uint) ([]model.Upload, error) {
	var uploads []model.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *uploadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Upload{}, id).Error
}
