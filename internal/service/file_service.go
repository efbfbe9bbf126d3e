package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/VanshChitransh/ConsultabidV1/internal/dto"
	"github.com/VanshChitransh/ConsultabidV1/internal/model"
	"github.com/VanshChitransh/ConsultabidV1/internal/repository"

	"github.com/google/uuid"
)

const MaxFileBytes = 10 * 1024 * 1024

// ObjectStore is the blob-storage surface the file service needs.
type ObjectStore interface {
	UploadObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error)
	RemoveObject(ctx context.Context, key string) error
	ObjectKey(fileURL string) string
}

// FileService handles the plain CRUD around uploads: store, list,
// download, delete. None of it touches admission.
type FileService struct {
	uploads   repository.UploadRepository
	estimates repository.EstimateRepository
	store     ObjectStore
}

func NewFileService(uploads repository.UploadRepository, estimates repository.EstimateRepository, store ObjectStore) *FileService {
	return &FileService{uploads: uploads, estimates: estimates, store: store}
}

// Upload validates and stores one PDF, then records its row.
func (s *FileService) Upload(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*dto.UploadItem, error) {
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return nil, ErrInvalidFile
	}
	if fileHeader.Size > MaxFileBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	key := fmt.Sprintf("uploads/%d/%s.pdf", userID, uuid.New().String())
	fileURL, err := s.store.UploadObject(ctx, key, src, fileHeader.Size, contentType)
	if err != nil {
		return nil, err
	}

	upload := &model.Upload{
		UserID:   userID,
		FileName: fileHeader.Filename,
		FileURL:  fileURL,
		FileSize: fileHeader.Size,
		MimeType: contentType,
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}

	item := dto.NewUploadItem(upload, nil)
	return &item, nil
}

// List returns the user's uploads newest-first with derived status.
func (s *FileService) List(ctx context.Context, userID uint) ([]dto.UploadItem, error) {
	uploads, err := s.uploads.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(uploads))
	for i := range uploads {
		ids[i] = uploads[i].ID
	}
	estimates, err := s.estimates.MapBySourcePdfIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UploadItem, len(uploads))
	for i := range uploads {
		items[i] = dto.NewUploadItem(&uploads[i], estimates[uploads[i].ID])
	}
	return items, nil
}

// Download opens the stored object of an upload the user owns.
func (s *FileService) Download(ctx context.Context, userID, id uint) (io.ReadCloser, *model.Upload, int64, error) {
	upload, err := s.uploads.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, 0, ErrNotFound
		}
		return nil, nil, 0, err
	}

	obj, size, err := s.store.GetObject(ctx, s.store.ObjectKey(upload.FileURL))
	if err != nil {
		return nil, nil, 0, err
	}
	return obj, upload, size, nil
}

// Delete removes the object and both rows. Deleting bypasses admission
// entirely; it never touches cooldown state.
func (s *FileService) Delete(ctx context.Context, userID, id uint) error {
	upload, err := s.uploads.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.RemoveObject(ctx, s.store.ObjectKey(upload.FileURL)); err != nil {
		// Keep going; an orphaned object is better than an undeletable row.
		log.Printf("file: remove object for upload %d failed: %v", id, err)
	}
	if err := s.estimates.DeleteBySourcePdfID(ctx, upload.ID); err != nil {
		return err
	}
	return s.uploads.Delete(ctx, upload.ID)
}
