package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/engine"
	"github.com/VanshChitransh/ConsultabidV1/internal/model"
	"github.com/VanshChitransh/ConsultabidV1/internal/repository"
)

type fakeUploadRepo struct {
	mu   sync.Mutex
	rows map[uint]*model.Upload
}

func newFakeUploadRepo(uploads ...*model.Upload) *fakeUploadRepo {
	f := &fakeUploadRepo{rows: make(map[uint]*model.Upload)}
	for _, u := range uploads {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUploadRepo) Create(ctx context.Context, upload *model.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	upload.ID = uint(len(f.rows) + 1)
	f.rows[upload.ID] = upload
	return nil
}

func (f *fakeUploadRepo) GetByIDAndUser(ctx context.Context, id, userID uint) (*model.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeUploadRepo) ListByUser(ctx context.Context, userID uint) ([]model.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Upload
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeUploadRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeUploadRepo) markProcessed(id uint, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		row.IsProcessed = true
		t := at
		row.ProcessedAt = &t
	}
}

// fakeEstimateRepo keeps one row per source pdf id, mirroring the unique
// index the real table enforces.
type fakeEstimateRepo struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]*model.Estimate
	uploads *fakeUploadRepo
}

func newFakeEstimateRepo(uploads *fakeUploadRepo) *fakeEstimateRepo {
	return &fakeEstimateRepo{rows: make(map[uint]*model.Estimate), uploads: uploads}
}

func (f *fakeEstimateRepo) UpsertProcessing(ctx context.Context, userID uint, upload *model.Upload, startedAt time.Time) (*model.Estimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := startedAt
	if est, ok := f.rows[upload.ID]; ok {
		est.Status = model.StatusProcessing
		est.ErrorMsg = ""
		est.ProcessingStartedAt = &t
		cp := *est
		return &cp, nil
	}
	f.nextID++
	est := &model.Estimate{
		BaseModel:           model.BaseModel{ID: f.nextID},
		UserID:              userID,
		SourcePdfID:         upload.ID,
		FileName:            strings.TrimSuffix(upload.FileName, ".pdf") + "-estimate.json",
		MimeType:            "application/json",
		Status:              model.StatusProcessing,
		ProcessingStartedAt: &t,
	}
	f.rows[upload.ID] = est
	cp := *est
	return &cp, nil
}

func (f *fakeEstimateRepo) Complete(ctx context.Context, estimateID, uploadID uint, fileURL string, total *float64, extraction []byte, at time.Time) error {
	f.mu.Lock()
	for _, est := range f.rows {
		if est.ID == estimateID {
			est.Status = model.StatusCompleted
			est.ErrorMsg = ""
			est.FileURL = fileURL
			est.TotalAmount = total
			if len(extraction) > 0 {
				est.Extraction = extraction
			}
		}
	}
	f.mu.Unlock()
	f.uploads.markProcessed(uploadID, at)
	return nil
}

func (f *fakeEstimateRepo) Fail(ctx context.Context, estimateID uint, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, est := range f.rows {
		if est.ID == estimateID {
			est.Status = model.StatusFailed
			est.ErrorMsg = message
		}
	}
	return nil
}

func (f *fakeEstimateRepo) GetBySourcePdfID(ctx context.Context, sourcePdfID uint) (*model.Estimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	est, ok := f.rows[sourcePdfID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *est
	return &cp, nil
}

func (f *fakeEstimateRepo) MapBySourcePdfIDs(ctx context.Context, sourcePdfIDs []uint) (map[uint]*model.Estimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uint]*model.Estimate)
	for _, id := range sourcePdfIDs {
		if est, ok := f.rows[id]; ok {
			cp := *est
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeEstimateRepo) DeleteBySourcePdfID(ctx context.Context, sourcePdfID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, sourcePdfID)
	return nil
}

func (f *fakeEstimateRepo) LatestStartedAt(ctx context.Context, userID uint) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *time.Time
	for _, est := range f.rows {
		if est.UserID != userID || est.ProcessingStartedAt == nil {
			continue
		}
		if latest == nil || est.ProcessingStartedAt.After(*latest) {
			t := *est.ProcessingStartedAt
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeEstimateRepo) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, est := range f.rows {
		if est.Status == model.StatusProcessing && est.ProcessingStartedAt != nil && est.ProcessingStartedAt.Before(cutoff) {
			est.Status = model.StatusFailed
			est.ErrorMsg = repository.InterruptedMsg
			n++
		}
	}
	return n, nil
}

func (f *fakeEstimateRepo) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	releases int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	f.releases++
	return nil
}

type fakeEngine struct {
	resp  *engine.Response
	err   error
	calls int
}

func (f *fakeEngine) ProcessEstimate(ctx context.Context, pdfID uint, fileURL string) (*engine.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}
