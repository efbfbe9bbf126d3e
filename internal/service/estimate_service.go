package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/dto"
	"github.com/VanshChitransh/ConsultabidV1/internal/engine"
	"github.com/VanshChitransh/ConsultabidV1/internal/repository"
)

// Engine is the external estimation call. Slow, failure-prone, invoked
// exactly once per attempt.
type Engine interface {
	ProcessEstimate(ctx context.Context, pdfID uint, fileURL string) (*engine.Response, error)
}

// Locker serializes check-and-start per user so two near-simultaneous
// requests cannot both pass the cooldown check.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// EstimateService owns the job lifecycle: upsert to processing, one engine
// call, then a terminal completed/failed write.
type EstimateService struct {
	uploads   repository.UploadRepository
	estimates repository.EstimateRepository
	admission *AdmissionService
	engine    Engine
	locker    Locker
	lockTTL   time.Duration
}

func NewEstimateService(
	uploads repository.UploadRepository,
	estimates repository.EstimateRepository,
	admission *AdmissionService,
	eng Engine,
	locker Locker,
	lockTTL time.Duration,
) *EstimateService {
	return &EstimateService{
		uploads:   uploads,
		estimates: estimates,
		admission: admission,
		engine:    eng,
		locker:    locker,
		lockTTL:   lockTTL,
	}
}

// Process runs one estimation attempt end-to-end for an upload the user
// owns. The middleware has already done a fast-path admission check; the
// authoritative one happens here, under the per-user lock, so the
// cooldown read and the processing write cannot interleave across
// concurrent requests.
func (s *EstimateService) Process(ctx context.Context, userID uint, privileged bool, uploadID uint) (*dto.ProcessResp, error) {
	// 1. Ownership check before anything else; foreign uploads read as
	// missing.
	upload, err := s.uploads.GetByIDAndUser(ctx, uploadID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 2. Per-user advisory lock across check-and-start.
	lockKey := fmt.Sprintf("estimate:start:%d", userID)
	acquired, err := s.locker.AcquireLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrBusy
	}
	// Release on a fresh context: the request context may already be
	// cancelled by the time we unwind.
	defer func() {
		if err := s.locker.ReleaseLock(context.Background(), lockKey); err != nil {
			log.Printf("estimate: release lock %s failed: %v", lockKey, err)
		}
	}()

	// 3. Authoritative admission check.
	now := time.Now()
	if err := s.admission.Check(ctx, userID, privileged, now); err != nil {
		return nil, err
	}

	// 4. Create or re-enter the single estimate row for this document.
	est, err := s.estimates.UpsertProcessing(ctx, userID, upload, now)
	if err != nil {
		return nil, err
	}

	// 5. The one long-latency step. A single failure terminates the
	// attempt; no internal retries.
	resp, err := s.engine.ProcessEstimate(ctx, upload.ID, upload.FileURL)
	if err != nil {
		if failErr := s.estimates.Fail(ctx, est.ID, err.Error()); failErr != nil {
			log.Printf("estimate %d: recording failure also failed: %v", est.ID, failErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}

	// 6. Terminal success: estimate completed + upload processed, one
	// transaction.
	var total *float64
	if resp.Summary != nil {
		total = resp.Summary.TotalEstimate
	}
	if err := s.estimates.Complete(ctx, est.ID, upload.ID, resp.EstimateURL, total, resp.Extraction, time.Now()); err != nil {
		return nil, err
	}

	// 7. Report the fresh state back.
	upload, err = s.uploads.GetByIDAndUser(ctx, uploadID, userID)
	if err != nil {
		return nil, err
	}
	est, err = s.estimates.GetBySourcePdfID(ctx, upload.ID)
	if err != nil {
		return nil, err
	}
	item := dto.NewUploadItem(upload, est)
	return &dto.ProcessResp{EstimateID: est.ID, Upload: item}, nil
}
