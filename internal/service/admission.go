package service

import (
	"context"
	"time"
)

// LastStartSource is the single query admission needs: the most recent
// processing start across all of a user's estimates.
type LastStartSource interface {
	LatestStartedAt(ctx context.Context, userID uint) (*time.Time, error)
}

// AdmissionService decides whether a user may start a new estimation
// attempt. It is strictly read-only: a denial never mutates anything.
type AdmissionService struct {
	starts   LastStartSource
	cooldown time.Duration
}

func NewAdmissionService(starts LastStartSource, cooldown time.Duration) *AdmissionService {
	return &AdmissionService{starts: starts, cooldown: cooldown}
}

// Check allows privileged users unconditionally and everyone else only if
// their latest start is at least one cooldown window in the past. On
// denial it returns a CooldownError with the remaining wait.
func (s *AdmissionService) Check(ctx context.Context, userID uint, privileged bool, now time.Time) error {
	if privileged {
		return nil
	}

	latest, err := s.starts.LatestStartedAt(ctx, userID)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}

	elapsed := now.Sub(*latest)
	if elapsed >= s.cooldown {
		return nil
	}
	return &CooldownError{Remaining: s.cooldown - elapsed}
}
