package catalog

import (
	"context"
	"errors"

	"gallery-manager/feature/gallery/models"
)

const (
	// idSpace is the number of possible media ids (00000-99999). Birthday
	// math keeps collision retries rare until the catalog holds tens of
	// thousands of rows, active or not; past that, allocation latency grows
	// and exhaustion becomes a real capacity ceiling.
	idSpace = 100000

	// maxAllocateAttempts bounds the collision retry loop.
	maxAllocateAttempts = 10
)

// NewMedia describes a newly discovered object key to register.
type NewMedia struct {
	Key         string
	URL         string
	Type        models.MediaType
	SizeBytes   int64
	ContentType string
}

// Allocate registers a new media record under a fresh random 5-digit id.
//
// Id collisions are retried with a fresh draw, at most maxAllocateAttempts
// times. A duplicate object key is surfaced as ErrDuplicateKey without
// retrying: the key was registered by a concurrent writer and no amount of
// redrawing will change that. There is deliberately no check-then-insert;
// the insert's unique indexes are what make concurrent allocation safe.
func (s *Store) Allocate(ctx context.Context, media NewMedia) (*models.MediaRecord, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		rec := &models.MediaRecord{
			MediaID:     s.drawID(),
			OriginalKey: media.Key,
			URL:         media.URL,
			MediaType:   media.Type,
			SizeBytes:   media.SizeBytes,
			ContentType: media.ContentType,
			IsActive:    true,
		}

		err := s.Insert(ctx, rec)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		return nil, err
	}
	return nil, ErrIDSpaceExhausted
}
