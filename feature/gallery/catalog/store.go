package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"gallery-manager/feature/gallery/models"

	"gorm.io/gorm"
)

// Store is the catalog of published media records.
//
// It never takes application-side locks; all concurrency safety between the
// reconciliation job and the event ingest path comes from the unique indexes
// on media_id and original_key.
type Store struct {
	db *gorm.DB

	// drawID produces candidate media ids. Overridable for deterministic
	// allocator tests.
	drawID func() string
}

// NewStore creates a catalog store over the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db: db,
		drawID: func() string {
			return fmt.Sprintf("%05d", rand.IntN(idSpace))
		},
	}
}

// Migrate creates or updates the media_records table, including the unique
// indexes the store depends on.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.MediaRecord{})
}

// Insert writes a single record. Exactly one row is created, or none:
// duplicate constraint violations come back as ErrDuplicateID or
// ErrDuplicateKey depending on which index rejected the row.
func (s *Store) Insert(ctx context.Context, rec *models.MediaRecord) error {
	err := s.db.WithContext(ctx).Create(rec).Error
	return classifyInsertError(err)
}

// FindByKey returns the record for an object key, or nil if none exists.
func (s *Store) FindByKey(ctx context.Context, key string) (*models.MediaRecord, error) {
	var rec models.MediaRecord
	err := s.db.WithContext(ctx).Where("original_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByID returns the record for a media id, or nil if none exists.
func (s *Store) FindByID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	var rec models.MediaRecord
	err := s.db.WithContext(ctx).Where("media_id = ?", mediaID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// KeyStates returns every catalog key mapped to its isActive flag, in one
// pass. This is the baseline comparison set for a reconciliation pass.
func (s *Store) KeyStates(ctx context.Context) (map[string]bool, error) {
	var rows []struct {
		OriginalKey string
		IsActive    bool
	}
	err := s.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Select("original_key", "is_active").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	states := make(map[string]bool, len(rows))
	for _, row := range rows {
		states[row.OriginalKey] = row.IsActive
	}
	return states, nil
}

// SetActiveByKey flips the isActive flag of the record for key, only if it
// currently differs. It reports whether a transition actually happened, so
// redelivered notifications and overlapping reconcile runs count a given
// transition exactly once. A missing key is a no-op, not an error.
func (s *Store) SetActiveByKey(ctx context.Context, key string, active bool) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Where("original_key = ? AND is_active = ?", key, !active).
		Update("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListActive returns all active records, oldest first. This is the read
// model the public gallery serves.
func (s *Store) ListActive(ctx context.Context) ([]models.MediaRecord, error) {
	var recs []models.MediaRecord
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, media_id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
