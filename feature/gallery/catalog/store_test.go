package catalog

import (
	"context"
	"testing"

	"gallery-manager/core/database"
	"gallery-manager/feature/gallery/models"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}

	store := NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func TestInsertAndFind(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := &models.MediaRecord{
		MediaID:     "00042",
		OriginalKey: "gallery/a.jpg",
		URL:         "https://cdn.example.com/gallery/a.jpg",
		MediaType:   models.MediaTypeImage,
		IsActive:    true,
	}
	assert.NoError(t, store.Insert(ctx, rec))

	found, err := store.FindByKey(ctx, "gallery/a.jpg")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, "00042", found.MediaID)
	assert.True(t, found.IsActive)

	byID, err := store.FindByID(ctx, "00042")
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, "gallery/a.jpg", byID.OriginalKey)

	missing, err := store.FindByKey(ctx, "gallery/missing.jpg")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertDuplicateClassification(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := &models.MediaRecord{
		MediaID:     "00001",
		OriginalKey: "gallery/a.jpg",
		URL:         "u",
		MediaType:   models.MediaTypeImage,
		IsActive:    true,
	}
	assert.NoError(t, store.Insert(ctx, first))

	t.Run("DuplicateKey", func(t *testing.T) {
		dup := &models.MediaRecord{
			MediaID:     "00002",
			OriginalKey: "gallery/a.jpg",
			URL:         "u",
			MediaType:   models.MediaTypeImage,
			IsActive:    true,
		}
		err := store.Insert(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		dup := &models.MediaRecord{
			MediaID:     "00001",
			OriginalKey: "gallery/b.jpg",
			URL:         "u",
			MediaType:   models.MediaTypeImage,
			IsActive:    true,
		}
		err := store.Insert(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicateID)
	})
}

func TestSetActiveByKey(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := &models.MediaRecord{
		MediaID:     "00010",
		OriginalKey: "gallery/a.jpg",
		URL:         "u",
		MediaType:   models.MediaTypeImage,
		IsActive:    true,
	}
	assert.NoError(t, store.Insert(ctx, rec))

	// Deactivation flips the flag exactly once.
	changed, err := store.SetActiveByKey(ctx, "gallery/a.jpg", false)
	assert.NoError(t, err)
	assert.True(t, changed)

	// Second deactivation is a no-op.
	changed, err = store.SetActiveByKey(ctx, "gallery/a.jpg", false)
	assert.NoError(t, err)
	assert.False(t, changed)

	// Reactivation keeps the same identifier.
	changed, err = store.SetActiveByKey(ctx, "gallery/a.jpg", true)
	assert.NoError(t, err)
	assert.True(t, changed)

	found, err := store.FindByKey(ctx, "gallery/a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "00010", found.MediaID)
	assert.True(t, found.IsActive)

	// Unknown key is a no-op, not an error.
	changed, err = store.SetActiveByKey(ctx, "gallery/unknown.jpg", false)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestKeyStatesAndListActive(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	records := []*models.MediaRecord{
		{MediaID: "00001", OriginalKey: "gallery/a.jpg", URL: "u", MediaType: models.MediaTypeImage, IsActive: true},
		{MediaID: "00002", OriginalKey: "gallery/b.mp4", URL: "u", MediaType: models.MediaTypeVideo, IsActive: true},
		{MediaID: "00003", OriginalKey: "gallery/c.png", URL: "u", MediaType: models.MediaTypeImage, IsActive: false},
	}
	for _, rec := range records {
		assert.NoError(t, store.Insert(ctx, rec))
	}

	states, err := store.KeyStates(ctx)
	assert.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"gallery/a.jpg": true,
		"gallery/b.mp4": true,
		"gallery/c.png": false,
	}, states)

	active, err := store.ListActive(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 2)
	for _, rec := range active {
		assert.True(t, rec.IsActive)
	}
}

// MySQL reports duplicates as error 1062 with the constraint name in the
// message; verify the classification sees through the driver error type.
func TestClassifyInsertError_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	store := NewStore(gormDB)

	t.Run("KeyConstraint", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `media_records`").WillReturnError(&gomysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'gallery/a.jpg' for key 'media_records.uq_media_records_original_key'",
		})
		mock.ExpectRollback()

		err := store.Insert(context.Background(), &models.MediaRecord{
			MediaID: "00001", OriginalKey: "gallery/a.jpg", URL: "u",
			MediaType: models.MediaTypeImage, IsActive: true,
		})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("IDConstraint", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `media_records`").WillReturnError(&gomysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '00001' for key 'media_records.PRIMARY'",
		})
		mock.ExpectRollback()

		err := store.Insert(context.Background(), &models.MediaRecord{
			MediaID: "00001", OriginalKey: "gallery/b.jpg", URL: "u",
			MediaType: models.MediaTypeImage, IsActive: true,
		})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})
}
