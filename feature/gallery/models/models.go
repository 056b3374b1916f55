package models

import "time"

// MediaType classifies a published media item.
type MediaType string

const (
	// MediaTypeImage marks still images (jpg, png, webp, gif, avif).
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo marks videos (mp4, webm, mov).
	MediaTypeVideo MediaType = "video"
)

// MediaRecord is the catalog row for one published media item.
//
// MediaID and OriginalKey both carry unique indexes; those indexes are the
// only synchronization primitive between the reconciliation job and the
// event ingest path, so they must exist on any target database.
type MediaRecord struct {
	// MediaID is the permanent, zero-padded 5-digit public identifier.
	// It never changes and is never reused, even across deactivation cycles.
	MediaID string `gorm:"column:media_id;type:char(5);primaryKey" json:"id"`

	// OriginalKey is the bucket key the record was created from.
	// A key has at most one record, ever.
	OriginalKey string `gorm:"column:original_key;type:varchar(512);uniqueIndex:uq_media_records_original_key;not null" json:"original_key"`

	// URL is the publicly resolvable address of the object.
	URL string `gorm:"column:url;type:varchar(1024);not null" json:"url"`

	// MediaType is derived once from the key's extension and never changes.
	MediaType MediaType `gorm:"column:media_type;type:varchar(8);not null" json:"media_type"`

	// SizeBytes and ContentType are advisory metadata.
	SizeBytes   int64  `gorm:"column:size_bytes" json:"size_bytes,omitempty"`
	ContentType string `gorm:"column:content_type;type:varchar(128)" json:"content_type,omitempty"`

	// IsActive is the soft-delete flag. A record whose backing object
	// disappeared is deactivated, never deleted; if the object reappears
	// under the same key the record is reactivated with the same MediaID.
	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	// CreatedAt is set once at insertion.
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the table name.
func (MediaRecord) TableName() string {
	return "media_records"
}
