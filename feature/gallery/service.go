package gallery

import (
	"context"
	"errors"

	"gallery-manager/core/storage"
	"gallery-manager/feature/gallery/catalog"
	"gallery-manager/feature/gallery/mediakeys"
	"gallery-manager/feature/gallery/models"
	"gallery-manager/feature/gallery/reconcile"
	"gallery-manager/feature/gallery/webhook"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service orchestrates the gallery: the public read model, the manual
// reconciliation trigger, and bucket event ingestion.
type Service struct {
	store  *catalog.Store
	client storage.Client
	bucket string
	cfg    Config
	runner *reconcile.Runner
	logger *zap.Logger
}

// NewService creates the gallery service.
func NewService(store *catalog.Store, client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		bucket: bucket,
		cfg:    cfg,
		runner: reconcile.NewRunner(store, client, bucket, cfg.Prefix, cfg.PublicBaseURL, cfg.Enabled, logger),
		logger: logger,
	}
}

// Runner exposes the reconciliation runner for the scheduler.
func (s *Service) Runner() *reconcile.Runner {
	return s.runner
}

// ListActive returns all published records, oldest first.
func (s *Service) ListActive(ctx context.Context) ([]models.MediaRecord, error) {
	return s.store.ListActive(ctx)
}

// GetByID returns the record for a media id, or nil if none exists.
func (s *Service) GetByID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	return s.store.FindByID(ctx, mediaID)
}

// RunReconciliation performs one full reconciliation pass.
func (s *Service) RunReconciliation(ctx context.Context) (reconcile.Summary, error) {
	return s.runner.Run(ctx)
}

// ProcessEvents applies bucket change notifications to the catalog. Per-event
// failures are logged and dropped; the next reconciliation pass heals them.
func (s *Service) ProcessEvents(ctx context.Context, events []webhook.Event) {
	if !s.cfg.Enabled {
		s.logger.Debug("Gallery disabled, dropping bucket events", zap.Int("count", len(events)))
		return
	}
	for _, ev := range events {
		if err := s.processEvent(ctx, ev); err != nil {
			s.logger.Error("Failed to process bucket event",
				zap.String("key", ev.Key),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
}

// processEvent applies one notification. Every branch is idempotent, so
// at-least-once delivery and races against the reconciliation job converge
// instead of corrupting the catalog.
func (s *Service) processEvent(ctx context.Context, ev webhook.Event) error {
	switch ev.Kind {
	case webhook.KindRemoved:
		changed, err := s.store.SetActiveByKey(ctx, ev.Key, false)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Info("Media deactivated by bucket event", zap.String("key", ev.Key))
		}
		return nil

	case webhook.KindCreated:
		return s.processCreated(ctx, ev)

	default:
		s.logger.Warn("Ignoring bucket event of unknown kind", zap.String("kind", string(ev.Kind)))
		return nil
	}
}

func (s *Service) processCreated(ctx context.Context, ev webhook.Event) error {
	rec, err := s.store.FindByKey(ctx, ev.Key)
	if err != nil {
		return err
	}
	if rec != nil {
		// Already registered: reactivate if needed, otherwise a redelivered
		// notification and a no-op.
		changed, err := s.store.SetActiveByKey(ctx, ev.Key, true)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Info("Media reactivated by bucket event",
				zap.String("key", ev.Key),
				zap.String("media_id", rec.MediaID),
			)
		}
		return nil
	}

	mediaType, supported := mediakeys.Classify(ev.Key)
	if !supported {
		s.logger.Debug("Ignoring unsupported object", zap.String("key", ev.Key))
		return nil
	}

	size, contentType := ev.Size, ""
	if size == 0 {
		// The flat notification shape carries no metadata; fetch it
		// best-effort. The fields are advisory, so a failed stat does not
		// block registration.
		if info, statErr := s.client.StatObject(ctx, s.bucket, ev.Key, minio.StatObjectOptions{}); statErr == nil {
			size = info.Size
			contentType = info.ContentType
		}
	}

	newRec, err := s.store.Allocate(ctx, catalog.NewMedia{
		Key:         ev.Key,
		URL:         mediakeys.PublicURL(s.cfg.PublicBaseURL, ev.Key),
		Type:        mediaType,
		SizeBytes:   size,
		ContentType: contentType,
	})
	if errors.Is(err, catalog.ErrDuplicateKey) {
		// A concurrent writer registered the key first. The notification
		// asserts the object exists now, so converge by reactivating.
		_, err := s.store.SetActiveByKey(ctx, ev.Key, true)
		return err
	}
	if err != nil {
		return err
	}

	s.logger.Info("Media published by bucket event",
		zap.String("key", ev.Key),
		zap.String("media_id", newRec.MediaID),
	)
	return nil
}
