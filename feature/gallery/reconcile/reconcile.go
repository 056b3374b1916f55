package reconcile

import (
	"context"
	"errors"
	"fmt"

	"gallery-manager/core/storage"
	"gallery-manager/feature/gallery/catalog"
	"gallery-manager/feature/gallery/mediakeys"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Summary is the outcome of one reconciliation pass. It is the full contract
// the job exposes to both the operator trigger and the scheduler.
type Summary struct {
	Created     int  `json:"created"`
	Reactivated int  `json:"reactivated"`
	Deactivated int  `json:"deactivated"`
	Skipped     bool `json:"skipped,omitempty"`
}

// Runner performs full-bucket reconciliation: it diffs the complete object
// listing against the catalog and converges the catalog onto it. It is the
// authority that heals any drift left by missed or malformed notifications.
type Runner struct {
	store   *catalog.Store
	client  storage.Client
	bucket  string
	prefix  string
	baseURL string
	enabled bool
	logger  *zap.Logger

	// group collapses concurrent triggers (scheduler tick racing an operator
	// run) into a single pass. Overlap would still converge, the mutations
	// are idempotent, but one listing walk is cheaper than two.
	group singleflight.Group
}

// NewRunner creates a reconciliation runner.
func NewRunner(store *catalog.Store, client storage.Client, bucket, prefix, baseURL string, enabled bool, logger *zap.Logger) *Runner {
	return &Runner{
		store:   store,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: baseURL,
		enabled: enabled,
		logger:  logger,
	}
}

// Run executes one reconciliation pass. When the gallery feature is
// administratively disabled it reports Skipped instead of touching anything.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if !r.enabled {
		return Summary{Skipped: true}, nil
	}

	v, err, _ := r.group.Do("full-scan", func() (any, error) {
		return r.run(ctx)
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

// run walks the full listing and applies transitions. The observed-key set
// is collected across the entire walk before any deactivation is computed:
// a key removed and re-added between listing pages must not be deactivated,
// and a listing that fails partway must never be read as "bucket is empty".
func (r *Runner) run(ctx context.Context) (Summary, error) {
	states, err := r.store.KeyStates(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load catalog key states: %w", err)
	}

	var sum Summary
	observed := make(map[string]struct{})

	listing := r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
		Prefix:    r.prefix,
		Recursive: true,
	})
	for obj := range listing {
		if obj.Err != nil {
			// Abort the whole pass: no deactivations below, so records
			// created or reactivated so far stand (non-destructive), but
			// nothing is torn down off an incomplete listing.
			return Summary{}, fmt.Errorf("bucket listing failed: %w", obj.Err)
		}

		mediaType, supported := mediakeys.Classify(obj.Key)
		if !supported {
			continue
		}
		observed[obj.Key] = struct{}{}

		active, known := states[obj.Key]
		switch {
		case !known:
			_, err := r.store.Allocate(ctx, catalog.NewMedia{
				Key:       obj.Key,
				URL:       mediakeys.PublicURL(r.baseURL, obj.Key),
				Type:      mediaType,
				SizeBytes: obj.Size,
			})
			if errors.Is(err, catalog.ErrDuplicateKey) {
				// The event handler registered it between our snapshot and
				// now. Converged already.
				r.logger.Debug("Key registered by concurrent writer", zap.String("key", obj.Key))
				continue
			}
			if err != nil {
				return Summary{}, fmt.Errorf("failed to allocate record for %s: %w", obj.Key, err)
			}
			sum.Created++
		case !active:
			changed, err := r.store.SetActiveByKey(ctx, obj.Key, true)
			if err != nil {
				return Summary{}, fmt.Errorf("failed to reactivate %s: %w", obj.Key, err)
			}
			if changed {
				sum.Reactivated++
			}
		}
	}

	// Listing complete; now and only now compute deactivations.
	for key, active := range states {
		if !active {
			continue
		}
		if _, ok := observed[key]; ok {
			continue
		}
		changed, err := r.store.SetActiveByKey(ctx, key, false)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to deactivate %s: %w", key, err)
		}
		if changed {
			sum.Deactivated++
		}
	}

	r.logger.Info("Reconciliation pass finished",
		zap.Int("created", sum.Created),
		zap.Int("reactivated", sum.Reactivated),
		zap.Int("deactivated", sum.Deactivated),
		zap.Int("observed", len(observed)),
	)
	return sum, nil
}
