package planrepo

import (
	"context"
	"time"

	"github.com/dagframe/dagframe/pkg/compression"
	planerrors "github.com/dagframe/dagframe/pkg/errors"
	"github.com/dagframe/dagframe/pkg/utils"
	"gorm.io/gorm"
)

// PlanCacheRepository stores and retrieves tokenized graph fragments
// (spec.md §4.10) so repeated plans for the same inputs can be served from
// cache instead of re-planned.
type PlanCacheRepository interface {
	Get(ctx context.Context, token string) ([]byte, bool, error)
	Put(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
	Purge(ctx context.Context) (int64, error)
}

type gormPlanCacheRepository struct {
	db         *gorm.DB
	compressor compression.Compressor
	clock      utils.Clock
}

// NewGormPlanCacheRepository builds a GORM-backed PlanCacheRepository,
// adapted from the teacher's NewGormTaskRepository constructor shape.
func NewGormPlanCacheRepository(db *gorm.DB, compressor compression.Compressor, clock utils.Clock) PlanCacheRepository {
	if compressor == nil {
		compressor = compression.Default()
	}
	if clock == nil {
		clock = utils.NewRealClock()
	}
	return &gormPlanCacheRepository{db: db, compressor: compressor, clock: clock}
}

// Get returns the cached payload for token, decompressing it first. It
// reports (nil, false, nil) on a miss or an expired entry, rather than
// treating either as an error.
func (r *gormPlanCacheRepository) Get(ctx context.Context, token string) ([]byte, bool, error) {
	var entry PlanCacheEntry
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, planerrors.Wrap("plan_cache_get", "failed to query plan cache", err)
	}

	if r.clock.Expired(entry.ExpiresAt) {
		_ = r.Delete(ctx, token)
		return nil, false, nil
	}

	payload := entry.Payload
	if entry.Compressed {
		payload, err = r.compressor.Decompress(payload)
		if err != nil {
			return nil, false, planerrors.Wrap("plan_cache_decompress", "failed to decompress cached fragment", err)
		}
	}
	return payload, true, nil
}

// Put upserts token's fragment payload, compressing it and stamping an
// expiry ttl out from the repository's clock.
func (r *gormPlanCacheRepository) Put(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	compressed, err := r.compressor.Compress(payload)
	if err != nil {
		return planerrors.Wrap("plan_cache_compress", "failed to compress fragment", err)
	}

	entry := PlanCacheEntry{
		Token:      token,
		Payload:    compressed,
		Compressed: true,
		ExpiresAt:  r.clock.Now().Add(ttl),
	}

	err = r.db.WithContext(ctx).
		Where("token = ?", token).
		Assign(PlanCacheEntry{Payload: entry.Payload, Compressed: entry.Compressed, ExpiresAt: entry.ExpiresAt}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return planerrors.Wrap("plan_cache_put", "failed to upsert plan cache entry", err)
	}
	return nil
}

// Delete removes token's cache entry, if any.
func (r *gormPlanCacheRepository) Delete(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&PlanCacheEntry{}).Error
	if err != nil {
		return planerrors.Wrap("plan_cache_delete", "failed to delete plan cache entry", err)
	}
	return nil
}

// Purge deletes every expired entry and reports how many rows were removed.
func (r *gormPlanCacheRepository) Purge(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).Where("expires_at < ?", r.clock.Now()).Delete(&PlanCacheEntry{})
	if tx.Error != nil {
		return 0, planerrors.Wrap("plan_cache_purge", "failed to purge expired entries", tx.Error)
	}
	return tx.RowsAffected, nil
}
