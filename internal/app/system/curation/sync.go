package curation

import (
	"context"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SyncConfig bounds one tribe sync.
type SyncConfig struct {
	BatchSize  int
	MaxBatches int
	MinScore   float64
	Pause      time.Duration
}

// DefaultSyncConfig returns the production sync limits.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{BatchSize: 20, MaxBatches: 10, MinScore: 0.6, Pause: 500 * time.Millisecond}
}

// ProductSource pages through the catalog in a stable order.
type ProductSource interface {
	Window(ctx context.Context, offset, limit int64) ([]models.Product, int64, error)
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	Processed     int                  `json:"totalProcessed"`
	ProductIDs    []primitive.ObjectID `json:"-"`
	Batches       int                  `json:"batches"`
	FailedBatches int                  `json:"failedBatches"`
}

// Sync walks the catalog in batches and collects the ids of products
// scoring at least cfg.MinScore, deduplicated in discovery order. A batch
// whose classification fails is logged and skipped. Catalog read errors
// end the run.
func (c *Classifier) Sync(ctx context.Context, src ProductSource, tribe TribeBrief, cfg SyncConfig) (SyncResult, error) {
	res := SyncResult{ProductIDs: []primitive.ObjectID{}}
	if !c.Configured() {
		return res, ErrNotConfigured
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSyncConfig().BatchSize
	}
	seen := make(map[primitive.ObjectID]bool)

	for batch := 0; batch < cfg.MaxBatches; batch++ {
		offset := int64(batch * cfg.BatchSize)
		products, total, err := src.Window(ctx, offset, int64(cfg.BatchSize))
		if err != nil {
			return res, err
		}
		if len(products) == 0 {
			break
		}
		res.Batches++

		bctx, cancel := timeouts.WithTimeout(ctx, timeouts.AI(), c.log, "ai classify batch")
		results, err := c.Classify(bctx, tribe, products)
		cancel()
		if err != nil {
			res.FailedBatches++
			if c.log != nil {
				c.log.Warn("AI classification failed for batch",
					zap.String("tribe", tribe.Name), zap.Int("batch", batch), zap.Error(err))
			}
		} else {
			res.Processed += len(results)
			for _, r := range results {
				if r.Score >= cfg.MinScore && !seen[r.Product.ID] {
					seen[r.Product.ID] = true
					res.ProductIDs = append(res.ProductIDs, r.Product.ID)
				}
			}
		}

		if offset+int64(len(products)) >= total || batch == cfg.MaxBatches-1 {
			break
		}
		if cfg.Pause > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(cfg.Pause):
			}
		}
	}
	return res, nil
}
