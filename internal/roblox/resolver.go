package roblox

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const defaultBatchSize = 100

// BatchLookup resolves one batch of asset IDs against the thumbnails API.
type BatchLookup interface {
	Lookup(ctx context.Context, assetIDs []string) ([]Thumbnail, error)
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// BatchSize caps the asset IDs per lookup. Values below 1 use the
	// API maximum of 100.
	BatchSize int
	// MaxRetries is how often an unresolved asset is retried before it is
	// recorded as failed. Zero means one attempt only.
	MaxRetries int
	// Delay is the minimum time between successive lookups. Zero or
	// negative disables pacing.
	Delay time.Duration
}

// Resolver drives batched lookups until every asset ID has a terminal
// outcome. Assets the service reports as non-terminal (or drops from a
// response) go to the back of a FIFO retry queue; queued retries are
// batched ahead of fresh IDs. An asset that stays unresolved past the
// retry ceiling is recorded as failed rather than retried forever.
type Resolver struct {
	lookup     BatchLookup
	limiter    *rate.Limiter
	batchSize  int
	maxRetries int
	logger     *slog.Logger
}

// NewResolver creates a Resolver over the given batch lookup.
func NewResolver(lookup BatchLookup, opts ResolverOptions, logger *slog.Logger) *Resolver {
	if opts.BatchSize < 1 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Resolver{
		lookup:     lookup,
		limiter:    rate.NewLimiter(limit, 1),
		batchSize:  opts.BatchSize,
		maxRetries: opts.MaxRetries,
		logger:     logger,
	}
}

// Resolve looks up every asset ID and returns a terminal outcome for each.
// The result map always covers the full input set; assets that never
// resolved are present with Resolved false. Lookup failures never abort the
// run, they count against the affected assets' retry budgets. The only
// error returned is a context error.
func (r *Resolver) Resolve(ctx context.Context, assetIDs []string) (map[string]Resolution, error) {
	results := make(map[string]Resolution, len(assetIDs))
	if len(assetIDs) == 0 {
		return results, nil
	}

	fresh := assetIDs
	retryQueue := make([]string, 0)
	retries := make(map[string]int)
	batchNum := 0

	for len(fresh) > 0 || len(retryQueue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Queued retries fill the batch first, fresh IDs top it up.
		batch := make([]string, 0, r.batchSize)
		n := min(len(retryQueue), r.batchSize)
		batch = append(batch, retryQueue[:n]...)
		retryQueue = retryQueue[n:]

		take := min(len(fresh), r.batchSize-len(batch))
		batch = append(batch, fresh[:take]...)
		fresh = fresh[take:]

		batchNum++
		r.logger.Info("fetching batch",
			"batch", batchNum,
			"retries", n,
			"fresh", len(batch)-n,
			"total", len(batch),
		)

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		// IDs that stay unresolved this round.
		var pending []string

		thumbs, err := r.lookup.Lookup(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("batch lookup failed",
				"batch", batchNum,
				"assets", len(batch),
				"error", err,
			)
			pending = batch
		} else {
			seen := make(map[string]Thumbnail, len(thumbs))
			for _, th := range thumbs {
				seen[th.AssetID] = th
			}

			for _, id := range batch {
				th, ok := seen[id]
				switch {
				case ok && th.State == StateCompleted:
					results[id] = Resolution{URL: th.ImageURL, Resolved: true}
					delete(retries, id)
				case ok:
					r.logger.Debug("thumbnail not ready",
						"asset", id,
						"state", th.State,
					)
					pending = append(pending, id)
				default:
					r.logger.Warn("no data returned for asset", "asset", id)
					pending = append(pending, id)
				}
			}
		}

		for _, id := range pending {
			retries[id]++
			if retries[id] > r.maxRetries {
				delete(retries, id)
				results[id] = Resolution{}
				r.logger.Warn("giving up on asset",
					"asset", id,
					"attempts", r.maxRetries+1,
				)
				continue
			}
			r.logger.Debug("asset queued for retry",
				"asset", id,
				"attempt", retries[id],
				"max", r.maxRetries,
			)
			retryQueue = append(retryQueue, id)
		}
	}

	return results, nil
}
