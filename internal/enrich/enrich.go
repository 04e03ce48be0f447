// Package enrich orchestrates a catalog enrichment run: load the document,
// collect asset references, resolve them against the thumbnails API, merge
// the URLs back in, and write the document out.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/showroomapp/showroom-tools/internal/catalog"
	"github.com/showroomapp/showroom-tools/internal/roblox"
)

// AssetResolver resolves asset IDs to thumbnail URLs.
type AssetResolver interface {
	Resolve(ctx context.Context, assetIDs []string) (map[string]roblox.Resolution, error)
}

// Options configures an enrichment run.
type Options struct {
	CatalogPath string
	DryRun      bool
}

// Result represents the outcome of an enrichment run.
type Result struct {
	StartedAt    time.Time
	CompletedAt  time.Time
	Records      int
	References   int
	UniqueAssets int
	Resolved     int
	Failed       int
	FieldsAdded  int
}

// Enricher runs the enrichment pipeline against a catalog document.
type Enricher struct {
	resolver AssetResolver
	logger   *slog.Logger
}

// New creates a new enricher instance.
func New(resolver AssetResolver, logger *slog.Logger) *Enricher {
	return &Enricher{
		resolver: resolver,
		logger:   logger,
	}
}

// Run enriches the catalog at opts.CatalogPath and saves the result back to
// the same path (unless DryRun is set). Assets that fail to resolve are
// counted in the result but do not fail the run; only load, save, and
// context errors do.
func (e *Enricher) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		StartedAt: time.Now(),
	}

	cat, err := catalog.Load(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	refs := cat.CollectReferences()

	result.Records = len(cat)
	result.UniqueAssets = len(refs)
	for _, occurrences := range refs {
		result.References += len(occurrences)
	}

	e.logger.Info("catalog loaded",
		"path", opts.CatalogPath,
		"records", result.Records,
		"references", result.References,
		"assets", result.UniqueAssets,
	)

	if result.UniqueAssets == 0 {
		result.CompletedAt = time.Now()
		e.logger.Info("no asset references found - nothing to do")
		return result, nil
	}

	resolutions, err := e.resolver.Resolve(ctx, catalog.SortedAssetIDs(refs))
	if err != nil {
		return nil, fmt.Errorf("resolve thumbnails: %w", err)
	}

	for _, res := range resolutions {
		if res.Resolved {
			result.Resolved++
		} else {
			result.Failed++
		}
	}

	result.FieldsAdded = cat.MergeThumbnails(refs, resolutions)

	if opts.DryRun {
		result.CompletedAt = time.Now()
		e.logger.Info("dry run mode - skipping catalog write")
		return result, nil
	}

	if err := cat.Save(opts.CatalogPath); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}

	result.CompletedAt = time.Now()
	e.logger.Info("enrichment complete",
		"duration", result.CompletedAt.Sub(result.StartedAt),
		"resolved", result.Resolved,
		"failed", result.Failed,
		"fieldsAdded", result.FieldsAdded,
	)

	return result, nil
}
