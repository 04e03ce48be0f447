// Package main provides the thumbfetch tool, which enriches a vehicle
// catalog JSON document with Roblox thumbnail URLs.
//
// It scans every record's image reference fields for asset IDs, resolves
// them in batches against the Roblox thumbnails API, writes the URLs into
// sibling fields, and saves the document back in place.
//
// Usage:
//
//	thumbfetch -catalog ./cars.json
//	thumbfetch -catalog ./cars.json -dry-run
//	CATALOG_PATH=./cars.json thumbfetch -log-level debug
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/showroomapp/showroom-tools/internal/config"
	"github.com/showroomapp/showroom-tools/internal/enrich"
	"github.com/showroomapp/showroom-tools/internal/logger"
	"github.com/showroomapp/showroom-tools/internal/roblox"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	client := roblox.NewClient(roblox.ClientOptions{
		Size:    cfg.Thumbnails.Size,
		Format:  cfg.Thumbnails.Format,
		Timeout: cfg.Thumbnails.RequestTimeout,
	}, log.Logger)

	resolver := roblox.NewResolver(client, roblox.ResolverOptions{
		BatchSize:  cfg.Thumbnails.BatchSize,
		MaxRetries: cfg.Thumbnails.MaxRetries,
		Delay:      cfg.Thumbnails.RequestDelay,
	}, log.Logger)

	enricher := enrich.New(resolver, log.Logger)

	// Ctrl-C cancels the run; an interrupted run never replaces the document.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Enriching catalog: %s\n", cfg.Catalog.Path)
	if cfg.Catalog.DryRun {
		fmt.Println("Dry run: the document will not be modified")
	}

	result, err := enricher.Run(ctx, enrich.Options{
		CatalogPath: cfg.Catalog.Path,
		DryRun:      cfg.Catalog.DryRun,
	})
	if err != nil {
		log.WithError(err).Fatal("enrichment failed")
	}

	fmt.Printf("\n=== Enrichment Complete ===\n")
	fmt.Printf("Duration: %s\n", result.CompletedAt.Sub(result.StartedAt).Round(time.Millisecond))
	fmt.Printf("Records: %d\n", result.Records)
	fmt.Printf("References: %d\n", result.References)
	fmt.Printf("Unique assets: %d\n", result.UniqueAssets)
	fmt.Printf("Resolved: %d\n", result.Resolved)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Fields added: %d\n", result.FieldsAdded)

	if result.Failed > 0 {
		fmt.Printf("\n%d assets did not resolve; rerun later to retry them.\n", result.Failed)
	}
}
