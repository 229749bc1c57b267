package main

import (
	"context"
	"flag"
	"os"
	"time"

	"camrent/internal/bookings/catalog"
	"camrent/internal/bookings/repository"
	"camrent/internal/bookings/validator"
	"camrent/pkg/config"
)

const JobName = "catalog-seed"

func main() {
	cfg := config.Load(JobName)

	path := flag.String("file", cfg.CatalogFile, "YAML catalog of rental items")
	flag.Parse()

	items, err := catalog.LoadFile(*path)
	if err != nil {
		cfg.Log.Fatal("Failed to load catalog", "file", *path, "error", err)
	}

	cfg.SetMongo()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	seeder := catalog.NewSeeder(
		repository.NewMongoItemRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		cfg.Log,
	)
	sum, err := seeder.Seed(ctx, items)
	cancel()
	cfg.GracefulShutdown()

	if err != nil {
		cfg.Log.Error("Catalog seed failed", "file", *path, "error", err)
		os.Exit(1)
	}
	cfg.Log.Info("Catalog seed finished", "file", *path, "created", sum.Created, "updated", sum.Updated)
}
