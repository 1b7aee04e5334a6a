package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"premium-gallery/internal/config"
	pg "premium-gallery/internal/infra/db/postgres"
	"premium-gallery/internal/infra/logging"
	"premium-gallery/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := logging.New(cfg.Log, true)
	galleryUC := usecase.NewGalleryUseCase(pg.NewPostgresImageRepo(pool), logger)

	inserted, err := galleryUC.Seed(ctx)
	if err != nil {
		log.Fatalf("seed images: %v", err)
	}
	if inserted == 0 {
		fmt.Println("gallery already seeded. No changes.")
		return
	}
	fmt.Printf("seeded %d images.\n", inserted)
}
