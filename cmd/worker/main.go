// The worker binary drains the pipeline queue without serving HTTP. Run it
// alongside cmd/api when processing should scale independently; the API also
// runs one worker in-process.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/aplusgen/aplus/config"
	"github.com/aplusgen/aplus/internal/bootstrap"
	"github.com/aplusgen/aplus/internal/pipeline"
	piperepo "github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	files, err := uploads.NewStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	worker := pipeline.NewWorker(piperepo.NewJobRepository(rdb), projects.NewRepo(db), files)
	worker.Run(ctx)
}
