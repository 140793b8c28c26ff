package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/aplusgen/aplus/config"
	"github.com/aplusgen/aplus/internal/auth"
	"github.com/aplusgen/aplus/internal/bootstrap"
	"github.com/aplusgen/aplus/internal/pipeline"
	cronjob "github.com/aplusgen/aplus/internal/pipeline/cron"
	piperepo "github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := bootstrap.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	files, err := uploads.NewStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLDays)*24*time.Hour)

	jobRepo := piperepo.NewJobRepository(rdb)
	worker := pipeline.NewWorker(jobRepo, projects.NewRepo(db), files)
	go worker.Run(ctx)

	scheduler := cronjob.NewScheduler(jobRepo)
	scheduler.Start()
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "aplus-api",
		Version:     cfg.App.Version,
		BaseURL:     cfg.Server.BaseURL,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          db,
		Redis:       rdb,
		Issuer:      issuer,
		Files:       files,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
