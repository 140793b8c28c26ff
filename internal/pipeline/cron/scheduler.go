package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aplusgen/aplus/internal/pipeline/repository"
)

// keep finished job records around for a day before the nightly purge
const finishedRetention = 24 * time.Hour

type Scheduler struct {
	jobs *repository.JobRepository
	cron *cron.Cron
}

func NewScheduler(jobs *repository.JobRepository) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Start schedules the nightly purge of finished pipeline jobs (12:00 AM).
func (s *Scheduler) Start() {
	s.cron = cron.New()

	_, err := s.cron.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := s.jobs.PurgeFinished(ctx, finishedRetention)
		if err != nil {
			log.Printf("nightly job purge failed: %v", err)
			return
		}
		log.Printf("nightly job purge removed %d finished jobs", n)
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (purging finished jobs nightly at 12:00AM)")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
