package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// TokenCleaner deletes expired refresh tokens and reports how many went
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// TokenCleanupJob purges expired refresh tokens on a cron schedule
type TokenCleanupJob struct {
	cron     *cron.Cron
	cleaner  TokenCleaner
	schedule string
}

// NewTokenCleanupJob creates a new cleanup job for the given cron spec (e.g. "@daily")
func NewTokenCleanupJob(cleaner TokenCleaner, schedule string) *TokenCleanupJob {
	return &TokenCleanupJob{
		cron:     cron.New(),
		cleaner:  cleaner,
		schedule: schedule,
	}
}

// Start registers the job and starts the scheduler
func (j *TokenCleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("🚀 Token cleanup job started (%s)", j.schedule)
	return nil
}

// Stop waits for a running cleanup to finish or ctx to expire
func (j *TokenCleanupJob) Stop(ctx context.Context) error {
	select {
	case <-j.cron.Stop().Done():
		log.Println("🛑 Token cleanup job stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single cleanup pass
func (j *TokenCleanupJob) RunOnce(ctx context.Context) {
	deleted, err := j.cleaner.CleanupExpiredTokens(ctx)
	if err != nil {
		log.Printf("❌ Error cleaning up expired refresh tokens: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Removed %d expired refresh tokens", deleted)
	}
}
