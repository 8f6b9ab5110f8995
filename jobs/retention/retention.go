// Package retention owns the lifecycle tail of order records: filled
// and cancelled orders stay queryable in the book until this job
// archives them to the pebble store and purges them from the lookup.
// The sweep interval is the retention grace period.
package retention

import (
	"context"
	"log"
	"time"

	"matchbook/service"
)

type Job struct {
	svc      *service.EngineService
	interval time.Duration
}

func New(svc *service.EngineService, interval time.Duration) *Job {
	return &Job{svc: svc, interval: interval}
}

func (j *Job) Start(ctx context.Context) {
	log.Println("[retention] started")

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := j.svc.SweepTerminal(); n > 0 {
					log.Printf("[retention] archived %d terminal orders", n)
				}
			}
		}
	}()
}
