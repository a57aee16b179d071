// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper is the part of the session store the job needs.
type Sweeper interface {
	Sweep() int
}

// StartSessionSweeper schedules store.Sweep every interval and starts the
// scheduler.  The caller shuts it down on exit.
func StartSessionSweeper(store Sweeper, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := store.Sweep(); n > 0 {
				log.Printf("session-sweeper: discarded %d idle sessions", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	log.Printf("session-sweeper: started (every %s)", interval)
	return s, nil
}
