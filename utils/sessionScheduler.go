package utils

import (
	"log"
	"time"

	"quizhub/database"
	"quizhub/metrics"
	"quizhub/services/session"

	"github.com/robfig/cron/v3"
)

func logScheduler(message string, args ...any) {
	log.Printf("[SESSION-SCHEDULER %s] "+message, append([]any{time.Now().Format(time.RFC3339)}, args...)...)
}

// sweepExpiredSessions abandons in-progress sessions past their time limit.
func sweepExpiredSessions() {
	n, err := session.AbandonExpired(database.Database.Db, time.Now().UTC())
	if err != nil {
		logScheduler("Error abandoning expired sessions: %v", err)
		return
	}
	if n > 0 {
		metrics.SessionsEnded.WithLabelValues("abandoned", "sweep").Add(float64(n))
		logScheduler("Abandoned %d expired sessions", n)
	}
}

// StartSessionScheduler registers the expired-session sweep on c.
func StartSessionScheduler(c *cron.Cron, spec string) error {
	if _, err := c.AddFunc(spec, sweepExpiredSessions); err != nil {
		return err
	}
	logScheduler("Expired session sweep scheduled: %s", spec)
	return nil
}

// InitializeSchedulers starts all background jobs and returns the running
// cron so the caller can stop it.
func InitializeSchedulers(spec string) *cron.Cron {
	logScheduler("Initializing schedulers...")

	c := cron.New(cron.WithLocation(time.UTC))
	if err := StartSessionScheduler(c, spec); err != nil {
		logScheduler("Invalid SESSION_SWEEP_SPEC %q: %v", spec, err)
	}
	c.Start()

	return c
}
