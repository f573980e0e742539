package internal

import (
	"log"

	"github.com/robfig/cron/v3"
)

const CRON_SCHEDULE_RELOAD = "*/30 * * * *" // Every 30 minutes

// StartCron periodically reloads the brand reference data so that edits to
// the files on disk are picked up without a restart.
func StartCron(holder *EngineHolder, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = CRON_SCHEDULE_RELOAD
	}

	c := cron.New()

	log.Printf("Starting CRON job to reload brand reference data (%s)", schedule)

	if _, err := c.AddFunc(schedule, func() {
		if err := holder.Reload(); err != nil {
			log.Printf("Error reloading brand reference data, keeping previous version: %v", err)
			return
		}
		log.Printf("Reloaded brand reference data")
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
