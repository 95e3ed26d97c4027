package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StartStatsSnapshots schedules AssessmentService.Snapshot on a cron
// expression. The caller stops the returned scheduler on shutdown.
func StartStatsSnapshots(spec string, svc *AssessmentService, log *slog.Logger) (*cron.Cron, error) {
	log = log.With("component", "stats-snapshot")

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := svc.Snapshot(ctx)
		if err != nil {
			log.Error("snapshot failed", "written", n, "error", err)
			return
		}
		log.Info("snapshot taken", "questionnaires", n)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
