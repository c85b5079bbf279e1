package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"vet-chatter/internal/analytics"
	"vet-chatter/internal/storage"
)

// DailyReportSpec fires once a day at 21:00 UTC.
const DailyReportSpec = "0 21 * * *"

type EventLoader interface {
	LoadInteractions() ([]storage.Event, error)
}

// DailyReport returns a job that summarizes the current UTC day's
// interactions and hands the text to publish.
func DailyReport(events EventLoader, sessions func() int, now func() time.Time, publish func(string)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		all, err := events.LoadInteractions()
		if err != nil {
			return fmt.Errorf("failed to load interactions: %w", err)
		}
		stats := analytics.AnalyzeDay(all, now().UTC())
		if sessions != nil {
			stats.ActiveSessions = sessions()
		}
		publish(stats.Summary())
		return nil
	}
}

// LogReport publishes a report to the process log.
func LogReport(summary string) {
	log.Printf("📊 Daily report\n%s", summary)
}
