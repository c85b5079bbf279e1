package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vet-chatter/internal/storage"
)

// DailyStats aggregates relay events for one UTC day.
type DailyStats struct {
	Date           string         `json:"date"`
	TotalRequests  int            `json:"total_requests"`
	Failed         int            `json:"failed"`
	UniqueSessions int            `json:"unique_sessions"`
	ByLanguage     map[string]int `json:"by_language"`
	TotalTokens    int            `json:"total_tokens"`

	// ActiveSessions is filled by the caller from the live transcript store.
	ActiveSessions int `json:"active_sessions"`
}

// AnalyzeDay counts events that happened on the day of targetDate.
func AnalyzeDay(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:       startOfDay.Format("2006-01-02"),
		ByLanguage: make(map[string]int),
	}
	sessions := make(map[string]bool)

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		stats.TotalRequests++
		if ev.Failed() {
			stats.Failed++
		}
		sessions[ev.SessionID] = true
		stats.ByLanguage[ev.Lang]++
		stats.TotalTokens += ev.TotalTokens
	}

	stats.UniqueSessions = len(sessions)
	return stats
}

// Summary renders the stats as a short plain-text report.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- requests: %d (failed: %d)\n", ds.TotalRequests, ds.Failed)
	fmt.Fprintf(&b, "- sessions: %d (active now: %d)\n", ds.UniqueSessions, ds.ActiveSessions)
	fmt.Fprintf(&b, "- tokens: %d\n", ds.TotalTokens)

	langs := make([]string, 0, len(ds.ByLanguage))
	for l := range ds.ByLanguage {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Fprintf(&b, "- %s: %d\n", l, ds.ByLanguage[l])
	}
	return b.String()
}
