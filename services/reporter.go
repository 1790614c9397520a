package services

import (
	"fmt"
	"time"

	"github.com/jabrane-me/crous-bot-notifier/models"
	"github.com/jabrane-me/crous-bot-notifier/storage"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

const dayLayout = "2006-01-02"

// ReportWindow is the fixed daily interval during which the consolidated
// report may go out, evaluated against the reference clock.
type ReportWindow struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Contains reports whether the wall-clock time of day of now falls inside
// the window (inclusive on both ends).
func (w ReportWindow) Contains(now time.Time) bool {
	minutes := now.Hour()*60 + now.Minute()
	start := w.StartHour*60 + w.StartMinute
	end := w.EndHour*60 + w.EndMinute
	return minutes >= start && minutes <= end
}

// ReportGate decides whether the daily report is due. It only reads
// persisted state; nothing is marked sent until the caller confirms a
// successful delivery through RecordSent. Calling ShouldSend any number of
// times before that keeps returning true, which is what makes repeated
// scheduler invocations safe.
type ReportGate struct {
	store  storage.Store
	logger *utils.Logger
}

// NewReportGate creates a gate over the given store.
func NewReportGate(store storage.Store, logger *utils.Logger) *ReportGate {
	return &ReportGate{store: store, logger: logger}
}

// ShouldSend reports whether the daily report for the target is due at now:
// reports enabled, now inside the window, and no send recorded for today.
func (g *ReportGate) ShouldSend(target models.Target, now time.Time, window ReportWindow) (bool, error) {
	if !target.Reports {
		return false, nil
	}
	if !window.Contains(now) {
		g.logger.Debug("[report] %s: outside report window (%s)", target.Folder, now.Format("15:04:05"))
		return false, nil
	}

	entries, err := g.store.ReportEntries(target.Folder)
	if err != nil {
		return false, fmt.Errorf("report gate: %w", err)
	}

	today := now.Format(dayLayout)
	for _, e := range entries {
		if e.SentDate == today {
			g.logger.Debug("[report] %s: already sent today (%s %s)", target.Folder, e.SentDate, e.SentTime)
			return false, nil
		}
	}
	return true, nil
}

// RecordSent appends today's send to the report log. Callers invoke it
// strictly after a successful delivery; a failed send leaves the log
// untouched so the next invocation inside the window retries.
func (g *ReportGate) RecordSent(target models.Target, now time.Time) error {
	entry := models.ReportEntry{
		SentDate: now.Format(dayLayout),
		SentTime: now.Format("15:04:05"),
	}
	if err := g.store.AppendReportEntry(target.Folder, entry); err != nil {
		return fmt.Errorf("report gate: %w", err)
	}
	return nil
}
