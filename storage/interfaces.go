package storage

import (
	"time"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

// Store is the persistence contract one monitored target's state lives
// behind. Every method takes the target's folder name; folders never share
// state. Implementations are not safe against concurrent invocations of the
// whole program on the same folder — the external scheduler must not overlap
// runs.
type Store interface {
	// LoadSnapshot returns the persisted listing set, or an empty set on
	// the first run for this folder.
	LoadSnapshot(folder string) ([]models.Listing, error)

	// SaveSnapshot replaces the persisted listing set wholesale.
	SaveSnapshot(folder string, listings []models.Listing) error

	// AppendActivity appends change records to the daily activity log.
	// A no-op on empty input.
	AppendActivity(folder string, records []models.ActivityRecord) error

	// AppendRemovals appends delisted residences to the removal audit
	// trail, each tagged with the wall-clock removal time.
	AppendRemovals(folder string, removed []models.Listing, removedAt time.Time) error

	// ActivityOn returns all activity records whose timestamp falls on the
	// given day ("2006-01-02").
	ActivityOn(folder string, day string) ([]models.ActivityRecord, error)

	// ReportEntries returns the full report send log.
	ReportEntries(folder string) ([]models.ReportEntry, error)

	// AppendReportEntry records one sent daily report.
	AppendReportEntry(folder string, entry models.ReportEntry) error
}
