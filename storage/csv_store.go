package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

// File names of the per-folder state tables.
const (
	snapshotFile = "available_residences.csv"
	removalsFile = "removed_residences_log.csv"
	activityFile = "daily_activity_log.csv"
	reportFile   = "report_log.csv"
)

var (
	snapshotHeader = []string{"name", "price", "address", "details", "link"}
	removalsHeader = []string{"name", "price", "address", "details", "link", "removed_timestamp"}
	activityHeader = []string{"timestamp", "status", "name", "price", "address", "details", "link"}
	reportHeader   = []string{"sent_date", "sent_time"}
)

// removedAtLayout matches the removal log's human-readable timestamp column.
const removedAtLayout = "2006-01-02 15:04:05 MST"

// CSVStore persists each target's state as flat CSV tables under
// root/<folder>/. Logs are append-only and grow without bound.
type CSVStore struct {
	root string
}

// NewCSVStore creates a store rooted at the given data directory.
// Intermediate directories are created lazily on first write.
func NewCSVStore(root string) *CSVStore {
	return &CSVStore{root: root}
}

// LoadSnapshot reads the persisted listing set. A missing file means this is
// the first run for the folder and is not an error.
func (s *CSVStore) LoadSnapshot(folder string) ([]models.Listing, error) {
	rows, err := s.readTable(folder, snapshotFile)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		listings = append(listings, models.Listing{
			Name:    row[0],
			Price:   row[1],
			Address: row[2],
			Details: row[3],
			Link:    row[4],
		})
	}
	return listings, nil
}

// SaveSnapshot replaces the snapshot table with the full current set. The
// new table is written to a temp file and renamed into place so a crash
// mid-write never leaves a truncated snapshot.
func (s *CSVStore) SaveSnapshot(folder string, listings []models.Listing) error {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: create folder %q: %w", dir, err)
	}

	tmp := filepath.Join(dir, snapshotFile+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("store: create temp snapshot: %w", err)
	}

	w := csv.NewWriter(f)
	rows := [][]string{snapshotHeader}
	for _, l := range listings {
		rows = append(rows, []string{l.Name, l.Price, l.Address, l.Details, l.Link})
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp, filepath.Join(dir, snapshotFile)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: replace snapshot: %w", err)
	}
	return nil
}

// AppendActivity appends change records to the daily activity log, creating
// the table with its header on first use.
func (s *CSVStore) AppendActivity(folder string, records []models.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339),
			r.Status,
			r.Listing.Name,
			r.Listing.Price,
			r.Listing.Address,
			r.Listing.Details,
			r.Listing.Link,
		})
	}
	return s.appendRows(folder, activityFile, activityHeader, rows)
}

// AppendRemovals appends delisted residences to the removal audit trail.
func (s *CSVStore) AppendRemovals(folder string, removed []models.Listing, removedAt time.Time) error {
	if len(removed) == 0 {
		return nil
	}

	stamp := removedAt.Format(removedAtLayout)
	rows := make([][]string, 0, len(removed))
	for _, l := range removed {
		rows = append(rows, []string{l.Name, l.Price, l.Address, l.Details, l.Link, stamp})
	}
	return s.appendRows(folder, removalsFile, removalsHeader, rows)
}

// ActivityOn returns the activity records logged on the given day
// ("2006-01-02"). Timestamps are matched by date prefix, so the comparison
// stays in the zone the records were written with. Rows whose timestamp
// does not parse are skipped, like rows with too few columns.
func (s *CSVStore) ActivityOn(folder string, day string) ([]models.ActivityRecord, error) {
	rows, err := s.readTable(folder, activityFile)
	if err != nil {
		return nil, err
	}

	var records []models.ActivityRecord
	for _, row := range rows {
		if len(row) < 7 || !strings.HasPrefix(row[0], day) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			continue
		}
		records = append(records, models.ActivityRecord{
			Timestamp: ts,
			Status:    row[1],
			Listing: models.Listing{
				Name:    row[2],
				Price:   row[3],
				Address: row[4],
				Details: row[5],
				Link:    row[6],
			},
		})
	}
	return records, nil
}

// ReportEntries returns every recorded report send. A missing log means no
// report has ever been sent for this folder.
func (s *CSVStore) ReportEntries(folder string) ([]models.ReportEntry, error) {
	rows, err := s.readTable(folder, reportFile)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ReportEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		entries = append(entries, models.ReportEntry{SentDate: row[0], SentTime: row[1]})
	}
	return entries, nil
}

// AppendReportEntry records one sent daily report.
func (s *CSVStore) AppendReportEntry(folder string, entry models.ReportEntry) error {
	return s.appendRows(folder, reportFile, reportHeader, [][]string{{entry.SentDate, entry.SentTime}})
}

// readTable reads all data rows of a table, skipping the header. A missing
// file yields no rows and no error.
func (s *CSVStore) readTable(folder, name string) ([][]string, error) {
	path := filepath.Join(s.root, folder, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// appendRows appends data rows to a table, writing the header first if the
// table does not exist yet.
func (s *CSVStore) appendRows(folder, name string, header []string, rows [][]string) error {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: create folder %q: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("store: open %q for append: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("store: write header of %q: %w", path, err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("store: append to %q: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
