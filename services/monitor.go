package services

import (
	"fmt"
	"time"

	"github.com/jabrane-me/crous-bot-notifier/config"
	"github.com/jabrane-me/crous-bot-notifier/models"
	"github.com/jabrane-me/crous-bot-notifier/notify"
	"github.com/jabrane-me/crous-bot-notifier/storage"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

// alertTitle heads the immediate alert e-mail body.
const alertTitle = "Alerte Immédiate"

// Fetcher produces the current listing set for a search page URL.
type Fetcher interface {
	Fetch(url string) ([]models.Listing, error)
}

// Monitor runs one full invocation over the configured targets: fetch, diff
// against the persisted snapshot, alert, persist, and decide on the daily
// report. Each invocation is run-to-completion with no in-memory state
// carried over — all coordination between runs goes through the store.
type Monitor struct {
	fetcher  Fetcher
	store    storage.Store
	notifier notify.Notifier
	pricer   *PriceParser
	composer *Composer
	gate     *ReportGate
	window   ReportWindow
	now      func() time.Time
	logger   *utils.Logger
}

// NewMonitor wires a Monitor. A nil now falls back to the wall clock in the
// reference zone; tests inject a fixed clock.
func NewMonitor(
	fetcher Fetcher,
	store storage.Store,
	notifier notify.Notifier,
	logger *utils.Logger,
	window ReportWindow,
	now func() time.Time,
) *Monitor {
	if now == nil {
		now = func() time.Time { return time.Now().In(config.ReferenceZone) }
	}
	pricer := NewPriceParser(logger)
	return &Monitor{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		pricer:   pricer,
		composer: NewComposer(pricer),
		gate:     NewReportGate(store, logger),
		window:   window,
		now:      now,
		logger:   logger,
	}
}

// Run processes every target sequentially. One target's failure never stops
// the others. It returns the fresh listing set per target folder for targets
// whose fetch succeeded, for downstream reporting such as insights.
func (m *Monitor) Run(targets []models.Target) map[string][]models.Listing {
	results := make(map[string][]models.Listing, len(targets))
	for _, target := range targets {
		m.logger.Info("[monitor] Checking %s (%s)", target.Name, target.URL)
		current, err := m.processTarget(target)
		if err != nil {
			m.logger.Error("[monitor] %s: %v — continuing with next target", target.Name, err)
			continue
		}
		if current != nil {
			results[target.Folder] = current
		}
	}
	return results
}

// processTarget runs the per-target state machine. Fetch failure abandons
// change detection for this run and falls through to the report check;
// storage failures abort this target only.
func (m *Monitor) processTarget(target models.Target) ([]models.Listing, error) {
	now := m.now()

	current, fetchErr := m.fetcher.Fetch(target.URL)
	if fetchErr != nil {
		m.logger.Warn("[monitor] %s: fetch failed: %v — skipping change detection this run", target.Name, fetchErr)
	} else {
		if err := m.detectChanges(target, current, now); err != nil {
			return nil, err
		}
	}

	if err := m.maybeSendReport(target, current, fetchErr != nil, now); err != nil {
		return nil, err
	}

	if fetchErr != nil {
		return nil, nil
	}
	return current, nil
}

// detectChanges diffs the fresh snapshot against the persisted one and, on
// any change, alerts (best-effort) and persists the new state. The alert
// channel and the state channel are independent: a failed e-mail never
// blocks persistence.
func (m *Monitor) detectChanges(target models.Target, current []models.Listing, now time.Time) error {
	previous, err := m.store.LoadSnapshot(target.Folder)
	if err != nil {
		return fmt.Errorf("monitor: load snapshot: %w", err)
	}

	delta := Diff(current, previous)
	if delta.Empty() {
		m.logger.Info("[monitor] %s: no changes since last run", target.Name)
		return nil
	}

	m.logger.Info("[monitor] %s: change detected — %d added, %d removed",
		target.Name, len(delta.Added), len(delta.Removed))

	if target.Alerts {
		subject := m.composer.AlertSubject(len(delta.Added), len(delta.Removed))
		body := m.composer.AlertBody(alertTitle, delta, current)
		if err := m.notifier.Send(subject, body); err != nil {
			m.logger.Error("[monitor] %s: alert e-mail failed: %v — state is persisted regardless", target.Name, err)
		} else {
			m.logger.Info("[monitor] %s: alert sent (%s)", target.Name, subject)
		}
	}

	if err := m.store.SaveSnapshot(target.Folder, current); err != nil {
		return fmt.Errorf("monitor: save snapshot: %w", err)
	}
	if err := m.store.AppendActivity(target.Folder, activityRecords(delta, now)); err != nil {
		return fmt.Errorf("monitor: append activity: %w", err)
	}
	if err := m.store.AppendRemovals(target.Folder, delta.Removed, now); err != nil {
		return fmt.Errorf("monitor: append removals: %w", err)
	}
	return nil
}

// maybeSendReport sends the daily summary when the gate allows it. The send
// is only recorded after it succeeded, so a failed delivery is retried on
// the next invocation inside the window.
func (m *Monitor) maybeSendReport(target models.Target, current []models.Listing, fetchFailed bool, now time.Time) error {
	due, err := m.gate.ShouldSend(target, now, m.window)
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	if !due {
		return nil
	}

	m.logger.Info("[monitor] %s: daily report due (%s)", target.Name, now.Format("15:04:05"))

	activity, err := m.store.ActivityOn(target.Folder, now.Format(dayLayout))
	if err != nil {
		return fmt.Errorf("monitor: read activity: %w", err)
	}
	var addedToday, removedToday []models.Listing
	for _, r := range activity {
		switch r.Status {
		case models.StatusAdded:
			addedToday = append(addedToday, r.Listing)
		case models.StatusRemoved:
			removedToday = append(removedToday, r.Listing)
		}
	}

	final := current
	if fetchFailed {
		final, err = m.store.LoadSnapshot(target.Folder)
		if err != nil {
			return fmt.Errorf("monitor: load fallback snapshot: %w", err)
		}
		m.logger.Warn("[monitor] %s: report built from last persisted snapshot (fetch failed)", target.Name)
	}

	title := fmt.Sprintf("Rapport du %s", now.Format("2006-01-02 15:04"))
	body := m.composer.SummaryBody(title, addedToday, removedToday, final)

	if err := m.notifier.Send(SummarySubject, body); err != nil {
		m.logger.Error("[monitor] %s: daily report failed: %v — will retry next run inside the window", target.Name, err)
		return nil
	}
	m.logger.Info("[monitor] %s: daily report sent", target.Name)

	if err := m.gate.RecordSent(target, now); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// activityRecords flattens a delta into log entries, additions first.
func activityRecords(delta models.Delta, now time.Time) []models.ActivityRecord {
	records := make([]models.ActivityRecord, 0, len(delta.Added)+len(delta.Removed))
	for _, l := range delta.Added {
		records = append(records, models.ActivityRecord{Timestamp: now, Status: models.StatusAdded, Listing: l})
	}
	for _, l := range delta.Removed {
		records = append(records, models.ActivityRecord{Timestamp: now, Status: models.StatusRemoved, Listing: l})
	}
	return records
}
