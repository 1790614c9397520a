package models

import "time"

// NotAvailable is the sentinel stored for any field the source page did not
// provide. Every column of every persisted row is always populated.
const NotAvailable = "N/A"

// Listing is one residence card scraped from the search results. All fields
// are kept exactly as displayed on the site — the price stays a display
// string ("410 €", "de 300 à 450 €") and is only normalized transiently for
// sorting. The struct is comparable; two listings are the same residence
// only if every field matches.
type Listing struct {
	Name    string
	Price   string
	Address string
	Details string // pipe-joined detail lines, e.g. "T1 | 18 m²"
	Link    string
}

// Delta is the outcome of diffing a fresh snapshot against the persisted
// one: listings that appeared and listings that disappeared.
type Delta struct {
	Added   []Listing
	Removed []Listing
}

// Empty reports whether the run detected no change at all.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Activity statuses recorded in the daily activity log.
const (
	StatusAdded   = "added"
	StatusRemoved = "removed"
)

// ActivityRecord is one append-only entry of the daily activity log.
type ActivityRecord struct {
	Timestamp time.Time
	Status    string // StatusAdded or StatusRemoved
	Listing   Listing
}

// ReportEntry is one append-only entry of the report log. One entry per
// successfully sent daily report.
type ReportEntry struct {
	SentDate string // "2006-01-02"
	SentTime string // "15:04:05"
}

// InsightReport holds the end-of-run price statistics for one target's
// fresh listing set. Prices are the normalized integer sort keys, in euros.
type InsightReport struct {
	TotalListings int
	MinPrice      int
	MaxPrice      int
	AveragePrice  int
	Cheapest      *Listing
	Unpriced      int // listings whose price label could not be parsed
}

// Target is one monitored search page. Each target owns its own folder under
// the data directory; targets never share state.
type Target struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Folder  string `json:"folder"`
	Alerts  bool   `json:"alerts"`
	Reports bool   `json:"reports"`
}
