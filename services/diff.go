package services

import "github.com/jabrane-me/crous-bot-notifier/models"

// Diff computes the symmetric difference between the freshly scraped listing
// set and the previously persisted one, partitioned by direction. Identity
// is the whole record: a residence whose price label changed counts as one
// removal plus one addition, never as an update — the logs and e-mails are
// built around that behavior.
//
// Both inputs are treated as sets; duplicates and ordering do not affect the
// result.
func Diff(current, previous []models.Listing) models.Delta {
	currentSet := toSet(current)
	previousSet := toSet(previous)

	var delta models.Delta
	for _, l := range current {
		if _, ok := previousSet[l]; !ok {
			delta.Added = append(delta.Added, l)
			previousSet[l] = struct{}{} // swallow duplicates in current
		}
	}
	for _, l := range previous {
		if _, ok := currentSet[l]; !ok {
			delta.Removed = append(delta.Removed, l)
			currentSet[l] = struct{}{}
		}
	}
	return delta
}

func toSet(listings []models.Listing) map[models.Listing]struct{} {
	set := make(map[models.Listing]struct{}, len(listings))
	for _, l := range listings {
		set[l] = struct{}{}
	}
	return set
}
