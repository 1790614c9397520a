package services

import (
	"strings"
	"testing"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

func newTestComposer() *Composer {
	return NewComposer(NewPriceParser(newTestLogger()))
}

func TestAlertSubjectVariants(t *testing.T) {
	c := newTestComposer()

	tests := []struct {
		added, removed int
		want           string
	}{
		{1, 0, "Alerte CROUS Bot (+): 1 nouvelle résidence disponible !"},
		{3, 0, "Alerte CROUS Bot (+): 3 nouvelles résidences disponibles !"},
		{0, 1, "Alerte CROUS Bot (-): 1 résidence n'est plus disponible"},
		{0, 2, "Alerte CROUS Bot (-): 2 résidences ne sont plus disponibles"},
		{2, 1, "Alerte CROUS Bot: +2 ajoutées, -1 retirée"},
		{0, 0, "Alerte CROUS Bot: Changement de disponibilité !"},
	}

	for _, tt := range tests {
		got := c.AlertSubject(tt.added, tt.removed)
		if got != tt.want {
			t.Errorf("AlertSubject(%d, %d) = %q; want %q", tt.added, tt.removed, got, tt.want)
		}
	}
}

func TestAlertBodySectionsAndOrder(t *testing.T) {
	c := newTestComposer()

	delta := models.Delta{
		Added:   []models.Listing{listing("expensive", "500 €"), listing("cheap", "300 €")},
		Removed: []models.Listing{listing("gone", "410 €")},
	}
	all := []models.Listing{listing("expensive", "500 €"), listing("cheap", "300 €")}

	body := c.AlertBody("Alerte Immédiate", delta, all)

	if !strings.Contains(body, "Nouvelles résidences disponibles (2)") {
		t.Error("missing added section header")
	}
	if !strings.Contains(body, "Résidences qui ne sont plus listées (1)") {
		t.Error("missing removed section header")
	}
	if !strings.Contains(body, "Liste complète des résidences disponibles (2)") {
		t.Error("missing full list header")
	}

	// Changes come before the full list in the alert view.
	if strings.Index(body, "Nouvelles résidences") > strings.Index(body, "Liste complète") {
		t.Error("alert view must put changes before the full list")
	}

	// Within the added section, cheap sorts before expensive.
	section := body[:strings.Index(body, "Résidences qui ne sont plus")]
	if strings.Index(section, "cheap") > strings.Index(section, "expensive") {
		t.Error("added section not sorted by ascending price")
	}
}

func TestAlertBodyEmptyAvailability(t *testing.T) {
	c := newTestComposer()

	delta := models.Delta{Removed: []models.Listing{listing("gone", "410 €")}}
	body := c.AlertBody("Alerte Immédiate", delta, nil)

	if !strings.Contains(body, "aucune résidence disponible") {
		t.Error("empty availability must render the defined empty-state message")
	}
}

func TestSummaryBodyOrderAndNoChangeMessage(t *testing.T) {
	c := newTestComposer()

	all := []models.Listing{listing("a", "300 €")}
	body := c.SummaryBody("Rapport du 2025-06-01", nil, nil, all)

	if !strings.Contains(body, "en fin de journée (1)") {
		t.Error("missing end-of-day list header")
	}
	if !strings.Contains(body, "Aucun changement de disponibilité") {
		t.Error("summary with no activity must say so")
	}

	withChanges := c.SummaryBody("Rapport", []models.Listing{listing("b", "350 €")}, nil, all)
	if strings.Contains(withChanges, "Aucun changement") {
		t.Error("no-change message rendered despite additions")
	}
	if !strings.Contains(withChanges, "Ajouté(s) aujourd'hui (1)") {
		t.Error("missing added-today section")
	}
	// Summary view: full list first, changes last.
	if strings.Index(withChanges, "Liste complète") > strings.Index(withChanges, "Ajouté(s)") {
		t.Error("summary view must put the full list before the changes")
	}
}

func TestComposerDoesNotMutateInputs(t *testing.T) {
	c := newTestComposer()

	all := []models.Listing{listing("expensive", "500 €"), listing("cheap", "300 €")}
	_ = c.AlertBody("Alerte", models.Delta{}, all)

	if all[0].Name != "expensive" {
		t.Error("composer must sort a copy, not the caller's slice")
	}
}
