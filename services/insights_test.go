package services

import (
	"testing"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

func TestInsightsGenerate(t *testing.T) {
	s := NewInsightService(newTestLogger())

	listings := []models.Listing{
		listing("a", "300 €"),
		listing("b", "500 €"),
		listing("c", "N/A"),
		listing("d", "de 400 à 600 €"),
	}

	r := s.Generate(listings)

	if r.TotalListings != 4 {
		t.Errorf("TotalListings: got %d, want 4", r.TotalListings)
	}
	if r.Unpriced != 1 {
		t.Errorf("Unpriced: got %d, want 1", r.Unpriced)
	}
	if r.MinPrice != 300 || r.MaxPrice != 500 {
		t.Errorf("min/max: got %d/%d, want 300/500", r.MinPrice, r.MaxPrice)
	}
	if r.AveragePrice != 400 {
		t.Errorf("AveragePrice: got %d, want 400", r.AveragePrice)
	}
	if r.Cheapest == nil || r.Cheapest.Name != "a" {
		t.Errorf("Cheapest: got %+v, want listing a", r.Cheapest)
	}
}

func TestInsightsGenerateEmpty(t *testing.T) {
	s := NewInsightService(newTestLogger())

	r := s.Generate(nil)
	if r.TotalListings != 0 || r.Cheapest != nil {
		t.Errorf("empty input should give a zero report, got %+v", r)
	}
}

func TestInsightsAllUnpriced(t *testing.T) {
	s := NewInsightService(newTestLogger())

	r := s.Generate([]models.Listing{listing("a", "N/A")})
	if r.Cheapest != nil || r.Unpriced != 1 {
		t.Errorf("all-unpriced report wrong: %+v", r)
	}
}
