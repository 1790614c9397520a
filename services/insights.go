package services

import (
	"fmt"
	"strings"

	"github.com/jabrane-me/crous-bot-notifier/models"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

// InsightService computes and prints a console summary of one target's
// fresh listing set at the end of a run.
type InsightService struct {
	logger *utils.Logger
	pricer *PriceParser
}

// NewInsightService creates an InsightService with the given logger.
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, pricer: NewPriceParser(logger)}
}

// Generate computes price statistics over the listing set. Listings with an
// unparseable price label are counted but excluded from the stats.
func (s *InsightService) Generate(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{TotalListings: len(listings)}

	var priced []models.Listing
	for _, l := range listings {
		if s.pricer.Value(l.Price) == UnparseablePrice {
			report.Unpriced++
			continue
		}
		priced = append(priced, l)
	}
	if len(priced) == 0 {
		return report
	}

	report.MinPrice = s.pricer.Value(priced[0].Price)
	report.MaxPrice = report.MinPrice
	cheapest := priced[0]
	total := 0
	for _, l := range priced {
		v := s.pricer.Value(l.Price)
		total += v
		if v < report.MinPrice {
			report.MinPrice = v
			cheapest = l
		}
		if v > report.MaxPrice {
			report.MaxPrice = v
		}
	}
	report.AveragePrice = total / len(priced)
	report.Cheapest = &cheapest

	return report
}

// Print renders the report to the console.
func (s *InsightService) Print(targetName string, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏠 %s — AVAILABILITY INSIGHTS\033[0m\n", targetName)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Residences available : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Without a price      : \033[1m%d\033[0m\n", r.Unpriced)
	fmt.Println()

	fmt.Printf("\033[1;33m  Monthly Rent (EUR)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Cheapest == nil {
		fmt.Printf("  No price data available\n")
	} else {
		fmt.Printf("  Average rent : \033[1;32m%d €\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum rent : \033[1;32m%d €\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum rent : \033[1;32m%d €\033[0m\n", r.MaxPrice)
		fmt.Println()
		fmt.Printf("\033[1;33m  Cheapest Residence\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.Cheapest.Name, 50))
		fmt.Printf("  Address : %s\n", truncate(r.Cheapest.Address, 50))
		fmt.Printf("  Price   : \033[1;32m%s\033[0m\n", r.Cheapest.Price)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
