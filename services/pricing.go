package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jabrane-me/crous-bot-notifier/models"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

// UnparseablePrice is the sort key given to listings whose price label
// cannot be read as a number, pushing them to the end of any price-ordered
// section.
const UnparseablePrice = 9999

// rangeSeparator splits price ranges like "de 300 à 450 €"; only the lower
// bound is kept as the sort key.
const rangeSeparator = "à"

// nonPriceRegexp strips everything but digits and decimal punctuation.
var nonPriceRegexp = regexp.MustCompile(`[^0-9,.]`)

// PriceParser turns display price labels into integer sort keys. The label
// itself is never rewritten — the original string stays the canonical price
// everywhere it is stored or rendered.
type PriceParser struct {
	logger *utils.Logger
}

// NewPriceParser creates a PriceParser with the given logger.
func NewPriceParser(logger *utils.Logger) *PriceParser {
	return &PriceParser{logger: logger}
}

// Value parses a price label into an integer ordering key.
// Examples:
//
//	"410 €"           → 410
//	"de 300 à 450 €"  → 300
//	"1 234,50 €"      → 1234
//	"N/A"             → UnparseablePrice
//
// Parsing never fails the run; unreadable labels sort last and emit a
// warning.
func (p *PriceParser) Value(display string) int {
	cleaned := strings.ReplaceAll(display, "€", "")
	cleaned = strings.TrimSpace(cleaned)

	if i := strings.Index(cleaned, rangeSeparator); i >= 0 {
		cleaned = cleaned[:i]
	}

	cleaned = nonPriceRegexp.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		p.logger.Warn("[pricing] Could not parse price %q — sorting to end", display)
		return UnparseablePrice
	}
	return int(v)
}

// SortByPrice orders listings in place by ascending normalized price,
// unparseable prices last. Ties keep a stable name order so repeated runs
// over the same data render identically.
func (p *PriceParser) SortByPrice(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		vi, vj := p.Value(listings[i].Price), p.Value(listings[j].Price)
		if vi != vj {
			return vi < vj
		}
		return listings[i].Name < listings[j].Name
	})
}
