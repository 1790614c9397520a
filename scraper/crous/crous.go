// Package crous scrapes residence listings from the CROUS housing search
// pages. The search results are server-rendered DSFR markup, so a plain
// HTTP get plus an HTML parse is all it takes — no browser involved.
package crous

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jabrane-me/crous-bot-notifier/models"
	"github.com/jabrane-me/crous-bot-notifier/utils"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Selectors for the DSFR card markup of the search results.
const (
	cardSelector     = "div.fr-card"
	titleSelector    = "h3.fr-card__title a"
	priceSelector    = "p.fr-badge"
	addressSelector  = "p.fr-card__desc"
	detailSelector   = "p.fr-card__detail"
	nextPageSelector = "a.fr-pagination__link--next[href]"
)

// Scraper fetches every page of a search and flattens the result into one
// listing set. A single-page search simply has no next link and degenerates
// to one fetch.
type Scraper struct {
	client   *http.Client
	logger   *utils.Logger
	maxPages int
}

// New creates a ready-to-use Scraper. maxPages caps pagination as a safety
// net against runaway result sets.
func New(logger *utils.Logger, maxPages int) *Scraper {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Scraper{
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		maxPages: maxPages,
	}
}

// Fetch walks the paginated search results starting at searchURL and returns
// all residence cards found. Any transport or parse failure aborts the whole
// fetch — a half-scraped snapshot would diff as a wave of false removals.
func (s *Scraper) Fetch(searchURL string) ([]models.Listing, error) {
	visited := utils.NewURLSet()
	var listings []models.Listing

	pageURL := searchURL
	for page := 1; page <= s.maxPages && pageURL != ""; page++ {
		if !visited.Add(pageURL) {
			s.logger.Warn("[crous] Pagination loops back to %s — stopping", pageURL)
			break
		}

		base, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("crous: invalid page url %q: %w", pageURL, err)
		}

		doc, err := s.fetchDocument(pageURL)
		if err != nil {
			return nil, fmt.Errorf("crous: page %d: %w", page, err)
		}

		pageListings := s.parseCards(doc, base)
		listings = append(listings, pageListings...)
		s.logger.Debug("[crous] Page %d — %d residences", page, len(pageListings))

		pageURL = nextPageURL(doc, base)
	}

	s.logger.Info("[crous] Fetched %d residences from %s", len(listings), searchURL)
	return listings, nil
}

func (s *Scraper) fetchDocument(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

// parseCards extracts one Listing per residence card. Cards without a titled
// link are not residences and are skipped; every other absent field gets the
// sentinel so persisted rows are always fully populated.
func (s *Scraper) parseCards(doc *goquery.Document, base *url.URL) []models.Listing {
	var listings []models.Listing

	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		title := card.Find(titleSelector).First()
		href, hasHref := title.Attr("href")
		name := strings.TrimSpace(title.Text())
		if !hasHref || name == "" {
			s.logger.Debug("[crous] Skipping card without a titled link")
			return
		}

		link := href
		if abs, err := base.Parse(href); err == nil {
			link = abs.String()
		}

		listings = append(listings, models.Listing{
			Name:    name,
			Price:   textOr(card, priceSelector),
			Address: textOr(card, addressSelector),
			Details: cardDetails(card),
			Link:    link,
		})
	})
	return listings
}

// nextPageURL resolves the pagination's next link, or "" on the last page.
func nextPageURL(doc *goquery.Document, base *url.URL) string {
	href, ok := doc.Find(nextPageSelector).First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	abs, err := base.Parse(href)
	if err != nil {
		return ""
	}
	return abs.String()
}

func textOr(card *goquery.Selection, selector string) string {
	t := strings.TrimSpace(card.Find(selector).First().Text())
	if t == "" {
		return models.NotAvailable
	}
	return t
}

func cardDetails(card *goquery.Selection) string {
	var parts []string
	card.Find(detailSelector).Each(func(_ int, d *goquery.Selection) {
		if t := strings.TrimSpace(d.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return models.NotAvailable
	}
	return strings.Join(parts, " | ")
}
