package services

import (
	"fmt"
	"strings"

	"github.com/jabrane-me/crous-bot-notifier/models"
)

// SummarySubject is the fixed subject line of the daily report e-mail.
const SummarySubject = "Daily CROUS BOT Report"

const (
	colorNeutral = "black"
	colorAdded   = "#28a745"
	colorRemoved = "#dc3545"

	emptyListMessage   = "<p>Il n'y a actuellement aucune résidence disponible.</p>"
	noChangesMessage   = `<p style="font-size: 16px; border-top: 2px solid #eee; margin-top: 20px; padding-top: 20px;">Aucun changement de disponibilité n'a été détecté aujourd'hui.</p>`
	sectionBreakStyles = "border-top: 2px solid #eee; margin-top: 20px; padding-top: 20px;"
)

// Composer renders the two e-mail views out of a delta and the full current
// listing set: the alert (changes first) and the daily summary (full list
// first). It has no side effects; every section is sorted by ascending
// normalized price before rendering, unparseable prices last.
type Composer struct {
	pricer *PriceParser
}

// NewComposer creates a Composer sorting with the given price parser.
func NewComposer(pricer *PriceParser) *Composer {
	return &Composer{pricer: pricer}
}

// AlertSubject builds the alert subject line from the change counts,
// pluralized the way the recipients expect.
func (c *Composer) AlertSubject(added, removed int) string {
	switch {
	case added > 0 && removed > 0:
		return fmt.Sprintf("Alerte CROUS Bot: +%d %s, -%d %s",
			added, pluralize(added, "ajoutée", "ajoutées"),
			removed, pluralize(removed, "retirée", "retirées"))
	case added > 0:
		return fmt.Sprintf("Alerte CROUS Bot (+): %d %s %s !",
			added,
			pluralize(added, "nouvelle résidence", "nouvelles résidences"),
			pluralize(added, "disponible", "disponibles"))
	case removed > 0:
		return fmt.Sprintf("Alerte CROUS Bot (-): %d %s",
			removed,
			pluralize(removed, "résidence n'est plus disponible", "résidences ne sont plus disponibles"))
	default:
		return "Alerte CROUS Bot: Changement de disponibilité !"
	}
}

// AlertBody renders the immediate alert view: added and removed sections
// first, the full availability list last.
func (c *Composer) AlertBody(title string, delta models.Delta, all []models.Listing) string {
	added := c.sorted(delta.Added)
	removed := c.sorted(delta.Removed)
	available := c.sorted(all)

	var b strings.Builder
	c.writeOpening(&b, title)

	if len(added) > 0 {
		fmt.Fprintf(&b, `<h2 style="font-size: 20px; color: %s;">Nouvelles résidences disponibles (%d)</h2>`, colorAdded, len(added))
		for _, l := range added {
			c.writeListing(&b, l, colorAdded)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintf(&b, `<h2 style="font-size: 20px; color: %s;">Résidences qui ne sont plus listées (%d)</h2>`, colorRemoved, len(removed))
		for _, l := range removed {
			c.writeListing(&b, l, colorRemoved)
		}
	}

	fmt.Fprintf(&b, `<h2 style="font-size: 20px; %s">Liste complète des résidences disponibles (%d)</h2>`, sectionBreakStyles, len(available))
	c.writeListingsOrEmpty(&b, available, colorNeutral)

	c.writeClosing(&b)
	return b.String()
}

// SummaryBody renders the daily summary view: the end-of-day availability
// list first, then the day's aggregated additions and removals.
func (c *Composer) SummaryBody(title string, addedToday, removedToday, all []models.Listing) string {
	added := c.sorted(addedToday)
	removed := c.sorted(removedToday)
	available := c.sorted(all)

	var b strings.Builder
	c.writeOpening(&b, title)

	fmt.Fprintf(&b, `<h2 style="font-size: 20px;">Liste complète des résidences disponibles en fin de journée (%d)</h2>`, len(available))
	c.writeListingsOrEmpty(&b, available, colorNeutral)

	if len(added) == 0 && len(removed) == 0 {
		b.WriteString(noChangesMessage)
	}
	if len(added) > 0 {
		fmt.Fprintf(&b, `<h2 style="font-size: 20px; color: %s; %s">Ajouté(s) aujourd'hui (%d)</h2>`, colorAdded, sectionBreakStyles, len(added))
		for _, l := range added {
			c.writeListing(&b, l, colorAdded)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintf(&b, `<h2 style="font-size: 20px; color: %s; %s">Retiré(s) aujourd'hui (%d)</h2>`, colorRemoved, sectionBreakStyles, len(removed))
		for _, l := range removed {
			c.writeListing(&b, l, colorRemoved)
		}
	}

	c.writeClosing(&b)
	return b.String()
}

// sorted returns a price-ordered copy, leaving the caller's slice alone.
func (c *Composer) sorted(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	copy(out, listings)
	c.pricer.SortByPrice(out)
	return out
}

func (c *Composer) writeOpening(b *strings.Builder, title string) {
	b.WriteString(`<html><head><style>body {font-family: Arial, sans-serif; color: #333;}</style></head>
<body style="margin: 0; padding: 0;">
<div style="max-width: 700px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f9f9f9;">`)
	fmt.Fprintf(b, `<h1 style="font-size: 24px; color: #00549F; border-bottom: 2px solid #eee; padding-bottom: 10px;">%s</h1>`, title)
}

func (c *Composer) writeClosing(b *strings.Builder) {
	b.WriteString("</div></body></html>")
}

func (c *Composer) writeListingsOrEmpty(b *strings.Builder, listings []models.Listing, color string) {
	if len(listings) == 0 {
		b.WriteString(emptyListMessage)
		return
	}
	for _, l := range listings {
		c.writeListing(b, l, color)
	}
}

func (c *Composer) writeListing(b *strings.Builder, l models.Listing, color string) {
	fmt.Fprintf(b, `
<div style="border-left: 3px solid %s; padding-left: 15px; margin-bottom: 20px;">
	<p style="margin:0; font-size: 18px; font-weight: bold;">
		<a href="%s" style="color: %s; text-decoration: none;">%s</a>
	</p>
	<p style="margin:0; font-size: 16px; color: #333;"><b>Prix:</b> %s</p>
	<p style="margin:0; font-size: 14px; color: #555;">%s</p>
	<p style="margin:0; font-size: 14px; color: #555;"><i>%s</i></p>
</div>
`, color, l.Link, color, l.Name, l.Price, l.Address, l.Details)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
