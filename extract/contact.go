package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/storyboard/models"
)

var (
	rePhone = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?(?:\(\d{2,4}\)[\s.-]?)?\d{2,4}[\s.-]\d{2,4}[\s.-]?\d{2,6}`)
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Street-address shapes: "123 Main Street", "Hauptstraße 12", postal
	// codes adjacent to a city word.
	reAddress = regexp.MustCompile(`(?i)\b\d{1,4}\s+[A-Za-zÄÖÜäöüß.\- ]{3,40}\s(?:street|st\.?|avenue|ave\.?|road|rd\.?|boulevard|blvd\.?|lane|ln\.?|drive|dr\.?|platz|weg)\b|\b[A-Za-zÄÖÜäöüß.\- ]{3,40}(?:straße|strasse|gasse|allee)\s?\d{1,4}\b`)

	// Opening hours: "Mon-Fri 9:00-17:00", "Open daily 8am - 6pm".
	reHours = regexp.MustCompile(`(?i)\b(?:mon|tue|wed|thu|fri|sat|sun|daily|weekdays|mo|di|mi|do|fr|sa|so)[a-z]*\.?\s?(?:-|–|to|bis)?\s?(?:mon|tue|wed|thu|fri|sat|sun|mo|di|mi|do|fr|sa|so)?[a-z]*\.?,?\s{0,2}\d{1,2}(?::\d{2})?\s?(?:am|pm|uhr)?\s?(?:-|–|to|bis)\s?\d{1,2}(?::\d{2})?\s?(?:am|pm|uhr)?`)
)

// excludedEmailSuffixes filter asset filenames that match the email shape.
var excludedEmailSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".css", ".js"}

// extractContact fills the contact fields of the analysis from anchors and
// page text. Already-populated fields (e.g. from JSON-LD) are kept.
func extractContact(doc *goquery.Document, analysis *models.RawSiteAnalysis) {
	// tel:/mailto: anchors are the strongest DOM signal.
	if analysis.Phone == "" {
		if href, ok := doc.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
			analysis.Phone = cleanText(strings.TrimPrefix(href, "tel:"))
		}
	}
	if analysis.Email == "" {
		if href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
			email := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(email, '?'); i >= 0 {
				email = email[:i]
			}
			analysis.Email = cleanText(email)
		}
	}

	// Footer and contact sections get scanned before the whole body so a
	// real contact line beats a phone-shaped product number.
	scopes := []string{"footer", `[class*="contact"]`, `[id*="contact"]`, `address`, "body"}
	for _, scope := range scopes {
		text := cleanText(doc.Find(scope).Text())
		if text == "" {
			continue
		}
		if analysis.Phone == "" {
			if m := rePhone.FindString(text); m != "" && digitCount(m) >= 7 {
				analysis.Phone = strings.TrimSpace(m)
			}
		}
		if analysis.Email == "" {
			if m := findEmail(text); m != "" {
				analysis.Email = m
			}
		}
		if analysis.Address == "" {
			if m := reAddress.FindString(text); m != "" {
				analysis.Address = strings.TrimSpace(m)
			}
		}
		if analysis.OpeningHours == "" {
			if m := reHours.FindString(text); m != "" {
				analysis.OpeningHours = strings.TrimSpace(m)
			}
		}
		if analysis.Phone != "" && analysis.Email != "" && analysis.Address != "" && analysis.OpeningHours != "" {
			break
		}
	}
}

// findEmail returns the first email-shaped match that is not an asset
// filename.
func findEmail(text string) string {
	for _, m := range reEmail.FindAllString(text, 5) {
		lower := strings.ToLower(m)
		excluded := false
		for _, suffix := range excludedEmailSuffixes {
			if strings.HasSuffix(lower, suffix) {
				excluded = true
				break
			}
		}
		if !excluded {
			return m
		}
	}
	return ""
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
