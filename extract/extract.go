// Package extract turns raw, adversarial HTML into the fields of a
// RawSiteAnalysis. It is the cheap tier: pure parsing, no network, no
// browser. Every extracted value is plain text — markup never leaks
// through.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/storyboard/models"
)

// noiseSelectors match popup, consent, and cookie-banner containers that
// pollute hero/feature extraction. They are removed from the document
// before any field is read.
var noiseSelectors = []string{
	`[class*="cookie"]`, `[id*="cookie"]`,
	`[class*="consent"]`, `[id*="consent"]`,
	`[class*="gdpr"]`, `[id*="gdpr"]`,
	`[class*="popup"]`, `[id*="popup"]`,
	`[class*="modal"]`, `[id*="modal"]`,
	`[class*="overlay"]`, `[id*="overlay"]`,
	`[class*="newsletter-signup"]`,
	"script", "style", "noscript",
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reStat       = regexp.MustCompile(`(?i)\b[\d][\d,.]*\s?(?:\+|%|k\+?)?\s*(?:users|customers|clients|companies|teams|projects|downloads|reviews|countries|stars|years)\b`)
	rePrice      = regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?\s?[$€£]`)
)

// ctaKeywords maps call-to-action phrasing to a CTA type.
var ctaKeywords = []struct {
	words []string
	typ   string
}{
	{[]string{"sign up", "signup", "get started", "start free", "try free", "free trial", "register"}, "signup"},
	{[]string{"buy", "add to cart", "shop now", "order now", "checkout", "purchase"}, "buy"},
	{[]string{"contact", "get in touch", "book now", "request a quote", "call us", "schedule"}, "contact"},
}

// Analyze parses raw HTML into a RawSiteAnalysis. It never fails: malformed
// input simply yields a sparser analysis. For a fixed input the output is
// identical across runs.
func Analyze(rawHTML []byte, sourceURL string) *models.RawSiteAnalysis {
	analysis := &models.RawSiteAnalysis{SourceURL: sourceURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return analysis
	}

	// Structured data first: highest-confidence, zero-heuristic signal.
	// The DOM heuristics below only fill what JSON-LD left empty.
	if sd := AnalyzeStructuredData(rawHTML, sourceURL); sd != nil {
		analysis.Merge(sd)
	}

	// Strip noise before reading anything positional.
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	if analysis.BusinessName == "" {
		analysis.BusinessName = cleanText(doc.Find("title").First().Text())
	}
	analysis.HeroText = heroText(doc)
	analysis.MetaDescription = metaContent(doc, "description")
	analysis.Keywords = splitKeywords(metaContent(doc, "keywords"))

	if analysis.LogoURL == "" {
		analysis.LogoURL = logoURL(doc, sourceURL)
	}

	extractContact(doc, analysis)
	analysis.Media = ExtractMedia(doc, sourceURL)
	analysis.Features = extractFeatures(doc)
	analysis.Testimonials = extractTestimonials(doc)
	analysis.PartnerLogos = extractPartnerLogos(doc, sourceURL)

	bodyText := cleanText(doc.Find("body").Text())
	analysis.Stats = uniqueMatches(reStat, bodyText, 5)
	analysis.Prices = uniqueMatches(rePrice, bodyText, 5)
	analysis.CTA = extractCTA(doc, sourceURL)

	return analysis
}

// heroText returns the primary heading. The first non-empty h1 wins; pages
// without an h1 fall back to the og:title.
func heroText(doc *goquery.Document) string {
	var hero string
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := cleanText(s.Text()); t != "" {
			hero = t
			return false
		}
		return true
	})
	if hero != "" {
		return hero
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return cleanText(og)
	}
	return ""
}

func metaContent(doc *goquery.Document, name string) string {
	if v, ok := doc.Find(`meta[name="` + name + `"]`).First().Attr("content"); ok {
		return cleanText(v)
	}
	return ""
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.ToLower(strings.TrimSpace(p)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// extractFeatures reads section headings (h2/h3) paired with the first
// following paragraph. Navigation and footer headings are skipped.
func extractFeatures(doc *goquery.Document) []models.Feature {
	var features []models.Feature
	doc.Find("main h2, main h3, section h2, section h3, article h2, article h3").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			title := cleanText(s.Text())
			if title == "" || len(title) > 120 {
				return true
			}
			desc := cleanText(s.NextFiltered("p").Text())
			if desc == "" {
				desc = cleanText(s.Parent().Find("p").First().Text())
			}
			features = append(features, models.Feature{Title: title, Description: truncate(desc, 300)})
			return len(features) < 6
		})
	if len(features) > 0 {
		return features
	}
	// Flat pages without semantic sectioning: take bare h2s.
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := cleanText(s.Text())
		if title == "" || len(title) > 120 {
			return true
		}
		features = append(features, models.Feature{
			Title:       title,
			Description: truncate(cleanText(s.NextFiltered("p").Text()), 300),
		})
		return len(features) < 6
	})
	return features
}

// extractTestimonials reads blockquotes and testimonial-classed containers.
func extractTestimonials(doc *goquery.Document) []models.Testimonial {
	var out []models.Testimonial
	seen := make(map[string]struct{})

	add := func(quote string) {
		quote = cleanText(quote)
		if len(quote) < 20 || len(quote) > 500 {
			return
		}
		if _, ok := seen[quote]; ok {
			return
		}
		seen[quote] = struct{}{}
		out = append(out, models.Testimonial{Quote: quote})
	}

	doc.Find("blockquote").Each(func(_ int, s *goquery.Selection) { add(s.Text()) })
	doc.Find(`[class*="testimonial"] p, [class*="review"] p`).Each(func(_ int, s *goquery.Selection) { add(s.Text()) })

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// extractPartnerLogos collects image URLs inside client/partner strips.
func extractPartnerLogos(doc *goquery.Document, sourceURL string) []string {
	var logos []string
	doc.Find(`[class*="clients"] img, [class*="partners"] img, [class*="logos"] img, [class*="trusted"] img`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if src := absoluteURL(s.AttrOr("src", ""), sourceURL); src != "" {
				logos = append(logos, src)
			}
			return len(logos) < 8
		})
	return logos
}

// extractCTA finds the most prominent call-to-action link or button.
func extractCTA(doc *goquery.Document, sourceURL string) *models.CTAExtract {
	var cta *models.CTAExtract
	doc.Find("a, button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if text == "" || len(text) > 40 {
			return true
		}
		lower := strings.ToLower(text)
		for _, group := range ctaKeywords {
			for _, w := range group.words {
				if strings.Contains(lower, w) {
					link := absoluteURL(s.AttrOr("href", ""), sourceURL)
					if link == "" {
						link = sourceURL
					}
					cta = &models.CTAExtract{Text: text, Link: link, Type: group.typ}
					return false
				}
			}
		}
		return true
	})
	return cta
}

// cleanText collapses whitespace and trims. The result is guaranteed
// markup-free because it only ever operates on goquery text nodes.
func cleanText(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	return models.TruncateText(s, n)
}

func uniqueMatches(re *regexp.Regexp, text string, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out
}
