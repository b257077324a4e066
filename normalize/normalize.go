// Package normalize maps raw, heterogeneous scrape output onto the fixed
// NormalizedPage schema. Normalize is pure and total: any RawSiteAnalysis,
// however sparse, yields a valid page.
package normalize

import (
	"regexp"
	"strings"

	"github.com/use-agent/storyboard/models"
)

const (
	// defaultHeadline and defaultCTAText uphold the schema invariant that
	// hero.Headline and cta.Text are always populated — downstream
	// consumers never null-check these two fields.
	defaultHeadline = "Welcome"
	defaultCTAText  = "Learn More"

	// subheadAboutLimit is how much about-page text serves as a subhead
	// when the page has no meta description.
	subheadAboutLimit = 150

	// heroVisualMinWidth qualifies an unflagged image as a hero visual.
	heroVisualMinWidth = 800
)

// freeTierVocabulary is matched as substrings against pricing text.
var freeTierVocabulary = []string{"free", "€0", "$0"}

// rePricePoint finds a currency-symbol-adjacent number.
var rePricePoint = regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?\s?[$€£]`)

// Normalize converts a RawSiteAnalysis into the canonical page schema.
func Normalize(raw *models.RawSiteAnalysis) *models.NormalizedPage {
	if raw == nil {
		raw = &models.RawSiteAnalysis{}
	}

	page := &models.NormalizedPage{
		Hero: models.Hero{
			Headline:  stringOr(raw.HeroText, defaultHeadline),
			Subhead:   subhead(raw),
			VisualURL: heroVisual(raw.Media),
		},
		Features: raw.Features,
		SocialProof: models.SocialProof{
			Testimonials: testimonials(raw.Testimonials),
			Logos:        raw.PartnerLogos,
			Stats:        raw.Stats,
		},
		Pricing: pricing(raw),
		CTA:     cta(raw),
		Contact: models.Contact{
			Email:        raw.Email,
			Phone:        raw.Phone,
			Address:      raw.Address,
			OpeningHours: raw.OpeningHours,
		},
		Meta: models.PageMeta{
			Title:       raw.BusinessName,
			Description: raw.MetaDescription,
			OriginalURL: raw.SourceURL,
		},
		Raw: raw,
	}

	if page.SocialProof.Testimonials == nil {
		page.SocialProof.Testimonials = []models.Testimonial{}
	}
	if page.SocialProof.Logos == nil {
		page.SocialProof.Logos = []string{}
	}
	if page.SocialProof.Stats == nil {
		page.SocialProof.Stats = []string{}
	}
	if page.Features == nil {
		page.Features = []models.Feature{}
	}

	return page
}

// subhead falls back: explicit meta description, then the first 150
// characters of the about page, then empty.
func subhead(raw *models.RawSiteAnalysis) string {
	if raw.MetaDescription != "" {
		return raw.MetaDescription
	}
	about := strings.TrimSpace(raw.AboutText)
	if about == "" {
		return ""
	}
	if len(about) <= subheadAboutLimit {
		return about
	}
	return models.TruncateText(about, subheadAboutLimit) + "..."
}

// heroVisual picks the first candidate flagged as hero, then the first
// one wider than the threshold, then nothing.
func heroVisual(media []models.MediaCandidate) string {
	for _, m := range media {
		if m.IsHero {
			return m.URL
		}
	}
	for _, m := range media {
		if m.Width > heroVisualMinWidth {
			return m.URL
		}
	}
	return ""
}

// testimonials attributes unattributed quotes to a synthetic "Customer"
// author. The scraper does not currently attribute quotes; this
// placeholder is a known limitation, not a bug.
func testimonials(raw []models.Testimonial) []models.Testimonial {
	out := make([]models.Testimonial, len(raw))
	for i, t := range raw {
		if t.Author == "" {
			t.Author = "Customer"
		}
		out[i] = t
	}
	return out
}

// pricing derives a best-effort pricing signal from the pricing subpage
// text and any extracted price strings.
func pricing(raw *models.RawSiteAnalysis) models.Pricing {
	text := strings.ToLower(raw.PricingText)

	p := models.Pricing{}
	for _, word := range freeTierVocabulary {
		if strings.Contains(text, word) {
			p.HasFreeTier = true
			break
		}
	}

	if m := rePricePoint.FindString(raw.PricingText); m != "" {
		p.PricePoint = strings.TrimSpace(m)
	} else if len(raw.Prices) > 0 {
		p.PricePoint = raw.Prices[0]
	}

	if strings.Contains(text, "month") {
		p.Model = "monthly"
	}

	return p
}

// cta passes the scraper-detected call-to-action through, defaulting to a
// contact-style "Learn More" pointing back at the source.
func cta(raw *models.RawSiteAnalysis) models.CallToAction {
	if raw.CTA != nil && raw.CTA.Text != "" {
		return models.CallToAction{
			Text: raw.CTA.Text,
			Link: stringOr(raw.CTA.Link, raw.SourceURL),
			Type: stringOr(raw.CTA.Type, "contact"),
		}
	}
	return models.CallToAction{
		Text: defaultCTAText,
		Link: raw.SourceURL,
		Type: "contact",
	}
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
