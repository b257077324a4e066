package models

// MediaCandidate is one image found on the page, with enough metadata
// to decide whether it can serve as a hero visual.
type MediaCandidate struct {
	URL     string `json:"url"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	AltText string `json:"alt_text"`
	IsHero  bool   `json:"is_hero"`
}

// Testimonial is a customer quote extracted from the page.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// CTAExtract is a call-to-action detected by the scraper.
type CTAExtract struct {
	Text string `json:"text"`
	Link string `json:"link"`
	Type string `json:"type"` // "signup", "buy", "contact"
}

// RawSiteAnalysis is the unclean scrape output. Every field is optional;
// absence is the normal case, not an error. Fields are filled on a
// first-writer-wins basis as extraction tiers run, never overwritten.
type RawSiteAnalysis struct {
	SourceURL       string           `json:"source_url"`
	HeroText        string           `json:"hero_text,omitempty"`
	MetaDescription string           `json:"meta_description,omitempty"`
	Keywords        []string         `json:"keywords,omitempty"`
	BusinessName    string           `json:"business_name,omitempty"`
	Location        string           `json:"location,omitempty"`
	Address         string           `json:"address,omitempty"`
	OpeningHours    string           `json:"opening_hours,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Email           string           `json:"email,omitempty"`
	LogoURL         string           `json:"logo_url,omitempty"`
	Rating          string           `json:"rating,omitempty"`
	SiteTypeHint    string           `json:"site_type_hint,omitempty"` // e.g. "personal", "local", "store"
	Media           []MediaCandidate `json:"media,omitempty"`
	AboutText       string           `json:"about_text,omitempty"`
	PricingText     string           `json:"pricing_text,omitempty"`
	TestimonialText string           `json:"testimonial_text,omitempty"`
	Testimonials    []Testimonial    `json:"testimonials,omitempty"`
	Prices          []string         `json:"prices,omitempty"`
	Features        []Feature        `json:"features,omitempty"`
	Stats           []string         `json:"stats,omitempty"`
	PartnerLogos    []string         `json:"partner_logos,omitempty"`
	CTA             *CTAExtract      `json:"cta,omitempty"`
}

// HasContact reports whether the analysis carries at least one direct
// contact channel.
func (a *RawSiteAnalysis) HasContact() bool {
	return a.Phone != "" || a.Email != ""
}

// HasLocationOrHours reports whether the analysis carries a physical
// location signal.
func (a *RawSiteAnalysis) HasLocationOrHours() bool {
	return a.Address != "" || a.Location != "" || a.OpeningHours != ""
}

// Sufficient is the predicate that gates every escalation decision:
// the analysis is good enough once we know how to reach the business
// and where (or when) it operates.
func (a *RawSiteAnalysis) Sufficient() bool {
	return a.HasContact() && a.HasLocationOrHours()
}

// Merge fills empty fields of a from b. Populated fields are never
// overwritten, so cheaper tiers keep priority over later, more
// aggressive ones. Media candidates are appended with URL dedup.
func (a *RawSiteAnalysis) Merge(b *RawSiteAnalysis) {
	if b == nil {
		return
	}
	if a.HeroText == "" {
		a.HeroText = b.HeroText
	}
	if a.MetaDescription == "" {
		a.MetaDescription = b.MetaDescription
	}
	if len(a.Keywords) == 0 {
		a.Keywords = b.Keywords
	}
	if a.BusinessName == "" {
		a.BusinessName = b.BusinessName
	}
	if a.Location == "" {
		a.Location = b.Location
	}
	if a.Address == "" {
		a.Address = b.Address
	}
	if a.OpeningHours == "" {
		a.OpeningHours = b.OpeningHours
	}
	if a.Phone == "" {
		a.Phone = b.Phone
	}
	if a.Email == "" {
		a.Email = b.Email
	}
	if a.LogoURL == "" {
		a.LogoURL = b.LogoURL
	}
	if a.Rating == "" {
		a.Rating = b.Rating
	}
	if a.SiteTypeHint == "" {
		a.SiteTypeHint = b.SiteTypeHint
	}
	if a.AboutText == "" {
		a.AboutText = b.AboutText
	}
	if a.PricingText == "" {
		a.PricingText = b.PricingText
	}
	if a.TestimonialText == "" {
		a.TestimonialText = b.TestimonialText
	}
	if len(a.Testimonials) == 0 {
		a.Testimonials = b.Testimonials
	}
	if len(a.Prices) == 0 {
		a.Prices = b.Prices
	}
	if len(a.Features) == 0 {
		a.Features = b.Features
	}
	if len(a.Stats) == 0 {
		a.Stats = b.Stats
	}
	if len(a.PartnerLogos) == 0 {
		a.PartnerLogos = b.PartnerLogos
	}
	if a.CTA == nil {
		a.CTA = b.CTA
	}

	seen := make(map[string]struct{}, len(a.Media))
	for _, m := range a.Media {
		seen[m.URL] = struct{}{}
	}
	for _, m := range b.Media {
		if _, ok := seen[m.URL]; ok {
			continue
		}
		seen[m.URL] = struct{}{}
		a.Media = append(a.Media, m)
	}
}
