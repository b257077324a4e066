package models

// NormalizedPage is the canonical semantic schema produced by the
// normalizer. It is created once per scrape and is immutable thereafter.
// Hero.Headline and CTA.Text are always populated (defaulted when the
// scrape found nothing), so downstream consumers never null-check them.
type NormalizedPage struct {
	Hero        Hero             `json:"hero"`
	Features    []Feature        `json:"features"`
	SocialProof SocialProof      `json:"social_proof"`
	Pricing     Pricing          `json:"pricing"`
	CTA         CallToAction     `json:"cta"`
	Contact     Contact          `json:"contact"`
	Meta        PageMeta         `json:"meta"`
	Raw         *RawSiteAnalysis `json:"-"` // un-normalized signal for classifiers
}

// Hero is the above-the-fold message of the page.
type Hero struct {
	Headline  string `json:"headline"`
	Subhead   string `json:"subhead"`
	VisualURL string `json:"visual_url,omitempty"`
}

// Feature is one product/service capability.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SocialProof aggregates trust signals.
type SocialProof struct {
	Testimonials []Testimonial `json:"testimonials"`
	Logos        []string      `json:"logos"`
	Stats        []string      `json:"stats"`
}

// Pricing is a best-effort pricing signal, not a guarantee.
type Pricing struct {
	HasFreeTier bool   `json:"has_free_tier"`
	PricePoint  string `json:"price_point,omitempty"`
	Model       string `json:"model,omitempty"` // "monthly" when detected
}

// CallToAction is the primary conversion action.
type CallToAction struct {
	Text string `json:"text"`
	Link string `json:"link"`
	Type string `json:"type"`
}

// Contact holds the business's reachable channels.
type Contact struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

// PageMeta carries document-level metadata.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OriginalURL string `json:"original_url"`
}
