package models

// SiteType is the closed set of site archetypes the pipeline recognises.
type SiteType string

const (
	SitePortfolio    SiteType = "PORTFOLIO"
	SiteSaaSLanding  SiteType = "SAAS_LANDING"
	SiteEcommerce    SiteType = "ECOMMERCE"
	SiteLocalService SiteType = "LOCAL_SERVICE"
	SiteBlog         SiteType = "BLOG"
	SiteCourse       SiteType = "COURSE"
	SiteOther        SiteType = "OTHER"
)

// SiteTypes lists the concrete archetypes in declaration order. The
// heuristic scorer breaks score ties by this order, and tests pin that
// behavior, so the order here is load-bearing.
var SiteTypes = []SiteType{
	SitePortfolio,
	SiteSaaSLanding,
	SiteEcommerce,
	SiteLocalService,
	SiteBlog,
	SiteCourse,
}

// PrimaryIntent is the persuasive angle the video should lead with.
type PrimaryIntent string

const (
	IntentFastEasy   PrimaryIntent = "FAST_EASY"
	IntentTrustProof PrimaryIntent = "TRUST_PROOF"
	IntentPremium    PrimaryIntent = "PREMIUM"
	IntentDeals      PrimaryIntent = "DEALS"
	IntentAuthority  PrimaryIntent = "AUTHORITY"
	IntentContact    PrimaryIntent = "CONTACT"
)

// SiteClassification is the output of one classifier tier. Confidence is
// on the producing tier's own scale; scores from different tiers are not
// comparable, only thresholded independently.
type SiteClassification struct {
	Type       SiteType      `json:"type"`
	Intent     PrimaryIntent `json:"intent"`
	Confidence float64       `json:"confidence"`
	Reasoning  []string      `json:"reasoning"` // append-only audit trail, never parsed
}
