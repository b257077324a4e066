package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/use-agent/storyboard/models"
)

const (
	// minSignalFloor is the score under which keyword evidence is too
	// weak and the business-context fallback applies instead.
	minSignalFloor = 2

	// normalizingConstant converts a keyword score into the tier's own
	// [0,1] confidence scale. Not calibrated against the hosted tiers'
	// scales; the two are thresholded independently, never compared.
	normalizingConstant = 10.0
)

// weightedKeyword contributes its weight once when the phrase occurs as a
// substring of the aggregated page text.
type weightedKeyword struct {
	phrase string
	weight int
}

var typeKeywords = map[models.SiteType][]weightedKeyword{
	models.SitePortfolio: {
		{"portfolio", 3}, {"my work", 3}, {"about me", 2}, {"freelance", 2},
		{"resume", 2}, {"case study", 2}, {"photographer", 2}, {"illustrator", 2},
		{"designer", 1}, {"developer", 1},
	},
	models.SiteSaaSLanding: {
		{"saas", 3}, {"free trial", 3}, {"api", 2}, {"dashboard", 2},
		{"integration", 2}, {"workflow", 2}, {"automate", 2}, {"analytics", 2},
		{"platform", 1}, {"software", 1}, {"sign up", 1}, {"free", 1},
	},
	models.SiteEcommerce: {
		{"add to cart", 3}, {"checkout", 3}, {"buy now", 3}, {"shipping", 2},
		{"shop", 2}, {"in stock", 2}, {"store", 1}, {"sale", 1}, {"order", 1},
	},
	models.SiteLocalService: {
		{"opening hours", 3}, {"visit us", 2}, {"call us", 2}, {"appointment", 2},
		{"family owned", 2}, {"our location", 2}, {"serving", 1}, {"estimate", 1},
		{"local", 1},
	},
	models.SiteBlog: {
		{"blog", 3}, {"latest posts", 3}, {"read more", 2}, {"posted on", 2},
		{"subscribe", 1}, {"author", 1}, {"article", 1},
	},
	models.SiteCourse: {
		{"enroll", 3}, {"course", 3}, {"curriculum", 2}, {"certificate", 2},
		{"lesson", 2}, {"masterclass", 2}, {"students", 1}, {"learn", 1},
	},
}

var intentKeywords = map[models.PrimaryIntent][]string{
	models.IntentFastEasy:   {"fast", "easy", "instant", "in minutes", "simple", "effortless", "quick"},
	models.IntentTrustProof: {"trusted", "reviews", "rated", "testimonial", "guarantee", "certified", "loved by"},
	models.IntentPremium:    {"premium", "luxury", "bespoke", "exclusive", "handcrafted", "finest"},
	models.IntentDeals:      {"sale", "discount", "% off", "deal", "save", "limited time", "bargain"},
	models.IntentAuthority:  {"expert", "leading", "award", "proven", "industry", "since 19", "since 20"},
	models.IntentContact:    {"call us", "get in touch", "contact", "book", "appointment", "visit"},
}

// intentOrder fixes the iteration order for deterministic tie-breaks.
var intentOrder = []models.PrimaryIntent{
	models.IntentFastEasy,
	models.IntentTrustProof,
	models.IntentPremium,
	models.IntentDeals,
	models.IntentAuthority,
	models.IntentContact,
}

// canonicalIntent is the per-type default when no intent keyword scores.
var canonicalIntent = map[models.SiteType]models.PrimaryIntent{
	models.SitePortfolio:    models.IntentAuthority,
	models.SiteSaaSLanding:  models.IntentFastEasy,
	models.SiteEcommerce:    models.IntentDeals,
	models.SiteLocalService: models.IntentContact,
	models.SiteBlog:         models.IntentAuthority,
	models.SiteCourse:       models.IntentTrustProof,
	models.SiteOther:        models.IntentTrustProof,
}

// reNameTitle matches titles that lead with a person's name, e.g.
// "Jane Doe — Product Designer".
var reNameTitle = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+(?:\s*[-–—|]|$)`)

// Heuristic is the terminal classifier tier: a deterministic keyword and
// structure scorer that is always available and never fails.
type Heuristic struct{}

// NewHeuristic creates the tier.
func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Classify(_ context.Context, page *models.NormalizedPage) (*models.SiteClassification, error) {
	text := aggregateText(page)

	scores := make(map[models.SiteType]int, len(models.SiteTypes))
	var reasoning []string

	for _, siteType := range models.SiteTypes {
		score := 0
		var hits []string
		for _, kw := range typeKeywords[siteType] {
			if strings.Contains(text, kw.phrase) {
				score += kw.weight
				hits = append(hits, kw.phrase)
			}
		}
		scores[siteType] = score
		if score > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%s keyword score %d (%s)",
				siteType, score, strings.Join(hits, ", ")))
		}
	}

	applyStructuralBoosts(page, scores, &reasoning)

	// Highest score wins; ties go to the first type in declaration
	// order. That tie-break is pinned by test until product confirms it
	// is intentional.
	best := models.SiteTypes[0]
	for _, siteType := range models.SiteTypes[1:] {
		if scores[siteType] > scores[best] {
			best = siteType
		}
	}

	if scores[best] < minSignalFloor {
		fallback, why := businessContextFallback(page)
		reasoning = append(reasoning,
			fmt.Sprintf("keyword signal too weak (max %d), business-context fallback: %s", scores[best], why))
		return &models.SiteClassification{
			Type:       fallback,
			Confidence: clamp01(float64(scores[best]) / normalizingConstant),
			Reasoning:  reasoning,
		}, nil
	}

	return &models.SiteClassification{
		Type:       best,
		Confidence: clamp01(float64(scores[best]) / normalizingConstant),
		Reasoning:  reasoning,
	}, nil
}

// applyStructuralBoosts adds evidence that is structural rather than
// lexical: pricing shape, contact shape, raw site-type hints, and
// name-led titles.
func applyStructuralBoosts(page *models.NormalizedPage, scores map[models.SiteType]int, reasoning *[]string) {
	if page.Pricing.HasFreeTier {
		scores[models.SiteSaaSLanding] += 3
		*reasoning = append(*reasoning, "free tier detected: +3 SAAS_LANDING")
	}
	if page.Contact.Phone != "" && page.Contact.Address != "" {
		scores[models.SiteLocalService] += 4
		*reasoning = append(*reasoning, "phone and address present: +4 LOCAL_SERVICE")
	}
	if reNameTitle.MatchString(page.Meta.Title) {
		scores[models.SitePortfolio] += 3
		*reasoning = append(*reasoning, "personal-name title pattern: +3 PORTFOLIO")
	}

	if page.Raw == nil {
		return
	}
	switch page.Raw.SiteTypeHint {
	case "personal":
		scores[models.SitePortfolio] += 4
		*reasoning = append(*reasoning, "structured data marks a person: +4 PORTFOLIO")
	case "local":
		scores[models.SiteLocalService] += 4
		*reasoning = append(*reasoning, "structured data marks a local business: +4 LOCAL_SERVICE")
	case "store":
		scores[models.SiteEcommerce] += 4
		*reasoning = append(*reasoning, "structured data marks a store/product: +4 ECOMMERCE")
	case "blog":
		scores[models.SiteBlog] += 3
		*reasoning = append(*reasoning, "structured data marks an article/blog: +3 BLOG")
	case "course":
		scores[models.SiteCourse] += 3
		*reasoning = append(*reasoning, "structured data marks a course: +3 COURSE")
	}
}

// businessContextFallback decides a safe default when keyword evidence is
// too weak: email without phone smells like a software business, a phone
// number smells like a local one, and SaaS is the safe default for
// unknown businesses.
func businessContextFallback(page *models.NormalizedPage) (models.SiteType, string) {
	switch {
	case page.Contact.Email != "" && page.Contact.Phone == "":
		return models.SiteSaaSLanding, "email but no phone"
	case page.Contact.Phone != "":
		return models.SiteLocalService, "phone present"
	default:
		return models.SiteSaaSLanding, "no contact signal, safe default"
	}
}

// DetectIntent runs the intent vote over the fixed vocabulary,
// independently of type detection. Each occurring phrase scores one
// point; when nothing scores, the type's canonical intent applies.
func DetectIntent(page *models.NormalizedPage, siteType models.SiteType) models.PrimaryIntent {
	text := aggregateText(page)

	best := models.PrimaryIntent("")
	bestScore := 0
	for _, intent := range intentOrder {
		score := 0
		for _, phrase := range intentKeywords[intent] {
			if strings.Contains(text, phrase) {
				score++
			}
		}
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}

	if bestScore == 0 {
		if fallback, ok := canonicalIntent[siteType]; ok {
			return fallback
		}
		return models.IntentTrustProof
	}
	return best
}
