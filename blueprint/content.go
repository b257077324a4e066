package blueprint

import "github.com/use-agent/storyboard/models"

// contentSource binds a dotted-path name — kept on the wire for
// downstream script generation — to a typed accessor over the normalized
// page. The accessor replaces stringly-typed path traversal while keeping
// the "absent is fine" contract: an accessor that finds nothing returns
// "" and the beat ships without a ContentValue.
type contentSource struct {
	path    string
	resolve func(*models.NormalizedPage) string
}

var (
	srcHeroHeadline = contentSource{"hero.headline", func(p *models.NormalizedPage) string {
		return p.Hero.Headline
	}}
	srcHeroSubhead = contentSource{"hero.subhead", func(p *models.NormalizedPage) string {
		return p.Hero.Subhead
	}}
	srcHeroVisual = contentSource{"hero.visualUrl", func(p *models.NormalizedPage) string {
		return p.Hero.VisualURL
	}}
	srcFirstFeatureTitle = contentSource{"features.0.title", func(p *models.NormalizedPage) string {
		if len(p.Features) == 0 {
			return ""
		}
		return p.Features[0].Title
	}}
	srcFirstTestimonial = contentSource{"socialProof.testimonials.0.quote", func(p *models.NormalizedPage) string {
		if len(p.SocialProof.Testimonials) == 0 {
			return ""
		}
		return p.SocialProof.Testimonials[0].Quote
	}}
	srcFirstStat = contentSource{"socialProof.stats.0", func(p *models.NormalizedPage) string {
		if len(p.SocialProof.Stats) == 0 {
			return ""
		}
		return p.SocialProof.Stats[0]
	}}
	srcPricePoint = contentSource{"pricing.pricePoint", func(p *models.NormalizedPage) string {
		return p.Pricing.PricePoint
	}}
	srcCTAText = contentSource{"cta.text", func(p *models.NormalizedPage) string {
		return p.CTA.Text
	}}
	srcContactPhone = contentSource{"contact.phone", func(p *models.NormalizedPage) string {
		return p.Contact.Phone
	}}
	srcMetaDescription = contentSource{"meta.description", func(p *models.NormalizedPage) string {
		return p.Meta.Description
	}}
)
