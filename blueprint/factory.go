package blueprint

import (
	"fmt"
	"log/slog"

	"github.com/use-agent/storyboard/models"
)

// Beat durations in seconds, by narrative role.
const (
	durHook     = 3.0
	durDemo     = 5.0
	durProof    = 4.0
	durSolution = 4.0
	durCTA      = 3.0
)

// Factory turns a normalized page plus its classification into an
// ordered video blueprint. Create is pure and total: it never errors,
// never fetches, and never invents content the page does not carry.
type Factory struct {
	log *slog.Logger
}

func NewFactory(log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	return &Factory{log: log}
}

// Create builds the beat sequence for the classified site type. Unknown
// or generic types get the fallback three-beat arc.
func (f *Factory) Create(page *models.NormalizedPage, cls *models.SiteClassification) *models.VideoBlueprint {
	if page == nil {
		page = &models.NormalizedPage{}
	}
	if cls == nil {
		cls = &models.SiteClassification{Type: models.SiteOther, Intent: models.IntentFastEasy}
	}

	var beats []models.StoryBeat
	switch cls.Type {
	case models.SiteSaaSLanding:
		beats = f.saasBeats(page)
	case models.SitePortfolio:
		beats = f.portfolioBeats(page)
	case models.SiteEcommerce:
		beats = f.ecommerceBeats(page)
	case models.SiteLocalService:
		beats = f.localServiceBeats(page)
	default:
		beats = f.fallbackBeats(page)
	}

	for i := range beats {
		beats[i].ID = fmt.Sprintf("beat-%d", i+1)
	}

	total := 0.0
	for _, b := range beats {
		total += b.Duration
	}

	f.log.Debug("blueprint created",
		"site_type", cls.Type,
		"beats", len(beats),
		"total_duration", total)

	return &models.VideoBlueprint{
		Classification: *cls,
		Beats:          beats,
		TotalDuration:  total,
		ColorPalette:   paletteFor(cls.Type),
		FontPairing:    fontsFor(cls.Type),
	}
}

// newBeat resolves the content source against the page eagerly. An empty
// resolution leaves ContentValue empty; it is never padded with filler.
func newBeat(kind models.BeatKind, duration float64, style models.VisualStyle, src contentSource, page *models.NormalizedPage, script string) models.StoryBeat {
	return models.StoryBeat{
		Kind:              kind,
		Duration:          duration,
		Style:             style,
		ContentSource:     src.path,
		ContentValue:      src.resolve(page),
		ScriptInstruction: script,
		VisualInstruction: "Visual style: " + string(style),
	}
}

func (f *Factory) saasBeats(page *models.NormalizedPage) []models.StoryBeat {
	beats := []models.StoryBeat{
		newBeat(models.BeatHook, durHook, models.StyleZoomScreenshot, srcHeroHeadline, page,
			"Open on the product headline; state the core promise in one line."),
	}

	if len(page.Features) > 0 {
		beats = append(beats, newBeat(models.BeatDemo, durDemo, models.StyleSplitUI, srcFirstFeatureTitle, page,
			"Show the product doing its headline feature."))
	} else {
		beats = append(beats, newBeat(models.BeatSolution, durSolution, models.StyleTextOverlay, srcHeroSubhead, page,
			"Restate the value proposition as the viewer's problem solved."))
	}

	switch {
	case len(page.SocialProof.Testimonials) > 0:
		beats = append(beats, newBeat(models.BeatProof, durProof, models.StyleQuoteAnimation, srcFirstTestimonial, page,
			"Let a customer voice carry the trust moment."))
	case len(page.SocialProof.Stats) > 0:
		beats = append(beats, newBeat(models.BeatProof, durProof, models.StyleTextOverlay, srcFirstStat, page,
			"Put the strongest number on screen."))
	default:
		beats = append(beats, newBeat(models.BeatSolution, durSolution, models.StyleCinematicBroll, srcMetaDescription, page,
			"Reinforce the benefit in plain language; no invented quotes."))
	}

	return append(beats, newBeat(models.BeatCTA, durCTA, models.StyleTextOverlay, srcCTAText, page,
		"Close with the primary action and where to take it."))
}

func (f *Factory) portfolioBeats(page *models.NormalizedPage) []models.StoryBeat {
	hookStyle := models.StyleZoomScreenshot
	if page.Hero.VisualURL != "" {
		hookStyle = models.StyleTalkingHead
	}
	return []models.StoryBeat{
		newBeat(models.BeatHook, durHook, hookStyle, srcHeroHeadline, page,
			"Introduce the person behind the work."),
		newBeat(models.BeatProof, durProof, models.StyleScrollCapture, srcHeroVisual, page,
			"Scroll through the strongest pieces of the portfolio."),
		newBeat(models.BeatCTA, durCTA, models.StyleTextOverlay, srcCTAText, page,
			"Invite the viewer to get in touch."),
	}
}

func (f *Factory) ecommerceBeats(page *models.NormalizedPage) []models.StoryBeat {
	return []models.StoryBeat{
		newBeat(models.BeatHook, durHook, models.StyleCinematicBroll, srcHeroHeadline, page,
			"Lead with the hero product in use."),
		newBeat(models.BeatDemo, durDemo, models.StyleProductGrid, srcFirstFeatureTitle, page,
			"Pan across the range; keep each product on screen briefly."),
		newBeat(models.BeatProof, durProof, models.StyleTextOverlay, srcPricePoint, page,
			"Surface the price or current deal."),
		newBeat(models.BeatCTA, durCTA, models.StyleTextOverlay, srcCTAText, page,
			"Drive to the cart."),
	}
}

func (f *Factory) localServiceBeats(page *models.NormalizedPage) []models.StoryBeat {
	beats := []models.StoryBeat{
		newBeat(models.BeatHook, durHook, models.StyleCinematicBroll, srcHeroHeadline, page,
			"Show the service being delivered, not described."),
	}

	if len(page.SocialProof.Testimonials) > 0 {
		beats = append(beats, newBeat(models.BeatProof, durProof, models.StyleQuoteAnimation, srcFirstTestimonial, page,
			"A local customer vouches for the business."))
	} else {
		beats = append(beats, newBeat(models.BeatSolution, durSolution, models.StyleTextOverlay, srcHeroSubhead, page,
			"Restate what sets this business apart; never fabricate a review."))
	}

	return append(beats, newBeat(models.BeatCTA, durCTA, models.StyleTextOverlay, srcContactPhone, page,
		"End on the phone number; make calling the obvious next step."))
}

func (f *Factory) fallbackBeats(page *models.NormalizedPage) []models.StoryBeat {
	return []models.StoryBeat{
		newBeat(models.BeatHook, durHook, models.StyleZoomScreenshot, srcHeroHeadline, page,
			"Open on the page's main message."),
		newBeat(models.BeatSolution, durSolution, models.StyleTextOverlay, srcHeroSubhead, page,
			"Expand on what the site offers."),
		newBeat(models.BeatCTA, durCTA, models.StyleTextOverlay, srcCTAText, page,
			"Close with the page's primary action."),
	}
}
