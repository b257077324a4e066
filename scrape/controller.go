// Package scrape orchestrates the extraction tiers in strict cost order:
// one HTTP fetch with lightweight and structured-data extraction, a
// concurrent widening to conventional subpages, and — only when the
// sufficiency predicate still fails — the headless browser tier.
package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/extract"
	"github.com/use-agent/storyboard/models"
	"github.com/use-agent/storyboard/simhash"
)

// softDupThreshold is the SimHash distance under which a subpage is
// treated as the homepage served again (a soft 404) and skipped.
const softDupThreshold = 3

// subpage describes one conventional path fetched in the widening step.
type subpage struct {
	path string
	kind string // "about", "pricing", "testimonials", "contact", "impressum"
}

// conventionalSubpages are fetched concurrently with per-page failure
// tolerance; a failed fetch yields nothing and never aborts the batch.
var conventionalSubpages = []subpage{
	{"/about", "about"},
	{"/pricing", "pricing"},
	{"/testimonials", "testimonials"},
	{"/contact", "contact"},
	{"/impressum", "impressum"},
}

// PageFetcher is the single-GET transport used by the cheap tier.
type PageFetcher interface {
	Fetch(ctx context.Context, targetURL string) ([]byte, error)
}

// BrowserExtractor is the expensive escalation tier. It never returns an
// error; a failed session returns the prior analysis unchanged.
type BrowserExtractor interface {
	Extract(ctx context.Context, targetURL string, prior *models.RawSiteAnalysis) *models.RawSiteAnalysis
}

// Controller runs the tiers and decides, per the sufficiency predicate,
// whether the browser escalation is warranted.
type Controller struct {
	fetcher PageFetcher
	browser BrowserExtractor // nil disables the browser tier
	cfg     config.ScraperConfig
	limiter *rate.Limiter
}

// NewController creates a Controller. browser may be nil, in which case
// escalation is skipped and the cheap-tier analysis is final.
func NewController(fetcher PageFetcher, browser BrowserExtractor, cfg config.ScraperConfig) *Controller {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}
	return &Controller{
		fetcher: fetcher,
		browser: browser,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Scrape produces a RawSiteAnalysis for targetURL. The only error it can
// return is a transport error from the initial fetch — everything after
// that degrades into a sparser analysis instead of failing.
func (c *Controller) Scrape(ctx context.Context, targetURL string) (*models.RawSiteAnalysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTimeout, "rate limiter wait", err)
	}

	body, err := c.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	analysis := extract.Analyze(body, targetURL)

	if c.cfg.FetchSubpages {
		c.widenToSubpages(ctx, targetURL, body, analysis)
	}

	if !analysis.Sufficient() && c.browser != nil {
		slog.Info("escalating to browser tier",
			"url", targetURL,
			"hasContact", analysis.HasContact(),
			"hasLocationOrHours", analysis.HasLocationOrHours(),
		)
		analysis = c.browser.Extract(ctx, targetURL, analysis)
	}

	return analysis, nil
}

// widenToSubpages fetches the conventional subpages concurrently and
// merges their content. Results are merged in declaration order after the
// batch completes so output stays deterministic regardless of fetch
// timing.
func (c *Controller) widenToSubpages(ctx context.Context, targetURL string, homeBody []byte, analysis *models.RawSiteAnalysis) {
	base, err := url.Parse(targetURL)
	if err != nil {
		return
	}
	homeFP := simhash.Fingerprint(extract.SubpageText(homeBody, targetURL))

	type subpageResult struct {
		text     string
		analysis *models.RawSiteAnalysis
	}
	results := make([]*subpageResult, len(conventionalSubpages))

	g, gctx := errgroup.WithContext(ctx)
	for i, sp := range conventionalSubpages {
		g.Go(func() error {
			pageURL := base.ResolveReference(&url.URL{Path: sp.path}).String()

			if waitErr := c.limiter.Wait(gctx); waitErr != nil {
				return nil
			}
			body, fetchErr := c.fetcher.Fetch(gctx, pageURL)
			if fetchErr != nil {
				// Per-page failure tolerance: skip, never abort the batch.
				slog.Debug("subpage fetch skipped", "url", pageURL, "error", fetchErr)
				return nil
			}

			text := extract.SubpageText(body, pageURL)
			if text != "" && simhash.Similar(homeFP, simhash.Fingerprint(text), softDupThreshold) {
				// Soft 404: the site served the homepage again.
				slog.Debug("subpage mirrors homepage, skipped", "url", pageURL)
				return nil
			}

			results[i] = &subpageResult{
				text:     text,
				analysis: extract.Analyze(body, pageURL),
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, sp := range conventionalSubpages {
		res := results[i]
		if res == nil {
			continue
		}
		switch sp.kind {
		case "about":
			if analysis.AboutText == "" {
				analysis.AboutText = res.text
			}
		case "pricing":
			if analysis.PricingText == "" {
				analysis.PricingText = res.text
			}
			if len(analysis.Prices) == 0 && res.analysis != nil {
				analysis.Prices = res.analysis.Prices
			}
		case "testimonials":
			if analysis.TestimonialText == "" {
				analysis.TestimonialText = res.text
			}
			if res.analysis != nil && len(res.analysis.Testimonials) > 0 {
				analysis.Testimonials = mergeTestimonials(analysis.Testimonials, res.analysis.Testimonials)
			}
		case "contact", "impressum":
			if res.analysis != nil {
				// Contact pages carry the densest contact/location
				// signal; merge everything first-writer-wins.
				scrubSubpageHero(res.analysis)
				analysis.Merge(res.analysis)
			}
		}
	}
}

// scrubSubpageHero drops presentation fields from a subpage analysis so a
// contact page's "Get in touch" h1 can never displace the homepage hero.
func scrubSubpageHero(a *models.RawSiteAnalysis) {
	a.HeroText = ""
	a.MetaDescription = ""
	a.Keywords = nil
	a.Media = nil
	a.Features = nil
	a.CTA = nil
}

// mergeTestimonials appends new quotes, deduplicating on the quote text.
func mergeTestimonials(existing, incoming []models.Testimonial) []models.Testimonial {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[strings.TrimSpace(t.Quote)] = struct{}{}
	}
	out := existing
	for _, t := range incoming {
		key := strings.TrimSpace(t.Quote)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
