// Package pipeline wires the scrape, normalize, classify, and blueprint
// stages into the single entry point the API and MCP surfaces call.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/storyboard/blueprint"
	"github.com/use-agent/storyboard/cache"
	"github.com/use-agent/storyboard/classify"
	"github.com/use-agent/storyboard/models"
	"github.com/use-agent/storyboard/normalize"
	"github.com/use-agent/storyboard/scrape"
)

// Scraper produces a raw analysis for a URL. *scrape.Controller is the
// production implementation; tests substitute fakes.
type Scraper interface {
	Scrape(ctx context.Context, targetURL string) (*models.RawSiteAnalysis, error)
}

// Pipeline runs the full URL-to-blueprint flow with a cache in front.
type Pipeline struct {
	scraper Scraper
	chain   *classify.Chain
	factory *blueprint.Factory
	cache   *cache.Cache
	log     *slog.Logger
}

func New(scraper Scraper, chain *classify.Chain, factory *blueprint.Factory, c *cache.Cache, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		scraper: scraper,
		chain:   chain,
		factory: factory,
		cache:   c,
		log:     log,
	}
}

// Generate scrapes targetURL and produces its video blueprint. maxAge
// controls cache reuse: a cached blueprint younger than maxAge is
// returned without touching the network; maxAge <= 0 bypasses the cache.
// The only errors are scrape transport errors — every later stage is
// total.
func (p *Pipeline) Generate(ctx context.Context, targetURL string, maxAge time.Duration) (*models.VideoBlueprint, error) {
	key := cache.Key(targetURL)
	if p.cache != nil {
		if bp, ok := p.cache.Get(key, maxAge); ok {
			p.log.Debug("blueprint cache hit", "url", targetURL)
			return bp, nil
		}
	}

	start := time.Now()
	raw, err := p.scraper.Scrape(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	page := normalize.Normalize(raw)
	cls := p.chain.Classify(ctx, page)
	bp := p.factory.Create(page, cls)

	p.log.Info("blueprint generated",
		"url", targetURL,
		"site_type", cls.Type,
		"intent", cls.Intent,
		"beats", len(bp.Beats),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if p.cache != nil {
		p.cache.Set(key, bp)
	}
	return bp, nil
}

var _ Scraper = (*scrape.Controller)(nil)
