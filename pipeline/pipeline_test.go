package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/use-agent/storyboard/blueprint"
	"github.com/use-agent/storyboard/cache"
	"github.com/use-agent/storyboard/classify"
	"github.com/use-agent/storyboard/models"
)

type stubScraper struct {
	analysis *models.RawSiteAnalysis
	err      error
	calls    int
}

func (s *stubScraper) Scrape(_ context.Context, _ string) (*models.RawSiteAnalysis, error) {
	s.calls++
	return s.analysis, s.err
}

func newTestPipeline(s *stubScraper) *Pipeline {
	return New(s, classify.NewChain(), blueprint.NewFactory(nil), cache.New(10), nil)
}

func TestGenerate_EndToEnd(t *testing.T) {
	s := &stubScraper{analysis: &models.RawSiteAnalysis{
		SourceURL: "https://shop.test",
		HeroText:  "Bergmann Records",
		Phone:     "030 555",
		Address:   "Bergmannstraße 7",
		CTA:       &models.CTAExtract{Text: "Shop now", Type: "buy"},
	}}
	p := newTestPipeline(s)

	bp, err := p.Generate(context.Background(), "https://shop.test", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(bp.Beats) == 0 {
		t.Fatal("blueprint has no beats")
	}
	if bp.Classification.Type == "" || bp.Classification.Intent == "" {
		t.Errorf("classification incomplete: %+v", bp.Classification)
	}
	if bp.TotalDuration <= 0 {
		t.Error("TotalDuration must be positive")
	}
}

func TestGenerate_ScrapeErrorPropagates(t *testing.T) {
	s := &stubScraper{err: models.NewScrapeError(models.ErrCodeTimeout, "deadline", errors.New("timeout"))}
	p := newTestPipeline(s)

	if _, err := p.Generate(context.Background(), "https://down.test", 0); err == nil {
		t.Error("scrape error must surface")
	}
}

func TestGenerate_CacheAvoidsRescrape(t *testing.T) {
	s := &stubScraper{analysis: &models.RawSiteAnalysis{HeroText: "Cached Site"}}
	p := newTestPipeline(s)

	if _, err := p.Generate(context.Background(), "https://c.test", time.Minute); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, err := p.Generate(context.Background(), "https://c.test", time.Minute); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if s.calls != 1 {
		t.Errorf("scraper called %d times, cached run should not rescrape", s.calls)
	}
}

func TestGenerate_ZeroMaxAgeBypassesCache(t *testing.T) {
	s := &stubScraper{analysis: &models.RawSiteAnalysis{HeroText: "Fresh Site"}}
	p := newTestPipeline(s)

	p.Generate(context.Background(), "https://f.test", 0)
	p.Generate(context.Background(), "https://f.test", 0)
	if s.calls != 2 {
		t.Errorf("scraper called %d times, maxAge 0 must always rescrape", s.calls)
	}
}
