package blueprint

import (
	"math"
	"testing"

	"github.com/use-agent/storyboard/models"
)

func classified(t models.SiteType) *models.SiteClassification {
	return &models.SiteClassification{Type: t, Intent: models.IntentFastEasy, Confidence: 0.8}
}

func saasPage() *models.NormalizedPage {
	return &models.NormalizedPage{
		Hero: models.Hero{Headline: "Ship faster", Subhead: "CI for small teams"},
		Features: []models.Feature{
			{Title: "One-click deploys", Description: "Push and go."},
		},
		SocialProof: models.SocialProof{
			Testimonials: []models.Testimonial{{Quote: "Cut our release time in half.", Author: "Customer"}},
		},
		CTA:  models.CallToAction{Text: "Start free", Link: "https://x.test/signup", Type: "signup"},
		Meta: models.PageMeta{Title: "Shipyard", Description: "CI for small teams"},
	}
}

func TestCreate_TotalDurationIsSumOfBeats(t *testing.T) {
	f := NewFactory(nil)
	page := saasPage()

	for _, siteType := range append(models.SiteTypes, models.SiteOther) {
		bp := f.Create(page, classified(siteType))

		sum := 0.0
		for _, b := range bp.Beats {
			sum += b.Duration
		}
		if math.Abs(bp.TotalDuration-sum) > 1e-9 {
			t.Errorf("%s: TotalDuration %.2f != beat sum %.2f", siteType, bp.TotalDuration, sum)
		}
	}
}

func TestCreate_SaaSScenario(t *testing.T) {
	bp := NewFactory(nil).Create(saasPage(), classified(models.SiteSaaSLanding))

	if len(bp.Beats) != 4 {
		t.Fatalf("got %d beats, want 4", len(bp.Beats))
	}
	hook := bp.Beats[0]
	if hook.Kind != models.BeatHook {
		t.Errorf("first beat kind = %s, want HOOK", hook.Kind)
	}
	if hook.Style != models.StyleZoomScreenshot {
		t.Errorf("hook style = %s, want zoom_screenshot", hook.Style)
	}
	if hook.ContentValue != "Ship faster" {
		t.Errorf("hook ContentValue = %q", hook.ContentValue)
	}
	if bp.Beats[1].Kind != models.BeatDemo {
		t.Errorf("second beat = %s, want DEMO when features exist", bp.Beats[1].Kind)
	}
	if bp.Beats[2].Kind != models.BeatProof || bp.Beats[2].Style != models.StyleQuoteAnimation {
		t.Errorf("third beat = %s/%s, want PROOF via testimonial", bp.Beats[2].Kind, bp.Beats[2].Style)
	}
	if last := bp.Beats[len(bp.Beats)-1]; last.Kind != models.BeatCTA || last.ContentValue != "Start free" {
		t.Errorf("last beat = %s %q, want CTA with the page's action", last.Kind, last.ContentValue)
	}
}

func TestCreate_SaaSWithoutFeaturesGetsSolution(t *testing.T) {
	page := saasPage()
	page.Features = nil
	bp := NewFactory(nil).Create(page, classified(models.SiteSaaSLanding))

	if bp.Beats[1].Kind != models.BeatSolution {
		t.Errorf("second beat = %s, want SOLUTION when no features exist", bp.Beats[1].Kind)
	}
}

func TestCreate_SaaSProofNeverFabricated(t *testing.T) {
	page := saasPage()
	page.SocialProof.Testimonials = nil
	page.SocialProof.Stats = nil
	bp := NewFactory(nil).Create(page, classified(models.SiteSaaSLanding))

	for _, b := range bp.Beats {
		if b.Kind == models.BeatProof {
			t.Error("PROOF beat emitted with no proof material on the page")
		}
	}
}

func TestCreate_SaaSStatProofFallback(t *testing.T) {
	page := saasPage()
	page.SocialProof.Testimonials = nil
	page.SocialProof.Stats = []string{"12,000+ customers"}
	bp := NewFactory(nil).Create(page, classified(models.SiteSaaSLanding))

	if bp.Beats[2].Kind != models.BeatProof || bp.Beats[2].ContentValue != "12,000+ customers" {
		t.Errorf("third beat = %s %q, want stat-backed PROOF", bp.Beats[2].Kind, bp.Beats[2].ContentValue)
	}
}

func TestCreate_PortfolioHookStyle(t *testing.T) {
	f := NewFactory(nil)

	withVisual := &models.NormalizedPage{
		Hero: models.Hero{Headline: "Jane Doe", VisualURL: "https://x.test/jane.jpg"},
	}
	bp := f.Create(withVisual, classified(models.SitePortfolio))
	if bp.Beats[0].Style != models.StyleTalkingHead {
		t.Errorf("hook style = %s, want talking_head when a hero visual exists", bp.Beats[0].Style)
	}

	withoutVisual := &models.NormalizedPage{Hero: models.Hero{Headline: "Jane Doe"}}
	bp = f.Create(withoutVisual, classified(models.SitePortfolio))
	if bp.Beats[0].Style != models.StyleZoomScreenshot {
		t.Errorf("hook style = %s, want zoom_screenshot without a hero visual", bp.Beats[0].Style)
	}
}

func TestCreate_LocalServiceScenario(t *testing.T) {
	page := &models.NormalizedPage{
		Hero:    models.Hero{Headline: "Plumbing done right", Subhead: "Serving Neukölln since 1998"},
		Contact: models.Contact{Phone: "030 555 7788", Address: "Sonnenallee 90"},
	}
	bp := NewFactory(nil).Create(page, classified(models.SiteLocalService))

	if len(bp.Beats) != 3 {
		t.Fatalf("got %d beats, want 3", len(bp.Beats))
	}
	if bp.Beats[1].Kind != models.BeatSolution {
		t.Errorf("second beat = %s, want SOLUTION when no testimonials exist", bp.Beats[1].Kind)
	}
	third := bp.Beats[2]
	if third.ContentSource != "contact.phone" {
		t.Errorf("third beat ContentSource = %q, want contact.phone", third.ContentSource)
	}
	if third.ContentValue != "030 555 7788" {
		t.Errorf("third beat ContentValue = %q", third.ContentValue)
	}
}

func TestCreate_NoFabricationLaw(t *testing.T) {
	// A blank page resolves nothing; no beat may carry synthesized text.
	bp := NewFactory(nil).Create(&models.NormalizedPage{}, classified(models.SiteEcommerce))

	for _, b := range bp.Beats {
		if b.ContentValue != "" {
			t.Errorf("beat %s has fabricated ContentValue %q on an empty page", b.ID, b.ContentValue)
		}
	}
}

func TestCreate_VisualInstructionDerivedFromStyle(t *testing.T) {
	bp := NewFactory(nil).Create(saasPage(), classified(models.SiteSaaSLanding))
	for _, b := range bp.Beats {
		if want := "Visual style: " + string(b.Style); b.VisualInstruction != want {
			t.Errorf("beat %s VisualInstruction = %q, want %q", b.ID, b.VisualInstruction, want)
		}
	}
}

func TestCreate_FallbackThreeBeats(t *testing.T) {
	for _, siteType := range []models.SiteType{models.SiteOther, models.SiteBlog, models.SiteCourse, "SOMETHING_NEW"} {
		bp := NewFactory(nil).Create(saasPage(), classified(siteType))
		if len(bp.Beats) != 3 {
			t.Errorf("%s: got %d beats, want the generic 3-beat arc", siteType, len(bp.Beats))
		}
		kinds := []models.BeatKind{bp.Beats[0].Kind, bp.Beats[1].Kind, bp.Beats[2].Kind}
		if kinds[0] != models.BeatHook || kinds[1] != models.BeatSolution || kinds[2] != models.BeatCTA {
			t.Errorf("%s: beat kinds = %v", siteType, kinds)
		}
	}
}

func TestCreate_NilInputsAreTotal(t *testing.T) {
	bp := NewFactory(nil).Create(nil, nil)
	if bp == nil || len(bp.Beats) == 0 {
		t.Fatal("Create must be total over nil inputs")
	}
	if len(bp.ColorPalette) == 0 {
		t.Error("default palette missing")
	}
}

func TestCreate_BeatIDsSequential(t *testing.T) {
	bp := NewFactory(nil).Create(saasPage(), classified(models.SiteEcommerce))
	for i, b := range bp.Beats {
		if want := "beat-" + string(rune('1'+i)); b.ID != want {
			t.Errorf("beat %d ID = %q, want %q", i, b.ID, want)
		}
	}
}
