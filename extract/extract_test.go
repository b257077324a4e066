package extract

import (
	"reflect"
	"testing"
)

const testURL = "https://kreuzberg-coffee.example"

func TestAnalyze_HeroFromH1(t *testing.T) {
	html := []byte(`<html><head><title>Kreuzberg Coffee</title></head>
		<body><h1>Welcome to Kreuzberg Coffee</h1></body></html>`)

	a := Analyze(html, testURL)

	if a.HeroText != "Welcome to Kreuzberg Coffee" {
		t.Errorf("HeroText = %q, want h1 text", a.HeroText)
	}
	if a.MetaDescription != "" {
		t.Errorf("MetaDescription = %q, want empty when no meta tag", a.MetaDescription)
	}
	if a.BusinessName != "Kreuzberg Coffee" {
		t.Errorf("BusinessName = %q, want title text", a.BusinessName)
	}
}

func TestAnalyze_HeroFallsBackToOGTitle(t *testing.T) {
	html := []byte(`<html><head><meta property="og:title" content="Acme Tools"></head>
		<body><p>No headings here.</p></body></html>`)

	a := Analyze(html, testURL)
	if a.HeroText != "Acme Tools" {
		t.Errorf("HeroText = %q, want og:title fallback", a.HeroText)
	}
}

func TestAnalyze_SkipsEmptyH1(t *testing.T) {
	html := []byte(`<html><body><h1>   </h1><h1>Real Headline</h1></body></html>`)

	a := Analyze(html, testURL)
	if a.HeroText != "Real Headline" {
		t.Errorf("HeroText = %q, want first non-empty h1", a.HeroText)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	html := []byte(`<html><head><title>Studio Nord</title>
		<meta name="description" content="Design studio in Hamburg">
		<meta name="keywords" content="Design, Branding , web"></head>
		<body>
		<h1>Studio Nord</h1>
		<section><h2>Branding</h2><p>Identity systems for small teams.</p></section>
		<footer>Contact: <a href="mailto:mail@studio-nord.example">mail</a></footer>
		</body></html>`)

	first := Analyze(html, testURL)
	second := Analyze(html, testURL)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of identical HTML produced different output")
	}
	if want := []string{"design", "branding", "web"}; !reflect.DeepEqual(first.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", first.Keywords, want)
	}
}

func TestAnalyze_NoiseRemovedBeforeExtraction(t *testing.T) {
	html := []byte(`<html><body>
		<div class="cookie-banner"><h1>We use cookies</h1></div>
		<h1>Actual Product</h1>
		</body></html>`)

	a := Analyze(html, testURL)
	if a.HeroText != "Actual Product" {
		t.Errorf("HeroText = %q, cookie banner heading leaked through", a.HeroText)
	}
}

func TestAnalyze_MalformedHTML(t *testing.T) {
	a := Analyze([]byte(`<<<<not html at all`), testURL)
	if a == nil {
		t.Fatal("malformed input must still yield an analysis")
	}
	if a.SourceURL != testURL {
		t.Errorf("SourceURL = %q", a.SourceURL)
	}
}

func TestExtractFeatures_SectionHeadings(t *testing.T) {
	html := []byte(`<html><body>
		<section><h2>Fast setup</h2><p>Running in five minutes.</p></section>
		<section><h2>Team sync</h2><p>Everyone sees the same board.</p></section>
		</body></html>`)

	a := Analyze(html, testURL)
	if len(a.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(a.Features))
	}
	if a.Features[0].Title != "Fast setup" || a.Features[0].Description != "Running in five minutes." {
		t.Errorf("first feature = %+v", a.Features[0])
	}
}

func TestExtractTestimonials_LengthBounds(t *testing.T) {
	html := []byte(`<html><body>
		<blockquote>Short.</blockquote>
		<blockquote>This service completely changed how we run our bakery.</blockquote>
		<div class="testimonial"><p>This service completely changed how we run our bakery.</p></div>
		</body></html>`)

	a := Analyze(html, testURL)
	if len(a.Testimonials) != 1 {
		t.Fatalf("got %d testimonials, want 1 (short quote dropped, duplicate deduped)", len(a.Testimonials))
	}
}

func TestExtractCTA_SignupDetected(t *testing.T) {
	html := []byte(`<html><body>
		<a href="/blog">Read our blog</a>
		<a href="/register">Sign up free</a>
		</body></html>`)

	a := Analyze(html, testURL)
	if a.CTA == nil {
		t.Fatal("CTA not detected")
	}
	if a.CTA.Type != "signup" {
		t.Errorf("CTA.Type = %q, want signup", a.CTA.Type)
	}
	if a.CTA.Link != testURL+"/register" {
		t.Errorf("CTA.Link = %q, want absolute URL", a.CTA.Link)
	}
}

func TestAnalyze_StatsAndPrices(t *testing.T) {
	html := []byte(`<html><body>
		<p>Trusted by 12,000+ customers in 30 countries.</p>
		<p>Plans from €9.99 per month.</p>
		</body></html>`)

	a := Analyze(html, testURL)
	if len(a.Stats) == 0 {
		t.Error("expected at least one stat extracted")
	}
	if len(a.Prices) == 0 || a.Prices[0] != "€9.99" {
		t.Errorf("Prices = %v, want €9.99 first", a.Prices)
	}
}
