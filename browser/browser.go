// Package browser is the most expensive extraction tier: a headless
// Chromium session that renders JS, dismisses consent dialogs, clicks
// info affordances, and re-extracts from the revealed DOM. It is invoked
// only when the cheaper tiers leave the sufficiency predicate unmet.
package browser

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/extract"
	"github.com/use-agent/storyboard/models"
)

// Session owns one long-lived headless browser, reused across Extract
// calls to amortise launch cost. The browser launches lazily on first use;
// the caller must release it with Close. Safe for concurrent use — each
// Extract runs in its own tab.
type Session struct {
	cfg config.BrowserConfig

	mu      sync.Mutex
	browser *rod.Browser
}

// NewSession creates a Session without launching anything.
func NewSession(cfg config.BrowserConfig) *Session {
	return &Session{cfg: cfg}
}

// ensureBrowser launches and connects the browser on first use.
func (s *Session) ensureBrowser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)

	if s.cfg.BrowserBin != "" {
		l = l.Bin(s.cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	s.browser = browser
	return browser, nil
}

// Close kills the browser process if one was ever launched. Call this on
// graceful shutdown to prevent zombie Chrome processes.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}
	slog.Info("browser session shutting down")
	_ = s.browser.Close()
	s.browser = nil
}

// Extract renders targetURL and enriches prior with everything the
// revealed DOM yields: structured data first (cheapest signal once the
// browser is already paid for), then DOM-text extraction, then a bounded
// sequence of reveal interactions with re-extraction after each.
//
// Interaction failures are silently skipped. A completely failed session
// returns whatever analysis existed before the session started — never an
// error — so the pipeline always produces some analysis.
func (s *Session) Extract(ctx context.Context, targetURL string, prior *models.RawSiteAnalysis) *models.RawSiteAnalysis {
	analysis := cloneAnalysis(prior, targetURL)

	browser, err := s.ensureBrowser()
	if err != nil {
		slog.Warn("browser tier unavailable, keeping partial analysis",
			"url", targetURL, "error", err)
		return analysis
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		slog.Warn("browser tier: failed to open tab", "url", targetURL, "error", err)
		return analysis
	}
	// Close uses the original page reference so cleanup succeeds even
	// after the request context has expired.
	defer func() { _ = page.Close() }()

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	// Google referer makes bot checks noticeably less aggressive.
	if u, parseErr := url.Parse(targetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	p := page.Context(ctx)

	navCtx, navCancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	if navErr := page.Context(navCtx).Navigate(targetURL); navErr != nil {
		navCancel()
		slog.Warn("browser tier: navigation failed, keeping partial analysis",
			"url", targetURL, "error", navErr)
		return analysis
	}
	navCancel()

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr)
	}

	// First harvest: structured data, then full DOM extraction.
	s.harvest(p, targetURL, analysis)
	if analysis.Sufficient() {
		return analysis
	}

	// Reveal sequence. Each step is best-effort; extraction re-runs after
	// every interaction that might have changed the DOM.
	s.dismissConsent(p)
	s.harvest(p, targetURL, analysis)

	s.clickInfoButtons(p, targetURL, analysis)

	if !analysis.Sufficient() {
		s.expandAccordions(p)
		s.harvest(p, targetURL, analysis)
	}

	return analysis
}

// harvest re-reads the current DOM and merges new fields into the
// analysis on a first-writer-wins basis.
func (s *Session) harvest(p *rod.Page, targetURL string, analysis *models.RawSiteAnalysis) {
	html, err := p.HTML()
	if err != nil {
		slog.Debug("browser tier: HTML snapshot failed", "error", err)
		return
	}
	raw := []byte(html)
	if sd := extract.AnalyzeStructuredData(raw, targetURL); sd != nil {
		analysis.Merge(sd)
	}
	analysis.Merge(extract.Analyze(raw, targetURL))
}

// cloneAnalysis copies prior so a crashed session cannot half-mutate the
// caller's value.
func cloneAnalysis(prior *models.RawSiteAnalysis, targetURL string) *models.RawSiteAnalysis {
	analysis := &models.RawSiteAnalysis{SourceURL: targetURL}
	analysis.Merge(prior)
	if prior != nil && prior.SourceURL != "" {
		analysis.SourceURL = prior.SourceURL
	}
	return analysis
}
