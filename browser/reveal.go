package browser

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/storyboard/models"
)

// consentSelectors are tried in order against the rendered page; the first
// visible match is clicked and the rest are skipped. The order runs from
// dedicated consent-manager buttons down to generic accept buttons.
var consentSelectors = []string{
	`#onetrust-accept-btn-handler`,
	`button[id*="accept-cookie"]`,
	`button[id*="cookie-accept"]`,
	`button[class*="cookie-accept"]`,
	`[class*="cookie"] button[class*="accept"]`,
	`[class*="consent"] button[class*="accept"]`,
	`button[aria-label*="accept" i]`,
	`button[data-testid*="accept"]`,
}

// infoButtonPatterns match the conventional affordances that reveal
// contact or business details in a modal or expanded section.
var infoButtonPatterns = []string{
	`contact`, `kontakt`, `impressum`, `about`, `info`,
	`öffnungszeiten`, `opening hours`, `find us`, `visit us`,
}

// dismissConsent clicks at most one visible cookie-consent control.
// Failures are silently skipped — a stubborn banner degrades extraction
// quality, it never aborts it.
func (s *Session) dismissConsent(p *rod.Page) {
	for _, sel := range consentSelectors {
		el, err := p.Timeout(s.cfg.ElementTimeout).Element(sel)
		if err != nil {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			slog.Debug("consent click failed", "selector", sel, "error", err)
			continue
		}
		slog.Debug("consent dismissed", "selector", sel)
		return
	}
}

// clickInfoButtons clicks up to MaxInfoClicks conventional info/contact
// affordances, re-running extraction after each and stopping early once
// the sufficiency predicate holds. Missing or unclickable elements are
// skipped, never raised.
func (s *Session) clickInfoButtons(p *rod.Page, targetURL string, analysis *models.RawSiteAnalysis) {
	clicks := 0
	for _, pattern := range infoButtonPatterns {
		if clicks >= s.cfg.MaxInfoClicks || analysis.Sufficient() {
			return
		}
		el, err := p.Timeout(s.cfg.ElementTimeout).
			ElementR("button, a, [role=button]", "/"+pattern+"/i")
		if err != nil {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		// Same-page affordances only — a full navigation would leave the
		// site we are analysing.
		if href, attrErr := el.Attribute("href"); attrErr == nil && href != nil && isExternalLink(*href, targetURL) {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			slog.Debug("info button click failed", "pattern", pattern, "error", err)
			continue
		}
		clicks++
		_ = p.WaitDOMStable(300*time.Millisecond, 0.1)
		s.harvest(p, targetURL, analysis)
	}
}

// expandAccordions opens up to MaxAccordions collapsed disclosure
// elements (FAQ sections routinely hide hours and contact details).
func (s *Session) expandAccordions(p *rod.Page) {
	selectors := []string{
		`details:not([open]) > summary`,
		`[aria-expanded="false"]`,
		`[class*="accordion"] button`,
	}

	expanded := 0
	for _, sel := range selectors {
		if expanded >= s.cfg.MaxAccordions {
			return
		}
		els, err := p.Timeout(s.cfg.ElementTimeout).Elements(sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			if expanded >= s.cfg.MaxAccordions {
				return
			}
			visible, err := el.Visible()
			if err != nil || !visible {
				continue
			}
			if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
				continue
			}
			expanded++
		}
	}
}

// isExternalLink reports whether href leaves the host of targetURL.
// Fragments, relative paths, and javascript: pseudo-links all count as
// internal.
func isExternalLink(href, targetURL string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") ||
		strings.HasPrefix(href, "javascript:") {
		return false
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return false
	}
	return !strings.Contains(href, hostOf(targetURL))
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
