// Package classify determines a site's archetype and persuasive intent
// through a chain of responsibility over classifier tiers. External tiers
// may err, time out, or answer below their confidence threshold; every
// failure escalates to the next tier, and the terminal heuristic tier is
// guaranteed to answer.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

// Classifier is one tier in the fallback chain. Implementations must not
// mutate the input page.
type Classifier interface {
	// Name identifies the tier in reasoning output and logs.
	Name() string

	// Classify returns the tier's verdict, or an error when the tier
	// cannot answer (transport failure, malformed response, timeout).
	Classify(ctx context.Context, page *models.NormalizedPage) (*models.SiteClassification, error)
}

// Tier pairs a classifier with its confidence threshold. Thresholds are
// per-tier because confidence scales are not calibrated across tiers —
// comparing a hosted model's softmax score against the heuristic's
// normalized keyword score would be meaningless.
type Tier struct {
	Classifier Classifier
	Threshold  float64
}

// Chain runs tiers in order and returns exactly one tier's result. The
// heuristic tier is always appended as the terminal fallback, so Classify
// cannot fail.
type Chain struct {
	tiers []Tier
}

// NewChain builds a chain from the given tiers plus the terminal
// heuristic tier.
func NewChain(tiers ...Tier) *Chain {
	return &Chain{
		tiers: append(tiers, Tier{Classifier: NewHeuristic(), Threshold: 0}),
	}
}

// FromConfig assembles the chain from configuration, in decreasing
// accuracy / increasing availability order: GPU-hosted, secondary hosted,
// subprocess, heuristic. httpClient may be nil.
func FromConfig(cfg config.ClassifierConfig, httpClient *http.Client) *Chain {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var tiers []Tier
	if cfg.Beam.Enabled {
		tiers = append(tiers, Tier{
			Classifier: NewBeamClassifier(cfg.Beam, httpClient),
			Threshold:  cfg.Beam.Threshold,
		})
	}
	if cfg.ZeroShot.Enabled {
		tiers = append(tiers, Tier{
			Classifier: NewZeroShotClassifier(cfg.ZeroShot, httpClient),
			Threshold:  cfg.ZeroShot.Threshold,
		})
	}
	if cfg.Subprocess.Enabled {
		tiers = append(tiers, Tier{
			Classifier: NewSubprocessClassifier(cfg.Subprocess),
			Threshold:  0,
		})
	}
	return NewChain(tiers...)
}

// Classify walks the tiers. The returned classification's Reasoning
// records each tier that was tried and always names the winning tier in
// its first entry.
func (c *Chain) Classify(ctx context.Context, page *models.NormalizedPage) *models.SiteClassification {
	var trail []string

	for _, tier := range c.tiers {
		name := tier.Classifier.Name()
		result, err := tier.Classifier.Classify(ctx, page)
		if err != nil {
			slog.Debug("classifier tier failed, escalating", "tier", name, "error", err)
			trail = append(trail, fmt.Sprintf("%s failed: %v", name, err))
			continue
		}
		if result.Confidence < tier.Threshold {
			trail = append(trail, fmt.Sprintf("%s below threshold (%.2f < %.2f)",
				name, result.Confidence, tier.Threshold))
			continue
		}

		if result.Intent == "" {
			result.Intent = DetectIntent(page, result.Type)
		}
		reasoning := make([]string, 0, len(trail)+len(result.Reasoning)+1)
		reasoning = append(reasoning, fmt.Sprintf("tier %s selected (confidence %.2f)", name, result.Confidence))
		reasoning = append(reasoning, trail...)
		reasoning = append(reasoning, result.Reasoning...)
		result.Reasoning = reasoning
		return result
	}

	// Unreachable: the heuristic tier never errs and has threshold 0.
	return &models.SiteClassification{
		Type:      models.SiteOther,
		Intent:    models.IntentTrustProof,
		Reasoning: append(trail, "no tier produced a result"),
	}
}

// aggregateText composes the case-folded classification corpus: headline,
// subhead, document title and description, CTA text, feature titles and
// descriptions, plus the scraper's raw keywords.
func aggregateText(page *models.NormalizedPage) string {
	var b strings.Builder
	b.WriteString(page.Hero.Headline)
	b.WriteByte(' ')
	b.WriteString(page.Hero.Subhead)
	b.WriteByte(' ')
	b.WriteString(page.Meta.Title)
	b.WriteByte(' ')
	b.WriteString(page.Meta.Description)
	b.WriteByte(' ')
	b.WriteString(page.CTA.Text)
	for _, f := range page.Features {
		b.WriteByte(' ')
		b.WriteString(f.Title)
		b.WriteByte(' ')
		b.WriteString(f.Description)
	}
	if page.Raw != nil {
		for _, kw := range page.Raw.Keywords {
			b.WriteByte(' ')
			b.WriteString(kw)
		}
	}
	return strings.ToLower(b.String())
}

// parseSiteType validates an externally produced type string against the
// closed enumeration.
func parseSiteType(s string) (models.SiteType, bool) {
	candidate := models.SiteType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range models.SiteTypes {
		if t == candidate {
			return t, true
		}
	}
	if candidate == models.SiteOther {
		return models.SiteOther, true
	}
	return "", false
}
