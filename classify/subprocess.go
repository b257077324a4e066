package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

// subprocessFormatMapping maps the external classifier's format labels to
// the internal enumeration.
var subprocessFormatMapping = map[string]models.SiteType{
	"Landing Page":    models.SiteSaaSLanding,
	"Ecommerce Store": models.SiteEcommerce,
	"Portfolio":       models.SitePortfolio,
	"Local Service":   models.SiteLocalService,
	"Blog/News":       models.SiteBlog,
	"Online Course":   models.SiteCourse,
}

// SubprocessClassifier invokes the out-of-process topic/format classifier:
// one JSON document on stdin, one JSON document on stdout. On timeout the
// process is killed and the call is treated as failed — never retried
// within the same classification.
type SubprocessClassifier struct {
	cfg config.SubprocessTierConfig
}

// NewSubprocessClassifier creates the tier.
func NewSubprocessClassifier(cfg config.SubprocessTierConfig) *SubprocessClassifier {
	return &SubprocessClassifier{cfg: cfg}
}

func (c *SubprocessClassifier) Name() string { return "suborg" }

// subprocessInput is the stdin document.
type subprocessInput struct {
	MainText        string `json:"main_text"`
	HeroText        string `json:"heroText"`
	MetaDescription string `json:"metaDescription"`
}

// subprocessOutput is the stdout document.
type subprocessOutput struct {
	Topic      string  `json:"topic"`
	Format     string  `json:"format"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

func (c *SubprocessClassifier) Classify(ctx context.Context, page *models.NormalizedPage) (*models.SiteClassification, error) {
	if len(c.cfg.Command) == 0 {
		return nil, fmt.Errorf("suborg: no command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	input, err := json.Marshal(subprocessInput{
		MainText:        aggregateText(page),
		HeroText:        page.Hero.Headline,
		MetaDescription: page.Meta.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("suborg: marshal input: %w", err)
	}

	// CommandContext kills the process when the deadline expires.
	cmd := exec.CommandContext(ctx, c.cfg.Command[0], c.cfg.Command[1:]...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("suborg: killed after timeout %s", c.cfg.Timeout)
		}
		return nil, fmt.Errorf("suborg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var out subprocessOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("suborg: parse output: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("suborg: classifier error: %s", out.Error)
	}
	if out.Format == "" || strings.EqualFold(out.Format, "unknown") {
		return nil, fmt.Errorf("suborg: no usable format (topic=%q)", out.Topic)
	}

	siteType, ok := subprocessFormatMapping[out.Format]
	if !ok {
		return nil, fmt.Errorf("suborg: unknown format %q", out.Format)
	}

	return &models.SiteClassification{
		Type:       siteType,
		Confidence: clamp01(out.Confidence),
		Reasoning: []string{
			fmt.Sprintf("suborg mapped format %q (topic %q) with confidence %.2f",
				out.Format, out.Topic, out.Confidence),
		},
	}, nil
}
