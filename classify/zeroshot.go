package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

// zeroShotLabels are the candidate labels sent to the hosted zero-shot
// model, mapped back to the internal enumeration on response.
var zeroShotLabels = []string{
	"Personal Portfolio",
	"SaaS Product",
	"E-commerce Store",
	"Local Business",
	"Blog or News",
	"Online Course",
}

var zeroShotLabelMapping = map[string]models.SiteType{
	"Personal Portfolio": models.SitePortfolio,
	"SaaS Product":       models.SiteSaaSLanding,
	"E-commerce Store":   models.SiteEcommerce,
	"Local Business":     models.SiteLocalService,
	"Blog or News":       models.SiteBlog,
	"Online Course":      models.SiteCourse,
}

// ZeroShotClassifier calls the secondary hosted zero-shot classifier — a
// cheaper, faster alternative used when the GPU tier is unavailable,
// erred, or answered below threshold.
type ZeroShotClassifier struct {
	cfg        config.ZeroShotTierConfig
	httpClient *http.Client
}

// NewZeroShotClassifier creates the tier. Pass nil to use a default client.
func NewZeroShotClassifier(cfg config.ZeroShotTierConfig, httpClient *http.Client) *ZeroShotClassifier {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ZeroShotClassifier{cfg: cfg, httpClient: httpClient}
}

func (c *ZeroShotClassifier) Name() string { return "zero-shot" }

// zeroShotRequest is the standard hosted-inference zero-shot input shape.
type zeroShotRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"parameters"`
}

// zeroShotResponse holds labels with parallel scores, best first.
type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
	Error  string    `json:"error"`
}

func (c *ZeroShotClassifier) Classify(ctx context.Context, page *models.NormalizedPage) (*models.SiteClassification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	text := models.TruncateText(aggregateText(page), maxClassifierText)

	reqBody := zeroShotRequest{Inputs: text}
	reqBody.Parameters.CandidateLabels = zeroShotLabels

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("zero-shot: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("zero-shot: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zero-shot: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("zero-shot: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zero-shot: HTTP %d", resp.StatusCode)
	}

	var parsed zeroShotResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("zero-shot: parse response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("zero-shot: endpoint error: %s", parsed.Error)
	}
	if len(parsed.Labels) == 0 || len(parsed.Scores) == 0 {
		return nil, fmt.Errorf("zero-shot: empty response")
	}

	siteType, ok := zeroShotLabelMapping[parsed.Labels[0]]
	if !ok {
		return nil, fmt.Errorf("zero-shot: unknown label %q", parsed.Labels[0])
	}

	return &models.SiteClassification{
		Type:       siteType,
		Confidence: clamp01(parsed.Scores[0]),
		Reasoning: []string{
			fmt.Sprintf("zero-shot ranked %q first with score %.2f",
				parsed.Labels[0], parsed.Scores[0]),
		},
	}, nil
}
