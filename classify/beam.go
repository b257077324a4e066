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

// maxClassifierText caps how much page text is sent to hosted tiers.
const maxClassifierText = 1500

// BeamClassifier calls the GPU-hosted zero-shot endpoint. It is the most
// accurate and most expensive tier, so it runs first when configured.
type BeamClassifier struct {
	cfg        config.BeamTierConfig
	httpClient *http.Client
}

// NewBeamClassifier creates the tier. Pass nil to use a default client.
func NewBeamClassifier(cfg config.BeamTierConfig, httpClient *http.Client) *BeamClassifier {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &BeamClassifier{cfg: cfg, httpClient: httpClient}
}

func (c *BeamClassifier) Name() string { return "beam" }

// beamRequest is the endpoint's input document.
type beamRequest struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// beamResponse mirrors the endpoint's output. The endpoint never fails a
// request for a model error: it reports it in the error field instead.
type beamResponse struct {
	Type       string             `json:"type"`
	Confidence float64            `json:"confidence"`
	AllScores  map[string]float64 `json:"all_scores"`
	Model      string             `json:"model"`
	Error      string             `json:"error"`
}

func (c *BeamClassifier) Classify(ctx context.Context, page *models.NormalizedPage) (*models.SiteClassification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	text := models.TruncateText(aggregateText(page), maxClassifierText)

	bodyBytes, err := json.Marshal(beamRequest{
		Text:  text,
		Title: page.Meta.Title,
		URL:   page.Meta.OriginalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("beam: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("beam: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beam: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("beam: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("beam: HTTP %d", resp.StatusCode)
	}

	var parsed beamResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("beam: parse response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("beam: endpoint error: %s", parsed.Error)
	}

	siteType, ok := parseSiteType(parsed.Type)
	if !ok {
		return nil, fmt.Errorf("beam: unknown site type %q", parsed.Type)
	}

	return &models.SiteClassification{
		Type:       siteType,
		Confidence: clamp01(parsed.Confidence),
		Reasoning: []string{
			fmt.Sprintf("beam model %s classified %s with confidence %.2f",
				parsed.Model, siteType, parsed.Confidence),
		},
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
