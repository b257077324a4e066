package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

func TestBeam_ClassifiesFromEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"ECOMMERCE","confidence":0.92,"model":"bart-large-mnli"}`))
	}))
	defer srv.Close()

	c := NewBeamClassifier(config.BeamTierConfig{
		URL:     srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, srv.Client())

	result, err := c.Classify(context.Background(), &models.NormalizedPage{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Type != models.SiteEcommerce {
		t.Errorf("Type = %s", result.Type)
	}
	if result.Confidence != 0.92 {
		t.Errorf("Confidence = %.2f", result.Confidence)
	}
}

func TestBeam_EndpointErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":"model cold start"}`))
	}))
	defer srv.Close()

	c := NewBeamClassifier(config.BeamTierConfig{URL: srv.URL, Timeout: 5 * time.Second}, srv.Client())
	if _, err := c.Classify(context.Background(), &models.NormalizedPage{}); err == nil {
		t.Error("endpoint-reported error must fail the tier")
	}
}

func TestBeam_Non200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewBeamClassifier(config.BeamTierConfig{URL: srv.URL, Timeout: 5 * time.Second}, srv.Client())
	if _, err := c.Classify(context.Background(), &models.NormalizedPage{}); err == nil {
		t.Error("HTTP 502 must fail the tier")
	}
}

func TestZeroShot_LabelMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"labels":["Local Business","SaaS Product"],"scores":[0.61,0.22]}`))
	}))
	defer srv.Close()

	c := NewZeroShotClassifier(config.ZeroShotTierConfig{URL: srv.URL, Timeout: 5 * time.Second}, srv.Client())
	result, err := c.Classify(context.Background(), &models.NormalizedPage{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Type != models.SiteLocalService {
		t.Errorf("Type = %s, want LOCAL_SERVICE for label 'Local Business'", result.Type)
	}
	if result.Confidence != 0.61 {
		t.Errorf("Confidence = %.2f, want the top label's score", result.Confidence)
	}
}

func TestZeroShot_UnknownLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"labels":["Something Else"],"scores":[0.9]}`))
	}))
	defer srv.Close()

	c := NewZeroShotClassifier(config.ZeroShotTierConfig{URL: srv.URL, Timeout: 5 * time.Second}, srv.Client())
	if _, err := c.Classify(context.Background(), &models.NormalizedPage{}); err == nil {
		t.Error("unmapped label must fail the tier")
	}
}
