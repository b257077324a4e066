package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

func fetchFrom(t *testing.T, handler http.HandlerFunc, cfg config.FetcherConfig) ([]byte, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	defer srv.Close()
	return NewFetcher(cfg).Fetch(context.Background(), srv.URL)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("err = %v, want *models.ScrapeError", err)
	}
	if scrapeErr.Code != code {
		t.Errorf("code = %s, want %s", scrapeErr.Code, code)
	}
}

func TestFetch_Success(t *testing.T) {
	body, err := fetchFrom(t, func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("User-Agent = %q, want a browser UA", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}, config.FetcherConfig{Timeout: 5 * time.Second})

	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("body = %q", body)
	}
}

func TestFetch_ForbiddenTyped(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, config.FetcherConfig{Timeout: 5 * time.Second})
	assertCode(t, err, models.ErrCodeForbidden)
}

func TestFetch_NotFoundTyped(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, config.FetcherConfig{Timeout: 5 * time.Second})
	assertCode(t, err, models.ErrCodeNotFound)
}

func TestFetch_ServerErrorTyped(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, config.FetcherConfig{Timeout: 5 * time.Second})
	assertCode(t, err, models.ErrCodeFetchFailed)
}

func TestFetch_NonHTMLRejected(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not":"html"}`))
	}, config.FetcherConfig{Timeout: 5 * time.Second})
	assertCode(t, err, models.ErrCodeFetchFailed)
}

func TestFetch_TimeoutTyped(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}, config.FetcherConfig{Timeout: 50 * time.Millisecond})
	assertCode(t, err, models.ErrCodeTimeout)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := NewFetcher(config.FetcherConfig{}).Fetch(context.Background(), "http://bad url with spaces")
	assertCode(t, err, models.ErrCodeInvalidInput)
}

// ApplyPreset stamps SNI and key shares into the spec's extension structs
// during the handshake, so every connection must get its own spec: a first
// host's stamps leaking into a later connection would send the wrong SNI
// and reuse a key share whose private key the new handshake does not hold.
func TestChromeH1Spec_FreshPerConnection(t *testing.T) {
	first, err := chromeH1Spec()
	if err != nil {
		t.Fatalf("chromeH1Spec: %v", err)
	}

	// Simulate the stamping ApplyPreset performs for one connection.
	for _, ext := range first.Extensions {
		switch e := ext.(type) {
		case *tls.SNIExtension:
			e.ServerName = "first-host.example"
		case *tls.KeyShareExtension:
			for i := range e.KeyShares {
				e.KeyShares[i].Data = []byte{0xde, 0xad, 0xbe, 0xef}
			}
		}
	}

	second, err := chromeH1Spec()
	if err != nil {
		t.Fatalf("chromeH1Spec: %v", err)
	}
	for _, ext := range second.Extensions {
		switch e := ext.(type) {
		case *tls.SNIExtension:
			if e.ServerName != "" {
				t.Errorf("new spec carries SNI %q from a prior connection", e.ServerName)
			}
		case *tls.KeyShareExtension:
			for _, ks := range e.KeyShares {
				// GREASE shares ship a one-byte placeholder; real groups
				// start empty and are generated during the handshake.
				if ks.Group == tls.CurveID(tls.GREASE_PLACEHOLDER) {
					continue
				}
				if len(ks.Data) > 0 {
					t.Errorf("new spec carries a pre-stamped key share (group %v)", ks.Group)
				}
			}
		}
	}
}

func TestChromeH1Spec_ALPNForcedToHTTP1(t *testing.T) {
	spec, err := chromeH1Spec()
	if err != nil {
		t.Fatalf("chromeH1Spec: %v", err)
	}
	found := false
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			found = true
			if len(alpn.AlpnProtocols) != 1 || alpn.AlpnProtocols[0] != "http/1.1" {
				t.Errorf("ALPN = %v, want [http/1.1]", alpn.AlpnProtocols)
			}
		}
	}
	if !found {
		t.Fatal("spec has no ALPN extension")
	}
}
