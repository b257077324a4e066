package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html/charset"

	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBody caps response reads to prevent unbounded memory use.
const maxBody = 10 << 20 // 10 MB

// chromeH1Spec builds a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. A fresh spec is built per connection: ApplyPreset stamps
// the SNI and key-share extensions in place during the handshake, so a
// shared spec would leak the first host's SNI and key shares into every
// later connection.
func chromeH1Spec() (*tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return nil, err
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			break
		}
	}
	return &spec, nil
}

// Fetcher performs single HTTP GETs with a Chrome TLS fingerprint, a fixed
// user agent, and a bounded redirect policy. Transport failures surface as
// typed errors so the escalation controller can distinguish a bot-blocked
// 403 from a dead link.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher creates a Fetcher from configuration.
func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			spec, err := chromeH1Spec()
			if err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: build tls spec: %w", err)
			}
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 10
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout: cfg.Timeout,
	}
}

// Fetch retrieves targetURL and returns the response body. Errors carry a
// models.ScrapeError code: FETCH_TIMEOUT, FETCH_FORBIDDEN, FETCH_NOT_FOUND,
// or FETCH_FAILED for anything else.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "build request", err)
	}

	// Simulate browser-like headers.
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, categorize(err, targetURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, models.NewScrapeError(models.ErrCodeForbidden,
			fmt.Sprintf("HTTP 403 for %s", targetURL), nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.NewScrapeError(models.ErrCodeNotFound,
			fmt.Sprintf("HTTP 404 for %s", targetURL), nil)
	case resp.StatusCode >= 400:
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode, targetURL), nil)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed,
			fmt.Sprintf("non-html content-type %q for %s", ct, targetURL), nil)
	}

	// Decode legacy encodings (ISO-8859-1 and friends) to UTF-8 so the
	// extractors never see mojibake.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, categorize(err, targetURL)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, categorize(err, targetURL)
	}
	return body, nil
}

// categorize wraps raw transport errors into typed ScrapeErrors.
func categorize(err error, targetURL string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout,
			fmt.Sprintf("fetch timed out for %s", targetURL), err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch canceled", err)
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return models.NewScrapeError(models.ErrCodeTimeout,
				fmt.Sprintf("fetch timed out for %s", targetURL), err)
		}
		return models.NewScrapeError(models.ErrCodeFetchFailed,
			fmt.Sprintf("fetch failed for %s", targetURL), err)
	}
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
