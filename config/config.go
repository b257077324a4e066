package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Fetcher    FetcherConfig
	Browser    BrowserConfig
	Scraper    ScraperConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetcherConfig controls the plain-HTTP fetch tier.
type FetcherConfig struct {
	// Timeout is the deadline for a single GET.
	Timeout time.Duration // default: 10s

	// MaxRedirects caps redirect following.
	MaxRedirects int // default: 10

	// Proxy is an optional proxy URL for all requests.
	Proxy string
}

// BrowserConfig controls the Rod browser escalation tier.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// NavigationTimeout is the max time for page navigation alone.
	NavigationTimeout time.Duration // default: 15s

	// ElementTimeout bounds each reveal interaction (consent dismissal,
	// info-button click, accordion expansion).
	ElementTimeout time.Duration // default: 5s

	// MaxInfoClicks caps how many contact/info affordances are clicked
	// before the browser tier gives up revealing more content.
	MaxInfoClicks int // default: 3

	// MaxAccordions caps how many accordion-like elements are expanded.
	MaxAccordions int // default: 5
}

// ScraperConfig controls the escalation controller.
type ScraperConfig struct {
	// FetchSubpages widens tier (a) to the conventional subpages
	// (about/pricing/testimonials/contact/impressum).
	FetchSubpages bool // default: true

	// RequestsPerSecond bounds outbound fetches during subpage fan-out.
	RequestsPerSecond float64 // default: 4

	// Burst is the limiter burst size.
	Burst int // default: 4
}

// ClassifierConfig enumerates the classification tiers explicitly so
// tests can compose arbitrary tier combinations without process-wide
// state. A tier with no endpoint/command configured is disabled.
type ClassifierConfig struct {
	Beam       BeamTierConfig
	ZeroShot   ZeroShotTierConfig
	Subprocess SubprocessTierConfig
}

// BeamTierConfig configures the GPU-hosted zero-shot classifier tier.
type BeamTierConfig struct {
	Enabled   bool
	URL       string
	APIKey    string
	Threshold float64       // default: 0.30
	Timeout   time.Duration // default: 15s
}

// ZeroShotTierConfig configures the secondary hosted classifier tier.
type ZeroShotTierConfig struct {
	Enabled   bool
	URL       string
	APIKey    string
	Threshold float64       // default: 0.20
	Timeout   time.Duration // default: 15s
}

// SubprocessTierConfig configures the out-of-process topic/format
// classifier.
type SubprocessTierConfig struct {
	Enabled bool
	Command []string      // e.g. ["python3", "scripts/web_organizer.py"]
	Timeout time.Duration // default: 30s
}

// CacheConfig controls the blueprint cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached blueprints.
	MaxEntries int // default: 1000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting on the API surface.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	beamURL := os.Getenv("STORYBOARD_BEAM_URL")
	zeroShotURL := os.Getenv("STORYBOARD_ZEROSHOT_URL")
	subprocessCmd := envSliceOr("STORYBOARD_CLASSIFIER_CMD", nil)

	return &Config{
		Server: ServerConfig{
			Host: envOr("STORYBOARD_HOST", "0.0.0.0"),
			Port: envIntOr("STORYBOARD_PORT", 8080),
			Mode: envOr("STORYBOARD_MODE", "release"),
		},
		Fetcher: FetcherConfig{
			Timeout:      envDurationOr("STORYBOARD_FETCH_TIMEOUT", 10*time.Second),
			MaxRedirects: envIntOr("STORYBOARD_MAX_REDIRECTS", 10),
			Proxy:        os.Getenv("STORYBOARD_PROXY"),
		},
		Browser: BrowserConfig{
			Headless:          envBoolOr("STORYBOARD_HEADLESS", true),
			NoSandbox:         envBoolOr("STORYBOARD_NO_SANDBOX", false),
			BrowserBin:        os.Getenv("STORYBOARD_BROWSER_BIN"),
			NavigationTimeout: envDurationOr("STORYBOARD_NAV_TIMEOUT", 15*time.Second),
			ElementTimeout:    envDurationOr("STORYBOARD_ELEMENT_TIMEOUT", 5*time.Second),
			MaxInfoClicks:     envIntOr("STORYBOARD_MAX_INFO_CLICKS", 3),
			MaxAccordions:     envIntOr("STORYBOARD_MAX_ACCORDIONS", 5),
		},
		Scraper: ScraperConfig{
			FetchSubpages:     envBoolOr("STORYBOARD_FETCH_SUBPAGES", true),
			RequestsPerSecond: envFloatOr("STORYBOARD_FETCH_RPS", 4.0),
			Burst:             envIntOr("STORYBOARD_FETCH_BURST", 4),
		},
		Classifier: ClassifierConfig{
			Beam: BeamTierConfig{
				Enabled:   beamURL != "",
				URL:       beamURL,
				APIKey:    os.Getenv("STORYBOARD_BEAM_API_KEY"),
				Threshold: envFloatOr("STORYBOARD_BEAM_THRESHOLD", 0.30),
				Timeout:   envDurationOr("STORYBOARD_BEAM_TIMEOUT", 15*time.Second),
			},
			ZeroShot: ZeroShotTierConfig{
				Enabled:   zeroShotURL != "",
				URL:       zeroShotURL,
				APIKey:    os.Getenv("STORYBOARD_ZEROSHOT_API_KEY"),
				Threshold: envFloatOr("STORYBOARD_ZEROSHOT_THRESHOLD", 0.20),
				Timeout:   envDurationOr("STORYBOARD_ZEROSHOT_TIMEOUT", 15*time.Second),
			},
			Subprocess: SubprocessTierConfig{
				Enabled: len(subprocessCmd) > 0,
				Command: subprocessCmd,
				Timeout: envDurationOr("STORYBOARD_CLASSIFIER_TIMEOUT", 30*time.Second),
			},
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("STORYBOARD_CACHE_MAX_ENTRIES", 1000),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("STORYBOARD_AUTH_ENABLED", true),
			APIKeys: envSliceOr("STORYBOARD_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("STORYBOARD_RATE_RPS", 2.0),
			Burst:             envIntOr("STORYBOARD_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("STORYBOARD_LOG_LEVEL", "info"),
			Format: envOr("STORYBOARD_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
