package models

// BlueprintRequest is the body of POST /api/v1/blueprint.
type BlueprintRequest struct {
	URL string `json:"url" binding:"required"`

	// MaxAgeMs allows reuse of a cached blueprint younger than this.
	// Zero or absent bypasses the cache.
	MaxAgeMs int `json:"max_age_ms"`
}

// TimingInfo reports where the request spent its time.
type TimingInfo struct {
	TotalMs  int64 `json:"total_ms"`
	ScrapeMs int64 `json:"scrape_ms,omitempty"`
}

// BlueprintResponse is the envelope for blueprint generation results.
type BlueprintResponse struct {
	Success     bool            `json:"success"`
	Blueprint   *VideoBlueprint `json:"blueprint,omitempty"`
	CacheStatus string          `json:"cache_status,omitempty"` // "hit" or "miss"
	Timing      TimingInfo      `json:"timing"`
	Error       *ErrorDetail    `json:"error,omitempty"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
