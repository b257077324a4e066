package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/storyboard/models"
)

// AnalyzeStructuredData reads embedded JSON-LD business markup. It is the
// highest-confidence, zero-heuristic source: whatever it finds wins over
// DOM heuristics. Returns nil when the page carries no usable markup.
func AnalyzeStructuredData(rawHTML []byte, sourceURL string) *models.RawSiteAnalysis {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return nil
	}

	var nodes []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, decodeLDNodes(s.Text())...)
	})
	if len(nodes) == 0 {
		return nil
	}

	analysis := &models.RawSiteAnalysis{SourceURL: sourceURL}
	found := false
	for _, node := range nodes {
		if applyLDNode(node, analysis) {
			found = true
		}
	}
	if !found {
		return nil
	}
	return analysis
}

// decodeLDNodes parses a JSON-LD script body, accepting a single object,
// an array of objects, or an @graph wrapper.
func decodeLDNodes(raw string) []map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var nodes []map[string]any
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		if graph, ok := obj["@graph"].([]any); ok {
			for _, g := range graph {
				if m, ok := g.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
			return nodes
		}
		return []map[string]any{obj}
	}

	var arr []map[string]any
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return arr
	}
	return nil
}

// applyLDNode copies recognised business fields from one JSON-LD node.
// It reports whether the node contributed anything.
func applyLDNode(node map[string]any, analysis *models.RawSiteAnalysis) bool {
	typ := ldType(node)
	if typ == "" {
		return false
	}

	found := false
	set := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = strings.TrimSpace(v)
			found = true
		}
	}

	switch {
	case strings.Contains(typ, "Person"), typ == "ProfilePage":
		set(&analysis.SiteTypeHint, "personal")
	case strings.Contains(typ, "LocalBusiness"), typ == "Restaurant", typ == "Store",
		strings.HasSuffix(typ, "Salon"), typ == "Dentist", typ == "Plumber":
		set(&analysis.SiteTypeHint, "local")
	case typ == "Product", typ == "Offer", typ == "OnlineStore":
		set(&analysis.SiteTypeHint, "store")
	case typ == "Course":
		set(&analysis.SiteTypeHint, "course")
	case typ == "Blog", typ == "BlogPosting", typ == "NewsArticle", typ == "Article":
		set(&analysis.SiteTypeHint, "blog")
	}

	set(&analysis.BusinessName, ldString(node["name"]))
	set(&analysis.Phone, ldString(node["telephone"]))
	set(&analysis.Email, strings.TrimPrefix(ldString(node["email"]), "mailto:"))
	set(&analysis.LogoURL, ldImageURL(node["logo"]))

	if addr, ok := node["address"].(map[string]any); ok {
		parts := make([]string, 0, 4)
		for _, key := range []string{"streetAddress", "postalCode", "addressLocality", "addressCountry"} {
			if v := ldString(addr[key]); v != "" {
				parts = append(parts, v)
			}
		}
		set(&analysis.Address, strings.Join(parts, ", "))
		set(&analysis.Location, ldString(addr["addressLocality"]))
	}

	set(&analysis.OpeningHours, ldOpeningHours(node))

	if rating, ok := node["aggregateRating"].(map[string]any); ok {
		set(&analysis.Rating, ldString(rating["ratingValue"]))
	}

	return found
}

func ldType(node map[string]any) string {
	switch t := node["@type"].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// ldString renders a JSON-LD value as text; numbers come back from
// encoding/json as float64.
func ldString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.1f", t)
	}
	return ""
}

func ldImageURL(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return ldString(t["url"])
	}
	return ""
}

func ldOpeningHours(node map[string]any) string {
	switch t := node["openingHours"].(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	if specs, ok := node["openingHoursSpecification"].([]any); ok {
		parts := make([]string, 0, len(specs))
		for _, raw := range specs {
			spec, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			day := ldString(spec["dayOfWeek"])
			if days, ok := spec["dayOfWeek"].([]any); ok && len(days) > 0 {
				names := make([]string, 0, len(days))
				for _, d := range days {
					names = append(names, shortDay(ldString(d)))
				}
				day = strings.Join(names, ",")
			} else {
				day = shortDay(day)
			}
			opens := ldString(spec["opens"])
			closes := ldString(spec["closes"])
			if day != "" && opens != "" && closes != "" {
				parts = append(parts, fmt.Sprintf("%s %s-%s", day, opens, closes))
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// shortDay trims schema.org day URLs ("https://schema.org/Monday") and
// full names down to the familiar three-letter form.
func shortDay(d string) string {
	if i := strings.LastIndexByte(d, '/'); i >= 0 {
		d = d[i+1:]
	}
	if len(d) > 3 {
		d = d[:3]
	}
	return d
}
