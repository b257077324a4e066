package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/storyboard/models"
)

// minImageDimension filters out icons, avatars, and tracking pixels.
// Images with unknown dimensions pass; the normalizer applies its own
// width threshold when picking a hero visual.
const minImageDimension = 200

// maxMediaCandidates bounds the media list per page.
const maxMediaCandidates = 12

// excludedImagePatterns match URLs and alt text of images that can never
// serve as a hero visual.
var excludedImagePatterns = []string{
	"logo", "icon", "favicon", "sprite", "avatar", "badge",
	"pixel", "tracking", "spacer", "placeholder", "1x1",
}

// ExtractMedia collects hero-candidate images from the document, applying
// the noise-filtering heuristics: no data URIs, no icons or logos, no
// sub-threshold dimensions. Images inside <header> above an <h1>, inside
// picture-heavy hero sections, or carrying hero-ish class names are
// flagged IsHero.
func ExtractMedia(doc *goquery.Document, sourceURL string) []models.MediaCandidate {
	var media []models.MediaCandidate
	seen := make(map[string]struct{})

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := s.AttrOr("src", "")
		abs := absoluteURL(src, sourceURL)
		if abs == "" {
			return true
		}
		if _, ok := seen[abs]; ok {
			return true
		}

		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if isExcludedImage(abs, alt, s) {
			return true
		}

		width := attrInt(s, "width")
		height := attrInt(s, "height")
		if (width > 0 && width < minImageDimension) || (height > 0 && height < minImageDimension) {
			return true
		}

		seen[abs] = struct{}{}
		media = append(media, models.MediaCandidate{
			URL:     abs,
			Width:   width,
			Height:  height,
			AltText: alt,
			IsHero:  isHeroImage(s),
		})
		return len(media) < maxMediaCandidates
	})

	return media
}

// isExcludedImage applies the icon/logo/noise exclusion heuristics.
func isExcludedImage(absURL, alt string, s *goquery.Selection) bool {
	lowerURL := strings.ToLower(absURL)
	lowerAlt := strings.ToLower(alt)
	class := strings.ToLower(s.AttrOr("class", ""))
	for _, p := range excludedImagePatterns {
		if strings.Contains(lowerURL, p) || strings.Contains(lowerAlt, p) || strings.Contains(class, p) {
			return true
		}
	}
	// SVGs are almost always icons or logos in practice.
	return strings.HasSuffix(strings.SplitN(lowerURL, "?", 2)[0], ".svg")
}

// isHeroImage reports whether the image sits in a hero position.
func isHeroImage(s *goquery.Selection) bool {
	class := strings.ToLower(s.AttrOr("class", ""))
	if strings.Contains(class, "hero") || strings.Contains(class, "banner") {
		return true
	}
	hero := false
	s.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		pc := strings.ToLower(p.AttrOr("class", "") + " " + p.AttrOr("id", ""))
		if strings.Contains(pc, "hero") || strings.Contains(pc, "banner") || strings.Contains(pc, "jumbotron") {
			hero = true
			return false
		}
		return true
	})
	return hero
}

// logoURL finds the site logo: an explicitly logo-marked image, the first
// header image, or the apple-touch icon.
func logoURL(doc *goquery.Document, sourceURL string) string {
	for _, sel := range []string{`img[class*="logo"]`, `img[alt*="logo" i]`, "header img", "nav img"} {
		if src := doc.Find(sel).First().AttrOr("src", ""); src != "" {
			return absoluteURL(src, sourceURL)
		}
	}
	if href := doc.Find(`link[rel="apple-touch-icon"]`).First().AttrOr("href", ""); href != "" {
		return absoluteURL(href, sourceURL)
	}
	return ""
}

// absoluteURL resolves src against the page URL, dropping data URIs and
// unparseable values.
func absoluteURL(src, sourceURL string) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	base, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	resolved, err := base.Parse(src)
	if err != nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func attrInt(s *goquery.Selection, name string) int {
	v := strings.TrimSpace(s.AttrOr(name, ""))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
