package blueprint

import "github.com/use-agent/storyboard/models"

// Look-and-feel presets per archetype. These are starting points for the
// renderer, not brand extraction; brand-color detection is a separate
// concern and may override these downstream.

var palettes = map[models.SiteType][]string{
	models.SiteSaaSLanding:  {"#0F172A", "#3B82F6", "#F8FAFC"},
	models.SitePortfolio:    {"#111111", "#D4A373", "#FAFAF5"},
	models.SiteEcommerce:    {"#1F2937", "#F59E0B", "#FFFFFF"},
	models.SiteLocalService: {"#14532D", "#FDE68A", "#FFFFFF"},
	models.SiteBlog:         {"#18181B", "#EF4444", "#FAFAFA"},
	models.SiteCourse:       {"#312E81", "#FBBF24", "#FFFFFF"},
}

var fonts = map[models.SiteType]models.FontPairing{
	models.SiteSaaSLanding:  {Heading: "Inter", Body: "Inter"},
	models.SitePortfolio:    {Heading: "Playfair Display", Body: "Lato"},
	models.SiteEcommerce:    {Heading: "Poppins", Body: "Open Sans"},
	models.SiteLocalService: {Heading: "Merriweather", Body: "Source Sans Pro"},
	models.SiteBlog:         {Heading: "Lora", Body: "Georgia"},
	models.SiteCourse:       {Heading: "Montserrat", Body: "Roboto"},
}

var (
	defaultPalette = []string{"#1E293B", "#94A3B8", "#F1F5F9"}
	defaultFonts   = models.FontPairing{Heading: "Inter", Body: "Roboto"}
)

func paletteFor(t models.SiteType) []string {
	if p, ok := palettes[t]; ok {
		out := make([]string, len(p))
		copy(out, p)
		return out
	}
	out := make([]string, len(defaultPalette))
	copy(out, defaultPalette)
	return out
}

func fontsFor(t models.SiteType) models.FontPairing {
	if f, ok := fonts[t]; ok {
		return f
	}
	return defaultFonts
}
