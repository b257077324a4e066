package models

// BeatKind is the narrative role of one beat in the video.
type BeatKind string

const (
	BeatHook     BeatKind = "HOOK"
	BeatDemo     BeatKind = "DEMO"
	BeatProof    BeatKind = "PROOF"
	BeatSolution BeatKind = "SOLUTION"
	BeatCTA      BeatKind = "CTA"
)

// VisualStyle is the closed set of visual treatments the renderer supports.
type VisualStyle string

const (
	StyleZoomScreenshot VisualStyle = "zoom_screenshot"
	StyleSplitUI        VisualStyle = "split_ui"
	StyleQuoteAnimation VisualStyle = "quote_animation"
	StyleTalkingHead    VisualStyle = "talking_head"
	StyleScrollCapture  VisualStyle = "scroll_capture"
	StyleCinematicBroll VisualStyle = "cinematic_broll"
	StyleProductGrid    VisualStyle = "product_grid"
	StyleTextOverlay    VisualStyle = "text_overlay"
)

// StoryBeat is one narrative unit of the output video. ContentValue is
// resolved from the normalized page at construction time; when the source
// resolves to nothing it stays empty, never a placeholder — downstream
// script generation compensates for absent content rather than receiving
// fabricated text.
type StoryBeat struct {
	ID                string      `json:"id"`
	Kind              BeatKind    `json:"kind"`
	Duration          float64     `json:"duration"` // seconds
	Style             VisualStyle `json:"style"`
	ContentSource     string      `json:"content_source"`
	ContentValue      string      `json:"content_value,omitempty"`
	ScriptInstruction string      `json:"script_instruction"`
	VisualInstruction string      `json:"visual_instruction"`
}

// FontPairing names the heading/body typefaces for the video.
type FontPairing struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// VideoBlueprint is the final product of the pipeline: an ordered beat
// sequence plus look-and-feel, handed to script generation. Beats are in
// playback order and TotalDuration is always the sum of beat durations.
type VideoBlueprint struct {
	Classification SiteClassification `json:"classification"`
	Beats          []StoryBeat        `json:"beats"`
	TotalDuration  float64            `json:"total_duration"`
	ColorPalette   []string           `json:"color_palette"`
	FontPairing    FontPairing        `json:"font_pairing"`
}
