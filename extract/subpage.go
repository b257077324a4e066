package extract

import (
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	readability "github.com/go-shiori/go-readability"
)

// minReadableLength is the minimum TextContent length for readability
// output to be trusted. Below it we assume the algorithm missed the main
// content and fall back to markdown conversion of the whole body.
const minReadableLength = 80

// maxSubpageText caps stored subpage body text.
const maxSubpageText = 4000

// mdConverter is goroutine-safe and reused across calls. The base plugin
// strips script/style/head noise; commonmark renders the rest as plain
// readable text.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// SubpageText extracts the main free-text body of a conventional subpage
// (about/pricing/testimonials). Readability first; when it fails or finds
// too little, the whole document is converted to markdown instead. The
// result is plain text, never raw HTML, and never an error — a subpage
// that defeats both strategies yields "".
func SubpageText(rawHTML []byte, sourceURL string) string {
	if parsedURL, err := nurl.Parse(sourceURL); err == nil {
		article, err := readability.FromReader(strings.NewReader(string(rawHTML)), parsedURL)
		if err == nil {
			text := cleanText(article.TextContent)
			if len(text) >= minReadableLength {
				return truncate(text, maxSubpageText)
			}
		}
	}

	md, err := mdConverter.ConvertString(string(rawHTML))
	if err != nil {
		return ""
	}
	return truncate(cleanText(stripMarkdown(md)), maxSubpageText)
}

// stripMarkdown removes the markdown syntax characters that the converter
// emits, leaving plain prose for the classifier and normalizer.
func stripMarkdown(md string) string {
	replacer := strings.NewReplacer(
		"#", "", "*", "", "_", "", "`", "",
		">", "", "|", " ", "---", "",
	)
	return replacer.Replace(md)
}
