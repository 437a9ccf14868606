// Package fuzzy normalizes track titles before they are sent as search
// queries.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]?\s*`)
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(remaster|remastered|deluxe|extended|radio edit|clean|explicit).*[\)\]]?\s*`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTitle strips featuring credits and version noise from a track
// title so that search queries hit the canonical recording.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = n.basicNormalize(title)

	title = featRegex.ReplaceAllString(title, "")
	title = versionRegex.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	return strings.TrimSpace(text)
}
