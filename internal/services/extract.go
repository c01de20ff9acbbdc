package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
)

// Parameter extractors: small deterministic functions pulling angles, sizes,
// colors, grid dimensions and free text out of normalized command text.
// They operate on domain.Normalize output only.

var (
	signedIntRe = regexp.MustCompile(`-?\d+`)
	dimsRe      = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d+)`)
	coordsRe    = regexp.MustCompile(`(?:to|at)\s+(-?\d+)[,\s]+(-?\d+)`)
	quotedRe    = regexp.MustCompile(`["'“”]([^"'“”]+)["'“”]`)
)

// parseAngle extracts a rotation angle: an explicit signed integer (with an
// optional degree suffix) wins, then direction keywords, then the 90 default.
func parseAngle(text string) int {
	if m := signedIntRe.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	switch {
	case strings.Contains(text, "counterclockwise"), strings.Contains(text, "counter-clockwise"), hasWord(text, "left"):
		return -90
	case strings.Contains(text, "clockwise"), hasWord(text, "right"):
		return 90
	}
	return 90
}

// clampAngle normalizes any angle into (-180, 180]. clampAngle(n) equals
// clampAngle(n+360k) for every integer k.
func clampAngle(deg int) int {
	m := ((deg % 360) + 360) % 360
	if m > 180 {
		m -= 360
	}
	return m
}

// parseDims extracts an NxM token, shared by resize ("resize to 300x200")
// and grid ("3x3 grid") handlers.
func parseDims(text string) (a, b int, ok bool) {
	m := dimsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	a, _ = strconv.Atoi(m[1])
	b, _ = strconv.Atoi(m[2])
	return a, b, a > 0 && b > 0
}

// parseCoords extracts "to 100 200" / "at 100, 200" absolute coordinates.
func parseCoords(text string) (x, y float64, ok bool) {
	m := coordsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	xi, _ := strconv.Atoi(m[1])
	yi, _ := strconv.Atoi(m[2])
	return float64(xi), float64(yi), true
}

// parseDistance extracts the first integer as a movement distance,
// defaulting to 100 when the command names a direction without one.
func parseDistance(text string) float64 {
	if m := signedIntRe.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return float64(n)
		}
	}
	return 100
}

// sizeMultipliers maps relative resize keywords to scale factors.
var sizeMultipliers = []struct {
	word   string
	factor float64
}{
	{"twice", 2}, {"double", 2},
	{"half", 0.5},
	{"bigger", 1.25}, {"larger", 1.25},
	{"smaller", 0.8}, {"shrink", 0.8},
}

func parseMultiplier(text string) (float64, bool) {
	for _, m := range sizeMultipliers {
		if strings.Contains(text, m.word) {
			return m.factor, true
		}
	}
	return 0, false
}

// colorPalette maps color words to the canvas hex palette.
var colorPalette = map[string]string{
	"red":    "#ef4444",
	"blue":   "#3b82f6",
	"green":  "#22c55e",
	"yellow": "#eab308",
	"purple": "#a855f7",
	"pink":   "#ec4899",
	"orange": "#f97316",
	"teal":   "#14b8a6",
	"cyan":   "#06b6d4",
	"gray":   "#6b7280",
	"grey":   "#6b7280",
	"black":  "#000000",
	"white":  "#ffffff",
}

// parseColor returns the hex value for the first color word mentioned.
func parseColor(text string) (name, hex string, ok bool) {
	for _, word := range words(text) {
		if h, found := colorPalette[word]; found {
			return word, h, true
		}
	}
	return "", "", false
}

// shapeSynonyms maps type keywords (and common synonyms) to shape types.
var shapeSynonyms = map[string]domain.ShapeType{
	"rectangle":     domain.ShapeRectangle,
	"rect":          domain.ShapeRectangle,
	"box":           domain.ShapeRectangle,
	"square":        domain.ShapeRectangle,
	"circle":        domain.ShapeCircle,
	"ellipse":       domain.ShapeEllipse,
	"oval":          domain.ShapeEllipse,
	"triangle":      domain.ShapeTriangle,
	"diamond":       domain.ShapeDiamond,
	"rhombus":       domain.ShapeDiamond,
	"pentagon":      domain.ShapePentagon,
	"hexagon":       domain.ShapeHexagon,
	"star":          domain.ShapeStar,
	"cloud":         domain.ShapeCloud,
	"heart":         domain.ShapeHeart,
	"parallelogram": domain.ShapeParallelogram,
	"trapezoid":     domain.ShapeTrapezoid,
	"line":          domain.ShapeLine,
	"arrow":         domain.ShapeArrow,
	"text":          domain.ShapeText,
	"label":         domain.ShapeText,
	"image":         domain.ShapeImage,
	"picture":       domain.ShapeImage,
	"frame":         domain.ShapeFrame,
}

// parseShapeType returns the first shape type keyword mentioned.
func parseShapeType(text string) (domain.ShapeType, bool) {
	for _, word := range words(text) {
		if t, ok := shapeSynonyms[singular(word)]; ok {
			return t, true
		}
	}
	return "", false
}

// parseHint pulls the type/color clues used to narrow target search.
func parseHint(text string) domain.Hint {
	var hint domain.Hint
	if t, ok := parseShapeType(text); ok {
		hint.Type = t
	}
	if name, _, ok := parseColor(text); ok {
		hint.Color = name
	}
	return hint
}

// extractQuoted returns quoted text, or the remainder after a
// "saying"/"that says"/"with text" marker.
func extractQuoted(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, marker := range []string{"that says", "saying", "with text", "with the text"} {
		if idx := strings.Index(text, marker); idx != -1 {
			return strings.TrimSpace(text[idx+len(marker):])
		}
	}
	return ""
}

// textBlockSize computes a wrap-aware width/height for a text element using
// greedy line fill with an approximate average character width.
// Minimum width 80px, minimum height 1.2×fontSize.
func textBlockSize(content string, fontSize float64) (w, h float64) {
	const maxLineWidth = 480.0
	lineHeight := 1.2 * fontSize
	charWidth := 0.6 * fontSize

	textWidth := charWidth * float64(len([]rune(content)))
	if textWidth <= maxLineWidth {
		if textWidth < 80 {
			textWidth = 80
		}
		return textWidth, lineHeight
	}

	lines := int(textWidth/maxLineWidth) + 1
	return maxLineWidth, float64(lines) * lineHeight
}

// words splits normalized text into punctuation-trimmed tokens.
func words(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,!?;:"'()`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func hasWord(text, word string) bool {
	for _, w := range words(text) {
		if w == word {
			return true
		}
	}
	return false
}

// singular strips a trailing plural s so "circles" matches "circle".
func singular(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}
