package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
)

// localePreambles holds the localized instruction preamble selected by the
// request's locale tag. Only the preamble is localized; the manifest and
// reply contract stay in English.
var localePreambles = map[string]string{
	"en": "You are the command interpreter of a collaborative whiteboard.",
	"de": "Du bist der Befehlsinterpreter eines kollaborativen Whiteboards.",
	"es": "Eres el intérprete de comandos de una pizarra colaborativa.",
	"fr": "Tu es l'interprète de commandes d'un tableau blanc collaboratif.",
	"ja": "あなたは共同ホワイトボードのコマンドインタープリタです。",
	"zh": "你是協作白板的指令解譯器。",
}

func preambleFor(locale string) string {
	if idx := strings.Index(locale, "-"); idx > 0 {
		locale = locale[:idx]
	}
	if p, ok := localePreambles[strings.ToLower(locale)]; ok {
		return p
	}
	return localePreambles["en"]
}

// buildSystemPrompt assembles the fixed tool manifest plus a short
// canvas-state summary. This is the full contract the backend replies
// against; the reply must be the strict JSON envelope described at the end.
func buildSystemPrompt(locale string, shapes []domain.Shape) (string, error) {
	manifest, err := json.Marshal(domain.Manifest())
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	var b strings.Builder
	b.WriteString(preambleFor(locale))
	b.WriteString("\nTranslate the user's request into tool calls from this manifest:\n")
	b.Write(manifest)
	b.WriteString("\n\n")
	b.WriteString(canvasSummary(shapes))
	b.WriteString("\n\nReply with JSON only, no prose around it:\n")
	b.WriteString(`{"intent":"<short verb>","message":"<confirmation for the user>","actions":[{"name":"<tool>","args":{...}}]}`)
	b.WriteString("\nIf the request cannot be mapped to tools, use intent \"clarify\", an explanatory message and an empty actions array.")
	return b.String(), nil
}

// canvasSummary renders the shape count and a terse per-shape descriptor so
// the backend can reference real ids.
func canvasSummary(shapes []domain.Shape) string {
	if len(shapes) == 0 {
		return "The canvas is empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The canvas has %d shape(s):", len(shapes))
	for _, s := range shapes {
		fmt.Fprintf(&b, "\n- id=%s type=%s at (%.0f,%.0f) size %.0fx%.0f", s.ID, s.Type, s.X, s.Y, s.W, s.H)
		if s.Color != "" {
			fmt.Fprintf(&b, " color=%s", s.Color)
		}
		if s.Text != "" {
			fmt.Fprintf(&b, " text=%q", s.Text)
		}
	}
	return b.String()
}
