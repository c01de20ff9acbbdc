package services

import (
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// Named templates: fixed multi-shape layouts (rectangles + text labels at
// relative offsets) emitted as a batch of tool calls.

type templatePart struct {
	typ      domain.ShapeType
	dx, dy   float64
	w, h     float64
	color    string
	text     string
	fontSize float64
}

type template struct {
	name   string
	tokens []string
	w, h   float64
	parts  []templatePart
}

var templates = []template{
	{
		name:   "login form",
		tokens: []string{"login form", "login", "sign in form", "signin"},
		w:      320, h: 360,
		parts: []templatePart{
			{typ: domain.ShapeRectangle, w: 320, h: 360, color: "#ffffff"},
			{typ: domain.ShapeText, dx: 110, dy: 24, text: "Log in", fontSize: 24},
			{typ: domain.ShapeText, dx: 30, dy: 64, text: "Username", fontSize: 14},
			{typ: domain.ShapeRectangle, dx: 30, dy: 90, w: 260, h: 44, color: "#e5e7eb"},
			{typ: domain.ShapeText, dx: 30, dy: 146, text: "Password", fontSize: 14},
			{typ: domain.ShapeRectangle, dx: 30, dy: 172, w: 260, h: 44, color: "#e5e7eb"},
			{typ: domain.ShapeRectangle, dx: 30, dy: 252, w: 260, h: 48, color: "#3b82f6"},
			{typ: domain.ShapeText, dx: 130, dy: 264, text: "Sign in", fontSize: 16, color: "#ffffff"},
		},
	},
	{
		name:   "nav bar",
		tokens: []string{"nav bar", "navbar", "navigation bar", "navigation"},
		w:      960, h: 64,
		parts: []templatePart{
			{typ: domain.ShapeRectangle, w: 960, h: 64, color: "#1f2937"},
			{typ: domain.ShapeText, dx: 24, dy: 20, text: "Logo", fontSize: 18, color: "#ffffff"},
			{typ: domain.ShapeText, dx: 640, dy: 22, text: "Home", fontSize: 14, color: "#ffffff"},
			{typ: domain.ShapeText, dx: 720, dy: 22, text: "About", fontSize: 14, color: "#ffffff"},
			{typ: domain.ShapeText, dx: 800, dy: 22, text: "Contact", fontSize: 14, color: "#ffffff"},
		},
	},
	{
		name:   "card",
		tokens: []string{"card"},
		w:      280, h: 220,
		parts: []templatePart{
			{typ: domain.ShapeRectangle, w: 280, h: 220, color: "#ffffff"},
			{typ: domain.ShapeRectangle, dx: 0, dy: 0, w: 280, h: 120, color: "#e5e7eb"},
			{typ: domain.ShapeText, dx: 16, dy: 136, text: "Card title", fontSize: 18},
			{typ: domain.ShapeText, dx: 16, dy: 168, text: "Supporting copy goes here.", fontSize: 13, color: "#6b7280"},
		},
	},
	{
		name:   "button",
		tokens: []string{"button"},
		w:      160, h: 48,
		parts: []templatePart{
			{typ: domain.ShapeRectangle, w: 160, h: 48, color: "#3b82f6"},
			{typ: domain.ShapeText, dx: 52, dy: 14, text: "Button", fontSize: 16, color: "#ffffff"},
		},
	},
	{
		name:   "search bar",
		tokens: []string{"search bar", "searchbar", "search field"},
		w:      420, h: 48,
		parts: []templatePart{
			{typ: domain.ShapeRectangle, w: 360, h: 48, color: "#ffffff"},
			{typ: domain.ShapeText, dx: 16, dy: 14, text: "Search…", fontSize: 14, color: "#6b7280"},
			{typ: domain.ShapeRectangle, dx: 368, dy: 0, w: 52, h: 48, color: "#3b82f6"},
		},
	},
}

func matchTemplate(text string) bool {
	return findTemplate(text) != nil && hasAny(text, createVerbs...)
}

func findTemplate(text string) *template {
	for i := range templates {
		for _, token := range templates[i].tokens {
			if strings.Contains(text, token) {
				return &templates[i]
			}
		}
	}
	return nil
}

// compileTemplate turns a template command into absolute-positioned tool
// calls, after finding a collision-free placement for the layout's bounds.
func compileTemplate(text string, store ports.ShapeStore, tools *Toolbox) (string, []domain.ToolCall) {
	tpl := findTemplate(text)
	if tpl == nil {
		return "", nil
	}
	originX, originY := findPlacement(store, tpl.w, tpl.h)

	calls := make([]domain.ToolCall, 0, len(tpl.parts))
	for _, part := range tpl.parts {
		if part.typ == domain.ShapeText {
			calls = append(calls, domain.ToolCall{Name: domain.ToolCreateText, Args: map[string]any{
				"text":     part.text,
				"x":        originX + part.dx,
				"y":        originY + part.dy,
				"fontSize": part.fontSize,
				"color":    part.color,
			}})
			continue
		}
		calls = append(calls, domain.ToolCall{Name: domain.ToolCreateShape, Args: map[string]any{
			"type": string(part.typ),
			"x":    originX + part.dx,
			"y":    originY + part.dy,
			"w":    part.w,
			"h":    part.h,
			"color": part.color,
		}})
	}
	return tpl.name, calls
}

// Placement scan constants: a fixed grid of candidate top-left positions,
// bounded attempts, then rightmost-extent fallback.
const (
	placementMargin = 40.0
	placementStepX  = 160.0
	placementStepY  = 120.0
	placementCols   = 8
	placementRows   = 6
)

func findPlacement(store ports.ShapeStore, w, h float64) (float64, float64) {
	shapes := store.All()

	for row := 0; row < placementRows; row++ {
		for col := 0; col < placementCols; col++ {
			x := placementMargin + float64(col)*placementStepX
			y := placementMargin + float64(row)*placementStepY
			if !collides(shapes, x, y, w, h) {
				return x, y
			}
		}
	}

	rightmost := 0.0
	for _, shape := range shapes {
		if edge := shape.X + shape.W; edge > rightmost {
			rightmost = edge
		}
	}
	return rightmost + placementMargin, placementMargin
}

func collides(shapes []domain.Shape, x, y, w, h float64) bool {
	for _, s := range shapes {
		if x < s.X+s.W && x+w > s.X && y < s.Y+s.H && y+h > s.Y {
			return true
		}
	}
	return false
}
