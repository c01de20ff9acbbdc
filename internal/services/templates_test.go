package services

import (
	"context"
	"testing"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/infrastructure/store"
)

func TestFindTemplateTokens(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"create a login form", "login form"},
		{"add a signin box please", "login form"},
		{"draw a navbar", "nav bar"},
		{"make a card", "card"},
		{"add a search bar", "search bar"},
	}
	for _, tt := range tests {
		tpl := findTemplate(tt.text)
		if tpl == nil || tpl.name != tt.want {
			t.Errorf("findTemplate(%q) = %v, want %q", tt.text, tpl, tt.want)
		}
	}
	if findTemplate("create a circle") != nil {
		t.Fatal("findTemplate matched plain shape text")
	}
}

func TestMatchTemplateNeedsCreateVerb(t *testing.T) {
	if !matchTemplate("create a login form") {
		t.Fatal("create verb plus template token should match")
	}
	if matchTemplate("delete the login form") {
		t.Fatal("template rule must not own non-create commands")
	}
}

func TestCompileTemplatePlacesAllParts(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	name, calls := compileTemplate("create a login form", mem, tools)
	if name != "login form" || len(calls) != 8 {
		t.Fatalf("compileTemplate = (%q, %d calls)", name, len(calls))
	}
	if err := tools.Execute(context.Background(), calls); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := len(mem.All()); got != 8 {
		t.Fatalf("%d shapes, want 8", got)
	}
}

func TestFindPlacementAvoidsCollisions(t *testing.T) {
	mem := store.NewMemoryStore(10)
	// Occupy the first candidate slot.
	seedShape(mem, domain.Shape{ID: "blocker", Type: domain.ShapeRectangle, X: 40, Y: 40, W: 300, H: 300})

	x, y := findPlacement(mem, 320, 360)
	if collides(mem.All(), x, y, 320, 360) {
		t.Fatalf("placement (%v, %v) collides with existing shape", x, y)
	}
}

func TestFindPlacementFallsBackPastRightmostEdge(t *testing.T) {
	mem := store.NewMemoryStore(10)
	// Blanket the whole candidate grid.
	seedShape(mem, domain.Shape{ID: "wall", Type: domain.ShapeFrame, X: 0, Y: 0, W: 2000, H: 2000})

	x, y := findPlacement(mem, 320, 360)
	if x != 2000+placementMargin || y != placementMargin {
		t.Fatalf("fallback placement = (%v, %v), want (%v, %v)", x, y, 2000+placementMargin, placementMargin)
	}
}
