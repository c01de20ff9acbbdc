package services

import (
	"context"
	"testing"

	"github.com/inkboard/inkboard/internal/domain"
)

func TestLegacyRotateDefaultsTo90(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	seedShape(mem, domain.Shape{ID: "s", Type: domain.ShapeRectangle})
	p := NewLegacyParser(mem, tools)

	result, err := p.Interpret(context.Background(), "please rotate this somehow", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultSuccess {
		t.Fatalf("got %+v", result)
	}
	if shape, _ := mem.Get("s"); shape.Rotation != 90 {
		t.Fatalf("rotation = %v, want the fixed 90", shape.Rotation)
	}
}

func TestLegacyBiggerSmaller(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	seedShape(mem, domain.Shape{ID: "s", Type: domain.ShapeRectangle, W: 100, H: 80})
	p := NewLegacyParser(mem, tools)

	if _, err := p.Interpret(context.Background(), "a bit bigger please", "en"); err != nil {
		t.Fatal(err)
	}
	shape, _ := mem.Get("s")
	if shape.W != 125 || shape.H != 100 {
		t.Fatalf("size = %vx%v, want 125x100", shape.W, shape.H)
	}
}

func TestLegacyCreateFromBareNoun(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	p := NewLegacyParser(mem, tools)

	result, err := p.Interpret(context.Background(), "red circle", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultSuccess {
		t.Fatalf("got %+v", result)
	}
	shape := mem.All()[0]
	if shape.Type != domain.ShapeCircle || shape.Color != "#ef4444" {
		t.Fatalf("shape = %+v", shape)
	}
}

func TestLegacyLoginTemplate(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	p := NewLegacyParser(mem, tools)

	result, err := p.Interpret(context.Background(), "something something login", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultSuccess {
		t.Fatalf("got %+v", result)
	}
	if got := len(mem.All()); got != 8 {
		t.Fatalf("%d parts, want 8", got)
	}
}

func TestLegacyMissesUnknownText(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	p := NewLegacyParser(mem, tools)

	result, err := p.Interpret(context.Background(), "sing me a song", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultMiss {
		t.Fatalf("got %+v", result)
	}
}
