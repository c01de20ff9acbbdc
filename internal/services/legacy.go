package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// LegacyParser is the narrower, substring-containment predecessor of the
// rule table, retained only as the terminal deterministic fallback. It covers
// a subset of create/move/resize/rotate/template intents with looser matching.
// No new intents should be added here; new intents belong in the rule table.
type LegacyParser struct {
	store ports.ShapeStore
	tools *Toolbox
}

// NewLegacyParser wires the fallback parser.
func NewLegacyParser(store ports.ShapeStore, tools *Toolbox) *LegacyParser {
	return &LegacyParser{store: store, tools: tools}
}

func (p *LegacyParser) Name() string { return "legacy" }

// Interpret matches on raw substring containment, first hit wins.
func (p *LegacyParser) Interpret(ctx context.Context, text, _ string) (domain.InterpretResult, error) {
	t := domain.Normalize(text)

	switch {
	case strings.Contains(t, "rotate"):
		target := resolveTarget(p.store, domain.Hint{})
		if target == nil {
			return domain.Failf("select a shape to rotate"), nil
		}
		call := domain.ToolCall{Name: domain.ToolRotateShape, Args: map[string]any{"id": target.ID, "degrees": 90}}
		if err := p.tools.Execute(ctx, []domain.ToolCall{call}); err != nil {
			return domain.Failf("rotate failed: %v", err), nil
		}
		return domain.Succeed("Rotated the shape by 90 degrees", call), nil

	case strings.Contains(t, "bigger") || strings.Contains(t, "smaller"):
		target := resolveTarget(p.store, domain.Hint{})
		if target == nil {
			return domain.Failf("select a shape to resize"), nil
		}
		factor := 1.25
		if strings.Contains(t, "smaller") {
			factor = 0.8
		}
		call := domain.ToolCall{Name: domain.ToolResizeShape, Args: map[string]any{
			"id": target.ID, "w": target.Shape.W * factor, "h": target.Shape.H * factor,
		}}
		if err := p.tools.Execute(ctx, []domain.ToolCall{call}); err != nil {
			return domain.Failf("resize failed: %v", err), nil
		}
		return domain.Succeed("Resized the shape", call), nil

	case strings.Contains(t, "center"):
		target := resolveTarget(p.store, domain.Hint{})
		if target == nil {
			return domain.Failf("select a shape to move"), nil
		}
		call := domain.ToolCall{Name: domain.ToolMoveShape, Args: map[string]any{
			"id": target.ID,
			"x":  p.tools.Canvas.CenterX() - target.Shape.W/2,
			"y":  p.tools.Canvas.CenterY() - target.Shape.H/2,
		}}
		if err := p.tools.Execute(ctx, []domain.ToolCall{call}); err != nil {
			return domain.Failf("move failed: %v", err), nil
		}
		return domain.Succeed("Centered the shape", call), nil

	case strings.Contains(t, "login"):
		name, calls := compileTemplate("create a login form", p.store, p.tools)
		if err := p.tools.Execute(ctx, calls); err != nil {
			return domain.Failf("template failed: %v", err), nil
		}
		return domain.Succeed(fmt.Sprintf("Created a %s", name), calls...), nil

	case strings.Contains(t, "circle"):
		return p.legacyCreate(ctx, domain.ShapeCircle, t)
	case strings.Contains(t, "rect") || strings.Contains(t, "box") || strings.Contains(t, "square"):
		return p.legacyCreate(ctx, domain.ShapeRectangle, t)
	}

	return domain.Missed(), nil
}

func (p *LegacyParser) legacyCreate(ctx context.Context, typ domain.ShapeType, text string) (domain.InterpretResult, error) {
	_, hex, _ := parseColor(text)
	w, h := domain.DefaultSize(typ)
	call := domain.ToolCall{Name: domain.ToolCreateShape, Args: map[string]any{
		"type": string(typ),
		"x":    p.tools.Canvas.CenterX() - w/2,
		"y":    p.tools.Canvas.CenterY() - h/2,
		"w":    w,
		"h":    h,
		"color": hex,
	}}
	if err := p.tools.Execute(ctx, []domain.ToolCall{call}); err != nil {
		return domain.Failf("create failed: %v", err), nil
	}
	return domain.Succeed(fmt.Sprintf("Created a %s", typ), call), nil
}
