package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// RuleParser is the deterministic fast path: an ordered table of
// (predicate, handler) pairs evaluated top to bottom. The first predicate
// that matches commits to that intent with no backtracking across intents,
// though a handler may itself fail. Sub-millisecond, no network.
type RuleParser struct {
	store ports.ShapeStore
	tools *Toolbox
	rules []rule
}

type rule struct {
	intent string
	match  func(text string) bool
	handle func(ctx context.Context, text string) domain.InterpretResult
}

// NewRuleParser builds the parser with its rule table. Rule order is
// load-bearing: earlier intents own overlapping keywords (grid before
// create, stroke before color, color before create, align before move).
func NewRuleParser(store ports.ShapeStore, tools *Toolbox) *RuleParser {
	p := &RuleParser{store: store, tools: tools}
	p.rules = []rule{
		{"undo", p.matchUndo, p.handleUndo},
		{"grid", p.matchGrid, p.handleGrid},
		{"template", matchTemplate, p.handleTemplate},
		{"select", p.matchSelect, p.handleSelect},
		{"delete_all", p.matchDeleteAll, p.handleDeleteAll},
		{"delete", p.matchDelete, p.handleDelete},
		{"duplicate", p.matchDuplicate, p.handleDuplicate},
		{"rotate", p.matchRotate, p.handleRotate},
		{"align", p.matchAlign, p.handleAlign},
		{"move", p.matchMove, p.handleMove},
		{"resize", p.matchResize, p.handleResize},
		{"stroke", p.matchStroke, p.handleStroke},
		{"color", p.matchColor, p.handleColor},
		{"create", p.matchCreate, p.handleCreate},
		{"ungroup", p.matchUngroup, p.handleUngroup},
		{"group", p.matchGroup, p.handleGroup},
	}
	return p
}

// Name identifies the tier for router logging.
func (p *RuleParser) Name() string { return "rules" }

// Interpret evaluates the rule table against normalized text.
func (p *RuleParser) Interpret(ctx context.Context, text, _ string) (domain.InterpretResult, error) {
	normalized := domain.Normalize(text)
	if normalized == "" {
		return domain.Missed(), nil
	}
	for _, r := range p.rules {
		if r.match(normalized) {
			return r.handle(ctx, normalized), nil
		}
	}
	return domain.Missed(), nil
}

// Intents enumerates the rule table for coverage tests.
func (p *RuleParser) Intents() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.intent
	}
	return names
}

// run executes compiled tool calls through the four-step contract and wraps
// the outcome.
func (p *RuleParser) run(ctx context.Context, message string, calls ...domain.ToolCall) domain.InterpretResult {
	if err := p.tools.Execute(ctx, calls); err != nil {
		return domain.Failf("could not apply command: %v", err)
	}
	return domain.Succeed(message, calls...)
}

// ---- undo ----

func (p *RuleParser) matchUndo(text string) bool {
	return hasWord(text, "undo") || strings.Contains(text, "revert")
}

func (p *RuleParser) handleUndo(ctx context.Context, _ string) domain.InterpretResult {
	if !p.tools.Undo(ctx) {
		return domain.Failf("nothing to undo")
	}
	return domain.Succeed("Undid the last change")
}

// ---- grid ----

func (p *RuleParser) matchGrid(text string) bool {
	return hasWord(text, "grid")
}

func (p *RuleParser) handleGrid(ctx context.Context, text string) domain.InterpretResult {
	gx, gy, ok := parseDims(text)
	if !ok {
		return domain.Failf("grid commands need dimensions like 3x3")
	}
	kind := gridKind(text)
	_, hex, _ := parseColor(text)
	call := domain.ToolCall{Name: domain.ToolCreateGrid, Args: map[string]any{
		"gx": gx, "gy": gy, "kind": string(kind), "ids": []string{}, "color": hex,
	}}
	return p.run(ctx, fmt.Sprintf("Created a %dx%d grid of %ss", gx, gy, kind), call)
}

// gridKind detects what to fill the lattice with.
func gridKind(text string) domain.ShapeType {
	if t, ok := parseShapeType(text); ok {
		return t
	}
	switch {
	case hasWord(text, "emoji"), hasWord(text, "emojis"):
		return domain.ShapeHeart
	case hasWord(text, "icon"), hasWord(text, "icons"):
		return domain.ShapeStar
	}
	return domain.ShapeRectangle
}

// ---- template ----

func (p *RuleParser) handleTemplate(ctx context.Context, text string) domain.InterpretResult {
	name, calls := compileTemplate(text, p.store, p.tools)
	if len(calls) == 0 {
		return domain.Failf("unknown layout template")
	}
	return p.run(ctx, fmt.Sprintf("Created a %s", name), calls...)
}

// ---- select ----

func (p *RuleParser) matchSelect(text string) bool {
	return strings.HasPrefix(text, "select") || strings.HasPrefix(text, "pick")
}

func (p *RuleParser) handleSelect(ctx context.Context, text string) domain.InterpretResult {
	hint := parseHint(text)
	candidates := make([]domain.Shape, 0)
	for _, shape := range p.store.All() {
		if hint.Type != "" && shape.Type != hint.Type {
			continue
		}
		if hint.Color != "" && !strings.Contains(shape.Color, colorPalette[hint.Color]) && !strings.Contains(shape.Color, hint.Color) {
			continue
		}
		candidates = append(candidates, shape)
	}
	if len(candidates) == 0 {
		return domain.Failf("no shapes match that description")
	}

	switch {
	case strings.Contains(text, "largest"), strings.Contains(text, "biggest"):
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Area() > candidates[j].Area() })
		candidates = candidates[:1]
	case strings.Contains(text, "smallest"):
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Area() < candidates[j].Area() })
		candidates = candidates[:1]
	}

	ids := make([]string, len(candidates))
	for i, shape := range candidates {
		ids[i] = shape.ID
	}
	p.store.Select(ids)
	return domain.Succeed(fmt.Sprintf("Selected %d shape(s)", len(ids)))
}

// ---- delete ----

func (p *RuleParser) matchDeleteAll(text string) bool {
	destructive := hasAny(text, "delete", "remove", "erase", "clear")
	bulk := hasAny(text, "all", "everything") || strings.Contains(text, "clear the canvas") || strings.Contains(text, "clear canvas")
	return destructive && bulk
}

// handleDeleteAll never executes eagerly: it returns a deferred action the
// caller must invoke explicitly.
func (p *RuleParser) handleDeleteAll(_ context.Context, text string) domain.InterpretResult {
	hint := parseHint(text)
	var doomed []string
	for _, shape := range p.store.All() {
		if hint.Type != "" && shape.Type != hint.Type {
			continue
		}
		doomed = append(doomed, shape.ID)
	}
	if len(doomed) == 0 {
		return domain.Failf("there is nothing to delete")
	}

	count := len(doomed)
	confirm := func() domain.AIResponse {
		calls := make([]domain.ToolCall, len(doomed))
		for i, id := range doomed {
			calls[i] = domain.ToolCall{Name: domain.ToolDeleteShape, Args: map[string]any{"id": id}}
		}
		if err := p.tools.Execute(context.Background(), calls); err != nil {
			return domain.ErrorResponse(fmt.Sprintf("delete failed: %v", err))
		}
		return domain.SuccessResponse(fmt.Sprintf("Deleted %d shape(s)", count), calls)
	}
	return domain.NeedsConfirm(fmt.Sprintf("This will delete %d shape(s). Confirm to proceed.", count), confirm)
}

func (p *RuleParser) matchDelete(text string) bool {
	return hasAny(text, "delete", "remove", "erase")
}

func (p *RuleParser) handleDelete(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to delete")
	}
	call := domain.ToolCall{Name: domain.ToolDeleteShape, Args: map[string]any{"id": target.ID}}
	return p.run(ctx, fmt.Sprintf("Deleted the %s", target.Shape.Type), call)
}

// ---- duplicate ----

func (p *RuleParser) matchDuplicate(text string) bool {
	return hasAny(text, "duplicate", "copy", "clone")
}

func (p *RuleParser) handleDuplicate(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to duplicate")
	}
	call := domain.ToolCall{Name: domain.ToolDuplicateShape, Args: map[string]any{"id": target.ID}}
	return p.run(ctx, fmt.Sprintf("Duplicated the %s", target.Shape.Type), call)
}

// ---- rotate ----

func (p *RuleParser) matchRotate(text string) bool {
	if hasAny(text, "rotate", "spin") {
		return true
	}
	// "turn" only reads as rotation alongside an angle or direction.
	return hasWord(text, "turn") &&
		(signedIntRe.MatchString(text) || strings.Contains(text, "clockwise") ||
			hasAny(text, "left", "right", "around"))
}

func (p *RuleParser) handleRotate(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to rotate")
	}
	degrees := clampAngle(parseAngle(text))
	call := domain.ToolCall{Name: domain.ToolRotateShape, Args: map[string]any{"id": target.ID, "degrees": degrees}}
	return p.run(ctx, fmt.Sprintf("Rotated the %s by %d degrees", target.Shape.Type, degrees), call)
}

// ---- align ----

func (p *RuleParser) matchAlign(text string) bool {
	return hasWord(text, "align")
}

func (p *RuleParser) handleAlign(ctx context.Context, text string) domain.InterpretResult {
	ids := p.store.Selection()
	if len(ids) < 2 {
		return domain.Failf("select at least two shapes to align")
	}
	alignment := ""
	for _, candidate := range []string{"left", "right", "top", "bottom", "middle", "center"} {
		if hasWord(text, candidate) {
			alignment = candidate
			break
		}
	}
	if alignment == "" {
		return domain.Failf("say how to align, e.g. align left")
	}
	call := domain.ToolCall{Name: domain.ToolAlignShapes, Args: map[string]any{"ids": ids, "alignment": alignment}}
	return p.run(ctx, fmt.Sprintf("Aligned %d shapes %s", len(ids), alignment), call)
}

// ---- move ----

func (p *RuleParser) matchMove(text string) bool {
	return hasAny(text, "move", "put", "place", "center", "centre")
}

func (p *RuleParser) handleMove(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to move")
	}

	var x, y float64
	switch {
	case hasAny(text, "center", "centre", "middle"):
		x = p.tools.Canvas.CenterX() - target.Shape.W/2
		y = p.tools.Canvas.CenterY() - target.Shape.H/2
	default:
		if cx, cy, ok := parseCoords(text); ok {
			x, y = cx, cy
			break
		}
		distance := parseDistance(text)
		x, y = target.Shape.X, target.Shape.Y
		switch {
		case hasWord(text, "left"):
			x -= distance
		case hasWord(text, "right"):
			x += distance
		case hasWord(text, "up"):
			y -= distance
		case hasWord(text, "down"):
			y += distance
		default:
			return domain.Failf("say where to move, e.g. move right 100 or move to 100 200")
		}
	}

	call := domain.ToolCall{Name: domain.ToolMoveShape, Args: map[string]any{"id": target.ID, "x": x, "y": y}}
	return p.run(ctx, fmt.Sprintf("Moved the %s", target.Shape.Type), call)
}

// ---- resize ----

func (p *RuleParser) matchResize(text string) bool {
	if hasAny(text, "resize", "bigger", "larger", "smaller", "shrink", "enlarge") {
		return true
	}
	if strings.Contains(text, "twice") || strings.Contains(text, "double") || strings.Contains(text, "half") {
		return hasAny(text, "big", "size", "small", "large") || strings.Contains(text, "as big")
	}
	return false
}

func (p *RuleParser) handleResize(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to resize")
	}

	var w, h float64
	if dw, dh, ok := parseDims(text); ok {
		w, h = float64(dw), float64(dh)
	} else if factor, ok := parseMultiplier(text); ok {
		w, h = target.Shape.W*factor, target.Shape.H*factor
	} else {
		w, h = 200, 120
	}

	call := domain.ToolCall{Name: domain.ToolResizeShape, Args: map[string]any{"id": target.ID, "w": w, "h": h}}
	return p.run(ctx, fmt.Sprintf("Resized the %s to %.0fx%.0f", target.Shape.Type, w, h), call)
}

// ---- stroke ----

func (p *RuleParser) matchStroke(text string) bool {
	return hasAny(text, "stroke", "border", "outline")
}

func (p *RuleParser) handleStroke(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil {
		return domain.Failf("select a shape to change its stroke")
	}
	_, hex, ok := parseColor(text)
	if !ok {
		return domain.Failf("say which stroke color, e.g. make the border red")
	}
	args := map[string]any{"id": target.ID, "stroke": hex}
	if m := strokeWidthRe.FindStringSubmatch(text); m != nil {
		args["strokeWidth"] = mustFloat(m[1])
	}
	call := domain.ToolCall{Name: domain.ToolChangeStroke, Args: args}
	return p.run(ctx, fmt.Sprintf("Changed the %s stroke", target.Shape.Type), call)
}

var strokeWidthRe = regexp.MustCompile(`width\s+(\d+)`)

func mustFloat(s string) float64 {
	var f float64
	fmt.Sscanf(s, "%f", &f)
	return f
}

// ---- create ----

var createVerbs = []string{"create", "add", "draw", "insert", "make", "new"}

func (p *RuleParser) matchCreate(text string) bool {
	if _, ok := parseShapeType(text); !ok {
		return false
	}
	return hasAny(text, createVerbs...)
}

func (p *RuleParser) handleCreate(ctx context.Context, text string) domain.InterpretResult {
	typ, _ := parseShapeType(text)
	_, hex, _ := parseColor(text)

	if typ == domain.ShapeText {
		content := extractQuoted(text)
		if content == "" {
			content = "Text"
		}
		fontSize := 18.0
		if m := fontSizeRe.FindStringSubmatch(text); m != nil {
			fontSize = mustFloat(m[1])
		}
		w, _ := textBlockSize(content, fontSize)
		call := domain.ToolCall{Name: domain.ToolCreateText, Args: map[string]any{
			"text": content, "x": p.tools.Canvas.CenterX() - w/2, "y": p.tools.Canvas.CenterY(), "fontSize": fontSize, "color": hex,
		}}
		return p.run(ctx, fmt.Sprintf("Added text %q", content), call)
	}

	w, h := domain.DefaultSize(typ)
	call := domain.ToolCall{Name: domain.ToolCreateShape, Args: map[string]any{
		"type": string(typ),
		"x":    p.tools.Canvas.CenterX() - w/2,
		"y":    p.tools.Canvas.CenterY() - h/2,
		"w":    w,
		"h":    h,
		"color": hex,
	}}
	return p.run(ctx, fmt.Sprintf("Created a %s", typ), call)
}

var fontSizeRe = regexp.MustCompile(`(?:font\s*size|size)\s+(\d+)`)

// ---- color ----

// matchColor distinguishes recoloring from creation: "make the rectangle
// red" recolors, "make a red circle" creates. The definite article (or a
// pronoun) marks an existing shape.
func (p *RuleParser) matchColor(text string) bool {
	if hasWord(text, "color") || hasWord(text, "colour") {
		return true
	}
	_, _, hasColor := parseColor(text)
	if !hasColor {
		return false
	}
	if hasAny(text, "change", "paint", "fill", "turn", "recolor") {
		return true
	}
	return hasWord(text, "make") && hasAny(text, "the", "it", "that")
}

func (p *RuleParser) handleColor(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHintForRecolor(text))
	if target == nil {
		return domain.Failf("select a shape to recolor")
	}
	name, hex, ok := parseColor(text)
	if !ok {
		return domain.Failf("say which color, e.g. make it blue")
	}
	call := domain.ToolCall{Name: domain.ToolChangeColor, Args: map[string]any{"id": target.ID, "color": hex}}
	return p.run(ctx, fmt.Sprintf("Colored the %s %s", target.Shape.Type, name), call)
}

// parseHintForRecolor drops the color clue: in "turn the rectangle red" the
// color names the new fill, not the shape to find.
func parseHintForRecolor(text string) domain.Hint {
	hint := parseHint(text)
	hint.Color = ""
	return hint
}

// ---- group ----

func (p *RuleParser) matchUngroup(text string) bool {
	return hasWord(text, "ungroup")
}

func (p *RuleParser) handleUngroup(ctx context.Context, text string) domain.InterpretResult {
	target := resolveTarget(p.store, parseHint(text))
	if target == nil || target.Shape.Group == "" {
		return domain.Failf("select a grouped shape to ungroup")
	}
	call := domain.ToolCall{Name: domain.ToolUngroupShapes, Args: map[string]any{"groupId": target.Shape.Group}}
	return p.run(ctx, "Ungrouped the shapes", call)
}

func (p *RuleParser) matchGroup(text string) bool {
	return hasWord(text, "group")
}

func (p *RuleParser) handleGroup(ctx context.Context, _ string) domain.InterpretResult {
	ids := p.store.Selection()
	if len(ids) < 2 {
		return domain.Failf("select at least two shapes to group")
	}
	call := domain.ToolCall{Name: domain.ToolGroupShapes, Args: map[string]any{"ids": ids}}
	return p.run(ctx, fmt.Sprintf("Grouped %d shapes", len(ids)), call)
}

func hasAny(text string, tokens ...string) bool {
	for _, token := range tokens {
		if hasWord(text, token) {
			return true
		}
	}
	return false
}
