package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// duplicateOffset is added to both axes when duplicating a shape.
const duplicateOffset = 24

// gridStep is the lattice spacing for grid creation.
const gridStep = 180.0

// Toolbox is the effect executor: the single mutation path every tier goes
// through. Each tool call performs the same four-step contract, in order,
// with no step skipped on the success path:
//
//  1. push an undo snapshot of the full shape map;
//  2. apply the mutation to the local shape map;
//  3. broadcast the changed shapes to peers (fire-and-forget);
//  4. persist the changed shapes durably (fire-and-forget).
//
// Broadcast and persistence errors are logged, never propagated: a peer's
// next broadcast or poll reconciles divergence. The sequence is not atomic
// and multi-shape operations are not transactional.
type Toolbox struct {
	Store       ports.ShapeStore
	Broadcaster ports.Broadcaster
	Persister   ports.Persister
	Logger      ports.Logger
	Actor       string
	Canvas      domain.CanvasSettings

	centerOn func(domain.Shape)
	now      func() time.Time
	newID    func() string
}

// NewToolbox wires the executor to its collaborators.
func NewToolbox(store ports.ShapeStore, bc ports.Broadcaster, p ports.Persister, log ports.Logger, actor string, canvas domain.CanvasSettings) *Toolbox {
	return &Toolbox{
		Store:       store,
		Broadcaster: bc,
		Persister:   p,
		Logger:      log,
		Actor:       actor,
		Canvas:      canvas,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// SetCenterCallback registers the "center view on shape" callback invoked
// with the first shape of each creating batch.
func (t *Toolbox) SetCenterCallback(cb func(domain.Shape)) {
	t.centerOn = cb
}

// Execute applies a batch of tool calls. Creations across the batch are
// auto-selected as a whole and the center callback fires once, with the
// first created shape. Each individual call still performs the full
// four-step contract.
func (t *Toolbox) Execute(ctx context.Context, calls []domain.ToolCall) error {
	var created []domain.Shape
	for _, call := range calls {
		shapes, err := t.apply(ctx, call)
		if err != nil {
			return fmt.Errorf("%s: %w", call.Name, err)
		}
		created = append(created, shapes...)
	}

	if len(created) > 0 {
		ids := make([]string, len(created))
		for i, s := range created {
			ids[i] = s.ID
		}
		t.Store.Select(ids)
		if t.centerOn != nil {
			t.centerOn(created[0])
		}
	}
	return nil
}

// apply runs one tool call and returns any shapes it created.
func (t *Toolbox) apply(ctx context.Context, call domain.ToolCall) ([]domain.Shape, error) {
	if err := domain.ValidateToolCall(call); err != nil {
		return nil, err
	}

	switch call.Name {
	case domain.ToolCreateShape:
		return t.createShape(ctx, call)
	case domain.ToolCreateText:
		return t.createText(ctx, call)
	case domain.ToolCreateGrid:
		return t.createGrid(ctx, call)
	case domain.ToolMoveShape:
		return nil, t.patch(ctx, call.String("id"), func(s *domain.Shape) {
			s.X, s.Y = call.Float("x"), call.Float("y")
		})
	case domain.ToolResizeShape:
		return nil, t.patch(ctx, call.String("id"), func(s *domain.Shape) {
			s.W, s.H = call.Float("w"), call.Float("h")
		})
	case domain.ToolRotateShape:
		return nil, t.patch(ctx, call.String("id"), func(s *domain.Shape) {
			s.Rotation = float64(clampAngle(int(s.Rotation) + int(call.Float("degrees"))))
		})
	case domain.ToolChangeColor:
		return nil, t.patch(ctx, call.String("id"), func(s *domain.Shape) {
			s.Color = call.String("color")
		})
	case domain.ToolChangeStroke:
		return nil, t.patch(ctx, call.String("id"), func(s *domain.Shape) {
			s.Stroke = call.String("stroke")
			if w := call.Float("strokeWidth"); w > 0 {
				s.StrokeWidth = w
			}
		})
	case domain.ToolDeleteShape:
		return nil, t.deleteShape(ctx, call.String("id"))
	case domain.ToolDuplicateShape:
		return t.duplicateShape(ctx, call.String("id"))
	case domain.ToolGroupShapes:
		return nil, t.groupShapes(ctx, call.Strings("ids"))
	case domain.ToolUngroupShapes:
		return nil, t.ungroupShapes(ctx, call.String("groupId"))
	case domain.ToolAlignShapes:
		return nil, t.alignShapes(ctx, call.Strings("ids"), call.String("alignment"))
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

// snapshot pushes the current shape map onto the bounded undo stack.
func (t *Toolbox) snapshot() {
	t.Store.PushHistory(t.Store.All())
}

// stamp advances provenance. UpdatedAt must strictly increase per shape;
// it is the sole ordering key for recency resolution and last-write-wins.
func (t *Toolbox) stamp(s *domain.Shape) {
	now := t.now()
	if !now.After(s.UpdatedAt) {
		now = s.UpdatedAt.Add(time.Millisecond)
	}
	s.UpdatedAt = now
	s.UpdatedBy = t.Actor
}

// fanOut performs contract steps 3 and 4 for changed shapes.
func (t *Toolbox) fanOut(ctx context.Context, shapes []domain.Shape) {
	if err := t.Broadcaster.Send("shape:upsert", shapes); err != nil {
		t.Logger.Warn("broadcast failed", map[string]interface{}{"error": err.Error()})
	}
	if err := t.Persister.UpsertShapes(ctx, shapes); err != nil {
		t.Logger.Warn("persist failed", map[string]interface{}{"error": err.Error()})
	}
}

// patch shallow-merges field changes into one shape via the contract.
func (t *Toolbox) patch(ctx context.Context, id string, mutate func(*domain.Shape)) error {
	shape, ok := t.Store.Get(id)
	if !ok {
		return fmt.Errorf("shape %s not found", id)
	}
	t.snapshot()
	mutate(&shape)
	t.stamp(&shape)
	t.Store.Upsert(shape)
	t.fanOut(ctx, []domain.Shape{shape})
	return nil
}

func (t *Toolbox) buildShape(typ domain.ShapeType, x, y, w, h float64, color, text string) domain.Shape {
	shape := domain.Shape{
		ID:    t.newID(),
		Type:  typ,
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
		Color: color,
		Text:  text,
	}
	t.stamp(&shape)
	return shape
}

func (t *Toolbox) createShape(ctx context.Context, call domain.ToolCall) ([]domain.Shape, error) {
	typ := domain.ShapeType(call.String("type"))
	if !domain.KnownShapeType(typ) {
		return nil, fmt.Errorf("unknown shape type %q", typ)
	}
	t.snapshot()
	shape := t.buildShape(typ, call.Float("x"), call.Float("y"), call.Float("w"), call.Float("h"), call.String("color"), call.String("text"))
	t.Store.Upsert(shape)
	t.fanOut(ctx, []domain.Shape{shape})
	return []domain.Shape{shape}, nil
}

func (t *Toolbox) createText(ctx context.Context, call domain.ToolCall) ([]domain.Shape, error) {
	content := call.String("text")
	fontSize := call.Float("fontSize")
	if fontSize <= 0 {
		fontSize = 18
	}
	w, h := textBlockSize(content, fontSize)

	t.snapshot()
	shape := t.buildShape(domain.ShapeText, call.Float("x"), call.Float("y"), w, h, call.String("color"), content)
	shape.FontSize = fontSize
	t.Store.Upsert(shape)
	t.fanOut(ctx, []domain.Shape{shape})
	return []domain.Shape{shape}, nil
}

// createGrid lays gx×gy instances of a kind on a fixed-step lattice.
// One tool call: one snapshot, one broadcast, one persist for the batch.
func (t *Toolbox) createGrid(ctx context.Context, call domain.ToolCall) ([]domain.Shape, error) {
	gx, gy := int(call.Float("gx")), int(call.Float("gy"))
	if gx <= 0 || gy <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", gx, gy)
	}
	kind := domain.ShapeType(call.String("kind"))
	if !domain.KnownShapeType(kind) {
		kind = domain.ShapeRectangle
	}
	w, h := domain.DefaultSize(kind)

	t.snapshot()
	originX := t.Canvas.CenterX() - float64(gx-1)*gridStep/2 - w/2
	originY := t.Canvas.CenterY() - float64(gy-1)*gridStep/2 - h/2
	batch := make([]domain.Shape, 0, gx*gy)
	for row := 0; row < gy; row++ {
		for col := 0; col < gx; col++ {
			shape := t.buildShape(kind, originX+float64(col)*gridStep, originY+float64(row)*gridStep, w, h, call.String("color"), "")
			t.Store.Upsert(shape)
			batch = append(batch, shape)
		}
	}
	t.fanOut(ctx, batch)
	return batch, nil
}

func (t *Toolbox) deleteShape(ctx context.Context, id string) error {
	if _, ok := t.Store.Get(id); !ok {
		return fmt.Errorf("shape %s not found", id)
	}
	t.snapshot()
	t.Store.Remove(id)

	remaining := make([]string, 0)
	for _, sel := range t.Store.Selection() {
		if sel != id {
			remaining = append(remaining, sel)
		}
	}
	t.Store.Select(remaining)

	if err := t.Broadcaster.Send("shape:remove", id); err != nil {
		t.Logger.Warn("broadcast failed", map[string]interface{}{"error": err.Error()})
	}
	if err := t.Persister.DeleteShape(ctx, id); err != nil {
		t.Logger.Warn("persist failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// duplicateShape copies every field verbatim except identity and provenance,
// offset by a fixed constant.
func (t *Toolbox) duplicateShape(ctx context.Context, id string) ([]domain.Shape, error) {
	source, ok := t.Store.Get(id)
	if !ok {
		return nil, fmt.Errorf("shape %s not found", id)
	}
	t.snapshot()
	dup := source
	dup.ID = t.newID()
	dup.X += duplicateOffset
	dup.Y += duplicateOffset
	t.stamp(&dup)
	t.Store.Upsert(dup)
	t.fanOut(ctx, []domain.Shape{dup})
	return []domain.Shape{dup}, nil
}

func (t *Toolbox) groupShapes(ctx context.Context, ids []string) error {
	if len(ids) < 2 {
		return fmt.Errorf("grouping needs at least two shapes")
	}
	groupID := t.newID()
	t.snapshot()
	changed := make([]domain.Shape, 0, len(ids))
	for _, id := range ids {
		shape, ok := t.Store.Get(id)
		if !ok {
			continue
		}
		shape.Group = groupID
		t.stamp(&shape)
		t.Store.Upsert(shape)
		changed = append(changed, shape)
	}
	if len(changed) < 2 {
		return fmt.Errorf("grouping needs at least two existing shapes")
	}
	t.fanOut(ctx, changed)
	return nil
}

func (t *Toolbox) ungroupShapes(ctx context.Context, groupID string) error {
	t.snapshot()
	var changed []domain.Shape
	for _, shape := range t.Store.All() {
		if shape.Group != groupID {
			continue
		}
		shape.Group = ""
		t.stamp(&shape)
		t.Store.Upsert(shape)
		changed = append(changed, shape)
	}
	if len(changed) == 0 {
		return fmt.Errorf("group %s not found", groupID)
	}
	t.fanOut(ctx, changed)
	return nil
}

func (t *Toolbox) alignShapes(ctx context.Context, ids []string, alignment string) error {
	shapes := make([]domain.Shape, 0, len(ids))
	for _, id := range ids {
		if shape, ok := t.Store.Get(id); ok {
			shapes = append(shapes, shape)
		}
	}
	if len(shapes) < 2 {
		return fmt.Errorf("alignment needs at least two shapes")
	}

	minX, minY := shapes[0].X, shapes[0].Y
	maxX, maxY := shapes[0].X+shapes[0].W, shapes[0].Y+shapes[0].H
	for _, s := range shapes[1:] {
		minX = min(minX, s.X)
		minY = min(minY, s.Y)
		maxX = max(maxX, s.X+s.W)
		maxY = max(maxY, s.Y+s.H)
	}

	t.snapshot()
	changed := make([]domain.Shape, 0, len(shapes))
	for _, shape := range shapes {
		switch alignment {
		case "left":
			shape.X = minX
		case "right":
			shape.X = maxX - shape.W
		case "top":
			shape.Y = minY
		case "bottom":
			shape.Y = maxY - shape.H
		case "center":
			shape.X = (minX+maxX)/2 - shape.W/2
		case "middle":
			shape.Y = (minY+maxY)/2 - shape.H/2
		default:
			return fmt.Errorf("unknown alignment %q", alignment)
		}
		t.stamp(&shape)
		t.Store.Upsert(shape)
		changed = append(changed, shape)
	}
	t.fanOut(ctx, changed)
	return nil
}

// Undo restores the most recent history snapshot, if any.
func (t *Toolbox) Undo(ctx context.Context) bool {
	snapshot, ok := t.Store.PopHistory()
	if !ok {
		return false
	}
	t.Store.Replace(snapshot)
	if err := t.Broadcaster.Send("shape:sync", snapshot); err != nil {
		t.Logger.Warn("broadcast failed", map[string]interface{}{"error": err.Error()})
	}
	if err := t.Persister.UpsertShapes(ctx, snapshot); err != nil {
		t.Logger.Warn("persist failed", map[string]interface{}{"error": err.Error()})
	}
	return true
}
