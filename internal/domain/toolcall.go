package domain

import (
	"fmt"
	"sort"
)

// Canonical tool names shared by every tier and the effect executor.
const (
	ToolCreateShape    = "createShape"
	ToolMoveShape      = "moveShape"
	ToolResizeShape    = "resizeShape"
	ToolRotateShape    = "rotateShape"
	ToolChangeColor    = "changeColor"
	ToolChangeStroke   = "changeStroke"
	ToolDeleteShape    = "deleteShape"
	ToolDuplicateShape = "duplicateShape"
	ToolGroupShapes    = "groupShapes"
	ToolUngroupShapes  = "ungroupShapes"
	ToolAlignShapes    = "alignShapes"
	ToolCreateText     = "createText"
	ToolCreateGrid     = "createGrid"
)

// ToolCall is a canonical, serializable description of one effect to apply.
// It is the common output format of every tier, letting the router treat all
// tiers uniformly.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// String reads a string argument; missing or mistyped values yield "".
func (c ToolCall) String(key string) string {
	if v, ok := c.Args[key].(string); ok {
		return v
	}
	return ""
}

// Float reads a numeric argument. JSON decoding produces float64, but typed
// ints from the deterministic parser are accepted too.
func (c ToolCall) Float(key string) float64 {
	switch v := c.Args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Strings reads a string-slice argument, tolerating []any from JSON.
func (c ToolCall) Strings(key string) []string {
	switch v := c.Args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ToolSpec describes one manifest entry: the tool name and its argument
// contract, sent verbatim to generative backends and used to validate their
// replies.
type ToolSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
}

var toolManifest = map[string]ToolSpec{
	ToolCreateShape:    {Name: ToolCreateShape, Description: "create a shape", Required: []string{"type", "x", "y", "w", "h"}, Optional: []string{"color", "text"}},
	ToolMoveShape:      {Name: ToolMoveShape, Description: "move a shape to absolute coordinates", Required: []string{"id", "x", "y"}},
	ToolResizeShape:    {Name: ToolResizeShape, Description: "resize a shape", Required: []string{"id", "w", "h"}},
	ToolRotateShape:    {Name: ToolRotateShape, Description: "rotate a shape by degrees", Required: []string{"id", "degrees"}},
	ToolChangeColor:    {Name: ToolChangeColor, Description: "change fill color", Required: []string{"id", "color"}},
	ToolChangeStroke:   {Name: ToolChangeStroke, Description: "change stroke color and width", Required: []string{"id", "stroke"}, Optional: []string{"strokeWidth"}},
	ToolDeleteShape:    {Name: ToolDeleteShape, Description: "delete a shape", Required: []string{"id"}},
	ToolDuplicateShape: {Name: ToolDuplicateShape, Description: "duplicate a shape", Required: []string{"id"}},
	ToolGroupShapes:    {Name: ToolGroupShapes, Description: "group shapes", Required: []string{"ids"}},
	ToolUngroupShapes:  {Name: ToolUngroupShapes, Description: "ungroup a group", Required: []string{"groupId"}},
	ToolAlignShapes:    {Name: ToolAlignShapes, Description: "align shapes", Required: []string{"ids", "alignment"}},
	ToolCreateText:     {Name: ToolCreateText, Description: "create a text element", Required: []string{"text", "x", "y", "fontSize"}, Optional: []string{"color"}},
	ToolCreateGrid:     {Name: ToolCreateGrid, Description: "create an NxM grid of elements", Required: []string{"gx", "gy", "kind", "ids"}},
}

// Manifest returns the canonical tool manifest in stable name order.
func Manifest() []ToolSpec {
	specs := make([]ToolSpec, 0, len(toolManifest))
	for _, spec := range toolManifest {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// ValidateToolCall rejects calls naming an unknown tool or missing a required
// argument. Generative replies are validated with this before execution so
// loosely-typed provider output never reaches the effect executor.
func ValidateToolCall(call ToolCall) error {
	spec, ok := toolManifest[call.Name]
	if !ok {
		return fmt.Errorf("unknown tool %q", call.Name)
	}
	for _, key := range spec.Required {
		if _, present := call.Args[key]; !present {
			return fmt.Errorf("%s: missing required argument %q", call.Name, key)
		}
	}
	return nil
}
