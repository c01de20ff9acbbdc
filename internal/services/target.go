package services

import (
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// resolveTarget picks the single shape a command acts on.
//
// Priority order, first match wins, no merging:
//  1. first member of a non-empty multi-selection; explicit user selection
//     always overrides textual inference;
//  2. first shape in store-iteration order matching the type hint;
//  3. first shape whose stored color substring-contains the hint color;
//  4. the most recently touched shape (max UpdatedAt).
//
// Returns nil only when the store holds zero shapes.
func resolveTarget(store ports.ShapeStore, hint domain.Hint) *domain.Target {
	if selected := store.Selection(); len(selected) > 0 {
		if shape, ok := store.Get(selected[0]); ok {
			return &domain.Target{ID: shape.ID, Shape: shape}
		}
	}

	shapes := store.All()
	if len(shapes) == 0 {
		return nil
	}

	if hint.Type != "" {
		for _, shape := range shapes {
			if shape.Type == hint.Type {
				return &domain.Target{ID: shape.ID, Shape: shape}
			}
		}
	}

	if hint.Color != "" {
		hex := colorPalette[hint.Color]
		for _, shape := range shapes {
			if shape.Color == "" {
				continue
			}
			if strings.Contains(shape.Color, hint.Color) || (hex != "" && strings.Contains(shape.Color, hex)) {
				return &domain.Target{ID: shape.ID, Shape: shape}
			}
		}
	}

	latest := shapes[0]
	for _, shape := range shapes[1:] {
		if shape.UpdatedAt.After(latest.UpdatedAt) {
			latest = shape
		}
	}
	return &domain.Target{ID: latest.ID, Shape: latest}
}
