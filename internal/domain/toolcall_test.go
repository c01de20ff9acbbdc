package domain

import "testing"

func TestManifestCoversAllTools(t *testing.T) {
	specs := Manifest()
	if len(specs) != 13 {
		t.Fatalf("manifest lists %d tools, want 13", len(specs))
	}
	seen := map[string]bool{}
	for _, spec := range specs {
		if spec.Name == "" || len(spec.Required) == 0 {
			t.Errorf("spec %+v lacks name or required args", spec)
		}
		if seen[spec.Name] {
			t.Errorf("duplicate tool %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name >= specs[i].Name {
			t.Fatal("manifest order must be stable by name")
		}
	}
}

func TestValidateToolCall(t *testing.T) {
	valid := ToolCall{Name: ToolMoveShape, Args: map[string]any{"id": "s", "x": 1.0, "y": 2.0}}
	if err := ValidateToolCall(valid); err != nil {
		t.Fatalf("ValidateToolCall(valid) = %v", err)
	}

	missing := ToolCall{Name: ToolMoveShape, Args: map[string]any{"id": "s"}}
	if err := ValidateToolCall(missing); err == nil {
		t.Fatal("missing required arg must be rejected")
	}

	unknown := ToolCall{Name: "evaporateShape", Args: map[string]any{}}
	if err := ValidateToolCall(unknown); err == nil {
		t.Fatal("unknown tool must be rejected")
	}
}

func TestToolCallAccessors(t *testing.T) {
	call := ToolCall{Args: map[string]any{
		"s":    "hello",
		"f":    1.5,
		"i":    3,
		"i64":  int64(4),
		"list": []any{"a", "b", 7},
		"strs": []string{"x"},
	}}

	if call.String("s") != "hello" || call.String("f") != "" || call.String("missing") != "" {
		t.Fatal("String accessor mismatch")
	}
	if call.Float("f") != 1.5 || call.Float("i") != 3 || call.Float("i64") != 4 || call.Float("s") != 0 {
		t.Fatal("Float accessor mismatch")
	}
	if got := call.Strings("list"); len(got) != 2 || got[0] != "a" {
		t.Fatalf("Strings(list) = %v", got)
	}
	if got := call.Strings("strs"); len(got) != 1 || got[0] != "x" {
		t.Fatalf("Strings(strs) = %v", got)
	}
	if call.Strings("missing") != nil {
		t.Fatal("Strings(missing) should be nil")
	}
}
