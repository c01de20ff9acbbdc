package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Create   a RED Circle  ", "create a red circle"},
		{"rotate\tthe\nrectangle", "rotate the rectangle"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSizeFallback(t *testing.T) {
	w, h := DefaultSize(ShapeCircle)
	if w != 140 || h != 140 {
		t.Fatalf("circle default = %vx%v", w, h)
	}
	w, h = DefaultSize("widget")
	if w != 200 || h != 120 {
		t.Fatalf("unknown type default = %vx%v, want rectangle fallback", w, h)
	}
}

func TestKnownShapeType(t *testing.T) {
	if !KnownShapeType(ShapeHeart) {
		t.Fatal("heart should be known")
	}
	if KnownShapeType("widget") {
		t.Fatal("widget should be unknown")
	}
}
