package types

import "testing"

func TestEntityKindRoundTrip(t *testing.T) {
	for k := KindTennisBall; k <= KindStaticBall; k++ {
		parsed, err := ParseEntityKind(k.String())
		if err != nil {
			t.Fatalf("ParseEntityKind(%q) error: %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseEntityKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}

	if _, err := ParseEntityKind("dragon"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestEntityKindCategories(t *testing.T) {
	tests := []struct {
		kind   EntityKind
		ball   bool
		cube   bool
		static bool
	}{
		{KindTennisBall, true, false, false},
		{KindBonusBall, true, false, false},
		{KindCube, false, true, false},
		{KindStaticCube, false, true, true},
		{KindStaticBall, true, false, true},
	}
	for _, tt := range tests {
		if tt.kind.IsBall() != tt.ball || tt.kind.IsCube() != tt.cube || tt.kind.IsStatic() != tt.static {
			t.Errorf("%s: IsBall=%v IsCube=%v IsStatic=%v", tt.kind, tt.kind.IsBall(), tt.kind.IsCube(), tt.kind.IsStatic())
		}
	}
}

func TestShaderStateCycles(t *testing.T) {
	s := ShaderState(0)
	s = s.Next()
	s = s.Next()
	if s != 2 {
		t.Fatalf("Expected state 2, got %d", s)
	}
	if s.Next() != 0 {
		t.Errorf("State should wrap to 0, got %d", s.Next())
	}
	if SurfaceWood.Toggle() != SurfaceSand || SurfaceSand.Toggle() != SurfaceWood {
		t.Error("Surface toggle mismatch")
	}
}
