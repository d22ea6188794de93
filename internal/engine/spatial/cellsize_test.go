package spatial

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

func TestAutoCellSizeDensity(t *testing.T) {
	// Tube volume 400*40*40 = 640000; this count puts TargetTrianglesPerCell
	// triangles into every 10x10x10 cell.
	bounds := geom.NewAABB(math.Vec3{}, math.Vec3{400, 40, 40})
	count := 640000 * TargetTrianglesPerCell / 1000
	got := AutoCellSize(bounds, count)
	if gomath.Abs(float64(got)-10) > 0.01 {
		t.Errorf("AutoCellSize() = %v, want 10", got)
	}
}

func TestAutoCellSizeClamps(t *testing.T) {
	bounds := geom.NewAABB(math.Vec3{}, math.Vec3{100, 100, 100})
	tests := []struct {
		name  string
		count int
		want  float32
	}{
		{"dense", 10_000_000, MinCellSize},
		{"sparse", 12, MaxCellSize},
		{"empty", 0, MaxCellSize},
	}
	for _, tt := range tests {
		if got := AutoCellSize(bounds, tt.count); got != tt.want {
			t.Errorf("%s: AutoCellSize() = %v, want %v", tt.name, got, tt.want)
		}
	}

	flat := geom.NewAABB(math.Vec3{}, math.Vec3{100, 0, 0})
	if got := AutoCellSize(flat, 1000); got != MaxCellSize {
		t.Errorf("flat AutoCellSize() = %v, want %v", got, MaxCellSize)
	}
}

func TestCellSizeResolve(t *testing.T) {
	bounds := geom.NewAABB(math.Vec3{}, math.Vec3{100, 100, 100})
	tests := []struct {
		name string
		cs   CellSize
		want float32
	}{
		{"fixed", Fixed(7.5), 7.5},
		{"fixed above auto range", Fixed(50), 50},
		{"zero", Fixed(0), MinCellSize},
		{"negative", Fixed(-3), MinCellSize},
		{"nan", Fixed(float32(gomath.NaN())), MinCellSize},
		{"infinite", Fixed(float32(gomath.Inf(1))), MinCellSize},
		{"below floor", Fixed(0.001), 100.0 / MaxCellsPerAxis},
		{"at floor", Fixed(100.0 / MaxCellsPerAxis), 100.0 / MaxCellsPerAxis},
		{"auto", Auto(), MaxCellSize},
	}
	for _, tt := range tests {
		if got := tt.cs.Resolve(bounds, 12); got != tt.want {
			t.Errorf("%s: Resolve() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCellSizeResolveEmptyBounds(t *testing.T) {
	if got := Fixed(0.001).Resolve(geom.EmptyAABB(), 0); got != 0.001 {
		t.Errorf("Resolve() = %v, want 0.001", got)
	}
}

func TestCellSizeString(t *testing.T) {
	if got := Auto().String(); got != "auto" {
		t.Errorf("Auto().String() = %q", got)
	}
	if got := Fixed(12.5).String(); got != "12.5" {
		t.Errorf("Fixed(12.5).String() = %q", got)
	}
	var zero CellSize
	if !zero.IsAuto() {
		t.Error("zero CellSize should be auto")
	}
}
