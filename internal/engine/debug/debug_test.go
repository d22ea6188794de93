package debug

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/spatial"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

func TestBBoxWireframe(t *testing.T) {
	box := geom.NewAABB(math.Vec3{-1, -2, -3}, math.Vec3{1, 2, 3})
	vertices := BBoxWireframe(box, 1, BoundsColor)

	if len(vertices) != BBoxWireframeVertexCount {
		t.Fatalf("len = %d, want %d", len(vertices), BBoxWireframeVertexCount)
	}
	for i, v := range vertices {
		if (v.X != -2 && v.X != 2) || (v.Y != -3 && v.Y != 3) || (v.Z != -4 && v.Z != 4) {
			t.Errorf("vertex %d = %+v is not a padded corner", i, v)
		}
	}
	// Every edge is axis aligned: endpoints differ on exactly one axis.
	for i := 0; i < len(vertices); i += 2 {
		a, b := vertices[i], vertices[i+1]
		diff := 0
		if a.X != b.X {
			diff++
		}
		if a.Y != b.Y {
			diff++
		}
		if a.Z != b.Z {
			diff++
		}
		if diff != 1 {
			t.Errorf("edge %d from %+v to %+v is not axis aligned", i/2, a, b)
		}
	}

	if got := BBoxWireframe(geom.EmptyAABB(), 0, BoundsColor); got != nil {
		t.Errorf("empty box produced %d vertices", len(got))
	}
}

func TestMeshWireframe(t *testing.T) {
	tris := []geom.Triangle{
		geom.NewTriangle(math.Vec3{0, 0, 0}, math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}),
		geom.NewTriangle(math.Vec3{1, 0, 0}, math.Vec3{1, 1, 0}, math.Vec3{0, 1, 0}),
	}
	vertices := MeshWireframe(tris, MeshColor)
	if len(vertices) != 12 {
		t.Fatalf("len = %d, want 12", len(vertices))
	}
	if vertices[5].X != 0 || vertices[5].Y != 0 {
		t.Errorf("closing edge ends at %+v, want first corner", vertices[5])
	}
	if flat := Flatten(vertices); len(flat) != 12*LineVertexFloats {
		t.Errorf("Flatten len = %d, want %d", len(flat), 12*LineVertexFloats)
	}
}

func TestGridCellWireframes(t *testing.T) {
	g := spatial.NewGrid(1)
	g.Insert(0, geom.NewAABB(math.Vec3{0.1, 0.1, 0.1}, math.Vec3{0.2, 0.2, 0.2}))
	g.Insert(1, geom.NewAABB(math.Vec3{0.1, 0.1, 0.1}, math.Vec3{1.5, 0.2, 0.2}))

	vertices := GridCellWireframes(g)
	if want := 2 * BBoxWireframeVertexCount; len(vertices) != want {
		t.Fatalf("len = %d, want %d", len(vertices), want)
	}

	if got := GridCellWireframes(spatial.NewGrid(1)); got != nil {
		t.Errorf("empty grid produced %d vertices", len(got))
	}
}

func TestFramebufferImageFlipsRows(t *testing.T) {
	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FramebufferImage(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FramebufferImage() error = %v", err)
	}
	if top := img.RGBAAt(0, 0); top.B != 255 {
		t.Errorf("top pixel = %v, want blue", top)
	}

	if _, err := FramebufferImage(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestSaveScreenshot(t *testing.T) {
	pixels := make([]byte, 4*4*4)
	for i := range pixels {
		pixels[i] = byte(i)
		if i%4 == 3 {
			pixels[i] = 255
		}
	}

	for _, format := range []ImageFormat{FormatPNG, FormatBMP} {
		t.Run(string(format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "shots")
			path, err := SaveScreenshot(dir, "meshview", format, pixels, 4, 4)
			if err != nil {
				t.Fatalf("SaveScreenshot() error = %v", err)
			}
			if !strings.HasPrefix(filepath.Base(path), "meshview_") || filepath.Ext(path) != "."+string(format) {
				t.Errorf("path = %q, want meshview_*.%s", path, format)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("screenshot not written: %v", err)
			}
			defer f.Close()
			cfg, name, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if name != string(format) || cfg.Width != 4 || cfg.Height != 4 {
				t.Errorf("decoded %s %dx%d, want %s 4x4", name, cfg.Width, cfg.Height, format)
			}
		})
	}
}

func TestParseImageFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ImageFormat
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{" BMP ", FormatBMP, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseImageFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseImageFormat(%q) = %q, %v; want %q, error %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestScreenshotName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got, want := ScreenshotName("", "shot", "", at), "shot_2024-03-09_14-05-07.png"; got != want {
		t.Errorf("ScreenshotName() = %q, want %q", got, want)
	}
	if got, want := ScreenshotName("out", "shot", FormatBMP, at), filepath.Join("out", "shot_2024-03-09_14-05-07.bmp"); got != want {
		t.Errorf("ScreenshotName() = %q, want %q", got, want)
	}
}

func TestMeshVertices(t *testing.T) {
	tris := []geom.Triangle{
		geom.NewTriangle(math.Vec3{0, 0, 0}, math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}),
		geom.NewTriangle(math.Vec3{0, 0, 0}, math.Vec3{0, 0, 0}, math.Vec3{0, 0, 0}),
	}
	out := MeshVertices(tris)
	if len(out) != 2*3*MeshVertexFloats {
		t.Fatalf("len = %d, want %d", len(out), 2*3*MeshVertexFloats)
	}

	// Second corner of the first triangle.
	got := out[MeshVertexFloats : 2*MeshVertexFloats]
	want := []float32{1, 0, 0, 0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex 1 = %v, want %v", got, want)
		}
	}

	// Degenerate triangles keep their zero normal.
	for i := 3 * MeshVertexFloats; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("degenerate vertex data = %v, want zeros", out[3*MeshVertexFloats:])
		}
	}
}

func TestHitMarker(t *testing.T) {
	p := math.Vec3{1, 2, 3}
	withNormal := HitMarker(p, math.UnitY, 0.5, HitColor)
	if len(withNormal) != 8 {
		t.Fatalf("len = %d, want 8", len(withNormal))
	}
	tip := withNormal[7]
	if tip.X != 1 || tip.Y != 3.5 || tip.Z != 3 {
		t.Errorf("normal tip = %+v, want (1, 3.5, 3)", tip)
	}
	if tip.R != HitColor[0] || tip.G != HitColor[1] || tip.B != HitColor[2] {
		t.Errorf("tip color = (%v, %v, %v), want %v", tip.R, tip.G, tip.B, HitColor)
	}

	if got := len(HitMarker(p, math.Vec3{}, 0.5, HitColor)); got != 6 {
		t.Errorf("zero normal len = %d, want 6", got)
	}
}
