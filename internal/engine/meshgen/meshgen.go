// Package meshgen builds procedural scene hierarchies used by the tools and
// tests in place of loaded assets.
package meshgen

import (
	"fmt"
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/bake"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// Cube returns a closed axis-aligned box of the given edge length centered at
// the origin. Its 12 triangles wind counter-clockwise seen from outside, so
// face normals point outward.
func Cube(size float32) *bake.MeshData {
	h := size / 2
	positions := []math.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	indices := []uint32{
		0, 4, 7, 0, 7, 3, // -X
		1, 2, 6, 1, 6, 5, // +X
		0, 1, 5, 0, 5, 4, // -Y
		3, 7, 6, 3, 6, 2, // +Y
		0, 3, 2, 0, 2, 1, // -Z
		4, 5, 6, 4, 6, 7, // +Z
	}
	return &bake.MeshData{Positions: positions, Indices: indices}
}

// Plane returns a flat grid of divisions x divisions quads on the XZ plane,
// centered at the origin and facing +Y.
func Plane(size float32, divisions int) *bake.MeshData {
	if divisions < 1 {
		divisions = 1
	}
	n := divisions + 1
	step := size / float32(divisions)
	start := -size / 2

	mesh := &bake.MeshData{
		Positions: make([]math.Vec3, 0, n*n),
		Indices:   make([]uint32, 0, divisions*divisions*6),
	}
	for z := range n {
		for x := range n {
			mesh.Positions = append(mesh.Positions,
				math.Vec3{X: start + float32(x)*step, Z: start + float32(z)*step})
		}
	}
	for z := range divisions {
		for x := range divisions {
			i := uint32(z*n + x)
			row := uint32(n)
			mesh.Indices = append(mesh.Indices,
				i, i+row, i+1,
				i+1, i+row, i+row+1,
			)
		}
	}
	return mesh
}

// TunnelParams shapes the procedural asteroid tunnel.
type TunnelParams struct {
	Length   float32 // along -Z
	Radius   float32
	Rings    int     // cross sections along the length
	Sides    int     // vertices per ring
	Segments int     // child sub-meshes the rings are split into
	Rough    float32 // radial noise amplitude as a fraction of Radius
	Wander   float32 // lateral drift amplitude of the tunnel axis
	Seed     uint64
}

// DefaultTunnelParams returns the tunnel used by the viewer.
func DefaultTunnelParams() TunnelParams {
	return TunnelParams{
		Length:   400,
		Radius:   12,
		Rings:    160,
		Sides:    48,
		Segments: 8,
		Rough:    0.18,
		Wander:   10,
		Seed:     1,
	}
}

// Tunnel returns a hierarchy whose children are consecutive sections of a
// noisy tube running from z=0 toward -Length. Triangles face inward. The
// same params always produce the same geometry.
func Tunnel(p TunnelParams) *bake.Node {
	if p.Rings < 2 {
		p.Rings = 2
	}
	if p.Sides < 3 {
		p.Sides = 3
	}
	if p.Segments < 1 {
		p.Segments = 1
	}
	if p.Segments > p.Rings-1 {
		p.Segments = p.Rings - 1
	}

	rng, axis := newTunnelAxis(p)

	rings := make([][]math.Vec3, p.Rings)
	for r := range p.Rings {
		center := axis.at(float64(r) / float64(p.Rings-1))
		ring := make([]math.Vec3, p.Sides)
		for s := range p.Sides {
			a := float64(s) / float64(p.Sides) * 2 * gomath.Pi
			radius := p.Radius * (1 + p.Rough*float32(rng.Float64()*2-1))
			ring[s] = center.Add(math.Vec3{
				X: radius * float32(gomath.Cos(a)),
				Y: radius * float32(gomath.Sin(a)),
			})
		}
		rings[r] = ring
	}

	root := bake.NewNode("tunnel", nil)
	spans := p.Rings - 1
	for seg := range p.Segments {
		first := seg * spans / p.Segments
		last := (seg + 1) * spans / p.Segments
		root.Children = append(root.Children,
			bake.NewNode(segmentName(seg), tubeSection(rings[first:last+1])))
	}
	return root
}

// TunnelAxis returns the centre of the tunnel cross section at fraction f
// of its length, 0 at the entrance and 1 at the far end.
func TunnelAxis(p TunnelParams, f float32) math.Vec3 {
	_, axis := newTunnelAxis(p)
	return axis.at(float64(math.Clamp(f, 0, 1)))
}

type tunnelAxis struct {
	length, wander float32
	phaseX, phaseY float64
}

// newTunnelAxis seeds the generator and draws the axis phases from it. The
// returned generator continues with the per-vertex noise.
func newTunnelAxis(p TunnelParams) (*rand.Rand, tunnelAxis) {
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	axis := tunnelAxis{length: p.Length, wander: p.Wander}
	axis.phaseX = rng.Float64() * 2 * gomath.Pi
	axis.phaseY = rng.Float64() * 2 * gomath.Pi
	return rng, axis
}

func (a tunnelAxis) at(f float64) math.Vec3 {
	return math.Vec3{
		X: a.wander * float32(gomath.Sin(f*3*gomath.Pi+a.phaseX)),
		Y: a.wander * 0.5 * float32(gomath.Sin(f*5*gomath.Pi+a.phaseY)),
		Z: -a.length * float32(f),
	}
}

// tubeSection stitches consecutive rings into quads. Rings run
// counter-clockwise seen from +Z, so (a, b, c) winds toward the axis.
func tubeSection(rings [][]math.Vec3) *bake.MeshData {
	sides := len(rings[0])
	mesh := &bake.MeshData{}
	for _, ring := range rings {
		mesh.Positions = append(mesh.Positions, ring...)
	}
	for r := 0; r < len(rings)-1; r++ {
		for s := range sides {
			a := uint32(r*sides + s)
			b := uint32(r*sides + (s+1)%sides)
			c := a + uint32(sides)
			d := b + uint32(sides)
			mesh.Indices = append(mesh.Indices, a, b, c, b, d, c)
		}
	}
	return mesh
}

func segmentName(i int) string {
	return fmt.Sprintf("segment_%02d", i)
}
