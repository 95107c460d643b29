package fernmesh

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Debug visualization of a mesh's triangulation. Read-only: dumping or
// drawing a mesh never touches query state.

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the texture for untextured debug triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// AppendDebugVertices appends the mesh's current triangulation to the given
// vertex and index buffers as flat-colored triangles, returning the extended
// slices. The color is premultiplied into the vertex colors. Buffers may be
// nil; reuse them across frames to avoid reallocation.
//
// Meshes with more than 65535 vertices exceed ebiten's 16-bit index space
// and are appended truncated to the triangles that fit.
func AppendDebugVertices(m *Mesh, verts []ebiten.Vertex, inds []uint16, clr Color) ([]ebiten.Vertex, []uint16) {
	base := len(verts)
	cr := float32(clr.R * clr.A)
	cg := float32(clr.G * clr.A)
	cb := float32(clr.B * clr.A)
	ca := float32(clr.A)

	for _, v := range m.Verts {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(v.X),
			DstY:   float32(v.Y),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	for _, t := range m.Tris {
		a := base + int(t.V[0])
		b := base + int(t.V[1])
		c := base + int(t.V[2])
		if a > 0xffff || b > 0xffff || c > 0xffff {
			break
		}
		inds = append(inds, uint16(a), uint16(b), uint16(c))
	}
	return verts, inds
}

// DebugDraw renders the mesh's triangulation onto dst: triangles filled with
// fill, edges stroked with line. Pass a zero-alpha color to skip either
// layer. Intended for development overlays; not batched.
func DebugDraw(dst *ebiten.Image, m *Mesh, fill, line Color) {
	px := ensureWhitePixel()

	if fill.A > 0 {
		verts, inds := AppendDebugVertices(m, nil, nil, fill)
		if len(inds) > 0 {
			var op ebiten.DrawTrianglesOptions
			dst.DrawTriangles(verts, inds, px, &op)
		}
	}

	if line.A > 0 {
		var verts []ebiten.Vertex
		var inds []uint16
		for ti := range m.Tris {
			t := &m.Tris[ti]
			for e := 0; e < 3; e++ {
				// Draw each internal edge once, from its lower-index side.
				if t.N[e] != noNeighbor && t.N[e] < int32(ti) {
					continue
				}
				a := m.Verts[t.V[e]]
				b := m.Verts[t.V[(e+1)%3]]
				verts, inds = appendDebugLine(verts, inds, a, b, 1, line)
			}
		}
		if len(inds) > 0 {
			var op ebiten.DrawTrianglesOptions
			dst.DrawTriangles(verts, inds, px, &op)
		}
	}
}

// appendDebugLine appends a width-thick quad along segment ab.
func appendDebugLine(verts []ebiten.Vertex, inds []uint16, a, b Vec2, width float64, clr Color) ([]ebiten.Vertex, []uint16) {
	n := b.Sub(a).Normalized()
	perp := Vec2{-n.Y, n.X}.Scale(width / 2)

	base := len(verts)
	if base+4 > 0x10000 {
		return verts, inds
	}
	cr := float32(clr.R * clr.A)
	cg := float32(clr.G * clr.A)
	cb := float32(clr.B * clr.A)
	ca := float32(clr.A)
	for _, p := range [4]Vec2{a.Add(perp), a.Sub(perp), b.Add(perp), b.Sub(perp)} {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	inds = append(inds,
		uint16(base), uint16(base+1), uint16(base+2),
		uint16(base+1), uint16(base+3), uint16(base+2))
	return verts, inds
}
