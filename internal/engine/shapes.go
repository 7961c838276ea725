package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// NewGroundPlane creates a square collidable plane of the given full size,
// lying at height y, with its face pointing up.
func NewGroundPlane(name string, size, y float32) *Mesh {
	h := size / 2
	a := rl.Vector3{X: -h, Y: y, Z: -h}
	b := rl.Vector3{X: -h, Y: y, Z: h}
	c := rl.Vector3{X: h, Y: y, Z: h}
	d := rl.Vector3{X: h, Y: y, Z: -h}

	m := NewMesh(name)
	m.Position = rl.Vector3{Y: y}
	m.BuildFromTriangles([]rl.Vector3{a, b, c, a, c, d})
	return m
}

// NewBox creates a closed box mesh centered at center with the given full
// size. Faces wind outward.
func NewBox(name string, center, size rl.Vector3) *Mesh {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	min := rl.Vector3Subtract(center, half)
	max := rl.Vector3Add(center, half)

	v := func(x, y, z float32) rl.Vector3 { return rl.Vector3{X: x, Y: y, Z: z} }

	quads := [6][4]rl.Vector3{
		// top (+Y)
		{v(min.X, max.Y, min.Z), v(min.X, max.Y, max.Z), v(max.X, max.Y, max.Z), v(max.X, max.Y, min.Z)},
		// bottom (-Y)
		{v(min.X, min.Y, min.Z), v(max.X, min.Y, min.Z), v(max.X, min.Y, max.Z), v(min.X, min.Y, max.Z)},
		// right (+X)
		{v(max.X, min.Y, min.Z), v(max.X, max.Y, min.Z), v(max.X, max.Y, max.Z), v(max.X, min.Y, max.Z)},
		// left (-X)
		{v(min.X, min.Y, min.Z), v(min.X, min.Y, max.Z), v(min.X, max.Y, max.Z), v(min.X, max.Y, min.Z)},
		// front (+Z)
		{v(min.X, min.Y, max.Z), v(max.X, min.Y, max.Z), v(max.X, max.Y, max.Z), v(min.X, max.Y, max.Z)},
		// back (-Z)
		{v(min.X, min.Y, min.Z), v(min.X, max.Y, min.Z), v(max.X, max.Y, min.Z), v(max.X, min.Y, min.Z)},
	}

	vertices := make([]rl.Vector3, 0, 36)
	for _, q := range quads {
		vertices = append(vertices, q[0], q[1], q[2], q[0], q[2], q[3])
	}

	m := NewMesh(name)
	m.Position = center
	m.BuildFromTriangles(vertices)
	return m
}

// NewTerrain creates a heightfield mesh of cells x cells quads centered on
// the origin. height is sampled at each grid corner; nil means flat at y=0.
func NewTerrain(name string, cells int, cellSize float32, height func(x, z float32) float32) *Mesh {
	if height == nil {
		height = func(x, z float32) float32 { return 0 }
	}

	half := float32(cells) * cellSize / 2
	corner := func(i, j int) rl.Vector3 {
		x := -half + float32(i)*cellSize
		z := -half + float32(j)*cellSize
		return rl.Vector3{X: x, Y: height(x, z), Z: z}
	}

	vertices := make([]rl.Vector3, 0, cells*cells*6)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			a := corner(i, j)
			b := corner(i, j+1)
			c := corner(i+1, j+1)
			d := corner(i+1, j)
			vertices = append(vertices, a, b, c, a, c, d)
		}
	}

	m := NewMesh(name)
	m.BuildFromTriangles(vertices)
	return m
}
