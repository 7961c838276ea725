package engine

import (
	"glide3d/internal/collision"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle represents a single world-space triangle with precomputed normal
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min, Max rl.Vector3
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// BVHNode is a node in the bounding volume hierarchy
type BVHNode struct {
	Bounds    AABB
	Left      *BVHNode
	Right     *BVHNode
	Triangles []int // indices into the triangle array (only for leaf nodes)
}

// Mesh is static collidable geometry in a scene. Triangles are baked in
// world space; moving the mesh does not rebuild them. Position only locates
// the mesh for spatial queries and for sweeps where the mesh is itself the
// moving body.
type Mesh struct {
	Name string
	UID  int

	Position rl.Vector3

	Enabled bool
	// Collidable opts the mesh into collision sweeps.
	Collidable bool
	Group      int32
	Mask       int32

	// Surrounding is the spatial pre-filter used when this mesh is the
	// moving body of a sweep. nil means no cache; the full scene is tested.
	Surrounding []*Mesh

	Triangles []Triangle
	Root      *BVHNode
	built     bool
}

// NewMesh creates an enabled, collidable mesh in the default collision group
// (must call BuildFromTriangles or a shape constructor after).
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Enabled:    true,
		Collidable: true,
		Group:      -1,
		Mask:       -1,
	}
}

// IsEnabled implements collision.Collidable
func (m *Mesh) IsEnabled() bool {
	return m.Enabled
}

// CheckCollisions implements collision.Collidable
func (m *Mesh) CheckCollisions() bool {
	return m.Collidable
}

// HasGeometry implements collision.Collidable
func (m *Mesh) HasGeometry() bool {
	return m.built && len(m.Triangles) > 0
}

// CollisionGroup implements collision.Collidable
func (m *Mesh) CollisionGroup() int32 {
	return m.Group
}

// CollisionMask implements collision.Collidable
func (m *Mesh) CollisionMask() int32 {
	return m.Mask
}

// SurroundingMeshes implements collision.Collidable. Returns nil when no
// surroundings cache exists, which makes sweeps fall back to the full scene.
func (m *Mesh) SurroundingMeshes() []collision.Collidable {
	if m.Surrounding == nil {
		return nil
	}
	out := make([]collision.Collidable, len(m.Surrounding))
	for i, s := range m.Surrounding {
		out[i] = s
	}
	return out
}

// CollideForVelocity implements collision.Collidable: the narrow-phase test.
// Triangles inside the sweep's bounds are scaled into the collider's
// ellipsoid space and swept against the unit sphere; the collider keeps the
// nearest hit as a side effect.
func (m *Mesh) CollideForVelocity(c *collision.Collider) {
	if !m.built || m.Root == nil {
		return
	}

	min, max := c.SweepBounds()
	query := AABB{Min: min, Max: max}

	// Coarse rejection against the whole mesh before walking the BVH.
	if !m.Root.Bounds.Intersects(query) {
		return
	}

	for _, idx := range m.queryBVH(m.Root, query, nil) {
		tri := &m.Triangles[idx]
		p1 := collision.ToEllipsoidSpace(tri.V0, c.Radius)
		p2 := collision.ToEllipsoidSpace(tri.V1, c.Radius)
		p3 := collision.ToEllipsoidSpace(tri.V2, c.Radius)
		c.CollideTriangle(p1, p2, p3, m)
	}
}

// BuildFromTriangles bakes a world-space triangle soup into the mesh,
// computing normals from winding, and builds the BVH.
func (m *Mesh) BuildFromTriangles(vertices []rl.Vector3) {
	m.Triangles = m.Triangles[:0]

	for i := 0; i+2 < len(vertices); i += 3 {
		v0, v1, v2 := vertices[i], vertices[i+1], vertices[i+2]

		edge1 := rl.Vector3Subtract(v1, v0)
		edge2 := rl.Vector3Subtract(v2, v0)
		normal := rl.Vector3CrossProduct(edge1, edge2)
		normal = rl.Vector3Normalize(normal)

		m.Triangles = append(m.Triangles, Triangle{V0: v0, V1: v1, V2: v2, Normal: normal})
	}

	m.buildBVH()
	m.built = true
}

// Bounds returns the AABB of the entire mesh
func (m *Mesh) Bounds() AABB {
	if m.Root == nil {
		return AABB{}
	}
	return m.Root.Bounds
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// buildBVH constructs a bounding volume hierarchy for fast queries
func (m *Mesh) buildBVH() {
	if len(m.Triangles) == 0 {
		m.Root = nil
		return
	}

	indices := make([]int, len(m.Triangles))
	for i := range indices {
		indices[i] = i
	}

	m.Root = m.buildBVHNode(indices, 0)
}

func (m *Mesh) buildBVHNode(indices []int, depth int) *BVHNode {
	node := &BVHNode{}
	node.Bounds = m.computeBounds(indices)

	// If few triangles or max depth, make leaf
	if len(indices) <= 4 || depth > 20 {
		node.Triangles = indices
		return node
	}

	// Find longest axis
	size := rl.Vector3Subtract(node.Bounds.Max, node.Bounds.Min)
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > getAxisValue(size, axis) {
		axis = 2
	}

	mid := m.partitionTriangles(indices, axis)

	if mid == 0 || mid == len(indices) {
		// Couldn't split, make leaf
		node.Triangles = indices
		return node
	}

	node.Left = m.buildBVHNode(indices[:mid], depth+1)
	node.Right = m.buildBVHNode(indices[mid:], depth+1)

	return node
}

func (m *Mesh) computeBounds(indices []int) AABB {
	bounds := AABB{
		Min: rl.Vector3{X: math32.MaxFloat32, Y: math32.MaxFloat32, Z: math32.MaxFloat32},
		Max: rl.Vector3{X: -math32.MaxFloat32, Y: -math32.MaxFloat32, Z: -math32.MaxFloat32},
	}

	for _, idx := range indices {
		tri := &m.Triangles[idx]
		bounds.Min = vector3Min(bounds.Min, tri.V0)
		bounds.Min = vector3Min(bounds.Min, tri.V1)
		bounds.Min = vector3Min(bounds.Min, tri.V2)
		bounds.Max = vector3Max(bounds.Max, tri.V0)
		bounds.Max = vector3Max(bounds.Max, tri.V1)
		bounds.Max = vector3Max(bounds.Max, tri.V2)
	}

	return bounds
}

func (m *Mesh) partitionTriangles(indices []int, axis int) int {
	// Find median centroid
	center := float32(0)
	for _, idx := range indices {
		tri := &m.Triangles[idx]
		centroid := rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(tri.V0, tri.V1), tri.V2), 1.0/3.0)
		center += getAxisValue(centroid, axis)
	}
	center /= float32(len(indices))

	// Partition around median
	left := 0
	right := len(indices) - 1
	for left <= right {
		tri := &m.Triangles[indices[left]]
		centroid := rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(tri.V0, tri.V1), tri.V2), 1.0/3.0)
		if getAxisValue(centroid, axis) < center {
			left++
		} else {
			indices[left], indices[right] = indices[right], indices[left]
			right--
		}
	}
	return left
}

func (m *Mesh) queryBVH(node *BVHNode, query AABB, out []int) []int {
	if node == nil {
		return out
	}

	if !node.Bounds.Intersects(query) {
		return out
	}

	// Leaf slices alias the shared index array, so copy into the accumulator
	if node.Triangles != nil {
		return append(out, node.Triangles...)
	}

	out = m.queryBVH(node.Left, query, out)
	return m.queryBVH(node.Right, query, out)
}

func getAxisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Min(a.X, b.X),
		Y: math32.Min(a.Y, b.Y),
		Z: math32.Min(a.Z, b.Z),
	}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Max(a.X, b.X),
		Y: math32.Max(a.Y, b.Y),
		Z: math32.Max(a.Z, b.Z),
	}
}
