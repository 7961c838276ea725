package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon absorbs floating-point slack near surfaces. Residual motion at or
// below 10*Epsilon per sweep is treated as exhausted.
const Epsilon = 0.001

// Collidable is the capability contract candidate geometry must satisfy to
// take part in a sweep. Scene meshes implement it; the coordinator never
// looks past these methods.
type Collidable interface {
	IsEnabled() bool
	// CheckCollisions reports whether the mesh opted into collision testing.
	CheckCollisions() bool
	// HasGeometry reports whether the mesh has renderable sub-parts to test.
	HasGeometry() bool
	CollisionGroup() int32
	// CollisionMask is consulted only when this mesh is the excluded/moving
	// mesh of a sweep.
	CollisionMask() int32
	// SurroundingMeshes returns the spatial pre-filter list used when this
	// mesh is itself the moving body, or nil when none is cached.
	SurroundingMeshes() []Collidable
	// CollideForVelocity runs the mesh's narrow-phase test against the
	// collider's current sweep, updating its nearest-intersection state.
	CollideForVelocity(c *Collider)
}

// World enumerates the candidate geometry of a scene.
type World interface {
	CollidableMeshes() []Collidable
}

// OnResolved receives the outcome of one GetNewPosition call. It is invoked
// exactly once, synchronously, before GetNewPosition returns.
type OnResolved func(requestID uint64, newPosition rl.Vector3, collidedMesh Collidable)

// ToEllipsoidSpace divides a world-space vector by the per-axis radius,
// mapping the body's envelope onto the unit sphere.
func ToEllipsoidSpace(v, radius rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: v.X / radius.X, Y: v.Y / radius.Y, Z: v.Z / radius.Z}
}

// FromEllipsoidSpace maps a normalized-space vector back to world space.
func FromEllipsoidSpace(v, radius rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: v.X * radius.X, Y: v.Y * radius.Y, Z: v.Z * radius.Z}
}

// lowestRoot returns the smallest root of a*x*x + b*x + c = 0 in (0, maxR).
func lowestRoot(a, b, c, maxR float32) (float32, bool) {
	if a == 0 {
		if b == 0 {
			return maxR, false
		}
		r := -c / b
		if r > 0 && r < maxR {
			return r, true
		}
		return maxR, false
	}

	det := b*b - 4*a*c
	if det < 0 {
		return maxR, false
	}

	sqrtDet := math32.Sqrt(det)
	r1 := (-b - sqrtDet) / (2 * a)
	r2 := (-b + sqrtDet) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	if r1 > 0 && r1 < maxR {
		return r1, true
	}
	if r2 > 0 && r2 < maxR {
		return r2, true
	}
	return maxR, false
}
