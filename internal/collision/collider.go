package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Collider is the per-body scratch state for collision resolution. All of
// its sweep math runs in ellipsoid-normalized space, where the body's
// envelope is a unit sphere.
//
// A Collider is reused across calls to avoid per-frame allocation and is NOT
// re-entrant: one collider must never be shared by two in-flight
// GetNewPosition calls.
type Collider struct {
	// Radius is the per-axis ellipsoid radius of the body's envelope.
	// Components must be strictly positive; a zero component is caller
	// misuse and yields undefined numeric results.
	Radius rl.Vector3

	// Mask selects which collision groups this body tests against when no
	// excluded mesh overrides it. -1 tests everything.
	Mask int32

	// CollisionFound reports whether any candidate intersected during the
	// last sweep. CollidedMesh is non-nil if and only if CollisionFound.
	CollisionFound bool
	CollidedMesh   Collidable

	retryCount int

	basePoint          rl.Vector3 // scaled position at the start of this sweep
	velocity           rl.Vector3 // scaled velocity for this sweep
	normalizedVelocity rl.Vector3

	initialPosition rl.Vector3 // scaled inputs snapshotted per retry chain
	initialVelocity rl.Vector3

	closeDistance     float32
	nearestDistance   float32
	intersectionPoint rl.Vector3
}

// NewCollider returns a collider with a unit envelope that collides with
// every group. Callers assign Radius before first use.
func NewCollider() *Collider {
	return &Collider{
		Radius: rl.Vector3{X: 1, Y: 1, Z: 1},
		Mask:   -1,
	}
}

// Reset prepares the collider for one sweep iteration. Position and velocity
// are in ellipsoid-normalized space.
func (c *Collider) Reset(position, velocity rl.Vector3, closeDistance float32) {
	c.basePoint = position
	c.velocity = velocity
	c.normalizedVelocity = rl.Vector3Normalize(velocity)
	c.closeDistance = closeDistance
	c.CollisionFound = false
	c.CollidedMesh = nil
	c.nearestDistance = math32.MaxFloat32
}

// SweepBounds returns the world-space bounds covered by the current sweep,
// expanded by the body's radius. Meshes use it to pre-filter triangles.
func (c *Collider) SweepBounds() (min, max rl.Vector3) {
	from := FromEllipsoidSpace(c.basePoint, c.Radius)
	to := rl.Vector3Add(from, FromEllipsoidSpace(c.velocity, c.Radius))

	min = rl.Vector3{
		X: math32.Min(from.X, to.X) - c.Radius.X,
		Y: math32.Min(from.Y, to.Y) - c.Radius.Y,
		Z: math32.Min(from.Z, to.Z) - c.Radius.Z,
	}
	max = rl.Vector3{
		X: math32.Max(from.X, to.X) + c.Radius.X,
		Y: math32.Max(from.Y, to.Y) + c.Radius.Y,
		Z: math32.Max(from.Z, to.Z) + c.Radius.Z,
	}
	return min, max
}

// CollideTriangle sweeps the unit sphere along the current velocity against
// one triangle given in ellipsoid-normalized space. Only the nearest positive
// hit along the sweep survives; farther hits are discarded. Mesh collaborators
// call this from their narrow-phase test.
func (c *Collider) CollideTriangle(p1, p2, p3 rl.Vector3, host Collidable) {
	normal := rl.Vector3CrossProduct(rl.Vector3Subtract(p2, p1), rl.Vector3Subtract(p3, p1))
	if normal.X == 0 && normal.Y == 0 && normal.Z == 0 {
		return // degenerate triangle
	}
	normal = rl.Vector3Normalize(normal)

	// Backfaces cannot obstruct the sweep.
	if rl.Vector3DotProduct(normal, c.normalizedVelocity) > 0 {
		return
	}

	signedDist := rl.Vector3DotProduct(normal, rl.Vector3Subtract(c.basePoint, p1))
	normalDotVel := rl.Vector3DotProduct(normal, c.velocity)

	embedded := false
	var t0 float32
	if normalDotVel == 0 {
		// Moving parallel to the triangle plane: either too far to touch or
		// embedded for the whole sweep.
		if math32.Abs(signedDist) >= 1 {
			return
		}
		embedded = true
	} else {
		t0 = (-1 - signedDist) / normalDotVel
		t1 := (1 - signedDist) / normalDotVel
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > 1 || t1 < 0 {
			return
		}
		if t0 < 0 {
			t0 = 0
		}
	}

	var collisionPoint rl.Vector3
	found := false
	t := float32(1)

	if embedded {
		// Resting or penetrating contact: the closest triangle point decides.
		closest := closestPointOnTriangle(c.basePoint, p1, p2, p3)
		diff := rl.Vector3Subtract(c.basePoint, closest)
		if rl.Vector3DotProduct(diff, diff) < 1 {
			found = true
			t = 0
			collisionPoint = closest
		}
	} else {
		// Sphere-vs-plane contact point, valid while it lies inside the face.
		planePoint := rl.Vector3Add(rl.Vector3Subtract(c.basePoint, normal), rl.Vector3Scale(c.velocity, t0))
		if checkPointInTriangle(planePoint, p1, p2, p3, normal) {
			found = true
			t = t0
			collisionPoint = planePoint
		}
	}

	if !found {
		// Sweep against vertices and edges for the earliest contact.
		velSq := rl.Vector3DotProduct(c.velocity, c.velocity)

		for _, p := range [3]rl.Vector3{p1, p2, p3} {
			b := 2 * rl.Vector3DotProduct(c.velocity, rl.Vector3Subtract(c.basePoint, p))
			toVertex := rl.Vector3Subtract(p, c.basePoint)
			cq := rl.Vector3DotProduct(toVertex, toVertex) - 1
			if root, ok := lowestRoot(velSq, b, cq, t); ok {
				t = root
				found = true
				collisionPoint = p
			}
		}

		for _, e := range [3][2]rl.Vector3{{p1, p2}, {p2, p3}, {p3, p1}} {
			edge := rl.Vector3Subtract(e[1], e[0])
			baseToVertex := rl.Vector3Subtract(e[0], c.basePoint)
			edgeSq := rl.Vector3DotProduct(edge, edge)
			edgeDotVel := rl.Vector3DotProduct(edge, c.velocity)
			edgeDotBTV := rl.Vector3DotProduct(edge, baseToVertex)

			a := edgeSq*(-velSq) + edgeDotVel*edgeDotVel
			b := edgeSq*(2*rl.Vector3DotProduct(c.velocity, baseToVertex)) - 2*edgeDotVel*edgeDotBTV
			cq := edgeSq*(1-rl.Vector3DotProduct(baseToVertex, baseToVertex)) + edgeDotBTV*edgeDotBTV

			if root, ok := lowestRoot(a, b, cq, t); ok {
				// Contact must fall within the edge segment.
				f := (edgeDotVel*root - edgeDotBTV) / edgeSq
				if f >= 0 && f <= 1 {
					t = root
					found = true
					collisionPoint = rl.Vector3Add(e[0], rl.Vector3Scale(edge, f))
				}
			}
		}
	}

	if !found {
		return
	}

	distToCollision := t * rl.Vector3Length(c.velocity)
	if !c.CollisionFound || distToCollision < c.nearestDistance {
		c.nearestDistance = distToCollision
		c.intersectionPoint = collisionPoint
		c.CollisionFound = true
		c.CollidedMesh = host
	}
}

// Response moves position up to the nearest contact found by the sweep and
// rewrites velocity with the remaining motion: projected onto the slide plane
// when slide is true, zeroed outright otherwise (hard stop at first contact).
func (c *Collider) Response(position, velocity *rl.Vector3, slide bool) {
	destination := rl.Vector3Add(*position, *velocity)

	length := rl.Vector3Length(*velocity)
	if length != 0 {
		travelled := rl.Vector3Scale(*velocity, c.nearestDistance/length)
		*position = rl.Vector3Add(c.basePoint, travelled)
	}

	planeNormal := rl.Vector3Normalize(rl.Vector3Subtract(*position, c.intersectionPoint))

	// Nudge off the surface so the next sweep does not start embedded.
	displacement := rl.Vector3Scale(planeNormal, c.closeDistance)
	*position = rl.Vector3Add(*position, displacement)
	intersection := rl.Vector3Add(c.intersectionPoint, displacement)

	if !slide {
		*velocity = rl.Vector3Zero()
		return
	}

	// Project the destination onto the slide plane; the remainder is the
	// deflected velocity, tangential to the obstructing surface.
	d := rl.Vector3DotProduct(planeNormal, rl.Vector3Subtract(destination, intersection))
	newDestination := rl.Vector3Subtract(destination, rl.Vector3Scale(planeNormal, d))
	*velocity = rl.Vector3Subtract(newDestination, intersection)
}

// checkPointInTriangle reports whether a point on the triangle's plane lies
// inside the triangle, using edge-plane tests against the face normal.
func checkPointInTriangle(point, pa, pb, pc, n rl.Vector3) bool {
	edge := rl.Vector3CrossProduct(rl.Vector3Subtract(pb, pa), rl.Vector3Subtract(point, pa))
	if rl.Vector3DotProduct(edge, n) < 0 {
		return false
	}
	edge = rl.Vector3CrossProduct(rl.Vector3Subtract(pc, pb), rl.Vector3Subtract(point, pb))
	if rl.Vector3DotProduct(edge, n) < 0 {
		return false
	}
	edge = rl.Vector3CrossProduct(rl.Vector3Subtract(pa, pc), rl.Vector3Subtract(point, pc))
	return rl.Vector3DotProduct(edge, n) >= 0
}

// closestPointOnTriangle finds the closest point on a triangle to point p
func closestPointOnTriangle(p, a, b, c rl.Vector3) rl.Vector3 {
	// Check if P in vertex region outside A
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a // barycentric coordinates (1,0,0)
	}

	// Check if P in vertex region outside B
	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b // barycentric coordinates (0,1,0)
	}

	// Check if P in edge region of AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v)) // barycentric coordinates (1-v,v,0)
	}

	// Check if P in vertex region outside C
	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c // barycentric coordinates (0,0,1)
	}

	// Check if P in edge region of AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w)) // barycentric coordinates (1-w,0,w)
	}

	// Check if P in edge region of BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w)) // barycentric coordinates (0,1-w,w)
	}

	// P inside face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}
