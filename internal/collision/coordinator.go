package collision

import (
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Coordinator converts world-space displacement requests into corrected
// world-space positions by sweeping a collider through the scene's geometry.
// One coordinator serves a whole scene; it holds no per-body state, so it can
// resolve many bodies sequentially. Calls are synchronous and must not
// overlap for the same collider.
type Coordinator struct {
	world World

	lastLogTime time.Time // rate-limit exhausted-budget logs
}

// NewCoordinator creates a coordinator. Init must be called before first use.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Init binds the candidate-enumeration source.
func (dc *Coordinator) Init(w World) {
	dc.world = w
}

// CreateCollider returns a freshly default-constructed collider.
func (dc *Coordinator) CreateCollider() *Collider {
	return NewCollider()
}

// GetNewPosition resolves a world-space displacement for one body.
//
// When excludedMesh is non-nil the body is itself a scene mesh: the mesh is
// skipped during testing, its cached surrounding-meshes list replaces the
// full scene as candidate set, and its own collision mask replaces the
// collider's. onResolved is invoked exactly once, synchronously, with the
// echoed requestID, the corrected world-space position, and the mesh
// responsible for the nearest collision (nil when the final sweep was
// unobstructed).
//
// maxRetries bounds the number of sweep iterations; 0 reports the starting
// position unmoved. When slideOnCollide is false the body hard-stops at the
// first contact instead of sliding along it.
func (dc *Coordinator) GetNewPosition(position, displacement rl.Vector3, collider *Collider, maxRetries int, excludedMesh Collidable, onResolved OnResolved, requestID uint64, slideOnCollide bool) {
	scaledPosition := ToEllipsoidSpace(position, collider.Radius)
	scaledVelocity := ToEllipsoidSpace(displacement, collider.Radius)

	collider.CollidedMesh = nil
	collider.retryCount = 0
	collider.initialPosition = scaledPosition
	collider.initialVelocity = scaledVelocity

	finalPosition := dc.collideWithWorld(scaledPosition, scaledVelocity, collider, maxRetries, slideOnCollide, excludedMesh)
	finalPosition = FromEllipsoidSpace(finalPosition, collider.Radius)

	onResolved(requestID, finalPosition, collider.CollidedMesh)
}

// collideWithWorld runs the bounded sweep loop in ellipsoid-normalized space
// and returns the final normalized position. Each pass re-sweeps from the
// current position with the residual velocity until motion is exhausted,
// blocked, or the retry budget runs out.
func (dc *Coordinator) collideWithWorld(position, velocity rl.Vector3, collider *Collider, maxRetries int, slideOnCollide bool, excludedMesh Collidable) rl.Vector3 {
	closeDistance := float32(Epsilon * 10)

	for {
		if collider.retryCount >= maxRetries {
			if maxRetries > 0 && time.Since(dc.lastLogTime) >= time.Second {
				dc.lastLogTime = time.Now()
				moved := rl.Vector3Length(rl.Vector3Subtract(position, collider.initialPosition))
				log.Printf("Collisions: retry budget exhausted after %d sweeps (moved %.3f)", collider.retryCount, moved)
			}
			return position
		}

		mask := collider.Mask
		if excludedMesh != nil {
			mask = excludedMesh.CollisionMask()
		}

		collider.Reset(position, velocity, closeDistance)

		var candidates []Collidable
		if excludedMesh != nil {
			candidates = excludedMesh.SurroundingMeshes()
		}
		if candidates == nil {
			candidates = dc.world.CollidableMeshes()
		}

		for _, mesh := range candidates {
			if mesh == excludedMesh {
				continue
			}
			if !mesh.IsEnabled() || !mesh.CheckCollisions() || !mesh.HasGeometry() {
				continue
			}
			if mask&mesh.CollisionGroup() == 0 {
				continue
			}
			mesh.CollideForVelocity(collider)
		}

		if !collider.CollisionFound {
			// Unobstructed: apply the current (possibly deflected) velocity,
			// never the originally requested displacement.
			return rl.Vector3Add(position, velocity)
		}

		if velocity.X != 0 || velocity.Y != 0 || velocity.Z != 0 {
			collider.Response(&position, &velocity, slideOnCollide)
		}

		if rl.Vector3Length(velocity) <= closeDistance {
			return position
		}

		collider.retryCount++
	}
}
