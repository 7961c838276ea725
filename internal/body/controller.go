// Package body implements kinematic character and camera bodies that move
// through scene geometry via the collision coordinator.
package body

import (
	"glide3d/internal/collision"
	"glide3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Controller moves a kinematic ellipsoid body (player, camera) through the
// scene with gravity and sliding. Similar to Unity's CharacterController,
// but displacement resolution is delegated entirely to the scene's
// collision coordinator.
type Controller struct {
	Scene    *engine.Scene
	Collider *collision.Collider

	// Position is the body center (eye point for cameras) in world space.
	Position rl.Vector3

	// Configuration
	MaxRetries     int  // sweep budget per move
	SlideOnCollide bool // false means hard stop at first contact
	UseGravity     bool
	Gravity        float32 // gravity strength (positive = down)

	// Runtime state
	velocity   rl.Vector3
	isGrounded bool
	requestID  uint64

	// LastCollided is the mesh hit by the most recent move, nil when the
	// final sweep was unobstructed.
	LastCollided collision.Collidable
}

// NewController creates a controller with a collider of the given ellipsoid
// radius, owned exclusively by this body.
func NewController(scene *engine.Scene, radius rl.Vector3) *Controller {
	col := scene.Coordinator().CreateCollider()
	col.Radius = radius

	return &Controller{
		Scene:          scene,
		Collider:       col,
		MaxRetries:     3,
		SlideOnCollide: true,
		UseGravity:     true,
		Gravity:        20.0,
	}
}

// Move displaces the body by motion, resolving collisions against the scene.
// Returns the actual displacement after resolution.
func (c *Controller) Move(motion rl.Vector3) rl.Vector3 {
	before := c.Position
	c.requestID++

	c.Scene.Coordinator().GetNewPosition(c.Position, motion, c.Collider, c.MaxRetries, nil,
		c.onResolved, c.requestID, c.SlideOnCollide)

	return rl.Vector3Subtract(c.Position, before)
}

// onResolved lands the corrected position. Results for superseded requests
// are dropped by id.
func (c *Controller) onResolved(id uint64, newPosition rl.Vector3, collided collision.Collidable) {
	if id != c.requestID {
		return
	}
	c.Position = newPosition
	c.LastCollided = collided
}

// SimpleMove moves the body with gravity applied automatically. speed is the
// desired horizontal velocity; vertical motion comes from gravity and jumps.
func (c *Controller) SimpleMove(speed rl.Vector3, deltaTime float32) {
	if c.UseGravity {
		if !c.isGrounded || c.velocity.Y > 0 {
			c.velocity.Y -= c.Gravity * deltaTime
		} else {
			// Grounded and not jumping - keep enough downward bias to
			// re-detect ground through the contact nudge each frame
			c.velocity.Y = -1.0
		}
	}

	motion := rl.Vector3{
		X: speed.X * deltaTime,
		Y: c.velocity.Y * deltaTime,
		Z: speed.Z * deltaTime,
	}

	// Reset grounded before move (will be set if we land)
	c.isGrounded = false

	actual := c.Move(motion)

	// Landed when downward motion was cut short by an obstruction.
	if motion.Y < 0 && actual.Y > motion.Y+collision.Epsilon && c.Collider.CollisionFound {
		c.isGrounded = true
		c.velocity.Y = 0
	}
}

// IsGrounded returns whether the body is resting on geometry
func (c *Controller) IsGrounded() bool {
	return c.isGrounded
}

// SetVelocityY sets the vertical velocity (for jumping)
func (c *Controller) SetVelocityY(vy float32) {
	c.velocity.Y = vy
}

// Velocity returns the current gravity-driven velocity
func (c *Controller) Velocity() rl.Vector3 {
	return c.velocity
}
