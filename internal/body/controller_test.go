package body

import (
	"testing"

	"glide3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const deltaTime = float32(1.0 / 60.0)

func groundedScene(t *testing.T) (*engine.Scene, *Controller) {
	t.Helper()

	s := engine.NewScene("test")
	s.AddMesh(engine.NewGroundPlane("ground", 100, 0))

	c := NewController(s, rl.Vector3{X: 0.5, Y: 1, Z: 0.5})
	c.Position = rl.Vector3{Y: 5}
	return s, c
}

func settle(c *Controller, maxSteps int) int {
	for i := 0; i < maxSteps; i++ {
		c.SimpleMove(rl.Vector3{}, deltaTime)
		if c.IsGrounded() {
			return i + 1
		}
	}
	return maxSteps
}

func TestControllerLandsOnGround(t *testing.T) {
	s, c := groundedScene(t)
	defer s.Release()

	steps := settle(c, 600)
	if !c.IsGrounded() {
		t.Fatalf("Expected body grounded within %d steps", steps)
	}
	if c.Position.Y < 0.95 || c.Position.Y > 1.1 {
		t.Errorf("Expected rest at y~1 (ellipsoid half-height above plane), got y=%v", c.Position.Y)
	}
	if c.LastCollided == nil {
		t.Error("Expected LastCollided set on landing")
	}
}

func TestControllerRestingIsStable(t *testing.T) {
	s, c := groundedScene(t)
	defer s.Release()

	settle(c, 600)
	restY := c.Position.Y

	for i := 0; i < 120; i++ {
		c.SimpleMove(rl.Vector3{}, deltaTime)
		if !c.IsGrounded() {
			t.Fatalf("Expected body to stay grounded at rest, lost contact at step %d", i)
		}
	}

	drift := c.Position.Y - restY
	if drift > 0.05 || drift < -0.05 {
		t.Errorf("Expected rest height to hold, drifted by %v", drift)
	}
}

func TestControllerWalksWhileGrounded(t *testing.T) {
	s, c := groundedScene(t)
	defer s.Release()

	settle(c, 600)
	startX := c.Position.X

	for i := 0; i < 60; i++ {
		c.SimpleMove(rl.Vector3{X: 4}, deltaTime)
	}

	// One second of walking at 4 units/s.
	moved := c.Position.X - startX
	if moved < 3.8 || moved > 4.2 {
		t.Errorf("Expected ~4 units of horizontal motion, got %v", moved)
	}
	if !c.IsGrounded() {
		t.Error("Expected body to remain grounded while walking")
	}
}

func TestControllerJump(t *testing.T) {
	s, c := groundedScene(t)
	defer s.Release()

	settle(c, 600)
	restY := c.Position.Y

	c.SetVelocityY(8)
	c.SimpleMove(rl.Vector3{}, deltaTime)

	if c.IsGrounded() {
		t.Error("Expected body airborne immediately after jump")
	}
	if c.Position.Y <= restY {
		t.Errorf("Expected upward motion after jump, got y=%v from %v", c.Position.Y, restY)
	}

	steps := settle(c, 600)
	if !c.IsGrounded() {
		t.Fatalf("Expected body to land again within %d steps", steps)
	}
	if c.Position.Y < restY-0.05 || c.Position.Y > restY+0.05 {
		t.Errorf("Expected return to rest height %v, got %v", restY, c.Position.Y)
	}
}

func TestControllerStopsAtWall(t *testing.T) {
	s := engine.NewScene("test")
	defer s.Release()
	s.AddMesh(engine.NewBox("wall", rl.Vector3{X: 2.5}, rl.Vector3{X: 1, Y: 10, Z: 10}))

	c := NewController(s, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	c.UseGravity = false

	actual := c.Move(rl.Vector3{X: 4})

	// Wall face at x=2, body radius 0.5: center stops just short of 1.5.
	if c.Position.X < 1.4 || c.Position.X > 1.51 {
		t.Errorf("Expected stop near x=1.5, got x=%v", c.Position.X)
	}
	if actual.X >= 4 {
		t.Errorf("Expected displacement cut short by the wall, got %v", actual.X)
	}
	if c.LastCollided == nil {
		t.Error("Expected LastCollided set after hitting the wall")
	}
}

func TestControllerSlidesAlongWall(t *testing.T) {
	s := engine.NewScene("test")
	defer s.Release()
	s.AddMesh(engine.NewBox("wall", rl.Vector3{X: 2.5}, rl.Vector3{X: 1, Y: 10, Z: 10}))

	c := NewController(s, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	c.UseGravity = false

	// Push diagonally into the wall: the x component is absorbed, the z
	// component slides through.
	c.Move(rl.Vector3{X: 4, Z: 2})

	if c.Position.X > 1.51 {
		t.Errorf("Expected wall to hold x at ~1.5, got %v", c.Position.X)
	}
	if c.Position.Z < 1.9 {
		t.Errorf("Expected tangential motion to carry to z~2, got z=%v", c.Position.Z)
	}

	// Parallel motion just off the wall stays unobstructed.
	before := c.Position
	actual := c.Move(rl.Vector3{Z: 2})
	if !vecNear(c.Position, rl.Vector3Add(before, rl.Vector3{Z: 2}), 0.01) {
		t.Errorf("Expected free motion parallel to the wall, moved %v", actual)
	}
	if c.LastCollided != nil {
		t.Errorf("Expected no collision on parallel move, got %v", c.LastCollided)
	}
}

func TestControllerHardStopMode(t *testing.T) {
	s := engine.NewScene("test")
	defer s.Release()
	s.AddMesh(engine.NewBox("wall", rl.Vector3{X: 2.5}, rl.Vector3{X: 1, Y: 10, Z: 10}))

	c := NewController(s, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	c.UseGravity = false
	c.SlideOnCollide = false

	c.Move(rl.Vector3{X: 4, Z: 2})

	// Hard stop at the contact point (z=0.75 along the diagonal): the
	// remaining z motion is discarded instead of sliding to z~2.
	if c.Position.Z > 0.8 {
		t.Errorf("Expected tangential motion discarded on hard stop, got z=%v", c.Position.Z)
	}
	if c.Position.X > 1.51 {
		t.Errorf("Expected stop at the wall, got x=%v", c.Position.X)
	}
}

func vecNear(a, b rl.Vector3, tol float32) bool {
	return rl.Vector3Length(rl.Vector3Subtract(a, b)) <= tol
}
