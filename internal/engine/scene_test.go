package engine

import (
	"testing"

	"glide3d/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestAddRemoveMesh(t *testing.T) {
	s := NewScene("test")
	defer s.Release()

	a := NewGroundPlane("a", 10, 0)
	b := NewBox("b", rl.Vector3{X: 5}, rl.Vector3{X: 1, Y: 1, Z: 1})
	s.AddMesh(a)
	s.AddMesh(b)

	if a.UID == b.UID || a.UID == 0 || b.UID == 0 {
		t.Errorf("Expected distinct non-zero UIDs, got %d and %d", a.UID, b.UID)
	}
	if len(s.CollidableMeshes()) != 2 {
		t.Errorf("Expected 2 collidables, got %d", len(s.CollidableMeshes()))
	}
	if s.FindByName("b") != b {
		t.Error("Expected FindByName to locate the box")
	}

	s.RemoveMesh(a)
	if len(s.CollidableMeshes()) != 1 {
		t.Errorf("Expected 1 collidable after removal, got %d", len(s.CollidableMeshes()))
	}
	if s.FindByName("a") != nil {
		t.Error("Expected removed mesh to be gone")
	}
}

func TestSurroundingsQuery(t *testing.T) {
	s := NewScene("test")
	defer s.Release()

	// Spans far more than maxCellSpan cells: always surrounding.
	ground := NewGroundPlane("ground", 400, 0)
	near := NewBox("near", rl.Vector3{X: 3}, rl.Vector3{X: 1, Y: 1, Z: 1})
	far := NewBox("far", rl.Vector3{X: 50}, rl.Vector3{X: 1, Y: 1, Z: 1})
	target := NewBox("target", rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})

	s.AddMesh(ground)
	s.AddMesh(near)
	s.AddMesh(far)
	s.AddMesh(target)
	s.RebuildGrid()

	got := make(map[*Mesh]bool)
	for _, m := range s.SurroundingsFor(target) {
		got[m] = true
	}

	if !got[ground] {
		t.Error("Expected oversized ground plane in every surroundings query")
	}
	if !got[near] {
		t.Error("Expected neighboring box in surroundings")
	}
	if got[far] {
		t.Error("Expected distant box excluded from surroundings")
	}
	if got[target] {
		t.Error("Expected query target excluded from its own surroundings")
	}
}

func TestMoveMeshUsesSurroundings(t *testing.T) {
	s := NewScene("test")
	defer s.Release()

	ground := NewGroundPlane("ground", 400, 0)
	s.AddMesh(ground)

	body := NewMesh("body")
	body.Position = rl.Vector3{Y: 5}
	s.AddMesh(body)
	s.RebuildGrid()

	collider := s.Coordinator().CreateCollider()

	// Empty surroundings cache: the sweep tests nothing at all.
	body.Surrounding = []*Mesh{}
	s.MoveMesh(body, rl.Vector3{Y: -10}, collider, 3, nil, 1)
	if !vecNear(body.Position, rl.Vector3{Y: -5}, 0.001) {
		t.Errorf("Expected fall through with empty surroundings, got y=%v", body.Position.Y)
	}

	// Refreshed surroundings include the ground, so the body lands on it.
	body.Position = rl.Vector3{Y: 5}
	s.RefreshSurroundings(body)

	var gotID uint64
	var landedOn collision.Collidable
	s.MoveMesh(body, rl.Vector3{Y: -10}, collider, 3,
		func(id uint64, _ rl.Vector3, collided collision.Collidable) {
			gotID = id
			landedOn = collided
		}, 2)

	if gotID != 2 {
		t.Errorf("Expected request id 2 echoed, got %d", gotID)
	}
	if landedOn != ground {
		t.Errorf("Expected body to land on the ground, got %v", landedOn)
	}
	if body.Position.Y < 0.9 || body.Position.Y > 1.1 {
		t.Errorf("Expected body resting at y~1, got y=%v", body.Position.Y)
	}
}

func TestMoveMeshAppliesOwnMask(t *testing.T) {
	s := NewScene("test")
	defer s.Release()

	ground := NewGroundPlane("ground", 400, 0)
	ground.Group = 1
	s.AddMesh(ground)

	body := NewMesh("body")
	body.Mask = 2
	body.Position = rl.Vector3{Y: 5}
	s.AddMesh(body)

	collider := s.Coordinator().CreateCollider()
	s.MoveMesh(body, rl.Vector3{Y: -10}, collider, 3, nil, 1)

	if !vecNear(body.Position, rl.Vector3{Y: -5}, 0.001) {
		t.Errorf("Expected masked-out ground to be ignored, got y=%v", body.Position.Y)
	}

	body.Mask = 1
	body.Position = rl.Vector3{Y: 5}
	s.MoveMesh(body, rl.Vector3{Y: -10}, collider, 3, nil, 2)

	if body.Position.Y < 0.9 || body.Position.Y > 1.1 {
		t.Errorf("Expected body to land once the mask admits the ground, got y=%v", body.Position.Y)
	}
}
