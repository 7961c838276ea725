package engine

import (
	"glide3d/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NewCoordinator is the factory hook used when a scene is constructed.
// Swappable so tests and tools can observe or replace coordinator creation.
var NewCoordinator = collision.NewCoordinator

// Spatial grid cell size - meshes within same or neighboring cells count as
// surrounding each other
const CellSize = 5.0

// Meshes spanning more cells than this per axis are treated as global and
// returned from every surroundings query (large ground planes, terrain).
const maxCellSpan = 32

// Cell key for spatial hashing
type cellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) cellKey {
	return cellKey{
		X: int(pos.X / CellSize),
		Y: int(pos.Y / CellSize),
		Z: int(pos.Z / CellSize),
	}
}

// Scene owns the collidable mesh list and one collision coordinator. The
// coordinator is created with the scene and torn down with it.
type Scene struct {
	Name    string
	Meshes  []*Mesh
	Gravity rl.Vector3

	coordinator *collision.Coordinator
	collidables []collision.Collidable

	grid    map[cellKey][]*Mesh
	large   []*Mesh // meshes too big for the grid
	nextUID int
}

func NewScene(name string) *Scene {
	s := &Scene{
		Name:    name,
		Meshes:  make([]*Mesh, 0),
		Gravity: rl.Vector3{X: 0, Y: -20.0, Z: 0},
		grid:    make(map[cellKey][]*Mesh),
	}
	s.coordinator = NewCoordinator()
	s.coordinator.Init(s)
	return s
}

// Coordinator returns the scene's collision coordinator.
func (s *Scene) Coordinator() *collision.Coordinator {
	return s.coordinator
}

// Release tears the scene down. The coordinator does not outlive the scene.
func (s *Scene) Release() {
	s.coordinator = nil
	s.Meshes = nil
	s.collidables = nil
	s.grid = nil
	s.large = nil
}

func (s *Scene) AddMesh(m *Mesh) {
	s.nextUID++
	m.UID = s.nextUID
	s.Meshes = append(s.Meshes, m)
	s.rebuildCollidables()
}

func (s *Scene) RemoveMesh(m *Mesh) {
	for i, mesh := range s.Meshes {
		if mesh == m {
			s.Meshes = append(s.Meshes[:i], s.Meshes[i+1:]...)
			s.rebuildCollidables()
			return
		}
	}
}

func (s *Scene) FindByName(name string) *Mesh {
	for _, m := range s.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// CollidableMeshes implements collision.World.
func (s *Scene) CollidableMeshes() []collision.Collidable {
	return s.collidables
}

func (s *Scene) rebuildCollidables() {
	s.collidables = s.collidables[:0]
	for _, m := range s.Meshes {
		s.collidables = append(s.collidables, m)
	}
}

// RebuildGrid clears and repopulates the spatial hash grid from mesh bounds.
// Call after adding or moving meshes and before refreshing surroundings.
func (s *Scene) RebuildGrid() {
	for k := range s.grid {
		delete(s.grid, k)
	}
	s.large = s.large[:0]

	for _, m := range s.Meshes {
		if !m.HasGeometry() {
			continue
		}
		b := m.Bounds()
		min := posToCell(b.Min)
		max := posToCell(b.Max)

		if max.X-min.X > maxCellSpan || max.Y-min.Y > maxCellSpan || max.Z-min.Z > maxCellSpan {
			s.large = append(s.large, m)
			continue
		}

		for x := min.X; x <= max.X; x++ {
			for y := min.Y; y <= max.Y; y++ {
				for z := min.Z; z <= max.Z; z++ {
					key := cellKey{x, y, z}
					s.grid[key] = append(s.grid[key], m)
				}
			}
		}
	}
}

// SurroundingsFor returns the meshes whose grid cells neighbor m's bounds,
// excluding m itself. Global meshes are always included.
func (s *Scene) SurroundingsFor(m *Mesh) []*Mesh {
	var result []*Mesh
	seen := make(map[*Mesh]bool)

	add := func(other *Mesh) {
		if other == m || seen[other] {
			return
		}
		seen[other] = true
		result = append(result, other)
	}

	for _, other := range s.large {
		add(other)
	}

	if m.HasGeometry() {
		b := m.Bounds()
		min := posToCell(b.Min)
		max := posToCell(b.Max)

		// Check one cell beyond the bounds on every side
		for x := min.X - 1; x <= max.X+1; x++ {
			for y := min.Y - 1; y <= max.Y+1; y++ {
				for z := min.Z - 1; z <= max.Z+1; z++ {
					for _, other := range s.grid[cellKey{x, y, z}] {
						add(other)
					}
				}
			}
		}
	} else {
		cell := posToCell(m.Position)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, other := range s.grid[cellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}] {
						add(other)
					}
				}
			}
		}
	}

	return result
}

// RefreshSurroundings caches the surroundings list on the mesh so sweeps that
// exclude it test only nearby geometry.
func (s *Scene) RefreshSurroundings(m *Mesh) {
	m.Surrounding = s.SurroundingsFor(m)
}

// MoveMesh resolves a displacement for a mesh that is itself part of the
// scene: the mesh is excluded from testing, its surroundings replace the
// full scene, and its own mask applies. The resolved position lands on
// m.Position and is reported through onResolved.
func (s *Scene) MoveMesh(m *Mesh, displacement rl.Vector3, collider *collision.Collider, maxRetries int, onResolved collision.OnResolved, requestID uint64) {
	s.coordinator.GetNewPosition(m.Position, displacement, collider, maxRetries, m,
		func(id uint64, newPosition rl.Vector3, collided collision.Collidable) {
			m.Position = newPosition
			if onResolved != nil {
				onResolved(id, newPosition, collided)
			}
		}, requestID, true)
}
