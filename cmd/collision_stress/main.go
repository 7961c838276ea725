// Stress test measuring collision resolution cost against scene complexity
package main

import (
	"fmt"
	"math/rand"
	"time"

	"glide3d/internal/body"
	"glide3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	steps      = 120
	deltaTime  = float32(1.0 / 60.0)
	terrainSz  = 64
	cellSize   = float32(2.0)
	obstacleCt = 200
)

func main() {
	rand.Seed(42) // Consistent results

	scene := buildScene()
	defer scene.Release()

	triangles := 0
	for _, m := range scene.Meshes {
		triangles += m.TriangleCount()
	}
	fmt.Printf("Scene: %d meshes, %d triangles\n\n", len(scene.Meshes), triangles)

	for _, count := range []int{1, 10, 50, 100, 250, 500} {
		runBodies(scene, count)
	}
}

func buildScene() *engine.Scene {
	scene := engine.NewScene("stress")

	terrain := engine.NewTerrain("terrain", terrainSz, cellSize, func(x, z float32) float32 {
		return 2 * math32.Sin(x*0.15) * math32.Cos(z*0.15)
	})
	scene.AddMesh(terrain)

	spawn := float32(terrainSz) * cellSize / 2
	for i := 0; i < obstacleCt; i++ {
		center := rl.Vector3{
			X: rand.Float32()*spawn*2 - spawn,
			Y: 1 + rand.Float32()*2,
			Z: rand.Float32()*spawn*2 - spawn,
		}
		size := rl.Vector3{
			X: 0.5 + rand.Float32()*3,
			Y: 0.5 + rand.Float32()*3,
			Z: 0.5 + rand.Float32()*3,
		}
		scene.AddMesh(engine.NewBox(fmt.Sprintf("box_%d", i), center, size))
	}

	scene.RebuildGrid()
	return scene
}

func runBodies(scene *engine.Scene, count int) {
	bodies := make([]*body.Controller, count)
	spawn := float32(terrainSz) * cellSize / 2

	for i := range bodies {
		b := body.NewController(scene, rl.Vector3{X: 0.5, Y: 1, Z: 0.5})
		b.Position = rl.Vector3{
			X: rand.Float32()*spawn*2 - spawn,
			Y: 10 + rand.Float32()*5,
			Z: rand.Float32()*spawn*2 - spawn,
		}
		bodies[i] = b
	}

	// Warm up
	for _, b := range bodies {
		b.SimpleMove(rl.Vector3{}, deltaTime)
	}

	start := time.Now()
	grounded := 0
	for step := 0; step < steps; step++ {
		for _, b := range bodies {
			speed := rl.Vector3{
				X: math32.Cos(float32(step) * 0.1),
				Z: math32.Sin(float32(step) * 0.1),
			}
			b.SimpleMove(rl.Vector3Scale(speed, 4), deltaTime)
		}
	}
	elapsed := time.Since(start)

	for _, b := range bodies {
		if b.IsGrounded() {
			grounded++
		}
	}

	perCall := elapsed / time.Duration(count*steps)
	fmt.Printf("%4d bodies: %8v total | %8v per resolve | %3d/%d grounded\n",
		count, elapsed.Round(time.Microsecond), perCall.Round(time.Microsecond), grounded, count)
}
