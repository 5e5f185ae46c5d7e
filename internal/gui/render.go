package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// groundY is where the visual ground is drawn. The collision plane sits at
// y = 0, so resting cloth floats above the drawn floor.
const groundY = -1

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// Render draws one frame; it must be called between BeginMode3D and
// EndMode3D.
func (a *App) Render(f dynamo.Frame) error {
	rl.DrawPlane(rl.NewVector3(0, groundY, 0), rl.NewVector2(20, 20), ColGround)
	drawCloth(f)
	if f.ObstacleRadius > 0 {
		rl.DrawSphere(vec3(f.Obstacle), float32(f.ObstacleRadius), ColAccent)
	}
	return nil
}

// drawCloth fills each triangle on both sides and outlines the mesh.
func drawCloth(f dynamo.Frame) {
	for t := 0; t+2 < len(f.Indices); t += 3 {
		p0 := vec3(f.Vertices[f.Indices[t]])
		p1 := vec3(f.Vertices[f.Indices[t+1]])
		p2 := vec3(f.Vertices[f.Indices[t+2]])

		rl.DrawTriangle3D(p0, p1, p2, ColText)
		rl.DrawTriangle3D(p0, p2, p1, ColTextDim)
		rl.DrawLine3D(p0, p1, ColSelect)
		rl.DrawLine3D(p1, p2, ColSelect)
	}
}
