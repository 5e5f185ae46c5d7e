// Package gui renders the cloth scene in a raylib window.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGround  = rl.NewColor(30, 30, 30, 255)
	ColError   = rl.NewColor(230, 80, 70, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 200
)

type App struct {
	cfg       *config.Config
	scene     *sim.Scene
	camera    rl.Camera3D
	running   bool
	elapsed   float64
	telemetry []float64
	err       error
}

func initWindow() {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(screenWidth, screenHeight, "clothsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp builds the scene for cfg. The window must already be open.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		camera: rl.NewCamera3D(
			rl.NewVector3(4, 1, 1),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			24.0,
			rl.CameraPerspective,
		),
		telemetry: make([]float64, 0, maxTelemetry),
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens a window and drives the scene until it is closed, Q is pressed,
// or a step fails. A failure is drawn once and then returned.
func Run(cfg *config.Config) error {
	initWindow()
	defer rl.CloseWindow()

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	app.RunLoop()
	return app.Err()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
		if a.Done() {
			return
		}
	}
}

// Done reports whether a step or render failure ended the run.
func (a *App) Done() bool { return a.err != nil }

func (a *App) Err() error { return a.err }

func (a *App) reset() error {
	scene, err := sim.NewDefaultScene(a.cfg)
	if err != nil {
		return err
	}
	a.scene = scene
	a.elapsed = 0
	a.telemetry = a.telemetry[:0]
	a.running = true
	a.err = nil
	return nil
}

// Update handles keys and advances the scene by the frame's wall time.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) && a.err == nil {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.err = err
			a.running = false
		}
	}

	a.advance(float64(rl.GetFrameTime()))
}

// advance takes one fixed step with the obstacle at the elapsed time plus
// frameTime. A failure is kept in a.err and stops stepping.
func (a *App) advance(frameTime float64) {
	if !a.running {
		return
	}

	a.elapsed += frameTime
	if err := a.scene.Frame(a.elapsed); err != nil {
		a.err = err
		a.running = false
		return
	}

	a.telemetry = append(a.telemetry, a.scene.Grid().MeanHeight())
	if len(a.telemetry) > maxTelemetry {
		a.telemetry = a.telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.camera)
	if err := a.scene.Render(a); err != nil && a.err == nil {
		a.err = err
		a.running = false
	}
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	drawText("clothsim", 30, 30, 24, ColSelect)
	drawText(fmt.Sprintf(":: %s  %dx%d", a.cfg.Name, a.cfg.Cloth.Nx, a.cfg.Cloth.Ny), 160, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.err != nil:
		status, col = "FAILED", ColError
		drawText(a.err.Error(), 30, 70, 16, ColError)
	case !a.running:
		status, col = "PAUSED", ColTextDim
	}
	drawText(status, 1150, 30, 16, col)

	a.DrawTelemetry()

	drawText(fmt.Sprintf("t=%.2fs  frame %d", a.scene.Time(), a.scene.FrameCount()), 30, 650, 14, ColText)
	drawText("[SPACE] PAUSE  [R] RESET  [Q] QUIT", 900, 680, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

// DrawTelemetry plots recent mean cloth height as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 570
	width, height := 400, 60

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("mean y: %.3f", a.telemetry[len(a.telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
