// Package dynamo provides the core primitives shared by the cloth model, the
// physics world and the scene drivers.
//
// The package defines the contracts that keep the cloth core independent of
// any particular solver or renderer:
//
//   - [Body]: point mass with position, velocity and mass
//   - [DistanceConstraint]: fixed-rest-length link between two bodies
//   - [Shape] and [StaticBody]: collision geometry placed at a [Pose]
//   - [World]: anything that can step a physics world
//   - [Renderer]: anything that can draw a [Frame]
//   - [Metric] and [Observer]: per-frame hooks used by headless runs
//
// # Example
//
//	w := physics.NewWorld(physics.DefaultOptions())
//	scene, _ := sim.NewScene(cfg, w)
//	result, _ := sim.NewRunner().Run(ctx, scene, cfg.RunConfig())
//
// # Thread Safety
//
// Bodies are owned by the single goroutine driving their World. Nothing in
// this package is safe for concurrent mutation.
package dynamo
