// Package physics provides a position-based particle world implementing
// [dynamo.World].
//
// Each [World.Step] runs the usual predict/project/correct cycle:
//
//   - integrate gravity and linear damping into velocities, predict positions
//   - iteratively project distance constraints and push bodies out of
//     static colliders ([Plane], [Sphere])
//   - derive velocities from the position change, then cancel inward normal
//     velocity and apply friction at contacts
//
// The solver visits bodies and constraints in insertion order with no
// goroutines, so identical inputs produce bit-identical states.
package physics
