// Package cloth implements the mass-spring cloth model and its mesh
// synchronisation.
//
//   - [Grid]: (Nx+1)x(Ny+1) point masses laid out on a square sheet
//   - [Constraint]: structural links between grid-adjacent particles
//   - [VertexBuffer] and [Sync]: copy particle positions into a renderable
//     plane mesh every frame
//
// The package does no physics of its own. Bodies and constraints are handed
// to a [dynamo.World], which owns integration and constraint resolution.
package cloth
