// Package viz provides terminal visualization of the cloth scene.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps a scene once per tick and draws it
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera], [Render3D]: perspective wireframe projection onto a canvas
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	.     - Advance one frame while paused
//	R     - Rebuild the cloth
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
