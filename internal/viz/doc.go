// Package viz draws rigid-body worlds in the terminal.
//
// Bodies are projected onto the x-z plane (a side view looking along +y)
// and drawn on a braille [Canvas], which gives 2x4 pixels per cell. [Model]
// is a Bubble Tea program that steps a world built from a scene config in
// real time.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	.     - Step one frame while paused
//	R     - Rebuild the scene from its config
//	Tab   - Select the next dynamic body
//	Arrow - Kick the selected body
//	F     - Toggle upward thrust on the selected body
//	?     - Show help overlay
package viz
