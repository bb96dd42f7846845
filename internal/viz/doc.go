// Package viz renders playback in the terminal.
//
// [RunInteractive] opens a menu of algorithms and presets. [Player] is the
// bubbletea model for a single session: it polls a playback controller once
// per frame and draws the current step with an algorithm-specific renderer.
//
// # Key Bindings
//
//	Space - Run or pause
//	N / P - Step forward or back
//	R     - Reset to idle
//	1 2 3 - Slow, normal, fast
//	[ ]   - Seek 10% back or ahead
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
