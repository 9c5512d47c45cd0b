// Package viz draws the bubble chart in the terminal.
//
// [Model] is a Bubble Tea program: an [anim.Controller] advances the
// frames, a [scene.Scene] tweens the circles between them, and a braille
// [Canvas] rasterizes the result at the terminal's size. The side panel
// shows the legend, the tooltip of the inspected country and its life
// expectancy history.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	[ ]       - Previous/next year
//	Tab       - Inspect next country (Shift+Tab for previous)
//	Esc       - Hide tooltip
//	T         - Cycle color themes
//	?         - Show help overlay
//
// Moving the mouse over a circle inspects it as well.
package viz
