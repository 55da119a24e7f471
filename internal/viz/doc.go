// Package viz renders search progress, encounter reports and trajectories
// for the terminal.
//
//   - Report formatters for iterations, encounters and sweep rows
//   - [PlotSeries] and [PlotSweep]: asciigraph line charts
//   - [Canvas]: braille pixel canvas; [PlotPath] draws the projectile path
//     against the asteroid marker
//   - [SearchModel]: Bubble Tea model replaying bisection iterations
//
// # Key Bindings (watch)
//
//	Space - Pause/Resume replay
//	R     - Restart from the first iteration
//	[]/   - Step backward/forward
//	Q     - Quit
package viz
