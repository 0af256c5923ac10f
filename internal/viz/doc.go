// Package viz renders a running integration in the terminal.
//
// [Live] is a Bubble Tea model that advances an experiment one output
// interval per tick and draws the phase plane of two state components on a
// Braille [Canvas], next to step statistics and an asciigraph of the
// accepted step sizes.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	T     - Cycle color themes
//	+/-   - More or fewer output intervals per frame
//	Q     - Quit
package viz
