// Package viz is the terminal viewer for rigidsim scenes.
//
// It renders bodies as polygon outlines on a braille [Canvas] and steps the
// level with the Bubble Tea runtime:
//
//   - [Model]: live view of one level driven by keyboard intents
//   - [NewPicker]: scene menu that opens a live view
//   - [Watcher]: reloads the level when its scene file changes
//
// # Key Bindings
//
//	W A S D - Move the player
//	Arrows  - Aim the hand
//	Space   - Dash
//	G       - Toggle grab
//	P       - Pause/Resume
//	R       - Reload the scene
//	T       - Cycle colour themes
//	Q       - Quit
package viz
