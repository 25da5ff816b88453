// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI monitors a long-running artwork pass over the data file:
//  1. [RunningView] : Live per-entry status while the pipeline works
//  2. [ResultView] : Summary counts and any failed entries
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the MediaEngine, providing non-blocking status reporting during the run.
package ui
