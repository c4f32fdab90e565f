// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing folders and running bulk note operations:
//  1. [FolderListView] : Browse the user's folders
//  2. [NoteSelectView] : Toggle notes into a multi-select set
//  3. [MoveTargetView] : Pick a destination folder for a batched move
//  4. [ConfirmDeleteView] : Confirm a batched delete
//  5. [InFlightView] : Wait while a bulk request is outstanding
//  6. [ResultView] : Display the outcome of a bulk operation
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Selection state lives in a [selection.Controller], so the protocol invariants hold
// independently of how the terminal renders them.
//
// Keyboard navigation uses vim-style bindings (j/k, space, a, m, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
