// Package workbench holds the state of one film-scan session: the selected
// capture file, the chosen crop rectangle and output path, and the player
// runs launched for them.
//
// Each operation has one slot. Launching into an occupied slot stops the
// previous handle first, so at most one crop-detect, one preview and one
// convert run exist at a time. StopAll ends every run, as closing the session
// should. Finished runs are written to the history store when one is
// configured; recording happens in the background once a handle is done and
// never consumes the handle's events.
package workbench
