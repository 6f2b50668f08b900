// Command super8 prepares Super 8 film scans with mpv.
//
// The usual session is `super8 cropdetect` to find the black borders of a
// capture, `super8 preview --crop` to check the crop and image adjustments,
// and `super8 convert --crop` to encode the result. Every run is recorded in
// the history database shown by `super8 history`. `super8 status` checks that
// mpv and the state directories are usable.
package main
