// Package crop validates crop rectangles reported by the player's cropdetect
// filter and tracks when a crop-detect run has converged on one.
package crop
