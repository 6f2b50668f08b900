// Package deps reports whether the external tools and directories super8
// needs are present. `super8 status` renders the results.
package deps
