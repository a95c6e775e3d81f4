// Package analysis provides numerical utilities layered on top of the
// core simulation primitives, currently finite-difference linearization
// of a system about an operating point.
package analysis
