// Package scene defines the result of evaluating a trisect script:
// an ordered set of named parts, the intersection queries the script
// asked, and scene-wide defaults.
package scene
