// Package assemble turns ordered source fragments into one script.
//
// Everything here is pure: callers load fragment text, build a Plan and get
// the assembled text back. Reading and writing files is the build driver's job.
package assemble
