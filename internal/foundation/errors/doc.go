// Package errors provides the classified error primitives used across scriptpack.
//
// Every failure the build pipeline reports carries a category (read, write,
// minify, config, ...), a severity and a context map naming the stage and the
// path involved. The CLI adapter turns the category into a process exit code.
//
// Example usage:
//
//	err := errors.ReadError("read fragment").
//		WithCause(ioErr).
//		WithContext("path", "src/observable.js").
//		WithContext("stage", "assemble").
//		Build()
package errors
