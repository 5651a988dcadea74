// Package build runs the scriptpack pipeline: it loads fragments through a
// storage.Store, assembles one text per configured variant, writes it
// atomically, derives the minified sibling from the file just written and
// optionally records a manifest.
//
// All execution paths (CLI, tests) route through Driver.Run. Targets run
// strictly in declared order and the first failure aborts the run.
package build
