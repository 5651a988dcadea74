// Package git resolves the revision of the working tree that holds the build
// inputs. The revision is optionally stamped into the license header.
package git
