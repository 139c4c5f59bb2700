// Package naming provides consistent naming functions for planned nodes and
// the artifacts rendered for them.
//
// Hostnames follow the pattern {ROLE}-{id} where id is the global sequence
// number assigned during expansion. Artifact paths are keyed by role and
// hostname below the configured output directory.
package naming
