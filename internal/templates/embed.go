// Package templates embeds the artifact templates rendered for every node.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed scripts/* cloud-init/* playbooks/*
var files embed.FS

// FS returns the embedded template tree. Paths are relative to its root,
// e.g. "scripts/router.sh".
func FS() fs.FS {
	return files
}
