// Package builtin embeds the standard filter-primitive manifests that every
// registry starts from.
package builtin

import (
	"embed"
	"io/fs"
)

//go:embed manifests/*.hcl
var manifests embed.FS

// Manifests returns the embedded manifest files rooted at their directory.
func Manifests() fs.FS {
	sub, err := fs.Sub(manifests, "manifests")
	if err != nil {
		panic(err)
	}
	return sub
}
