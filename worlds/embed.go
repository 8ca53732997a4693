// Package worlds embeds the bundled world files and their kinematic scripts.
package worlds

import (
	"embed"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml *.tengo
var FS embed.FS

// Default is the world loaded when no path is given.
const Default = "demo.yaml"

// Read returns an embedded file. Leading "worlds/" prefixes are ignored.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(clean(name))
}

func clean(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	if after, ok := strings.CutPrefix(s, "worlds/"); ok {
		return after
	}
	return s
}
