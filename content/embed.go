// Package content embeds the default game definitions.
package content

import (
	"embed"
	"io/fs"
)

//go:embed *.yaml
var files embed.FS

// Files returns every embedded definition keyed by file name
func Files() (map[string][]byte, error) {
	names, err := fs.Glob(files, "*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}
