// Package levels embeds the stock level files.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

//go:embed *.txt
var files embed.FS

// Names lists the embedded levels without their extension.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(out)
	return out
}

// Text returns the level text for name. A name that is not embedded is read
// from disk.
func Text(name string) (string, error) {
	data, err := files.ReadFile(name + ".txt")
	if errors.Is(err, fs.ErrNotExist) {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("levels: %s: %w", name, err)
	}
	return string(data), nil
}

// Load validates and parses the named level.
func Load(name string, tileSize float64) (*game.GridMap, error) {
	text, err := Text(name)
	if err != nil {
		return nil, err
	}
	g, err := game.LoadLevel(strings.NewReader(text), tileSize)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return g, nil
}

// IsEmbedded reports whether name refers to an embedded level rather than a
// file on disk.
func IsEmbedded(name string) bool {
	_, err := fs.Stat(files, name+".txt")
	return err == nil
}
