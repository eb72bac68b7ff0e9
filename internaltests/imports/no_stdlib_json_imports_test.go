package imports_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Everything in this repo marshals through the json package wrapper so
// declared defaults are applied consistently; a direct encoding/json
// import bypasses that.
func TestNoDirectStdlibJSONImports(t *testing.T) {
	root := filepath.Clean("../..")
	var hits []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "_examples" || strings.HasPrefix(name, ".") || strings.Contains(path, "/internaltests/") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		// The wrapper itself is the one place allowed to touch jsoniter
		// and the stdlib API surface.
		if strings.Contains(path, "/json/") {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if strings.Contains(string(b), `"encoding/json"`) {
			hits = append(hits, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(hits) > 0 {
		t.Fatalf("direct encoding/json imports found, use the json package instead: %v", hits)
	}
}
