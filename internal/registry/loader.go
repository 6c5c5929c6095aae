package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"premiumd/internal/common/fsutil"
	"premiumd/pkg/types"
)

// ArtifactSuffix is the filename suffix that marks a forest artifact.
const ArtifactSuffix = ".forest.json"

// LoadDir scans a directory for forest artifacts and builds a registry
// from filenames. ID is the full filename (including extension); Path
// is the absolute file path. Artifacts are not parsed here: discovery
// stays cheap and load errors surface when a model is first used.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ArtifactSuffix) {
			continue
		}
		models = append(models, types.Model{
			ID:   name,
			Name: name,
			Path: filepath.Join(abs, name),
		})
	}
	return models, nil
}
