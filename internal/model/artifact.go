package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"premiumd/internal/encode"
)

// SchemaVersion is the artifact format version this build understands.
const SchemaVersion = 1

// artifact is the on-disk JSON shape of a serialized forest.
type artifact struct {
	SchemaVersion int      `json:"schema_version"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Columns       []string `json:"columns"`
	Trees         [][]Node `json:"trees"`
}

// invalidError marks an artifact that exists but cannot be used, as
// opposed to one that is simply absent.
type invalidError struct {
	path string
	msg  string
}

func (e invalidError) Error() string {
	return fmt.Sprintf("invalid artifact %s: %s", e.path, e.msg)
}

// IsInvalid reports whether err indicates a present-but-unusable
// artifact (malformed JSON, wrong schema, column mismatch).
func IsInvalid(err error) bool {
	_, ok := err.(invalidError)
	return ok
}

// Load reads and validates a forest artifact. Absence surfaces as the
// underlying os.ReadFile error (os.IsNotExist holds); anything present
// but unusable is an invalidError.
func Load(path string) (*Forest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var art artifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, invalidError{path: path, msg: "not valid JSON: " + err.Error()}
	}
	if art.SchemaVersion != SchemaVersion {
		return nil, invalidError{path: path, msg: fmt.Sprintf("unsupported schema_version %d", art.SchemaVersion)}
	}
	if err := checkColumns(art.Columns); err != nil {
		return nil, invalidError{path: path, msg: err.Error()}
	}
	if len(art.Trees) == 0 {
		return nil, invalidError{path: path, msg: "no trees"}
	}
	for ti, tree := range art.Trees {
		if err := checkTree(tree); err != nil {
			return nil, invalidError{path: path, msg: fmt.Sprintf("tree %d: %v", ti, err)}
		}
	}
	id := art.ID
	if id == "" {
		id = filepath.Base(path)
	}
	name := art.Name
	if name == "" {
		name = id
	}
	return &Forest{id: id, name: name, trees: art.Trees}, nil
}

// checkColumns enforces exact agreement with the encoder's column
// order. Scoring with reordered or missing columns would not fail, it
// would quietly return wrong numbers, so this is a hard load error.
func checkColumns(cols []string) error {
	want := encode.FeatureColumns()
	if len(cols) != len(want) {
		return fmt.Errorf("expected %d columns, got %d", len(want), len(cols))
	}
	for i, c := range cols {
		if c != want[i] {
			return fmt.Errorf("column %d is %q, expected %q", i, c, want[i])
		}
	}
	return nil
}

func checkTree(tree []Node) error {
	if len(tree) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range tree {
		if n.Leaf {
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= len(encode.FeatureColumns()) {
			return fmt.Errorf("node %d: feature_idx %d out of range", i, n.FeatureIdx)
		}
		if n.Left < 0 || n.Left >= len(tree) || n.Right < 0 || n.Right >= len(tree) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
		if n.Left <= i || n.Right <= i {
			// Preorder serialization puts children after their parent;
			// back-references would permit cycles.
			return fmt.Errorf("node %d: children do not descend", i)
		}
	}
	return nil
}
