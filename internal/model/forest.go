// Package model loads and scores serialized regression-forest
// artifacts. Artifacts are read-only after load; a Forest is safe for
// concurrent use.
package model

import (
	"errors"

	"premiumd/internal/encode"
)

// Node is one node of a regression tree. Children reference node
// indices within the same tree; Value is the prediction at a leaf.
type Node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	Value      float64 `json:"value"`
	Leaf       bool    `json:"leaf"`
}

// Forest is a loaded regression forest ready to score feature vectors.
type Forest struct {
	id    string
	name  string
	trees [][]Node
}

// ID returns the artifact identifier.
func (f *Forest) ID() string { return f.id }

// Name returns the human-friendly artifact name.
func (f *Forest) Name() string { return f.name }

// ErrEmptyForest is returned when scoring an artifact with no trees.
var ErrEmptyForest = errors.New("forest has no trees")

// Predict scores one feature vector: each tree is walked to a leaf and
// the leaf values are averaged. Deterministic for a fixed artifact.
func (f *Forest) Predict(v encode.FeatureVector) (float64, error) {
	if len(f.trees) == 0 {
		return 0, ErrEmptyForest
	}
	var sum float64
	for _, tree := range f.trees {
		val, err := walk(tree, v)
		if err != nil {
			return 0, err
		}
		sum += val
	}
	return sum / float64(len(f.trees)), nil
}

func walk(tree []Node, v encode.FeatureVector) (float64, error) {
	idx := 0
	// Each step descends one level, so len(tree) iterations is enough
	// for any well-formed tree; exceeding it means a cycle.
	for steps := 0; steps <= len(tree); steps++ {
		if idx < 0 || idx >= len(tree) {
			return 0, errors.New("node index out of range")
		}
		node := tree[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(v) {
			return 0, errors.New("feature index out of range")
		}
		if v[node.FeatureIdx] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, errors.New("tree walk did not reach a leaf")
}
