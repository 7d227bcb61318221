package ml

import (
	"errors"
	"fmt"
)

// RandomForest averages the outputs of its trees.
type RandomForest struct {
	trees []*RegressionTree
	width int
}

func NewRandomForest(trees []*RegressionTree, width int) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	for i, tree := range trees {
		if tree.width != width {
			return nil, fmt.Errorf("tree %d: width %d, want %d", i, tree.width, width)
		}
	}
	return &RandomForest{trees: trees, width: width}, nil
}

func (f *RandomForest) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != f.width {
			return nil, fmt.Errorf("row %d: %w: got %d, want %d", i, ErrRowWidth, len(row), f.width)
		}
		var sum float64
		for _, tree := range f.trees {
			sum += tree.predictRow(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

func (f *RandomForest) Size() int {
	return len(f.trees)
}
