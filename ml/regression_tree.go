package ml

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a fitted regression tree. Children always sit after
// their parent in the node slice, root first.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

type RegressionTree struct {
	nodes []TreeNode
	width int
}

// NewRegressionTree checks that every split reads a column below width and
// every child index points forward inside nodes.
func NewRegressionTree(nodes []TreeNode, width int) (*RegressionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= width {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid right child %d", i, node.RightChild)
		}
	}
	return &RegressionTree{nodes: nodes, width: width}, nil
}

func (t *RegressionTree) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != t.width {
			return nil, fmt.Errorf("row %d: %w: got %d, want %d", i, ErrRowWidth, len(row), t.width)
		}
		out[i] = t.predictRow(row)
	}
	return out, nil
}

func (t *RegressionTree) predictRow(row []float64) float64 {
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.Value
		}
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func (t *RegressionTree) Depth() int {
	return t.depth(0)
}

func (t *RegressionTree) depth(idx int) int {
	node := t.nodes[idx]
	if node.IsLeaf {
		return 0
	}
	left := t.depth(node.LeftChild)
	right := t.depth(node.RightChild)
	if left > right {
		return left + 1
	}
	return right + 1
}
