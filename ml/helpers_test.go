package ml

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func leaf(value float64) TreeNode {
	return TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: value, IsLeaf: true}
}

func split(feature int, threshold float64, left, right int) TreeNode {
	return TreeNode{FeatureIdx: feature, Threshold: threshold, LeftChild: left, RightChild: right}
}

// testForest splits on vehicle value in the first tree and on the urban flag
// in the second. [250000, 5, 8, 1, 1] averages to 95000.
func testForest() *Artifact {
	return &Artifact{
		ModelType: ModelTypeRandomForest,
		Columns:   append(FeatureSchema(nil), ClaimSchema...),
		Trees: [][]TreeNode{
			{
				split(0, 300000, 1, 2),
				leaf(60000),
				split(0, 600000, 3, 4),
				leaf(180000),
				leaf(400000),
			},
			{
				split(4, 0.5, 1, 2),
				leaf(50000),
				leaf(130000),
			},
		},
	}
}

func writeArtifact(t *testing.T, artifact *Artifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveArtifact(path, artifact))
	return path
}

type fakeRegressor struct {
	values []float64
	err    error
	calls  int
	rows   [][]float64
}

func (f *fakeRegressor) Predict(rows [][]float64) ([]float64, error) {
	f.calls++
	f.rows = append(f.rows, rows...)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float64, len(rows))
	for i := range rows {
		out[i] = f.values[i%len(f.values)]
	}
	return out, nil
}

type constRegressor float64

func (c constRegressor) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = float64(c)
	}
	return out, nil
}
