package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	ModelTypeRandomForest = "random_forest"
	ModelTypeDecisionTree = "decision_tree"
)

// Artifact is the serialized form of a fitted tree ensemble.
type Artifact struct {
	ModelType string        `json:"model_type"`
	Columns   FeatureSchema `json:"columns"`
	Trees     [][]TreeNode  `json:"trees"`
}

// LoadModel reads the artifact at path and builds its regressor. An empty
// modelType accepts whatever type the artifact declares.
func LoadModel(modelType, path string) (Regressor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	defer file.Close()

	artifact, err := DecodeArtifact(file)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	model, err := BuildModel(modelType, artifact)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return model, nil
}

func DecodeArtifact(r io.Reader) (*Artifact, error) {
	var artifact Artifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &artifact, nil
}

// BuildModel validates the artifact against ClaimSchema and assembles the
// regressor it describes.
func BuildModel(modelType string, artifact *Artifact) (Regressor, error) {
	if modelType != "" && modelType != artifact.ModelType {
		return nil, fmt.Errorf("model type %q does not match artifact type %q", modelType, artifact.ModelType)
	}
	if !artifact.Columns.Equal(ClaimSchema) {
		return nil, fmt.Errorf("artifact columns %v do not match %v", artifact.Columns, ClaimSchema)
	}

	trees := make([]*RegressionTree, 0, len(artifact.Trees))
	for i, nodes := range artifact.Trees {
		tree, err := NewRegressionTree(nodes, len(artifact.Columns))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees = append(trees, tree)
	}

	switch artifact.ModelType {
	case ModelTypeRandomForest:
		return NewRandomForest(trees, len(artifact.Columns))
	case ModelTypeDecisionTree:
		if len(trees) != 1 {
			return nil, fmt.Errorf("decision tree artifact holds %d trees", len(trees))
		}
		return trees[0], nil
	default:
		return nil, errors.New("unsupported model type")
	}
}

func SaveArtifact(path string, artifact *Artifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}
