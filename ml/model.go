package ml

import "context"

// Regressor is a fitted model: one cost per input row, in row order.
type Regressor interface {
	Predict(rows [][]float64) ([]float64, error)
}

// ModelProvider is what the HTTP layer needs from the prediction service.
type ModelProvider interface {
	Predict(ctx context.Context, features ClaimFeatures) (Prediction, error)
	PredictBatch(ctx context.Context, rows [][]float64) ([]Prediction, error)
	Ready() bool
}
