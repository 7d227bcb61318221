package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoadFunc produces the fitted model. Service calls it at most once.
type LoadFunc func() (Regressor, error)

// Recorder receives prediction telemetry.
type Recorder interface {
	ObservePrediction(tier string, elapsed time.Duration)
	ObserveError(reason string)
	SetModelLoaded(loaded bool)
}

type Prediction struct {
	Cost int  `json:"cost"`
	Tier Tier `json:"tier"`
}

func NewPrediction(raw float64) (Prediction, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return Prediction{}, ErrNonFiniteOutput
	}
	cost := int(math.Trunc(raw))
	return Prediction{Cost: cost, Tier: TierFromCost(cost)}, nil
}

// Service owns the process-wide model. The model is loaded once, either by
// an explicit Init at startup or by the first Predict, and never replaced.
type Service struct {
	load     LoadFunc
	logger   *zap.Logger
	recorder Recorder

	once  sync.Once
	model Regressor
	err   error
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func NewService(load LoadFunc, opts ...Option) *Service {
	s := &Service{
		load:     load,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the model. A failed load is final: later calls return the same
// error and Predict refuses to serve.
func (s *Service) Init() error {
	s.once.Do(func() {
		start := time.Now()
		model, err := s.load()
		if err == nil && model == nil {
			err = errors.New("loader returned no model")
		}
		if err != nil {
			s.err = err
			s.recorder.SetModelLoaded(false)
			s.logger.Error("claim cost model load failed", zap.Error(err))
			return
		}
		s.model = model
		s.recorder.SetModelLoaded(true)
		s.logger.Info("claim cost model loaded", zap.Duration("elapsed", time.Since(start)))
	})
	return s.err
}

func (s *Service) Ready() bool {
	return s.Init() == nil
}

func (s *Service) Predict(ctx context.Context, features ClaimFeatures) (Prediction, error) {
	predictions, err := s.PredictBatch(ctx, [][]float64{features.Vector()})
	if err != nil {
		return Prediction{}, err
	}
	return predictions[0], nil
}

func (s *Service) PredictBatch(ctx context.Context, rows [][]float64) ([]Prediction, error) {
	if err := s.Init(); err != nil {
		s.recorder.ObserveError("model_unavailable")
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		s.recorder.ObserveError("canceled")
		return nil, err
	}

	start := time.Now()
	raw, err := s.model.Predict(rows)
	if err != nil {
		s.recorder.ObserveError("model")
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(raw) != len(rows) {
		s.recorder.ObserveError("model")
		return nil, fmt.Errorf("predict: model returned %d values for %d rows", len(raw), len(rows))
	}
	elapsed := time.Since(start)

	predictions := make([]Prediction, len(raw))
	for i, value := range raw {
		p, err := NewPrediction(value)
		if err != nil {
			s.recorder.ObserveError("non_finite")
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		predictions[i] = p
		s.recorder.ObservePrediction(p.Tier.String(), elapsed)
	}
	s.logger.Debug("claim cost predicted", zap.Int("rows", len(rows)), zap.Duration("elapsed", elapsed))
	return predictions, nil
}

type nopRecorder struct{}

func (nopRecorder) ObservePrediction(string, time.Duration) {}
func (nopRecorder) ObserveError(string)                     {}
func (nopRecorder) SetModelLoaded(bool)                     {}
