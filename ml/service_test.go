package ml

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingRecorder struct {
	mu      sync.Mutex
	tiers   map[string]int
	errors  map[string]int
	loaded  bool
	setLoad int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{tiers: map[string]int{}, errors: map[string]int{}}
}

func (r *countingRecorder) ObservePrediction(tier string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[tier]++
}

func (r *countingRecorder) ObserveError(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[reason]++
}

func (r *countingRecorder) SetModelLoaded(loaded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = loaded
	r.setLoad++
}

func staticLoader(model Regressor) LoadFunc {
	return func() (Regressor, error) { return model, nil }
}

func TestServicePredictExample(t *testing.T) {
	fake := &fakeRegressor{values: []float64{95000}}
	svc := NewService(staticLoader(fake), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, svc.Init())

	features := Encode(RawInput{VehicleValue: 250000, VehicleAge: 5, FiscalPower: 8, DriverType: "Principal", Zone: "Urban"})
	got, err := svc.Predict(context.Background(), features)
	require.NoError(t, err)
	assert.Equal(t, Prediction{Cost: 95000, Tier: TierMedium}, got)
	assert.Equal(t, [][]float64{{250000, 5, 8, 1, 1}}, fake.rows)
}

func TestServiceWithForestArtifact(t *testing.T) {
	path := writeArtifact(t, testForest())
	svc := NewService(func() (Regressor, error) { return LoadModel(ModelTypeRandomForest, path) })

	got, err := svc.Predict(context.Background(), ClaimFeatures{
		VehicleNewValue: 250000, VehicleAgeYears: 5, FiscalPower: 8, DriverTypeIsPrincipal: 1, ZoneIsUrban: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, Prediction{Cost: 95000, Tier: TierMedium}, got)
}

func TestServiceTruncates(t *testing.T) {
	tests := []struct {
		raw      float64
		expected Prediction
	}{
		{95000.99, Prediction{95000, TierMedium}},
		{200000.7, Prediction{200000, TierMedium}},
		{200001.2, Prediction{200001, TierHigh}},
		{80000.999, Prediction{80000, TierLow}},
		{-0.5, Prediction{0, TierLow}},
	}
	for _, tt := range tests {
		svc := NewService(staticLoader(&fakeRegressor{values: []float64{tt.raw}}))
		got, err := svc.Predict(context.Background(), ClaimFeatures{})
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "raw %v", tt.raw)
	}
}

func TestServiceDeterministic(t *testing.T) {
	path := writeArtifact(t, testForest())
	model, err := LoadModel("", path)
	require.NoError(t, err)
	svc := NewService(staticLoader(model))

	features := ClaimFeatures{VehicleNewValue: 640000, VehicleAgeYears: 3, FiscalPower: 9, ZoneIsUrban: 1}
	first, err := svc.Predict(context.Background(), features)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := svc.Predict(context.Background(), features)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestServiceLoadFailureIsFinal(t *testing.T) {
	loadErr := &ModelLoadError{Path: "missing.json", Err: errors.New("no such file")}
	calls := 0
	recorder := newCountingRecorder()
	svc := NewService(func() (Regressor, error) {
		calls++
		return nil, loadErr
	}, WithRecorder(recorder))

	require.ErrorIs(t, svc.Init(), loadErr)
	assert.False(t, svc.Ready())

	for i := 0; i < 3; i++ {
		_, err := svc.Predict(context.Background(), ClaimFeatures{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelUnavailable))
		var target *ModelLoadError
		assert.True(t, errors.As(err, &target))
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, recorder.errors["model_unavailable"])
	assert.False(t, recorder.loaded)
}

func TestServiceNilModel(t *testing.T) {
	svc := NewService(func() (Regressor, error) { return nil, nil })
	assert.Error(t, svc.Init())
	_, err := svc.Predict(context.Background(), ClaimFeatures{})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestServiceLazyInitOnce(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	svc := NewService(func() (Regressor, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return constRegressor(1), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Predict(context.Background(), ClaimFeatures{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestServiceNonFiniteOutput(t *testing.T) {
	for _, raw := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		svc := NewService(staticLoader(&fakeRegressor{values: []float64{raw}}))
		_, err := svc.Predict(context.Background(), ClaimFeatures{})
		assert.ErrorIs(t, err, ErrNonFiniteOutput)
	}
}

func TestServiceCanceledContext(t *testing.T) {
	fake := &fakeRegressor{values: []float64{1}}
	svc := NewService(staticLoader(fake))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, ClaimFeatures{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fake.calls)
}

func TestServicePredictBatch(t *testing.T) {
	recorder := newCountingRecorder()
	path := writeArtifact(t, testForest())
	svc := NewService(func() (Regressor, error) { return LoadModel("", path) }, WithRecorder(recorder))

	got, err := svc.PredictBatch(context.Background(), [][]float64{
		EncodeFields(map[string]float64{ColVehicleNewValue: 250000, ColZoneUrban: 1}),
		EncodeFields(map[string]float64{ColVehicleNewValue: 800000, ColZoneUrban: 1}),
		EncodeFields(map[string]float64{}),
	})
	require.NoError(t, err)
	assert.Equal(t, []Prediction{
		{Cost: 95000, Tier: TierMedium},
		{Cost: 265000, Tier: TierHigh},
		{Cost: 55000, Tier: TierLow},
	}, got)
	assert.True(t, recorder.loaded)
	assert.Equal(t, 1, recorder.tiers["HIGH"])
}
