package ml

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type rowKey [FeatureCount]float64

// CachedRegressor memoizes a deterministic regressor per ClaimSchema row.
// Rows of any other width go straight to the wrapped model.
type CachedRegressor struct {
	next  Regressor
	cache *lru.Cache[rowKey, float64]
}

// NewCachedRegressor returns next unchanged when size is not positive.
func NewCachedRegressor(next Regressor, size int) (Regressor, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[rowKey, float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedRegressor{next: next, cache: cache}, nil
}

func (c *CachedRegressor) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	var missRows [][]float64
	var missIdx []int
	for i, row := range rows {
		key, ok := keyOf(row)
		if ok {
			if v, hit := c.cache.Get(key); hit {
				out[i] = v
				continue
			}
		}
		missRows = append(missRows, row)
		missIdx = append(missIdx, i)
	}
	if len(missRows) == 0 {
		return out, nil
	}

	values, err := c.next.Predict(missRows)
	if err != nil {
		return nil, err
	}
	if len(values) != len(missRows) {
		return nil, fmt.Errorf("model returned %d values for %d rows", len(values), len(missRows))
	}
	for j, v := range values {
		out[missIdx[j]] = v
		if key, ok := keyOf(missRows[j]); ok {
			c.cache.Add(key, v)
		}
	}
	return out, nil
}

func (c *CachedRegressor) Len() int {
	return c.cache.Len()
}

func keyOf(row []float64) (rowKey, bool) {
	var key rowKey
	if len(row) != FeatureCount {
		return key, false
	}
	copy(key[:], row)
	return key, true
}
