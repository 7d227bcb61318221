package ml

import (
	"errors"
	"fmt"
)

var (
	ErrModelUnavailable = errors.New("claim cost model unavailable")
	ErrNonFiniteOutput  = errors.New("model returned a non-finite value")
	ErrRowWidth         = errors.New("row width does not match model columns")
)

// ModelLoadError reports an artifact that is missing, unreadable or does not
// match ClaimSchema. A service that hits it never serves predictions.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}
