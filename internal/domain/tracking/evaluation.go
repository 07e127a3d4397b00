package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// Validate checks that the scale can be used for normalization.
func (s Scale) Validate() error {
	if s.High == 0 {
		return fmt.Errorf("%w: scale high must be nonzero", ErrInvalidArgument)
	}
	for _, v := range []float64{s.Low, s.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: scale bounds must be finite", ErrInvalidArgument)
		}
	}
	return nil
}

// Normalize rescales a raw score onto the 0-10 band as (raw / high) * 10.
//
// The low bound is ignored, so a (5, 10) scale is not a linear rescale of
// [5, 10] onto [0, 10]. Stored scores depend on this exact formula.
func Normalize(raw float64, scale Scale) float64 {
	return (raw / scale.High) * 10
}

// EvalFunc scores a completed output directly, bypassing the evaluation provider.
type EvalFunc func(ctx context.Context, output json.RawMessage) (float64, error)

type evalOptions struct {
	model   string
	evalFn  EvalFunc
	logOnly bool
	devMode bool
}

// EvalOption configures a single Evaluate call.
type EvalOption func(*evalOptions)

// WithModel names the evaluator model passed to the evaluation provider.
func WithModel(model string) EvalOption {
	return func(o *evalOptions) { o.model = model }
}

// WithEvalFunc scores the output with fn instead of the evaluation provider.
func WithEvalFunc(fn EvalFunc) EvalOption {
	return func(o *evalOptions) { o.evalFn = fn }
}

// LogOnly records the evaluation without counting it towards aggregates.
func LogOnly() EvalOption {
	return func(o *evalOptions) { o.logOnly = true }
}

// DevMode turns the evaluation into a no-op.
func DevMode() EvalOption {
	return func(o *evalOptions) { o.devMode = true }
}

// DevModeIf is DevMode when enabled is true and a no-op option otherwise.
func DevModeIf(enabled bool) EvalOption {
	return func(o *evalOptions) { o.devMode = o.devMode || enabled }
}
