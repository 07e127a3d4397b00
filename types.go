package llmatic

import (
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/pricing"
)

type (
	Record             = tracking.Record
	Summary            = tracking.Summary
	Cost               = tracking.Cost
	Tokens             = tracking.Tokens
	Scale              = tracking.Scale
	EvaluationResult   = tracking.EvaluationResult
	State              = tracking.State
	EvalOption         = tracking.EvalOption
	EvalFunc           = tracking.EvalFunc
	MetricsProvider    = tracking.MetricsProvider
	EvaluationProvider = tracking.EvaluationProvider
	EvaluationFunc     = tracking.EvaluationFunc
	ActivityEntry      = activity.ActivityEntry
	Price              = pricing.Price
	PriceTable         = pricing.Table
)

const (
	StateOpen      = tracking.StateOpen
	StateCompleted = tracking.StateCompleted
)

var (
	ErrInvalidArgument       = tracking.ErrInvalidArgument
	ErrInvalidState          = tracking.ErrInvalidState
	ErrMetricsUnavailable    = tracking.ErrMetricsUnavailable
	ErrMalformedResponse     = tracking.ErrMalformedResponse
	ErrEvaluationUnavailable = tracking.ErrEvaluationUnavailable
	ErrRecordNotFound        = tracking.ErrRecordNotFound
	ErrStorageUnavailable    = tracking.ErrStorageUnavailable
	ErrSchema                = tracking.ErrSchema
)

var (
	WithModel    = tracking.WithModel
	WithEvalFunc = tracking.WithEvalFunc
	LogOnly      = tracking.LogOnly
	DevMode      = tracking.DevMode
	ResponseText = tracking.ResponseText
	Normalize    = tracking.Normalize
	ErrorKind    = tracking.Kind
)
