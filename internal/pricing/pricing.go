// Package pricing is a table-driven metrics provider: it estimates token
// counts and prices them per 1K tokens.
package pricing

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrUnknownModel indicates no price is configured for a model.
var ErrUnknownModel = errors.New("unknown model")

// Price holds input and output prices per 1K tokens, in USD.
type Price struct {
	InputPer1K  float64 `yaml:"input_per_1k" json:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k" json:"output_per_1k"`
}

// Table maps a model name, or a model name prefix, to its price.
type Table map[string]Price

// DefaultTable returns the built-in prices.
func DefaultTable() Table {
	return Table{
		"gpt-4o":                 {InputPer1K: 0.0025, OutputPer1K: 0.01},
		"gpt-4o-mini":            {InputPer1K: 0.00015, OutputPer1K: 0.0006},
		"gpt-4-turbo":            {InputPer1K: 0.01, OutputPer1K: 0.03},
		"gpt-3.5-turbo":          {InputPer1K: 0.0005, OutputPer1K: 0.0015},
		"gpt-3.5-turbo-instruct": {InputPer1K: 0.0015, OutputPer1K: 0.002},
		"text-davinci-003":       {InputPer1K: 0.02, OutputPer1K: 0.02},
		"claude-3-haiku":         {InputPer1K: 0.00025, OutputPer1K: 0.00125},
		"claude-3-5-sonnet":      {InputPer1K: 0.003, OutputPer1K: 0.015},
		"claude-3-opus":          {InputPer1K: 0.015, OutputPer1K: 0.075},
	}
}

// Merge returns a copy of t with overrides applied on top.
func (t Table) Merge(overrides Table) Table {
	out := make(Table, len(t)+len(overrides))
	maps.Copy(out, t)
	maps.Copy(out, overrides)
	return out
}

// Validate rejects negative or non-finite prices.
func (t Table) Validate() error {
	for model, p := range t {
		for _, v := range []float64{p.InputPer1K, p.OutputPer1K} {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("invalid price for model %q", model)
			}
		}
	}
	return nil
}

// EstimateTokens approximates the token count of text as one token per
// four characters, rounded up.
func EstimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	return (runes + 3) / 4
}

// Provider prices text against a Table.
type Provider struct {
	table Table
}

// NewProvider creates a provider over a copy of table.
func NewProvider(table Table) *Provider {
	return &Provider{table: Table{}.Merge(table)}
}

// Lookup finds the price of a model. An exact entry wins; otherwise the
// longest entry that prefixes the model name is used, so dated variants
// such as "gpt-4o-2024-08-06" resolve to "gpt-4o".
func (p *Provider) Lookup(model string) (Price, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return Price{}, fmt.Errorf("%w: empty model name", ErrUnknownModel)
	}
	if price, ok := p.table[model]; ok {
		return price, nil
	}

	best := ""
	for name := range p.table {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Price{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return p.table[best], nil
}

// CountTokens estimates the number of tokens in text.
func (p *Provider) CountTokens(text, model string) (int, error) {
	if _, err := p.Lookup(model); err != nil {
		return 0, err
	}
	return EstimateTokens(text), nil
}

// PromptCost prices text as model input.
func (p *Provider) PromptCost(text, model string) (float64, error) {
	price, err := p.Lookup(model)
	if err != nil {
		return 0, err
	}
	return float64(EstimateTokens(text)) * price.InputPer1K / 1000, nil
}

// CompletionCost prices text as model output.
func (p *Provider) CompletionCost(text, model string) (float64, error) {
	price, err := p.Lookup(model)
	if err != nil {
		return 0, err
	}
	return float64(EstimateTokens(text)) * price.OutputPer1K / 1000, nil
}
