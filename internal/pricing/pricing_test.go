package pricing_test

import (
	"math"
	"testing"

	"github.com/rpggio/llmatic/internal/pricing"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, pricing.EstimateTokens(""))
	require.Equal(t, 1, pricing.EstimateTokens("hi"))
	require.Equal(t, 1, pricing.EstimateTokens("four"))
	require.Equal(t, 2, pricing.EstimateTokens("hello"))
	require.Equal(t, 1, pricing.EstimateTokens("héllo"[:3]))
	require.Equal(t, 2, pricing.EstimateTokens("日本語のテキ"))
}

func TestProvider_Lookup(t *testing.T) {
	p := pricing.NewProvider(pricing.DefaultTable())

	price, err := p.Lookup("gpt-4o-mini")
	require.NoError(t, err)
	require.Equal(t, 0.00015, price.InputPer1K)

	price, err = p.Lookup("gpt-4o-2024-08-06")
	require.NoError(t, err)
	require.Equal(t, 0.0025, price.InputPer1K)

	price, err = p.Lookup("gpt-4o-mini-2024-07-18")
	require.NoError(t, err)
	require.Equal(t, 0.00015, price.InputPer1K)

	_, err = p.Lookup("mystery-model")
	require.ErrorIs(t, err, pricing.ErrUnknownModel)
	_, err = p.Lookup("")
	require.ErrorIs(t, err, pricing.ErrUnknownModel)
}

func TestProvider_Costs(t *testing.T) {
	p := pricing.NewProvider(pricing.Table{"m1": {InputPer1K: 1, OutputPer1K: 2}})

	tokens, err := p.CountTokens("abcdefgh", "m1")
	require.NoError(t, err)
	require.Equal(t, 2, tokens)

	cost, err := p.PromptCost("abcdefgh", "m1")
	require.NoError(t, err)
	require.InDelta(t, 0.002, cost, 1e-12)

	cost, err = p.CompletionCost("abcdefgh", "m1")
	require.NoError(t, err)
	require.InDelta(t, 0.004, cost, 1e-12)

	cost, err = p.PromptCost("", "m1")
	require.NoError(t, err)
	require.Zero(t, cost)

	_, err = p.CompletionCost("abc", "m2")
	require.ErrorIs(t, err, pricing.ErrUnknownModel)
	_, err = p.CountTokens("abc", "m2")
	require.ErrorIs(t, err, pricing.ErrUnknownModel)
}

func TestProvider_Deterministic(t *testing.T) {
	p := pricing.NewProvider(pricing.DefaultTable())
	first, err := p.PromptCost("the same prompt", "gpt-3.5-turbo")
	require.NoError(t, err)
	for range 10 {
		again, err := p.PromptCost("the same prompt", "gpt-3.5-turbo")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestTable_MergeAndValidate(t *testing.T) {
	base := pricing.DefaultTable()
	merged := base.Merge(pricing.Table{
		"gpt-4o":   {InputPer1K: 1, OutputPer1K: 1},
		"local-7b": {},
	})
	require.Equal(t, 1.0, merged["gpt-4o"].InputPer1K)
	require.Contains(t, merged, "local-7b")
	require.Equal(t, 0.0025, base["gpt-4o"].InputPer1K)
	require.NoError(t, merged.Validate())

	require.Error(t, pricing.Table{"bad": {InputPer1K: -1}}.Validate())
	require.Error(t, pricing.Table{"bad": {OutputPer1K: math.NaN()}}.Validate())
}
