package s1_universe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/pkg/logger"
)

type stubProvider struct {
	symbols []string
	err     error
}

func (s *stubProvider) Symbols(ctx context.Context) ([]string, error) {
	return s.symbols, s.err
}

func TestResolver_UsesPrimary(t *testing.T) {
	primary := &stubProvider{symbols: []string{"aapl", "MSFT", "aapl", " googl "}}
	resolver := NewResolver(primary, 3, logger.NewNop())

	symbols, err := resolver.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, symbols)
}

func TestResolver_FallsBackOnError(t *testing.T) {
	primary := &stubProvider{err: errors.New("scrape failed")}
	resolver := NewResolver(primary, 6, logger.NewNop())

	symbols, err := resolver.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Normalize(FallbackSymbols), symbols)
}

func TestResolver_FallsBackWhenTooThin(t *testing.T) {
	primary := &stubProvider{symbols: []string{"AAPL", "MSFT"}}
	resolver := NewResolver(primary, 6, logger.NewNop())

	symbols, err := resolver.Symbols(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(symbols), 6)
	assert.Equal(t, "AAPL", symbols[0])
}

func TestResolver_NilPrimaryUsesFallback(t *testing.T) {
	resolver := NewResolver(nil, 6, logger.NewNop())

	symbols, err := resolver.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Normalize(FallbackSymbols), symbols)
}

func TestNormalize(t *testing.T) {
	in := []string{" nvda", "NVDA", "", "brk.b"}
	assert.Equal(t, []string{"NVDA", "BRK.B"}, Normalize(in))
}
