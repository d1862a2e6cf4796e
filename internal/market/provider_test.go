package market

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

type fakeCache struct {
	prices map[string]float64
	fail   bool
	reads  int
	sets   int
}

func (c *fakeCache) GetMultiple(ctx context.Context, symbols []string) (map[string]float64, error) {
	c.reads++
	if c.fail {
		return nil, errors.New("cache down")
	}
	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		if price, ok := c.prices[sym]; ok {
			out[sym] = price
		}
	}
	return out, nil
}

func (c *fakeCache) Set(ctx context.Context, symbol string, price float64) error {
	if c.fail {
		return errors.New("cache down")
	}
	c.prices[symbol] = price
	c.sets++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New("test", io.Discard)
}

func TestStubProvider_PricesAreReproducibleWithSeed(t *testing.T) {
	a := NewStubProvider(7, nil, testLogger())
	b := NewStubProvider(7, nil, testLogger())

	symbols := []string{"VTI", "BND", "AAPL"}
	assert.Equal(t, a.Prices(context.Background(), symbols), b.Prices(context.Background(), symbols))
}

func TestStubProvider_CacheHitWins(t *testing.T) {
	cache := &fakeCache{prices: map[string]float64{"VTI": 123.45}}
	p := NewStubProvider(7, cache, testLogger())

	prices := p.Prices(context.Background(), []string{"VTI"})
	assert.InDelta(t, 123.45, prices["VTI"], 1e-9)
	assert.Zero(t, cache.sets, "a hit must not be rewritten")
}

func TestStubProvider_CacheMissWritesThrough(t *testing.T) {
	cache := &fakeCache{prices: map[string]float64{}}
	p := NewStubProvider(7, cache, testLogger())

	prices := p.Prices(context.Background(), []string{"BND"})
	require.Equal(t, 1, cache.sets)
	assert.InDelta(t, cache.prices["BND"], prices["BND"], 1e-9)
}

func TestStubProvider_BatchReadsOnceAndFillsMisses(t *testing.T) {
	cache := &fakeCache{prices: map[string]float64{"VTI": 123.45}}
	p := NewStubProvider(7, cache, testLogger())

	prices := p.Prices(context.Background(), []string{"VTI", "BND", "AAPL"})

	assert.Equal(t, 1, cache.reads, "the batch uses a single cache read")
	assert.InDelta(t, 123.45, prices["VTI"], 1e-9)
	require.Equal(t, 2, cache.sets, "only the misses are written back")
	assert.InDelta(t, cache.prices["BND"], prices["BND"], 1e-9)
	assert.InDelta(t, cache.prices["AAPL"], prices["AAPL"], 1e-9)
}

func TestStubProvider_CacheFailureDegrades(t *testing.T) {
	p := NewStubProvider(7, &fakeCache{fail: true}, testLogger())

	prices := p.Prices(context.Background(), []string{"VTI"})
	assert.Positive(t, prices["VTI"], "feed keeps serving when the cache is down")
}

func TestStubProvider_HistoryShape(t *testing.T) {
	p := NewStubProvider(7, nil, testLogger())

	history := p.History([]string{"VTI", "UNKNOWN"})
	require.Len(t, history["VTI"], 30)
	require.Len(t, history["UNKNOWN"], 30)
	for _, v := range history["VTI"] {
		assert.Positive(t, v)
	}
}

func TestStubProvider_UnknownSymbolHasStableBase(t *testing.T) {
	a := NewStubProvider(1, nil, testLogger())
	b := NewStubProvider(2, nil, testLogger())

	assert.InDelta(t, a.basePrice("ZZZT"), b.basePrice("ZZZT"), 1e-9)
	assert.Positive(t, a.basePrice("ZZZT"))
}

func TestStubProvider_Signals(t *testing.T) {
	p := NewStubProvider(7, nil, testLogger())

	signals := p.Signals(context.Background())
	require.Len(t, signals, len(p.Universe()))
	for _, s := range signals {
		assert.NotEmpty(t, s.Symbol)
		assert.Positive(t, s.Price)
		assert.GreaterOrEqual(t, s.RSI, 20.0)
		assert.LessOrEqual(t, s.RSI, 80.0)
		assert.Contains(t, volumeStates, s.VolumeState)
		assert.NotEmpty(t, s.Note)
	}
}

func TestStubProvider_Names(t *testing.T) {
	p := NewStubProvider(7, nil, testLogger())

	names := p.Names([]string{"VTI", "ZZZT"})
	assert.Equal(t, "Vanguard Total Stock Market ETF", names["VTI"])
	_, ok := names["ZZZT"]
	assert.False(t, ok)
}
