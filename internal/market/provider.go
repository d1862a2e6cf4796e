package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

// Signal is one row of the market-signals feed
type Signal struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Change      float64 `json:"change"`
	RSI         float64 `json:"rsi"`
	VolumeState string  `json:"volume_state"`
	Note        string  `json:"note"`
}

// PriceCache is the external cache for quoted prices. A nil cache is valid
// and simply disables caching.
type PriceCache interface {
	GetMultiple(ctx context.Context, symbols []string) (map[string]float64, error)
	Set(ctx context.Context, symbol string, price float64) error
}

// seedSymbol is a base entry of the stub universe
type seedSymbol struct {
	name  string
	price float64
}

var defaultUniverse = map[string]seedSymbol{
	"VTI":  {"Vanguard Total Stock Market ETF", 285},
	"VOO":  {"Vanguard S&P 500 ETF", 560},
	"BND":  {"Vanguard Total Bond Market ETF", 73},
	"QQQ":  {"Invesco QQQ Trust", 520},
	"GLD":  {"SPDR Gold Shares", 310},
	"AAPL": {"Apple Inc.", 230},
	"MSFT": {"Microsoft Corporation", 500},
}

var volumeStates = []string{"low", "normal", "high", "surging"}

var signalNotes = []string{
	"Holding above the 50-day moving average.",
	"Volume picking up after a quiet stretch.",
	"Drifting sideways, no clear direction.",
	"Approaching a recent resistance level.",
	"Pulled back toward support.",
}

// StubProvider serves randomized quotes in place of a real market feed.
// Prices random-walk around per-symbol base levels; with a fixed seed the
// walk is reproducible. Current prices are written through the cache so the
// feed stays stable between recomputations within the cache TTL.
type StubProvider struct {
	mu    sync.Mutex
	rng   *rand.Rand
	cache PriceCache
	log   *logger.Logger
	last  map[string]float64
}

// NewStubProvider creates a stub market provider. Seed 0 seeds from the
// clock.
func NewStubProvider(seed int64, cache PriceCache, log *logger.Logger) *StubProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &StubProvider{
		rng:   rand.New(rand.NewSource(seed)),
		cache: cache,
		log:   log.WithField("component", "market"),
		last:  make(map[string]float64),
	}
}

// Prices returns a current price per symbol. One pipelined cache read covers
// the batch; cached prices win, misses step the random walk and write back
// through the cache. Cache failures are logged and swallowed — the feed
// itself never fails.
func (p *StubProvider) Prices(ctx context.Context, symbols []string) map[string]float64 {
	var cached map[string]float64
	if p.cache != nil {
		var err error
		cached, err = p.cache.GetMultiple(ctx, symbols)
		if err != nil {
			p.log.Warn("price cache read failed", "error", err)
			cached = nil
		}
	}

	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		if price, ok := cached[sym]; ok {
			out[sym] = price
			continue
		}

		price := p.step(sym)
		out[sym] = price

		if p.cache != nil {
			if err := p.cache.Set(ctx, sym, price); err != nil {
				p.log.Warn("price cache write failed", "symbol", sym, "error", err)
			}
		}
	}
	return out
}

// History returns a 30-point sparkline per symbol ending near the current
// price.
func (p *StubProvider) History(symbols []string) map[string][]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		base := p.basePrice(sym)
		points := make([]float64, 30)
		level := base * (0.92 + p.rng.Float64()*0.08)
		for i := range points {
			level *= 1 + (p.rng.Float64()-0.5)*0.02
			points[i] = round2(level)
		}
		out[sym] = points
	}
	return out
}

// Names returns display names for the known universe; unknown symbols are
// omitted and fall back to the raw symbol downstream.
func (p *StubProvider) Names(symbols []string) map[string]string {
	out := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		if s, ok := defaultUniverse[sym]; ok {
			out[sym] = s.name
		}
	}
	return out
}

// Universe lists the stub's built-in symbols in stable order.
func (p *StubProvider) Universe() []string {
	symbols := make([]string, 0, len(defaultUniverse))
	for sym := range defaultUniverse {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Signals produces the randomized market-signals feed for the built-in
// universe.
func (p *StubProvider) Signals(ctx context.Context) []Signal {
	symbols := p.Universe()
	prices := p.Prices(ctx, symbols)

	p.mu.Lock()
	defer p.mu.Unlock()

	signals := make([]Signal, 0, len(symbols))
	for _, sym := range symbols {
		signals = append(signals, Signal{
			Symbol:      sym,
			Price:       prices[sym],
			Change:      round2((p.rng.Float64() - 0.5) * 6),
			RSI:         round2(20 + p.rng.Float64()*60),
			VolumeState: volumeStates[p.rng.Intn(len(volumeStates))],
			Note:        signalNotes[p.rng.Intn(len(signalNotes))],
		})
	}
	return signals
}

// step advances the walk for one symbol and returns the new price.
func (p *StubProvider) step(symbol string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	level, ok := p.last[symbol]
	if !ok {
		level = p.basePrice(symbol)
	}
	level *= 1 + (p.rng.Float64()-0.5)*0.03
	level = round2(level)
	p.last[symbol] = level
	return level
}

// basePrice picks the universe base, or derives a stable pseudo-price for
// unknown symbols from a hash so the same symbol always starts at the same
// level.
func (p *StubProvider) basePrice(symbol string) float64 {
	if s, ok := defaultUniverse[symbol]; ok {
		return s.price
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 20 + float64(h.Sum32()%4800)/10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
