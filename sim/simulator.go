package sim

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/papertrade/market"
)

// defaultBasePrice is returned for symbols the simulator knows nothing
// about. The simulator never fails visibly; it answers with something.
const defaultBasePrice = 1000.0

// state is the evolving price model for one instrument.
type state struct {
	direction  float64 // +1 or -1
	strength   float64 // drift magnitude
	volatility float64
	price      float64 // last emitted price, stays within the instrument range
}

// Simulator synthesizes session-aware price data for the configured
// instruments. All per-instrument state is guarded by a single mutex so
// concurrent request handlers observe one evolving sequence.
type Simulator struct {
	mu     sync.Mutex
	states map[string]*state
	rng    *rand.Rand
	now    func() time.Time
}

// New returns a simulator with unseeded randomness. Fresh series are not
// reproducible between calls; use NewSeeded when a test needs them to be.
func New() *Simulator {
	return NewSeeded(time.Now().UnixNano())
}

func NewSeeded(seed int64) *Simulator {
	s := &Simulator{
		states: make(map[string]*state),
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
	}
	for sym, meta := range market.Instruments {
		s.states[sym] = &state{price: meta.BasePrice}
	}

	// Initial trends, tuned per instrument scale.
	s.states["XAUUSD"].direction = 1
	s.states["XAUUSD"].strength = 0.3
	s.states["XAUUSD"].volatility = 15
	s.states["EURUSD"].direction = -1
	s.states["EURUSD"].strength = 0.1
	s.states["EURUSD"].volatility = 0.005

	return s
}

// stepLocked computes one series move: trend drift plus gaussian noise,
// both scaled by session activity, clamped to the instrument's max move.
// Caller holds s.mu.
func (s *Simulator) stepLocked(meta market.InstrumentMeta, st *state, hour int) float64 {
	act := Activity(hour)
	base := st.direction * st.strength * act
	noise := s.rng.NormFloat64() * (st.volatility * 0.1) * act
	return clamp(base+noise, -meta.MaxMove, meta.MaxMove)
}

// GenerateSeries produces points candles one interval apart, ending at
// "now". Each call re-simulates from the instrument's base price, so two
// calls do not repeat. The final close becomes the new live price.
func (s *Simulator) GenerateSeries(symbol string, points int, interval market.Interval) []market.Candle {
	meta, ok := market.Instruments[symbol]
	if !ok {
		return s.fallbackSeries(points, interval)
	}
	if points <= 0 {
		points = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[symbol]
	step := interval.Duration()
	t := s.now().Add(-time.Duration(points) * step)
	price := meta.BasePrice

	out := make([]market.Candle, 0, points)
	for i := 0; i < points; i++ {
		hour := t.Hour()
		move := s.stepLocked(meta, st, hour)
		price = meta.Clamp(price + move)

		spread := math.Abs(move)
		open := price
		high := price + spread*s.uniform(0.5, 2.0)
		low := price - spread*s.uniform(0.5, 2.0)
		close := price + s.uniform(-spread, spread)

		// Re-resolve so the candle stays well formed.
		high = math.Max(math.Max(open, close), high)
		low = math.Min(math.Min(open, close), low)

		volume := int64(meta.BaseVolume * Activity(hour) * s.uniform(0.8, 1.2))

		out = append(out, market.Candle{
			Time:   t,
			Open:   round4(open),
			High:   round4(high),
			Low:    round4(low),
			Close:  round4(close),
			Volume: volume,
		})
		t = t.Add(step)
	}

	// The series feeds the live quote so current-price queries continue
	// from where the chart left off.
	st.price = out[len(out)-1].Close

	return out
}

// CurrentPrice applies one small random-walk tick to the instrument's
// live price and returns the new value. Every call mutates shared state;
// concurrent callers see a single evolving sequence.
func (s *Simulator) CurrentPrice(symbol string) float64 {
	meta, ok := market.Instruments[symbol]
	if !ok {
		return defaultBasePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[symbol]
	change := s.uniform(-meta.TickBound, meta.TickBound) * Activity(s.now().Hour())
	st.price = meta.Clamp(st.price + change)
	return st.price
}

// EvolveTrend randomly reshapes an instrument's drift: the direction may
// flip, strength is re-rolled and volatility drifts by up to 20% either
// way. Intended to be called occasionally so long-running servers don't
// trend forever in one direction.
func (s *Simulator) EvolveTrend(symbol string) {
	if !market.Valid(symbol) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[symbol]
	if s.rng.Intn(2) == 0 {
		st.direction = -st.direction
	}
	st.strength = s.uniform(0.1, 0.5)
	st.volatility = s.uniform(st.volatility*0.8, st.volatility*1.2)
}

// fallbackSeries is the "always answer" path for unknown symbols: a flat
// series at the default base price. Caller does not hold s.mu.
func (s *Simulator) fallbackSeries(points int, interval market.Interval) []market.Candle {
	if points <= 0 {
		points = 50
	}

	step := interval.Duration()
	t := s.now().Add(-time.Duration(points) * step)

	out := make([]market.Candle, 0, points)
	for i := 0; i < points; i++ {
		out = append(out, market.Candle{
			Time:   t,
			Open:   defaultBasePrice,
			High:   defaultBasePrice + 1,
			Low:    defaultBasePrice - 1,
			Close:  defaultBasePrice,
			Volume: 0,
		})
		t = t.Add(step)
	}
	return out
}

// uniform returns a random float in [lo, hi). Caller holds s.mu.
func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
