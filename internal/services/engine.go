package services

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"luckydraw/internal/models"
)

const (
	DefaultBallCount    = 47
	DefaultPickCount    = 6
	DefaultMinMatch     = 4
	DefaultTicketPrefix = "Lodi"
)

// EngineConfig carries the knobs that distinguish the branded draw variants.
type EngineConfig struct {
	BallCount    int    `yaml:"ball_count"`
	PickCount    int    `yaml:"pick_count"`
	MinMatch     int    `yaml:"min_match"`
	TicketPrefix string `yaml:"ticket_prefix"`
}

// DefaultEngineConfig returns the 6-of-47 configuration with a floor of 4 matches.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BallCount:    DefaultBallCount,
		PickCount:    DefaultPickCount,
		MinMatch:     DefaultMinMatch,
		TicketPrefix: DefaultTicketPrefix,
	}
}

// Validate checks that the universe and floor are consistent.
func (c EngineConfig) Validate() error {
	if c.PickCount <= 0 || c.BallCount < c.PickCount {
		return fmt.Errorf("%w: need 0 < pick count (%d) <= ball count (%d)", ErrInvalidConfig, c.PickCount, c.BallCount)
	}
	if c.MinMatch < 1 || c.MinMatch > c.PickCount {
		return fmt.Errorf("%w: min match %d outside [1,%d]", ErrInvalidConfig, c.MinMatch, c.PickCount)
	}
	return nil
}

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option customises a DrawEngine.
type Option func(*DrawEngine)

// WithRand replaces the default process-wide random source.
func WithRand(r Rand) Option {
	return func(e *DrawEngine) { e.rng = r }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *DrawEngine) { e.now = now }
}

// WithPrizeTable sets the initial prize table.
func WithPrizeTable(t models.PrizeTable) Option {
	return func(e *DrawEngine) { e.prizes = t.Clone() }
}

// DrawEngine owns the ticket pool, the used-ticket set, the winner list and
// the pending raffle draw. All methods are safe for concurrent use; a single
// mutex serialises dataset reloads against confirms.
type DrawEngine struct {
	mu  sync.Mutex
	cfg EngineConfig
	rng Rand
	now func() time.Time

	pool       *models.TicketPool
	generation int
	used       map[models.TicketKey]struct{}
	remaining  map[string]int
	winners    []models.WinnerRecord
	pending    *models.WinnerRecord
	lastDraw   *models.DrawResult
	prizes     models.PrizeTable
}

// NewDrawEngine creates an engine with an empty pool.
func NewDrawEngine(cfg EngineConfig, opts ...Option) (*DrawEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &DrawEngine{
		cfg:       cfg,
		rng:       globalRand{},
		now:       time.Now,
		pool:      models.NewTicketPool(models.ModeRaffle),
		used:      make(map[models.TicketKey]struct{}),
		remaining: make(map[string]int),
		prizes:    models.DefaultLottoPrizes(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *DrawEngine) Config() EngineConfig {
	return e.cfg
}

// LoadPool replaces the dataset with a new generation. Unless preserveUsage
// is set the used-ticket set and winner list start over. A pending draw is
// always discarded since its ticket may not exist in the new pool.
func (e *DrawEngine) LoadPool(pool *models.TicketPool, preserveUsage bool) {
	if pool == nil {
		pool = models.NewTicketPool(models.ModeRaffle)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending != nil {
		logger.Warningf("Discarding pending draw for %s on dataset reload", e.pending.Participant)
		e.pending = nil
	}

	oldUsed := e.used
	e.pool = pool
	e.generation++
	e.used = make(map[models.TicketKey]struct{})
	e.remaining = make(map[string]int, pool.Len())
	e.lastDraw = nil

	for _, part := range pool.Participants() {
		e.remaining[part.ID] = len(part.Tickets)
		if !preserveUsage {
			continue
		}
		for _, key := range part.Keys() {
			if _, ok := oldUsed[key]; ok {
				e.used[key] = struct{}{}
				e.remaining[part.ID]--
			}
		}
	}
	if !preserveUsage {
		e.winners = nil
	}

	logger.Infof("Loaded generation %d: %d participants, %d tickets, %d already used",
		e.generation, pool.Len(), pool.TicketCount(), len(e.used))
}

// Pool returns the current dataset.
func (e *DrawEngine) Pool() *models.TicketPool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool
}

// Generation counts dataset loads.
func (e *DrawEngine) Generation() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// SetPrizeTable replaces the prize table used for future draws.
func (e *DrawEngine) SetPrizeTable(t models.PrizeTable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prizes = t.Clone()
}

// PrizeTable returns a copy of the configured prize table.
func (e *DrawEngine) PrizeTable() models.PrizeTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prizes.Clone()
}

// Winners returns a copy of every committed winner record.
func (e *DrawEngine) Winners() []models.WinnerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.WinnerRecord, len(e.winners))
	copy(out, e.winners)
	return out
}

// LastDraw returns the most recent draw result, if any.
func (e *DrawEngine) LastDraw() (models.DrawResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastDraw == nil {
		return models.DrawResult{}, false
	}
	return *e.lastDraw, true
}

// DigitCount is the display width for the slot reels: the length of the
// longest all-digit ticket code in the pool.
func (e *DrawEngine) DigitCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	width := 0
	for _, part := range e.pool.Participants() {
		for _, t := range part.Tickets {
			if isNumeric(t.Code) && len(t.Code) > width {
				width = len(t.Code)
			}
		}
	}
	return width
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func newID() string {
	return uuid.NewString()
}
