// Package controller owns the simulation state and applies user intents to it.
//
// Every intent and every scheduled tick runs to completion under one mutex, and each
// change installs a complete replacement grid, so snapshots handed to a renderer are
// never partially updated.
//
// Scheduled ticks carry the epoch they were started in. Pause, Clear, Resize and
// Close move to a new epoch before stopping the timer, which turns a tick that was
// already running at that moment into a no-op.
package controller

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-interactive/engine"
	"github.com/sheikhrachel/go-gol-interactive/logging"
	"github.com/sheikhrachel/go-gol-interactive/model"
	"github.com/sheikhrachel/go-gol-interactive/scheduler"
	"github.com/sheikhrachel/go-gol-interactive/utils"
)

// ErrClosed is returned by intents issued after Close
var ErrClosed = errors.New("controller: closed")

// Snapshot is a read-only view of the simulation at one point in time
type Snapshot struct {
	Grid       *model.Grid
	Generation int
	Rows       int
	Cols       int
	Running    bool
	Interval   time.Duration
	Population int
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used by the controller and its scheduler
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRand sets the random source used for seeding
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithEngine replaces the default engine
func WithEngine(e *engine.Engine) Option {
	return func(c *Controller) {
		if e != nil {
			c.engine = e
		}
	}
}

// Controller orchestrates grid, engine and scheduler
type Controller struct {
	mu         sync.Mutex
	grid       *model.Grid
	generation int
	density    float64
	interval   time.Duration
	epoch      uint64
	closed     bool

	engine  *engine.Engine
	sched   *scheduler.Scheduler
	rng     *rand.Rand
	logger  *slog.Logger
	updates chan Snapshot
}

// New builds a controller from cfg, seeds a random grid and starts playing
func New(cfg utils.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "[New] invalid config")
	}

	grid, err := model.NewGrid(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, errors.Wrap(err, "[New] failed to create grid")
	}

	c := &Controller{
		grid:     grid,
		density:  cfg.Density,
		interval: cfg.Interval,
		engine:   engine.New(engine.WithWorkers(cfg.Workers)),
		logger:   logging.Discard(),
		updates:  make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		c.rng = rand.New(rand.NewPCG(seed, 0))
	}
	c.sched = scheduler.New(c.interval, c.logger)

	if err := c.Seed(); err != nil {
		return nil, errors.Wrap(err, "[New] failed to start simulation")
	}
	return c, nil
}

// ToggleCell flips one cell. Generation and play state are unaffected.
func (c *Controller) ToggleCell(row, col int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	next, err := c.grid.WithToggled(row, col)
	if err != nil {
		return errors.Wrap(err, "[ToggleCell] failed to toggle cell")
	}
	c.grid = next
	c.publishLocked()
	return nil
}

// Seed replaces the grid with a random one and starts playing
func (c *Controller) Seed() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	fresh, err := model.Clear(c.grid.Rows(), c.grid.Cols())
	if err != nil {
		return errors.Wrap(err, "[Seed] failed to clear grid")
	}
	c.grid = fresh.Randomize(c.density, c.rng)
	c.logger.Info("grid seeded", "rows", c.grid.Rows(), "cols", c.grid.Cols(), "population", c.grid.CountLivingCells())

	if err := c.playLocked(); err != nil {
		return errors.Wrap(err, "[Seed] failed to play")
	}
	c.publishLocked()
	return nil
}

// Play (re)starts the scheduler at the configured interval
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.playLocked(); err != nil {
		return errors.Wrap(err, "[Play] failed to start scheduler")
	}
	c.publishLocked()
	return nil
}

// Pause stops the scheduler, leaving grid and generation as they are
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pauseLocked()
	c.publishLocked()
}

// Advance computes one generation. The scheduler calls it on every tick; it can
// also be called directly to single-step a paused simulation.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.advanceLocked()
}

// SetSpeed changes the tick interval, retuning the live timer if one is running
func (c *Controller) SetSpeed(interval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.sched.Retune(interval); err != nil {
		return errors.Wrap(err, "[SetSpeed] failed to retune")
	}
	c.interval = interval
	c.logger.Info("speed changed", "interval", interval)
	c.publishLocked()
	return nil
}

// Clear stops the simulation and kills every cell, resetting the generation
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pauseLocked()
	// the current dimensions are always valid
	c.grid, _ = model.Clear(c.grid.Rows(), c.grid.Cols())
	c.generation = 0
	c.logger.Info("grid cleared")
	c.publishLocked()
}

// Resize stops the simulation and installs an empty rows x cols grid. Play is not
// resumed. Invalid dimensions leave the state untouched.
func (c *Controller) Resize(rows, cols int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	fresh, err := model.Clear(rows, cols)
	if err != nil {
		return errors.Wrap(err, "[Resize] failed to create grid")
	}
	c.pauseLocked()
	c.grid = fresh
	c.generation = 0
	c.logger.Info("grid resized", "rows", rows, "cols", cols)
	c.publishLocked()
	return nil
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Updates delivers the latest snapshot after every change. The channel holds one
// value; a snapshot nobody read yet is replaced by the newer one. It is closed by
// Close.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// Close stops the simulation for good and closes the Updates channel
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pauseLocked()
	c.closed = true
	close(c.updates)
}

func (c *Controller) playLocked() error {
	c.epoch++
	epoch := c.epoch
	if err := c.sched.Start(c.interval, func() error { return c.tick(epoch) }); err != nil {
		return err
	}
	c.logger.Info("simulation playing", "interval", c.interval)
	return nil
}

func (c *Controller) pauseLocked() {
	c.epoch++
	if c.sched.Running() {
		c.logger.Info("simulation paused", "generation", c.generation)
	}
	c.sched.Stop()
}

func (c *Controller) tick(epoch uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch {
		return nil
	}
	c.advanceLocked()
	return nil
}

func (c *Controller) advanceLocked() {
	c.grid = c.engine.Step(c.grid)
	c.generation++
	c.logger.Debug("generation advanced", "generation", c.generation)
	c.publishLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Grid:       c.grid,
		Generation: c.generation,
		Rows:       c.grid.Rows(),
		Cols:       c.grid.Cols(),
		Running:    !c.closed && c.sched.Running(),
		Interval:   c.interval,
		Population: c.grid.CountLivingCells(),
	}
}

func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	select {
	case <-c.updates:
	default:
	}
	c.updates <- snap
}
