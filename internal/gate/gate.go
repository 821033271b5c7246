package gate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMinDuration = 2500 * time.Millisecond
	DefaultTick        = 100 * time.Millisecond
	DefaultStep        = 2
	DefaultCeiling     = 75
	DefaultExitDelay   = 400 * time.Millisecond

	// assetWeight is the share of progress the critical assets account for.
	assetWeight = 80
)

// Snapshot is the externally visible gate state.
type Snapshot struct {
	Progress       int  `json:"progress"`
	Loaded         int  `json:"loaded"`
	Total          int  `json:"total"`
	AssetsLoaded   bool `json:"assetsLoaded"`
	MinTimeElapsed bool `json:"minTimeElapsed"`
	Visible        bool `json:"visible"`
}

// Revealed reports whether the gate has finished and hidden its overlay.
func (s Snapshot) Revealed() bool { return !s.Visible }

// AfterFunc starts a one-shot timer and returns its channel and a stop function.
type AfterFunc func(d time.Duration) (<-chan time.Time, func())

// TickerFunc starts a repeating ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// Option configures a Gate.
type Option func(*Gate)

func WithTick(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.tick = d
		}
	}
}

func WithStep(step int) Option {
	return func(g *Gate) {
		if step > 0 {
			g.step = step
		}
	}
}

func WithCeiling(ceiling int) Option {
	return func(g *Gate) {
		if ceiling > 0 && ceiling < 100 {
			g.ceiling = ceiling
		}
	}
}

func WithExitDelay(d time.Duration) Option {
	return func(g *Gate) {
		if d >= 0 {
			g.exitDelay = d
		}
	}
}

// WithAfter replaces the one-shot timer used for the minimum duration and exit delay.
func WithAfter(fn AfterFunc) Option {
	return func(g *Gate) {
		if fn != nil {
			g.after = fn
		}
	}
}

// WithTicker replaces the cosmetic progress ticker.
func WithTicker(fn TickerFunc) Option {
	return func(g *Gate) {
		if fn != nil {
			g.ticker = fn
		}
	}
}

// WithOnReveal registers the completion callback. It runs at most once.
func WithOnReveal(fn func()) Option {
	return func(g *Gate) { g.onReveal = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate holds a loading overlay until its critical assets have settled and a
// minimum display time has passed.
type Gate struct {
	loader      Loader
	assets      []string
	minDuration time.Duration
	tick        time.Duration
	step        int
	ceiling     int
	exitDelay   time.Duration
	after       AfterFunc
	ticker      TickerFunc
	onReveal    func()
	logger      *zap.Logger

	mu      sync.Mutex
	snap    Snapshot
	subs    []chan Snapshot
	started bool
	ended   bool
	cancel  context.CancelFunc

	revealOnce sync.Once
	done       chan struct{}
	wg         sync.WaitGroup
}

// New builds a gate for assets. A non-positive minDuration uses DefaultMinDuration.
func New(loader Loader, assets []string, minDuration time.Duration, opts ...Option) *Gate {
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}
	g := &Gate{
		loader:      loader,
		assets:      append([]string(nil), assets...),
		minDuration: minDuration,
		tick:        DefaultTick,
		step:        DefaultStep,
		ceiling:     DefaultCeiling,
		exitDelay:   DefaultExitDelay,
		after:       realAfter,
		ticker:      realTicker,
		logger:      zap.NewNop(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.snap = Snapshot{Total: len(g.assets), Visible: true}
	return g
}

func realAfter(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTimer(d)
	return t.C, func() { t.Stop() }
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Start begins loading assets and timing the overlay. It returns immediately;
// cancelling ctx tears the gate down. Calls after the first are ignored.
func (g *Gate) Start(ctx context.Context) {
	g.mu.Lock()
	if g.started || g.ended {
		g.mu.Unlock()
		return
	}
	g.started = true
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	go g.run(ctx)
}

// Close cancels the gate and waits for its goroutines to exit.
func (g *Gate) Close() {
	g.mu.Lock()
	cancel := g.cancel
	if !g.started {
		g.ended = true
		g.closeSubscribersLocked()
	}
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	g.wg.Wait()
}

// Done is closed once the overlay has been hidden.
func (g *Gate) Done() <-chan struct{} { return g.done }

// Snapshot returns the current state.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

// Subscribe returns a channel that always holds the latest snapshot. Older
// undelivered snapshots are dropped. The channel closes when the gate stops.
func (g *Gate) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	g.mu.Lock()
	defer g.mu.Unlock()
	ch <- g.snap
	if g.ended {
		close(ch)
		return ch
	}
	g.subs = append(g.subs, ch)
	return ch
}

func (g *Gate) run(ctx context.Context) {
	defer g.wg.Done()
	defer g.finish()

	snap := g.Snapshot()
	total := len(g.assets)

	settled := make(chan struct{}, total)
	eg, egctx := errgroup.WithContext(ctx)
	for _, asset := range g.assets {
		asset := asset
		eg.Go(func() error {
			if err := g.loader.Load(egctx, asset); err != nil {
				g.logger.Debug("gate asset failed", zap.String("asset", asset), zap.Error(err))
			}
			settled <- struct{}{}
			return nil
		})
	}
	defer func() { _ = eg.Wait() }()

	minC, stopMin := g.after(g.minDuration)
	defer stopMin()
	tickC, stopTick := g.ticker(g.tick)
	defer stopTick()

	if total == 0 {
		snap.AssetsLoaded = true
		stopTick()
		tickC = nil
	}
	var exitC <-chan time.Time
	g.publish(snap)

	for {
		select {
		case <-ctx.Done():
			return
		case <-settled:
			snap.Loaded++
			snap.Progress = max(snap.Progress, snap.Loaded*assetWeight/total)
			if snap.Loaded == total {
				snap.AssetsLoaded = true
				stopTick()
				tickC = nil
			}
		case <-minC:
			snap.MinTimeElapsed = true
			minC = nil
		case <-tickC:
			if snap.Progress < g.ceiling {
				snap.Progress = min(snap.Progress+g.step, g.ceiling)
			}
		case <-exitC:
			snap.Visible = false
			g.publish(snap)
			g.reveal()
			return
		}

		if exitC == nil && snap.AssetsLoaded && snap.MinTimeElapsed {
			snap.Progress = 100
			var stopExit func()
			exitC, stopExit = g.after(g.exitDelay)
			defer stopExit()
		}
		g.publish(snap)
	}
}

func (g *Gate) reveal() {
	g.revealOnce.Do(func() {
		close(g.done)
		if g.onReveal != nil {
			g.onReveal()
		}
	})
}

func (g *Gate) publish(s Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snap = s
	for _, ch := range g.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (g *Gate) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = true
	g.closeSubscribersLocked()
	if g.cancel != nil {
		g.cancel()
	}
}

func (g *Gate) closeSubscribersLocked() {
	for _, ch := range g.subs {
		close(ch)
	}
	g.subs = nil
}
