package holidays

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Query identifies one holiday fetch
type Query struct {
	Country string
	Year    int // 0 = not given
}

// State is a snapshot of the loader's visible state
type State struct {
	Query   Query
	Data    ByDate
	Loading bool
	Err     error
}

// Loader runs at most one live fetch at a time and commits only the newest result.
//
// Each Start bumps a generation counter and cancels the previous context. A completing
// fetch commits only if its generation is still current and its context was not
// cancelled, so a stale response can never overwrite fresher state.
type Loader struct {
	source Source
	logger *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
}

// NewLoader creates a loader over source
func NewLoader(source Source, logger *zap.Logger) *Loader {
	return &Loader{
		source: source,
		logger: logger,
	}
}

// Start begins fetching q, superseding any in-flight fetch.
// The returned channel is closed when this fetch has finished, whether or not it was committed.
func (l *Loader) Start(ctx context.Context, q Query) <-chan struct{} {
	q.Country = normalizeCountry(q.Country)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	if l.state.Query != q {
		l.state.Data = nil
	}
	l.state.Query = q
	l.state.Loading = true
	l.state.Err = nil
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		records, err := l.source.Fetch(fetchCtx, q.Country, q.Year)
		l.commit(fetchCtx, gen, q, records, err)
	}()

	return done
}

// Load starts q and waits for it (or ctx) to finish, then returns the state
func (l *Loader) Load(ctx context.Context, q Query) State {
	done := l.Start(ctx, q)
	select {
	case <-done:
	case <-ctx.Done():
	}
	return l.State()
}

// State returns the current snapshot
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close cancels the in-flight fetch, if any
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) commit(ctx context.Context, gen uint64, q Query, records []Record, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || ctx.Err() != nil || errors.Is(err, ErrCancelled) {
		l.logger.Debug("Discarding superseded holiday fetch",
			zap.String("country", q.Country),
			zap.Int("year", q.Year),
			zap.Uint64("generation", gen))
		if gen == l.gen {
			l.state.Loading = false
		}
		return
	}

	l.state.Loading = false
	l.cancel = nil

	if err != nil {
		l.state.Err = err
		l.logger.Error("Failed to load holidays",
			zap.String("country", q.Country),
			zap.Int("year", q.Year),
			zap.Error(err))
		return
	}

	l.state.Data = Normalize(records)
	l.logger.Info("Holidays loaded",
		zap.String("country", q.Country),
		zap.Int("year", q.Year),
		zap.Int("dates", len(l.state.Data)),
		zap.Int("national", l.state.Data.NationalCount()))
}
