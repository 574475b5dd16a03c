package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/internal/config"
	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/internal/session"
)

// app is the per-command wiring: holiday loading, session and engine
type app struct {
	cfg      *config.Config
	loader   *holidays.Loader
	sessions *session.Manager
	engine   *calendar.Engine
	now      time.Time
	out      io.Writer
	errOut   io.Writer
	closers  []func() error
}

func newApp(cfg *config.Config, out, errOut io.Writer) (*app, error) {
	a := &app{
		cfg:    cfg,
		now:    time.Now(),
		out:    out,
		errOut: errOut,
	}

	a.sessions = session.NewManager(cfg.State.File, logger)
	if err := a.sessions.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	a.engine = a.sessions.Restore(a.now)

	return a, nil
}

// load fetches q through the loader, wiring the holiday sources on first use
// so commands that never need holidays never ask for a key
func (a *app) load(ctx context.Context, q holidays.Query) holidays.State {
	if a.loader == nil {
		a.loader = holidays.NewLoader(a.buildSource(), logger)
	}
	return a.loader.Load(ctx, q)
}

// buildSource assembles API client -> cache -> fallbacks
func (a *app) buildSource() holidays.Source {
	hc := a.cfg.Holidays

	var source holidays.Source = holidays.NewClient(hc.APIURL, a.keyProvider(), hc.GetTimeout(), logger)

	switch hc.Cache.Type {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: hc.Cache.RedisAddr,
			DB:   hc.Cache.RedisDB,
		})
		cache := holidays.NewRedisCache(rdb, hc.Cache.Prefix)
		a.closers = append(a.closers, cache.Close)
		source = holidays.NewCachedSource(source, cache, hc.GetCacheTTL(), logger)
	case "none":
	default:
		source = holidays.NewCachedSource(source, holidays.NewMemoryCache(), hc.GetCacheTTL(), logger)
	}

	var fallback holidays.Source
	if hc.FallbackFile != "" {
		fallback = holidays.NewFileSource(hc.FallbackFile, logger)
	}
	if hc.BuiltinFallback {
		builtin := holidays.NewBuiltinSource()
		if fallback != nil {
			fallback = holidays.NewCompositeSource(fallback, builtin, logger)
		} else {
			fallback = builtin
		}
	}

	if fallback == nil {
		return source
	}

	composite := holidays.NewCompositeSource(source, fallback, logger)
	if err := composite.LoadFallback(); err != nil {
		// An unloaded file source fails its fetches and the chain moves on
		logger.Warn("Failed to load fallback holidays file, continuing without it",
			zap.String("file", hc.FallbackFile),
			zap.Error(err))
	}
	return composite
}

// keyProvider picks the credential: command, configured key, then an interactive prompt
func (a *app) keyProvider() holidays.KeyProvider {
	hc := a.cfg.Holidays

	if hc.APIKeyCmd != "" {
		return holidays.NewCommandKeyProvider(hc.APIKeyCmd, hc.GetKeyRefresh(), logger)
	}
	if hc.APIKey != "" {
		return holidays.StaticKey(hc.APIKey)
	}

	key, err := promptAPIKey(os.Stdin, a.errOut)
	if err != nil && !errors.Is(err, errNotInteractive) {
		logger.Warn("Failed to read API key", zap.Error(err))
	}
	return holidays.StaticKey(key)
}

// query builds the holiday query for the month containing date
func (a *app) query(date time.Time) holidays.Query {
	year := a.cfg.Holidays.Year
	if year == 0 {
		year = date.Year()
	}
	return holidays.Query{Country: a.cfg.Holidays.Country, Year: year}
}

// loadHolidays fetches the lookup for date's year. A fetch failure is reported
// and the calendar degrades to weekday and past-day blocking.
func (a *app) loadHolidays(ctx context.Context, date time.Time) holidays.ByDate {
	state := a.load(ctx, a.query(date))
	if state.Err != nil {
		if holidays.IsFetchError(state.Err) {
			fmt.Fprintln(a.errOut, "failed to load calendar")
		} else {
			fmt.Fprintf(a.errOut, "failed to load calendar: %v\n", state.Err)
		}
	}
	return state.Data
}

func (a *app) saveSession() error {
	a.sessions.Capture(a.engine)
	return a.sessions.Save()
}

func (a *app) Close() {
	if a.loader != nil {
		a.loader.Close()
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
}
