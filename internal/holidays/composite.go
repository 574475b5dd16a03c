package holidays

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// CompositeSource implements Source with a fallback strategy.
// Primary: usually the HTTP Client
// Fallback: a FileSource or BuiltinSource
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Fetch tries the primary source first. A cancelled fetch never falls back;
// when both sources fail the primary error is returned.
func (cs *CompositeSource) Fetch(ctx context.Context, country string, year int) ([]Record, error) {
	records, err := cs.primary.Fetch(ctx, country, year)
	if err == nil {
		return records, nil
	}
	if errors.Is(err, ErrCancelled) || ctx.Err() != nil {
		return nil, err
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Error(err))

	records, fallbackErr := cs.fallback.Fetch(ctx, country, year)
	if fallbackErr != nil {
		cs.logger.Warn("Fallback holiday source failed",
			zap.String("country", country),
			zap.Error(fallbackErr))
		return nil, err
	}

	cs.logger.Info("Using fallback holiday data",
		zap.String("country", country),
		zap.Int("records", len(records)))

	return records, nil
}

// LoadFallback loads every FileSource in the fallback chain
func (cs *CompositeSource) LoadFallback() error {
	if err := loadFiles(cs.fallback); err != nil {
		return err
	}
	cs.logger.Info("Fallback holidays loaded successfully")
	return nil
}

func loadFiles(s Source) error {
	switch src := s.(type) {
	case *FileSource:
		return src.Load()
	case *CompositeSource:
		if err := loadFiles(src.primary); err != nil {
			return err
		}
		return loadFiles(src.fallback)
	}
	return nil
}
