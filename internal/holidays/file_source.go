package holidays

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileSource serves holiday records from a local YAML (or JSON) file.
//
// File format:
//
//	PL:
//	  - name: New Year's Day
//	    date: "2025-01-01"
//	    type: NATIONAL_HOLIDAY
//	  - name: Epiphany Eve
//	    date: "2025-01-05"
//	    type: OBSERVANCE
type FileSource struct {
	filePath string
	logger   *zap.Logger
	data     map[string][]Record // key: country code
}

// NewFileSource creates a new FileSource
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]Record),
	}
}

// Load reads the records file
func (fs *FileSource) Load() error {
	raw, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read holidays file: %w", err)
	}

	var parsed map[string][]Record
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse holidays file: %w", err)
	}

	data := make(map[string][]Record, len(parsed))
	total := 0
	for country, records := range parsed {
		data[normalizeCountry(country)] = records
		total += len(records)
	}
	fs.data = data

	fs.logger.Info("Holidays file loaded",
		zap.String("file", fs.filePath),
		zap.Int("countries", len(data)),
		zap.Int("records", total))

	return nil
}

// Fetch returns the file's records for the country, filtered by year when given
func (fs *FileSource) Fetch(ctx context.Context, country string, year int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(ctx)
	}

	country = normalizeCountry(country)
	records, ok := fs.data[country]
	if !ok {
		return nil, fmt.Errorf("country not found in holidays file: %s", country)
	}

	if year <= 0 {
		return records, nil
	}

	prefix := fmt.Sprintf("%04d-", year)
	var filtered []Record
	for _, r := range records {
		if strings.HasPrefix(r.Date, prefix) {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}
