package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped coupon files from the
// local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a gzipped coupon file and returns a Catalog.
// The file is expected to contain one JSON coupon definition per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	catalog, err := parseCatalog(ctx, gzipReader, filePath)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons", catalog.Size()).
		Msg("coupon file loaded")

	return catalog, nil
}

// parseCatalog reads JSON-lines coupon definitions from r. Blank lines are
// skipped; a malformed line fails the whole load so a broken catalogue never
// half-applies.
func parseCatalog(ctx context.Context, r io.Reader, source string) (*mapCatalog, error) {
	catalog := NewMapCatalog(1024).(*mapCatalog)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically for large files
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var c Coupon
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("invalid coupon definition at %s:%d: %w", source, lineNo, err)
		}
		if c.Code == "" {
			return nil, fmt.Errorf("coupon definition at %s:%d has no code", source, lineNo)
		}
		c.Code = strings.ToUpper(c.Code)
		catalog.Add(c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coupon file %s: %w", source, err)
	}

	return catalog, nil
}
