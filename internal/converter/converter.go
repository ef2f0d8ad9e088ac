// Package converter transcodes CSV signal recordings into the flat binary
// sample format.
package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"sigview/internal/config"
	"sigview/internal/signalfile"
)

// Converter drives a two-phase CSV to binary conversion: a counting pass
// over the source (the binary target must be preallocated to exact size)
// followed by a writing pass. Progress percentages and the cancellation
// flag are handled at a fixed row cadence; per-row notifications would
// flood the sink.
//
// A Converter runs one conversion at a time. Cancel may be called from any
// goroutine.
type Converter struct {
	cfg       config.ConverterConfig
	log       zerolog.Logger
	cancelled atomic.Bool
}

// New returns an idle converter.
func New(cfg config.ConverterConfig, log zerolog.Logger) *Converter {
	if cfg.ProgressEveryRows < 1 {
		cfg.ProgressEveryRows = 1
	}
	if cfg.FlushEveryRows < 1 {
		cfg.FlushEveryRows = 1
	}
	return &Converter{cfg: cfg, log: log}
}

// Cancel requests the running conversion to stop. It is a one-way flag,
// observed at the next cadence point.
func (c *Converter) Cancel() {
	c.cancelled.Store(true)
}

// Convert transcodes sourcePath (CSV) into targetPath (binary). It returns
// completed=true only if both phases finished without cancellation. On
// cancellation or failure during the writing phase the partial target file
// is removed; a truncated artifact is never left on disk.
func (c *Converter) Convert(sourcePath, targetPath string, progress func(int)) (bool, error) {
	c.cancelled.Store(false)
	notify(progress, 0)

	rowCount, err := c.countRows(sourcePath)
	if err != nil {
		return false, err
	}
	if c.cancelled.Load() {
		c.log.Info().Str("source", sourcePath).Msg("conversion cancelled during counting")
		return false, nil
	}

	store, err := signalfile.Create(targetPath, rowCount)
	if err != nil {
		return false, err
	}

	completed, err := c.writeRows(sourcePath, store, rowCount, progress)
	if closeErr := store.Close(); err == nil && completed && closeErr != nil {
		completed, err = false, closeErr
	}
	if err != nil || !completed {
		if removeErr := os.Remove(targetPath); removeErr != nil {
			c.log.Error().Err(removeErr).Str("target", targetPath).Msg("failed to remove partial target")
		}
		return false, err
	}

	notify(progress, 100)
	return true, nil
}

// countRows makes one full pass over the CSV to count data rows, polling
// the cancellation flag at the progress cadence.
func (c *Converter) countRows(sourcePath string) (int64, error) {
	file, reader, err := openCSV(sourcePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var count int64
	for {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("failed to read CSV row: %w", err)
		}
		count++
		if count%int64(c.cfg.ProgressEveryRows) == 0 && c.cancelled.Load() {
			return count, nil
		}
	}
	return count, nil
}

// writeRows re-reads the CSV from the top and writes each row into the
// preallocated store, flushing durably and reporting progress at their
// respective cadences.
func (c *Converter) writeRows(sourcePath string, store *signalfile.Store, rowCount int64, progress func(int)) (bool, error) {
	file, reader, err := openCSV(sourcePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	for index := int64(0); ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, fmt.Errorf("failed to read CSV row: %w", err)
		}

		sample, err := signalfile.ParseRecord(record, int(index)+2)
		if err != nil {
			return false, err
		}
		if err := store.WriteRow(index, sample); err != nil {
			return false, err
		}

		if index%int64(c.cfg.FlushEveryRows) == 0 {
			if err := store.Flush(); err != nil {
				return false, err
			}
		}
		if index%int64(c.cfg.ProgressEveryRows) == 0 {
			if rowCount > 0 {
				notify(progress, int(index*100/rowCount))
			}
			if c.cancelled.Load() {
				c.log.Info().Str("source", sourcePath).Int64("row", index).Msg("conversion cancelled during writing")
				return false, nil
			}
		}
	}

	if err := store.Flush(); err != nil {
		return false, err
	}
	return !c.cancelled.Load(), nil
}

func openCSV(path string) (*os.File, *csv.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open signal file: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip the column-header row.
	if _, err := reader.Read(); err != nil && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	return file, reader, nil
}

func notify(progress func(int), percent int) {
	if progress != nil {
		progress(percent)
	}
}
