// Package signalfile defines the on-disk sample formats shared by the
// streaming, paging, and conversion tools.
package signalfile

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// BytesPerRow is the size of one binary row: two little-endian int16
// channel readings, no header, no metadata.
const BytesPerRow = 4

// Sample is one row of a signal recording. Channel values are stored as
// 16-bit integers on disk and widened to float64 for processing.
type Sample struct {
	ADC1 float64
	ADC2 float64
}

// Format identifies how a signal file is laid out on disk.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// DetectFormat classifies a signal file by its suffix.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".bin", ".dat":
		return FormatBinary
	default:
		return FormatUnknown
	}
}

var (
	// ErrRowOutOfRange is returned for writes past the preallocated row count.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrUnsupportedFormat is returned for file suffixes that are neither
	// CSV nor binary.
	ErrUnsupportedFormat = errors.New("unsupported signal file format")

	// ErrCSVRandomAccess is returned when a CSV file is opened for paging.
	// Random access needs the fixed binary row layout.
	ErrCSVRandomAccess = errors.New("random access over CSV signal files is not supported")
)

// ParseError reports a malformed numeric field in a CSV signal file.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed value %q on line %d: %v", e.Field, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRecord converts one CSV record (adc1, adc2) into a Sample. The line
// number is 1-based and only used for error reporting.
func ParseRecord(record []string, line int) (Sample, error) {
	if len(record) != 2 {
		return Sample{}, &ParseError{
			Line:  line,
			Field: strings.Join(record, ","),
			Err:   fmt.Errorf("expected 2 columns, got %d", len(record)),
		}
	}

	adc1, err := parseChannel(record[0], line)
	if err != nil {
		return Sample{}, err
	}
	adc2, err := parseChannel(record[1], line)
	if err != nil {
		return Sample{}, err
	}

	return Sample{ADC1: adc1, ADC2: adc2}, nil
}

func parseChannel(field string, line int) (float64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Field: field, Err: err}
	}
	// Values are stored as int16 on disk; wider inputs wrap the same way
	// the binary store would truncate them.
	return float64(int16(v)), nil
}

// Missing is the placeholder y-value for rows that carry no data, such as
// window positions beyond the end of a file. NaN keeps gaps distinguishable
// from a real zero sample.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a y-value is the missing-data placeholder.
func IsMissing(v float64) bool { return math.IsNaN(v) }
