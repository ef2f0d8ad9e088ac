package signalfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Store provides row-oriented access to a flat binary signal file: a
// sequence of interleaved little-endian int16 pairs with no header. The
// row count is derived from the file size, never stored in the file.
type Store struct {
	file     *os.File
	path     string
	rows     int64
	writable bool
}

// Create allocates (or truncates) a binary signal file sized for rowCount
// rows and opens it for writing.
func Create(path string, rowCount int64) (*Store, error) {
	if rowCount < 0 {
		return nil, fmt.Errorf("invalid row count %d", rowCount)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create signal file: %w", err)
	}
	if err := file.Truncate(rowCount * BytesPerRow); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to allocate %d rows: %w", rowCount, err)
	}

	return &Store{file: file, path: path, rows: rowCount, writable: true}, nil
}

// Open maps an existing binary signal file for read-only random access.
func Open(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signal file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat signal file: %w", err)
	}

	return &Store{file: file, path: path, rows: info.Size() / BytesPerRow}, nil
}

// Rows returns the row count. For read-only stores it is re-derived from
// the current file size, so files that grow between reads are picked up.
func (s *Store) Rows() int64 {
	if !s.writable {
		if info, err := s.file.Stat(); err == nil {
			s.rows = info.Size() / BytesPerRow
		}
	}
	return s.rows
}

// Path returns the file path the store was opened with.
func (s *Store) Path() string { return s.path }

// ReadRange returns the samples in [startRow, endRow), clipped to the rows
// that exist on disk. Rows beyond end-of-file are never fabricated here;
// callers that need fixed-length windows pad with missing markers.
func (s *Store) ReadRange(startRow, endRow int64) ([]Sample, error) {
	if startRow < 0 || endRow < startRow {
		return nil, fmt.Errorf("invalid row range [%d,%d)", startRow, endRow)
	}

	rows := s.Rows()
	if endRow > rows {
		endRow = rows
	}
	if startRow >= endRow {
		return nil, nil
	}

	buf := make([]byte, (endRow-startRow)*BytesPerRow)
	if _, err := s.file.ReadAt(buf, startRow*BytesPerRow); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read rows [%d,%d): %w", startRow, endRow, err)
	}

	samples := make([]Sample, endRow-startRow)
	for i := range samples {
		off := i * BytesPerRow
		samples[i] = Sample{
			ADC1: float64(int16(binary.LittleEndian.Uint16(buf[off:]))),
			ADC2: float64(int16(binary.LittleEndian.Uint16(buf[off+2:]))),
		}
	}
	return samples, nil
}

// WriteRow stores one sample at the given row index. The index must fall
// within the row count the store was created with.
func (s *Store) WriteRow(index int64, sample Sample) error {
	if index < 0 || index >= s.rows {
		return fmt.Errorf("row %d of %d: %w", index, s.rows, ErrRowOutOfRange)
	}

	var buf [BytesPerRow]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(int16(sample.ADC1)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(int16(sample.ADC2)))
	if _, err := s.file.WriteAt(buf[:], index*BytesPerRow); err != nil {
		return fmt.Errorf("failed to write row %d: %w", index, err)
	}
	return nil
}

// Flush forces buffered rows to durable storage. Long-running writers call
// this at a fixed cadence so a crash cannot lose an unbounded tail.
func (s *Store) Flush() error {
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush signal file: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.file.Close()
}
