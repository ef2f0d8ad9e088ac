// Package chunker streams a signal file as bounded-size chunks so that
// arbitrarily large recordings can be walked in constant memory.
package chunker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"sigview/internal/signalfile"
)

// Reader produces a lazy, finite, non-restartable sequence of sample
// chunks from a CSV or binary signal file. It follows the bufio.Scanner
// idiom:
//
//	r := chunker.New(path, 50000)
//	defer r.Close()
//	for r.Scan() {
//	    process(r.Chunk())
//	}
//	if err := r.Err(); err != nil { ... }
//
// A missing path is a soft failure: Scan returns false immediately,
// PathMissing reports true, and Err stays nil. This keeps a background
// streaming pass from turning a bad path into a fatal outcome.
type Reader struct {
	path      string
	chunkSize int

	file   *os.File
	csv    *csv.Reader
	line   int
	store  *signalfile.Store
	offset int64

	chunk   []signalfile.Sample
	err     error
	missing bool
	opened  bool
	done    bool
}

// New prepares a chunk reader for the given path. The source is not
// touched until the first Scan call.
func New(path string, chunkSize int) *Reader {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Reader{path: path, chunkSize: chunkSize}
}

// Scan advances to the next chunk. It returns false when the source is
// exhausted, missing, or failed; Err distinguishes the last case.
func (r *Reader) Scan() bool {
	if r.done {
		return false
	}
	if !r.opened {
		if !r.open() {
			r.done = true
			return false
		}
	}

	switch {
	case r.csv != nil:
		return r.scanCSV()
	default:
		return r.scanBinary()
	}
}

// Chunk returns the samples produced by the last successful Scan. The
// final chunk of a file may be shorter than the configured chunk size;
// empty chunks are never produced.
func (r *Reader) Chunk() []signalfile.Sample { return r.chunk }

// Err returns the first error encountered while scanning, if any.
func (r *Reader) Err() error { return r.err }

// PathMissing reports whether the source path did not exist or was not a
// regular file. Callers surface this as a warning, not a failure.
func (r *Reader) PathMissing() bool { return r.missing }

func (r *Reader) open() bool {
	info, err := os.Stat(r.path)
	if err != nil || !info.Mode().IsRegular() {
		r.missing = true
		return false
	}

	switch signalfile.DetectFormat(r.path) {
	case signalfile.FormatCSV:
		file, err := os.Open(r.path)
		if err != nil {
			r.err = fmt.Errorf("failed to open signal file: %w", err)
			return false
		}
		r.file = file
		r.csv = csv.NewReader(file)
		r.csv.FieldsPerRecord = -1
		r.csv.TrimLeadingSpace = true

		// The first line is a column-header row.
		if _, err := r.csv.Read(); err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = fmt.Errorf("failed to read CSV header: %w", err)
			}
			return false
		}
		r.line = 1
	case signalfile.FormatBinary:
		store, err := signalfile.Open(r.path)
		if err != nil {
			r.err = err
			return false
		}
		r.store = store
	default:
		r.err = fmt.Errorf("%s: %w", r.path, signalfile.ErrUnsupportedFormat)
		return false
	}

	r.opened = true
	return true
}

func (r *Reader) scanCSV() bool {
	chunk := make([]signalfile.Sample, 0, r.chunkSize)
	for len(chunk) < r.chunkSize {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			r.err = fmt.Errorf("failed to read CSV row: %w", err)
			r.done = true
			return false
		}
		r.line++

		sample, err := signalfile.ParseRecord(record, r.line)
		if err != nil {
			r.err = err
			r.done = true
			return false
		}
		chunk = append(chunk, sample)
	}

	if len(chunk) == 0 {
		return false
	}
	r.chunk = chunk
	return true
}

func (r *Reader) scanBinary() bool {
	chunk, err := r.store.ReadRange(r.offset, r.offset+int64(r.chunkSize))
	if err != nil {
		r.err = err
		r.done = true
		return false
	}
	if len(chunk) == 0 {
		r.done = true
		return false
	}

	r.offset += int64(len(chunk))
	if len(chunk) < r.chunkSize {
		r.done = true
	}
	r.chunk = chunk
	return true
}

// Close releases the underlying file. Safe to call at any point.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
