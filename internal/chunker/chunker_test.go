package chunker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"sigview/internal/signalfile"
)

func writeCSV(t *testing.T, rows [][2]int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signal.csv")
	content := "adc1,adc2\n"
	for _, row := range rows {
		content += fmt.Sprintf("%d,%d\n", row[0], row[1])
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	return path
}

func writeBinary(t *testing.T, rows int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signal.bin")
	store, err := signalfile.Create(path, rows)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := int64(0); i < rows; i++ {
		if err := store.WriteRow(i, signalfile.Sample{ADC1: float64(i), ADC2: float64(i)}); err != nil {
			t.Fatalf("WriteRow failed: %v", err)
		}
	}
	store.Close()
	return path
}

func TestCSVChunking(t *testing.T) {
	// Header + 3 data rows, chunk size 2: a full chunk then a short one.
	path := writeCSV(t, [][2]int{{1, 2}, {3, 4}, {5, 6}})

	r := New(path, 2)
	defer r.Close()

	if !r.Scan() {
		t.Fatalf("expected first chunk, err=%v", r.Err())
	}
	first := r.Chunk()
	if len(first) != 2 || first[0].ADC1 != 1 || first[1].ADC1 != 3 {
		t.Fatalf("unexpected first chunk: %+v", first)
	}

	if !r.Scan() {
		t.Fatalf("expected second chunk, err=%v", r.Err())
	}
	second := r.Chunk()
	if len(second) != 1 || second[0].ADC1 != 5 || second[0].ADC2 != 6 {
		t.Fatalf("unexpected second chunk: %+v", second)
	}

	if r.Scan() {
		t.Fatal("expected sequence to be exhausted")
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestCSVHeaderOnlyProducesNoChunks(t *testing.T) {
	path := writeCSV(t, nil)

	r := New(path, 4)
	defer r.Close()

	if r.Scan() {
		t.Fatal("expected no chunks for header-only file")
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if r.PathMissing() {
		t.Fatal("existing file must not be reported missing")
	}
}

func TestCSVMalformedField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.csv")
	if err := os.WriteFile(path, []byte("adc1,adc2\n1,2\nx,4\n"), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	r := New(path, 10)
	defer r.Close()

	if r.Scan() {
		t.Fatal("expected scan to fail on malformed row")
	}
	var parseErr *signalfile.ParseError
	if !errors.As(r.Err(), &parseErr) {
		t.Fatalf("expected ParseError, got %v", r.Err())
	}
}

func TestBinaryChunkConcatenation(t *testing.T) {
	// Total length must equal the file length and only the last chunk may
	// be short, for any chunk size.
	const rows = 10
	path := writeBinary(t, rows)

	for _, chunkSize := range []int{1, 3, 4, 10, 16} {
		r := New(path, chunkSize)

		var total int
		var lengths []int
		for r.Scan() {
			lengths = append(lengths, len(r.Chunk()))
			total += len(r.Chunk())
		}
		r.Close()

		if err := r.Err(); err != nil {
			t.Fatalf("chunkSize=%d: unexpected error: %v", chunkSize, err)
		}
		if total != rows {
			t.Fatalf("chunkSize=%d: expected %d total samples, got %d", chunkSize, rows, total)
		}
		for i, l := range lengths {
			if l == 0 {
				t.Fatalf("chunkSize=%d: empty chunk at index %d", chunkSize, i)
			}
			if i < len(lengths)-1 && l != chunkSize {
				t.Fatalf("chunkSize=%d: non-final chunk %d has length %d", chunkSize, i, l)
			}
		}
	}
}

func TestMissingPathIsSoftFailure(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "nope.csv"), 4)
	defer r.Close()

	if r.Scan() {
		t.Fatal("expected no chunks for missing path")
	}
	if !r.PathMissing() {
		t.Fatal("expected PathMissing to be set")
	}
	if r.Err() != nil {
		t.Fatalf("missing path must not raise, got %v", r.Err())
	}
}

func TestUnsupportedSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.txt")
	if err := os.WriteFile(path, []byte("whatever"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	r := New(path, 4)
	defer r.Close()

	if r.Scan() {
		t.Fatal("expected no chunks for unsupported suffix")
	}
	if !errors.Is(r.Err(), signalfile.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", r.Err())
	}
}
