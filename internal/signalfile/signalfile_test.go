package signalfile

import (
	"errors"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"recording.csv", FormatCSV},
		{"recording.CSV", FormatCSV},
		{"recording.bin", FormatBinary},
		{"recording.dat", FormatBinary},
		{"recording.txt", FormatUnknown},
		{"recording", FormatUnknown},
	}
	for _, c := range cases {
		if got := DetectFormat(c.path); got != c.want {
			t.Errorf("DetectFormat(%q) = %s, expected %s", c.path, got, c.want)
		}
	}
}

func TestParseRecord(t *testing.T) {
	s, err := ParseRecord([]string{"123", "-456"}, 2)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if s.ADC1 != 123 || s.ADC2 != -456 {
		t.Fatalf("unexpected sample: %+v", s)
	}

	// Leading and trailing spaces around fields are tolerated.
	s, err = ParseRecord([]string{" 7", "8 "}, 3)
	if err != nil {
		t.Fatalf("ParseRecord with spaces failed: %v", err)
	}
	if s.ADC1 != 7 || s.ADC2 != 8 {
		t.Fatalf("unexpected sample: %+v", s)
	}
}

func TestParseRecordMalformed(t *testing.T) {
	var parseErr *ParseError

	_, err := ParseRecord([]string{"12", "abc"}, 5)
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 5 {
		t.Fatalf("expected line 5 in error, got %d", parseErr.Line)
	}

	_, err = ParseRecord([]string{"12"}, 1)
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for short record, got %v", err)
	}
}

func TestMissingMarker(t *testing.T) {
	if !IsMissing(Missing()) {
		t.Fatal("Missing() must be recognized by IsMissing")
	}
	if IsMissing(0) {
		t.Fatal("zero is a real sample value, not a missing marker")
	}
}
