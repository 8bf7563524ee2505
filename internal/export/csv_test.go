package export

import (
	"bytes"
	"testing"

	"bip-connector/internal/bip"
)

func TestWriteCSV(t *testing.T) {
	res := &bip.QueryResult{
		Columns: []string{"A", "B"},
		Rows: []map[string]string{
			{"A": "1", "B": "two, three"},
			{"A": "3"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "A,B\n1,\"two, three\"\n3,\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &bip.QueryResult{Columns: []string{}, Rows: nil}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.String() != "\n" {
		t.Fatalf("empty result should emit just the empty header line, got %q", buf.String())
	}
}
