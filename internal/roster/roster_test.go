package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleCSV = ` Plot No. , Lane No. ,Name,Past Dues
A5,1,Asha Rao,"1,200"
A2,1,Vikram Shetty,0
B1,2.0,Meera Pillai,₹450
B10,2.0,Ravi Menon,
B2,2.0,Kiran Das,n/a
C1,,Orphan Row,100
`

func TestParse(t *testing.T) {
	r, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Run("row with missing lane is dropped", func(t *testing.T) {
		if r.Len() != 5 {
			t.Errorf("loaded %d rows, want 5", r.Len())
		}
		if _, ok := r.Lookup("C1"); ok {
			t.Error("plot C1 has no lane and should not be loadable")
		}
		for _, lane := range r.Lanes() {
			if lane == "" {
				t.Error("empty lane leaked into lane list")
			}
		}
	})

	t.Run("trailing .0 stripped from lanes", func(t *testing.T) {
		lanes := r.Lanes()
		if len(lanes) != 2 || lanes[0] != "1" || lanes[1] != "2" {
			t.Errorf("Lanes() = %v, want [1 2]", lanes)
		}
	})

	t.Run("plots filtered by lane in natural order", func(t *testing.T) {
		plots := r.Plots("2")
		want := []string{"B1", "B2", "B10"}
		if len(plots) != len(want) {
			t.Fatalf("Plots(2) = %v, want %v", plots, want)
		}
		for i := range want {
			if plots[i] != want[i] {
				t.Fatalf("Plots(2) = %v, want %v", plots, want)
			}
		}
	})

	t.Run("formatted past dues parsed", func(t *testing.T) {
		resident, ok := r.Lookup("A5")
		if !ok {
			t.Fatal("plot A5 not found")
		}
		if resident.Name != "Asha Rao" {
			t.Errorf("name = %q, want Asha Rao", resident.Name)
		}
		if !resident.PastDues.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("past dues = %s, want 1200", resident.PastDues)
		}
		if !resident.HasDues() {
			t.Error("A5 should be flagged as having dues")
		}
	})

	t.Run("currency symbol stripped", func(t *testing.T) {
		resident, _ := r.Lookup("B1")
		if !resident.PastDues.Equal(decimal.NewFromInt(450)) {
			t.Errorf("past dues = %s, want 450", resident.PastDues)
		}
	})

	t.Run("unparsable and empty dues default to zero", func(t *testing.T) {
		for _, plot := range []string{"B2", "B10"} {
			resident, _ := r.Lookup(plot)
			if !resident.PastDues.IsZero() {
				t.Errorf("plot %s dues = %s, want 0", plot, resident.PastDues)
			}
			if resident.HasDues() {
				t.Errorf("plot %s should not be flagged as overdue", plot)
			}
		}
	})
}

func TestParseMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantCol string
	}{
		{"no lane column", "Plot No.,Name\nA5,Asha Rao\n", "Lane No."},
		{"no plot column", "Lane No.,Name\n1,Asha Rao\n", "Plot No."},
		{"no name column", "Plot No.,Lane No.\nA5,1\n", "Name"},
		{"empty file", "", "Plot No."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.header))
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Parse() error = %v, want SchemaError", err)
			}
			if schemaErr.Column != tt.wantCol {
				t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, tt.wantCol)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "no-such-roster.csv"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("round trip through a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.csv")
		if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		r, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if r.Len() != 5 {
			t.Errorf("loaded %d rows, want 5", r.Len())
		}
	})
}
