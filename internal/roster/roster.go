// Package roster loads and indexes the resident/plot roster from a CSV
// flat file. The roster is read once at startup, normalized, and immutable
// afterwards.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/models"
	"github.com/mnair/societypay/internal/natsort"
)

// Column headers expected in the roster file, matching the sheet the
// society maintains. Header whitespace is trimmed before matching.
const (
	columnPlot     = "Plot No."
	columnLane     = "Lane No."
	columnName     = "Name"
	columnPastDues = "Past Dues"
)

// ErrNotFound indicates the roster file does not exist. This is fatal at
// startup: the portal cannot run without a roster.
var ErrNotFound = errors.New("roster file not found")

// SchemaError indicates a required roster column is missing.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster is missing required column %q", e.Column)
}

// Roster is the immutable in-memory roster: every valid row plus lookup
// indexes. Construct it with Load and pass it in explicitly; there is no
// package-level instance.
type Roster struct {
	residents []models.Resident
	byPlot    map[string]models.Resident
	lanes     []string
	plotsLane map[string][]string
}

// Load reads and normalizes the roster CSV at path.
//
// Normalization rules:
//   - header names are whitespace-trimmed
//   - rows with an empty lane value are dropped entirely
//   - a trailing ".0" spreadsheet artifact is stripped from lane ids
//   - past dues are parsed from free-form currency text; unparsable
//     values default to zero (dues display is informational, not
//     authoritative)
func Load(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a roster from r. Split out from Load so tests and the
// rostercheck tool can feed arbitrary readers.
func Parse(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Column: columnPlot}
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnPlot, columnLane, columnName} {
		if _, ok := cols[required]; !ok {
			return nil, &SchemaError{Column: required}
		}
	}
	duesIdx, hasDues := cols[columnPastDues]

	roster := &Roster{
		byPlot:    make(map[string]models.Resident),
		plotsLane: make(map[string][]string),
	}

	dropped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}

		lane := normalizeLane(field(row, cols[columnLane]))
		if lane == "" {
			dropped++
			continue
		}

		resident := models.Resident{
			LaneID: lane,
			PlotID: strings.TrimSpace(field(row, cols[columnPlot])),
			Name:   strings.TrimSpace(field(row, cols[columnName])),
		}
		if hasDues {
			resident.PastDues = parseDues(field(row, duesIdx))
		}

		roster.residents = append(roster.residents, resident)
		if _, exists := roster.byPlot[resident.PlotID]; !exists {
			roster.byPlot[resident.PlotID] = resident
		}
		roster.plotsLane[lane] = append(roster.plotsLane[lane], resident.PlotID)
	}

	if dropped > 0 {
		slog.Warn("Dropped roster rows with no lane", "count", dropped)
	}

	for lane := range roster.plotsLane {
		roster.lanes = append(roster.lanes, lane)
		natsort.Sort(roster.plotsLane[lane])
	}
	natsort.Sort(roster.lanes)

	return roster, nil
}

// Lanes returns all lane ids in natural order.
func (r *Roster) Lanes() []string {
	lanes := make([]string, len(r.lanes))
	copy(lanes, r.lanes)
	return lanes
}

// Plots returns the plot ids of one lane in natural order.
func (r *Roster) Plots(laneID string) []string {
	plots := r.plotsLane[laneID]
	out := make([]string, len(plots))
	copy(out, plots)
	return out
}

// Lookup finds the resident registered against a plot.
func (r *Roster) Lookup(plotID string) (models.Resident, bool) {
	resident, ok := r.byPlot[plotID]
	return resident, ok
}

// Len reports the number of loaded roster rows.
func (r *Roster) Len() int {
	return len(r.residents)
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func normalizeLane(raw string) string {
	lane := strings.TrimSpace(raw)
	// Spreadsheet exports render numeric lanes as "3.0".
	lane = strings.TrimSuffix(lane, ".0")
	return lane
}

// parseDues extracts a currency amount from free-form text such as
// "₹1,200" or " 1 500 ". Anything unparsable counts as zero.
func parseDues(raw string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '₹', ' ', '\t':
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return decimal.Zero
	}
	dues, err := decimal.NewFromString(cleaned)
	if err != nil || dues.IsNegative() {
		return decimal.Zero
	}
	return dues
}
