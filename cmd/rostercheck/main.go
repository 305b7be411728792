// Command rostercheck vets a roster CSV before it is deployed: it reports
// how many rows loaded, which lanes and plots they map to, and which
// residents carry past dues. Run it whenever the society hands over a new
// data.csv.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mnair/societypay/internal/config"
	"github.com/mnair/societypay/internal/roster"
	"github.com/mnair/societypay/pkg/logging"
)

func main() {
	var (
		path    = flag.String("roster", "", "Path to the roster CSV (overrides ROSTER_PATH)")
		verbose = flag.Bool("verbose", false, "List every plot instead of per-lane counts")
	)
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	rosterPath := cfg.Portal.RosterPath
	if *path != "" {
		rosterPath = *path
	}

	r, err := roster.Load(rosterPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roster check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("roster: %s\n", rosterPath)
	fmt.Printf("rows loaded: %d\n", r.Len())
	fmt.Printf("lanes: %d\n", len(r.Lanes()))

	overdue := 0
	for _, lane := range r.Lanes() {
		plots := r.Plots(lane)
		fmt.Printf("  lane %-6s %d plots\n", lane, len(plots))
		for _, plot := range plots {
			resident, ok := r.Lookup(plot)
			if !ok {
				continue
			}
			if resident.HasDues() {
				overdue++
			}
			if *verbose {
				dues := "-"
				if resident.HasDues() {
					dues = resident.PastDues.String()
				}
				fmt.Printf("    %-8s %-24s dues: %s\n", plot, resident.Name, dues)
			}
		}
	}
	fmt.Printf("plots with past dues: %d\n", overdue)
}
