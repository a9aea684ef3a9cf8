package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/yourusername/hr-predictor/internal/models"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var tableHeader = []string{
	"#", "TEAM", "SIDE", "BATTER", "PITCHER", "PROBABLE PITCHER", "CONFIRMED",
	"RECENT HR RATE", "BARREL RATE", "HR RATE ALLOWED", "SCORE",
}

func writeJSON(w io.Writer, table *models.MatchupTable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}

func writeTable(w io.Writer, table *models.MatchupTable) error {
	for _, warning := range table.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	if table.IsEmpty() {
		_, err := fmt.Fprintf(w, "No matchups for %s\n", models.FormatDate(table.Date))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, tableHeader)
	for i, row := range table.Rows {
		writeRow(tw, []string{
			strconv.Itoa(i + 1),
			row.Team,
			row.Side,
			row.BatterName,
			orDash(row.PitcherName),
			orDash(row.ProbablePitcherName),
			strconv.FormatBool(row.IsConfirmed),
			round2(row.RecentHRRate),
			round2(row.BarrelRate),
			round2(row.HRRateAllowed),
			round2(row.CompositeScore),
		})
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprint(w, "\n")
}

func round2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
