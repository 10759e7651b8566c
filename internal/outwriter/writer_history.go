package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// historyCSVHeader is the column layout for the score series form.
var historyCSVHeader = []string{
	"date",
	"overall_score",
	"label",
	"issue_count",
	"fix_count",
	"traffic_estimate",
}

// writeJSONHistory marshals the score series to JSON and writes it.
func writeJSONHistory(w io.Writer, url string, points []schema.HistoricalPoint) error {
	// Wrap the series with its URL so the document is self describing
	type JSONHistory struct {
		URL    string                   `json:"url"`
		Points []schema.HistoricalPoint `json:"points"`
	}

	output := JSONHistory{
		URL:    url,
		Points: points,
	}
	return writeJSON(w, output)
}

// writeCSVHistoryRows writes the score series data to a CSV writer.
func writeCSVHistoryRows(w *csv.Writer, points []schema.HistoricalPoint, fmtFloat func(float64) string, intFmt string) error {
	for _, point := range points {
		row := []string{
			point.Date.Format(contract.DateTimeFormat),
			fmtFloat(point.OverallScore),
			contract.GetPlainLabel(point.OverallScore),
			fmt.Sprintf(intFmt, point.IssueCount),
			fmt.Sprintf(intFmt, point.FixCount),
			fmt.Sprintf(intFmt, point.TrafficEstimate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
