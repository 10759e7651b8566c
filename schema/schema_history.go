package schema

import "time"

// HistoricalPoint is one entry in the append-only score series kept
// per tracked URL. Trend analysis only reads this series.
type HistoricalPoint struct {
	Date            time.Time `json:"date"`
	OverallScore    float64   `json:"overallScore"`
	IssueCount      int       `json:"issueCount"`
	FixCount        int       `json:"fixCount"`
	TrafficEstimate int       `json:"trafficEstimate"`
}
