package schema

import "time"

// CategoryScore is one category's score plus the sub-factor
// contributions that produced it. Computed fresh per analysis run and
// never mutated after creation.
type CategoryScore struct {
	Category  Category                 `json:"category"`
	Value     float64                  `json:"value"`     // 0-100
	Breakdown map[BreakdownKey]float64 `json:"breakdown"` // Points contributed per sub-factor
}

// Issue is one detected problem on the measured page.
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation"`
	Impact      float64  `json:"impact"` // 0-100
}

// Trend describes the movement of a score series. Recomputed each run
// and never persisted independently of the Report that contains it.
// When HasEnoughData is false all numeric fields are zero valued and
// callers must treat the result as valid insufficient history, not as
// an error.
type Trend struct {
	WeeklyChange  float64        `json:"weeklyChange"`
	MonthlySlope  float64        `json:"monthlySlope"`
	Direction     TrendDirection `json:"direction"`
	Velocity      float64        `json:"velocity"`
	Acceleration  float64        `json:"acceleration"`
	Confidence    float64        `json:"confidence"` // 0.3-0.9 when data suffices
	HasEnoughData bool           `json:"hasEnoughData"`
}

// Recommendation is one prioritized improvement action.
type Recommendation struct {
	Category        Category `json:"category"`
	Priority        Priority `json:"priority"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	EstimatedImpact float64  `json:"estimatedImpact"` // Expected overall score gain
	EstimatedEffort Effort   `json:"estimatedEffort"`
	Steps           []string `json:"steps"`
}

// Forecast projects the overall score one timeframe ahead.
type Forecast struct {
	PredictedScore float64 `json:"predictedScore"`
	Confidence     float64 `json:"confidence"`
	Timeframe      string  `json:"timeframe"`
	BestCase       float64 `json:"bestCase"`
	WorstCase      float64 `json:"worstCase"`
	Note           string  `json:"note,omitempty"`
}

// Narrative holds the derived prose sections of a report.
type Narrative struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Insights      []string `json:"insights"` // At most three actionable insights
}

// CompetitorComparison positions the measured site against one
// competitor's overall score.
type CompetitorComparison struct {
	Name         string `json:"name"`
	OverallScore int    `json:"overallScore"`
	Gap          int    `json:"gap"` // Positive when the measured site leads
}

// Report is the aggregate document produced by one full pipeline run.
// Created once by the compiler, immutable thereafter, identified by
// (URL, PeriodStart) for idempotent lookup. A report never exists in a
// partially computed state; partial progress lives only on a Job.
type Report struct {
	ID              string                     `json:"id"`
	URL             string                     `json:"url"`
	Period          string                     `json:"period"` // YYYY-MM key the run covers
	PeriodStart     time.Time                  `json:"periodStart"`
	PeriodEnd       time.Time                  `json:"periodEnd"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
	OverallScore    int                        `json:"overallScore"`
	CategoryScores  map[Category]CategoryScore `json:"categoryScores"`
	Issues          []Issue                    `json:"issues"`
	Trend           Trend                      `json:"trend"`
	Recommendations []Recommendation           `json:"recommendations"`
	Forecast        Forecast                   `json:"forecast"`
	Narrative       Narrative                  `json:"narrative"`
	BenchmarkDelta  float64                    `json:"benchmarkDelta"` // Overall score minus the industry benchmark
	Competitors     []CompetitorComparison     `json:"competitors,omitempty"`
	Metadata        map[string]string          `json:"metadata,omitempty"`
}
