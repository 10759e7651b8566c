package core

import (
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// ReportBuilder runs the analysis stages over one measurement and assembles
// the report. Stages chain in a fixed order: scores, trend, recommendations,
// forecast, then Build compiles the document. The builder itself performs no
// I/O; the caller supplies the measurement and history up front.
type ReportBuilder struct {
	cfg         *contract.Config
	measurement *schema.RawMeasurement
	history     []schema.HistoricalPoint
	generatedAt time.Time

	scores          map[schema.Category]schema.CategoryScore
	overall         int
	issues          []schema.Issue
	trend           schema.Trend
	recommendations []schema.Recommendation
	forecast        schema.Forecast
}

// NewReportBuilder is the starting point for building a report.
func NewReportBuilder(cfg *contract.Config, m *schema.RawMeasurement, history []schema.HistoricalPoint, generatedAt time.Time) *ReportBuilder {
	return &ReportBuilder{
		cfg:         cfg,
		measurement: m,
		history:     history,
		generatedAt: generatedAt,
	}
}

// ComputeScores runs the five scoring sub-models and the issue scan.
func (b *ReportBuilder) ComputeScores() *ReportBuilder {
	b.scores = computeCategoryScores(b.measurement, b.cfg.Defaults)
	b.overall = computeOverallScore(b.scores, b.cfg.Weights)
	b.issues = scanIssues(b.measurement)
	return b
}

// AnalyzeTrend derives score movement from the history plus the fresh score.
func (b *ReportBuilder) AnalyzeTrend() *ReportBuilder {
	b.trend = analyzeTrend(b.history, float64(b.overall))
	return b
}

// GenerateRecommendations derives the prioritized action list.
func (b *ReportBuilder) GenerateRecommendations() *ReportBuilder {
	b.recommendations = generateRecommendations(b.scores, b.issues, b.trend)
	return b
}

// CalculateForecast projects the score one timeframe ahead.
func (b *ReportBuilder) CalculateForecast() *ReportBuilder {
	b.forecast = calculateForecast(b.overall, b.trend, len(b.issues), b.cfg.RecommendationImpact)
	return b
}

// Build compiles the stage outputs into the final immutable report.
func (b *ReportBuilder) Build() *schema.Report {
	return compileReport(b.cfg, compileInputs{
		Measurement:     b.measurement,
		Scores:          b.scores,
		Overall:         b.overall,
		Issues:          b.issues,
		Trend:           b.trend,
		Recommendations: b.recommendations,
		Forecast:        b.forecast,
		GeneratedAt:     b.generatedAt,
	})
}
