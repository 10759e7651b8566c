package core

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// categoryLabels maps categories to the phrasing used in narrative sections.
var categoryLabels = map[schema.Category]string{
	schema.OnPageCategory:    "on-page optimization",
	schema.TechnicalCategory: "technical foundation",
	schema.ContentCategory:   "content quality",
	schema.UXCategory:        "user experience",
	schema.AuthorityCategory: "domain authority",
}

// compileInputs carries the outputs of the earlier pipeline stages into the
// compiler.
type compileInputs struct {
	Measurement     *schema.RawMeasurement
	Scores          map[schema.Category]schema.CategoryScore
	Overall         int
	Issues          []schema.Issue
	Trend           schema.Trend
	Recommendations []schema.Recommendation
	Forecast        schema.Forecast
	GeneratedAt     time.Time
}

// newReportID derives the report identity from its (url, periodStart) key.
// The same key always produces the same id, which keeps compilation
// idempotent at the data level.
func newReportID(url string, periodStart time.Time) string {
	key := url + "|" + periodStart.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// compileReport assembles one immutable report from the stage outputs, the
// industry benchmark and the competitor inputs. Pure aggregation: no I/O, and
// byte-identical inputs produce an identical report.
func compileReport(cfg *contract.Config, in compileInputs) *schema.Report {
	report := &schema.Report{
		ID:              newReportID(cfg.URL, cfg.PeriodStart),
		URL:             cfg.URL,
		Period:          cfg.Period,
		PeriodStart:     cfg.PeriodStart,
		PeriodEnd:       cfg.PeriodEnd,
		GeneratedAt:     in.GeneratedAt,
		OverallScore:    in.Overall,
		CategoryScores:  in.Scores,
		Issues:          in.Issues,
		Trend:           in.Trend,
		Recommendations: in.Recommendations,
		Forecast:        in.Forecast,
		Narrative:       buildNarrative(in),
		BenchmarkDelta:  float64(in.Overall) - cfg.IndustryBenchmark,
		Competitors:     compareCompetitors(in.Overall, cfg.Competitors),
		Metadata: map[string]string{
			"generator":  "sitepulse",
			"fetched_at": in.Measurement.FetchedAt.UTC().Format(time.RFC3339),
		},
	}
	return report
}

// buildNarrative derives the four SWOT lists and up to three actionable
// insights via threshold rules over the category scores and trend velocity.
// Categories walk in their fixed declaration order so the output is stable.
func buildNarrative(in compileInputs) schema.Narrative {
	narrative := schema.Narrative{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Opportunities: []string{},
		Threats:       []string{},
	}

	for _, category := range schema.AllCategories {
		score, ok := in.Scores[category]
		if !ok {
			continue
		}
		label := categoryLabels[category]
		switch {
		case score.Value >= 80:
			narrative.Strengths = append(narrative.Strengths,
				fmt.Sprintf("Strong %s (%.0f/100)", label, score.Value))
		case score.Value < 50:
			narrative.Weaknesses = append(narrative.Weaknesses,
				fmt.Sprintf("Weak %s (%.0f/100)", label, score.Value))
		default:
			narrative.Opportunities = append(narrative.Opportunities,
				fmt.Sprintf("Room to grow %s (%.0f/100)", label, score.Value))
		}
	}

	if in.Trend.HasEnoughData {
		switch {
		case in.Trend.Velocity > 5:
			narrative.Strengths = append(narrative.Strengths,
				fmt.Sprintf("Score climbing at %.1f points per month", in.Trend.Velocity))
		case in.Trend.Velocity < -5:
			narrative.Threats = append(narrative.Threats,
				fmt.Sprintf("Score dropping at %.1f points per month", -in.Trend.Velocity))
		}
	}

	criticalCount := 0
	for _, issue := range in.Issues {
		if issue.Severity == schema.CriticalSeverity {
			criticalCount++
		}
	}
	if criticalCount > 0 {
		narrative.Threats = append(narrative.Threats,
			fmt.Sprintf("%d critical issues harming rankings now", criticalCount))
	}

	quickWins := countQuickWins(in.Recommendations)
	if quickWins > 0 {
		narrative.Opportunities = append(narrative.Opportunities,
			fmt.Sprintf("%d low-effort fixes with immediate payoff", quickWins))
	}

	narrative.Insights = buildInsights(in, criticalCount, quickWins)
	return narrative
}

// buildInsights emits at most three insight strings in priority order.
func buildInsights(in compileInputs, criticalCount, quickWins int) []string {
	const maxInsights = 3

	insights := []string{}

	if quickWins > 0 {
		insights = append(insights,
			fmt.Sprintf("Start with the %d low-effort recommendations; they move the score fastest.", quickWins))
	}
	if criticalCount > 0 && len(insights) < maxInsights {
		insights = append(insights,
			fmt.Sprintf("Resolve the %d critical issues before cosmetic work; they cap every other gain.", criticalCount))
	}
	if divergence := in.Forecast.PredictedScore - float64(in.Overall); math.Abs(divergence) >= 5 && len(insights) < maxInsights {
		verb := "rise"
		if divergence < 0 {
			verb = "fall"
		}
		insights = append(insights,
			fmt.Sprintf("Current trajectory has the score on track to %s %.0f points next month.", verb, math.Abs(divergence)))
	}
	if total := totalEstimatedImpact(in.Recommendations); total > 30 && len(insights) < maxInsights {
		insights = append(insights,
			fmt.Sprintf("Completing every recommendation is worth roughly %.0f points combined.", total))
	}

	return insights
}

// countQuickWins counts recommendations that are low effort and at least
// medium priority.
func countQuickWins(recommendations []schema.Recommendation) int {
	count := 0
	for _, rec := range recommendations {
		if rec.EstimatedEffort == schema.LowEffort && rec.Priority != schema.LowPriority {
			count++
		}
	}
	return count
}

// compareCompetitors positions the measured score against each configured
// competitor, preserving configuration order.
func compareCompetitors(overall int, competitors []contract.CompetitorInput) []schema.CompetitorComparison {
	if len(competitors) == 0 {
		return nil
	}

	comparisons := make([]schema.CompetitorComparison, 0, len(competitors))
	for _, competitor := range competitors {
		comparisons = append(comparisons, schema.CompetitorComparison{
			Name:         competitor.Name,
			OverallScore: competitor.Score,
			Gap:          overall - competitor.Score,
		})
	}
	return comparisons
}
