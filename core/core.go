// Package core has core logic for scoring, trend analysis and report compilation.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// ProgressFunc receives pipeline completion percentages as stages finish.
type ProgressFunc func(pct int)

// ExecuteReport is the one-shot entry point used by direct callers. An
// already-compiled report for the (url, period) key is returned as-is; the
// second result reports whether that reuse happened.
func ExecuteReport(ctx context.Context, cfg *contract.Config, collector contract.MetricCollector, mgr contract.StoreManager) (*schema.Report, bool, error) {
	existing, err := mgr.GetReportStore().GetReport(ctx, cfg.URL, cfg.Period)
	if err != nil && !errors.Is(err, contract.ErrNotFound) {
		return nil, false, fmt.Errorf("check existing report: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	report, err := RunReportPipeline(ctx, cfg, collector, mgr, nil)
	if err != nil {
		return nil, false, err
	}
	return report, false, nil
}

// RunReportPipeline executes one full report generation: collect, score,
// trend, recommend, forecast, compile, persist. Stages run strictly in that
// order. The progress callback may be nil; when set it receives monotonic
// completion percentages as stages finish.
func RunReportPipeline(ctx context.Context, cfg *contract.Config, collector contract.MetricCollector, mgr contract.StoreManager, progress ProgressFunc) (*schema.Report, error) {
	step := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	// --- 1. Collect ---
	// The only blocking stage. Bounded by the collector timeout so a stuck
	// provider fails this run, never the caller.
	collectCtx, cancel := context.WithTimeout(ctx, cfg.CollectorTimeout)
	defer cancel()

	measurement, err := collector.FetchMeasurement(collectCtx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("collect measurement for %s: %w", cfg.URL, err)
	}
	step(25)

	// --- 2. History ---
	// Absent or unreadable history degrades trend analysis, it does not
	// fail the run.
	history, err := mgr.GetHistoryStore().GetHistory(ctx, cfg.URL, cfg.HistoryPoints)
	if err != nil {
		scope := "fetching score history"
		if jobID := JobIDFromContext(ctx); jobID != "" {
			scope = fmt.Sprintf("fetching score history (job %s)", jobID)
		}
		contract.LogWarn(scope, err)
		history = nil
	}
	step(40)

	// --- 3. Analyze ---
	builder := NewReportBuilder(cfg, measurement, history, time.Now().UTC())
	builder.ComputeScores()
	step(60)
	builder.AnalyzeTrend().GenerateRecommendations().CalculateForecast()
	step(80)
	report := builder.Build()

	// --- 4. Persist ---
	if err := mgr.GetReportStore().PutReport(ctx, report); err != nil {
		return nil, fmt.Errorf("store report for %s: %w", cfg.URL, err)
	}
	if err := mgr.GetHistoryStore().AppendPoint(ctx, cfg.URL, newHistoryPoint(report, measurement, history)); err != nil {
		// The report itself is already durable at this point.
		contract.LogWarn("appending history point", err)
	}
	step(100)

	return report, nil
}

// newHistoryPoint derives the series entry for a finished run. FixCount is
// the number of issues that disappeared since the previous point.
func newHistoryPoint(report *schema.Report, m *schema.RawMeasurement, history []schema.HistoricalPoint) schema.HistoricalPoint {
	fixCount := 0
	if len(history) > 0 {
		if prev := history[len(history)-1].IssueCount; prev > len(report.Issues) {
			fixCount = prev - len(report.Issues)
		}
	}
	return schema.HistoricalPoint{
		Date:            report.PeriodStart,
		OverallScore:    float64(report.OverallScore),
		IssueCount:      len(report.Issues),
		FixCount:        fixCount,
		TrafficEstimate: m.TrafficEstimate,
	}
}
