package core

import (
	"github.com/sitepulse/sitepulse/schema"
)

const (
	// trendWindow bounds the slope and variance math to the most recent points.
	trendWindow = 4

	// stableBandPct is the week-over-week percent change below which the
	// series counts as stable.
	stableBandPct = 5.0

	confidenceFloor = 0.3
	confidenceCeil  = 0.9
)

// analyzeTrend derives the movement of a score series from the stored history
// plus the just-computed current score. Fewer than two points in the combined
// series yields HasEnoughData false with zero-valued fields, which callers
// treat as valid insufficient history.
func analyzeTrend(history []schema.HistoricalPoint, current float64) schema.Trend {
	scores := make([]float64, 0, len(history)+1)
	for _, point := range history {
		scores = append(scores, point.OverallScore)
	}
	scores = append(scores, current)
	return analyzeScoreSeries(scores)
}

// analyzeScoreSeries runs the trend math over an ordered series, oldest first.
func analyzeScoreSeries(scores []float64) schema.Trend {
	n := len(scores)
	if n < 2 {
		return schema.Trend{Direction: schema.StableTrend, HasEnoughData: false}
	}

	current := scores[n-1]
	previous := scores[n-2]
	weeklyChange := current - previous

	window := scores
	if n > trendWindow {
		window = scores[n-trendWindow:]
	}

	// Percent change against the previous point decides the direction; a
	// previous score of zero counts any gain as a full swing.
	pctChange := 100.0
	if previous != 0 {
		pctChange = weeklyChange / previous * 100
	} else if current == 0 {
		pctChange = 0
	}

	direction := schema.StableTrend
	switch {
	case pctChange >= stableBandPct:
		direction = schema.IncreasingTrend
	case pctChange <= -stableBandPct:
		direction = schema.DecreasingTrend
	}

	// Acceleration compares the last two weekly changes, halved. It needs a
	// third point to exist.
	var acceleration float64
	if n >= 3 {
		acceleration = (weeklyChange - (previous - scores[n-3])) / 2
	}

	// Low variance in the recent window means a steadier series and a higher
	// confidence. Fewer than four points cap confidence at the floor.
	confidence := confidenceFloor
	if n >= trendWindow {
		confidence = clampRange((1-variance(window)/100)*0.8, confidenceFloor, confidenceCeil)
	}

	return schema.Trend{
		WeeklyChange:  weeklyChange,
		MonthlySlope:  olsSlope(window),
		Direction:     direction,
		Velocity:      weeklyChange * 4,
		Acceleration:  acceleration,
		Confidence:    confidence,
		HasEnoughData: true,
	}
}

// olsSlope computes the ordinary least-squares slope of values against their
// index using the closed form (nΣxy - ΣxΣy) / (nΣx² - (Σx)²).
func olsSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// variance computes the population variance of a series.
func variance(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var diffSum float64
	for _, v := range values {
		diffSum += (v - mean) * (v - mean)
	}
	return diffSum / float64(n)
}
