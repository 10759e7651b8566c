package core

import (
	"math"

	"github.com/sitepulse/sitepulse/schema"
)

// forecastTimeframe is the fixed horizon every projection covers.
const forecastTimeframe = "1 month"

// insufficientHistoryNote explains a degraded forecast. It never replaces the
// forecast itself; callers always get a usable projection.
const insufficientHistoryNote = "Not enough score history to project a trend; forecast holds the current score."

// calculateForecast projects the overall score one timeframe ahead from the
// trend velocity and the configured recommendation impact. Insufficient
// history degrades to the current score at neutral confidence with an
// explicit note rather than failing.
func calculateForecast(currentScore int, trend schema.Trend, issueCount int, recImpact float64) schema.Forecast {
	current := float64(currentScore)

	if !trend.HasEnoughData {
		return schema.Forecast{
			PredictedScore: current,
			Confidence:     0.5,
			Timeframe:      forecastTimeframe,
			BestCase:       math.Min(100, current*1.15),
			WorstCase:      math.Max(0, current*0.85),
			Note:           insufficientHistoryNote,
		}
	}

	predicted := clampRange(current+0.25*trend.Velocity+2*recImpact, 0, 100)
	confidence := clampRange(0.5+0.3*trend.Confidence-0.02*float64(issueCount), confidenceFloor, confidenceCeil)

	return schema.Forecast{
		PredictedScore: predicted,
		Confidence:     confidence,
		Timeframe:      forecastTimeframe,
		BestCase:       math.Min(100, predicted*1.15),
		WorstCase:      math.Max(0, predicted*0.85),
	}
}
