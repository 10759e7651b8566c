package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/schema"
)

func scoresWith(onPage, technical, content, ux, authority float64) map[schema.Category]schema.CategoryScore {
	return map[schema.Category]schema.CategoryScore{
		schema.OnPageCategory:    {Category: schema.OnPageCategory, Value: onPage},
		schema.TechnicalCategory: {Category: schema.TechnicalCategory, Value: technical},
		schema.ContentCategory:   {Category: schema.ContentCategory, Value: content},
		schema.UXCategory:        {Category: schema.UXCategory, Value: ux},
		schema.AuthorityCategory: {Category: schema.AuthorityCategory, Value: authority},
	}
}

func recommendationTitles(recs []schema.Recommendation) []string {
	titles := make([]string, 0, len(recs))
	for _, rec := range recs {
		titles = append(titles, rec.Title)
	}
	return titles
}

// TestGenerateRecommendationsHealthySite ensures the guaranteed fallback
// entries appear when no threshold trips.
func TestGenerateRecommendationsHealthySite(t *testing.T) {
	recs := generateRecommendations(scoresWith(85, 80, 75, 70, 65), nil, schema.Trend{})

	require.Len(t, recs, 2)
	titles := recommendationTitles(recs)
	assert.Contains(t, titles, "Keep On-Page Elements Current")
	assert.Contains(t, titles, "Monitor Technical Health")
	for _, rec := range recs {
		assert.Equal(t, schema.LowPriority, rec.Priority)
		assert.NotEmpty(t, rec.Steps)
	}
}

// TestGenerateRecommendationsThresholds validates the per-category rules and
// their priority escalation.
func TestGenerateRecommendationsThresholds(t *testing.T) {
	t.Run("weak on-page escalates below fifty", func(t *testing.T) {
		recs := generateRecommendations(scoresWith(65, 80, 75, 70, 65), nil, schema.Trend{})
		rec := findByCategory(t, recs, schema.OnPageCategory)
		assert.Equal(t, "Fix On-Page SEO Elements", rec.Title)
		assert.Equal(t, schema.MediumPriority, rec.Priority)
		assert.InDelta(t, 8, rec.EstimatedImpact, 0.001)

		recs = generateRecommendations(scoresWith(45, 80, 75, 70, 65), nil, schema.Trend{})
		rec = findByCategory(t, recs, schema.OnPageCategory)
		assert.Equal(t, schema.HighPriority, rec.Priority)
		assert.InDelta(t, 15, rec.EstimatedImpact, 0.001)
	})

	t.Run("thin content", func(t *testing.T) {
		recs := generateRecommendations(scoresWith(85, 80, 55, 70, 65), nil, schema.Trend{})
		rec := findByCategory(t, recs, schema.ContentCategory)
		assert.Equal(t, "Deepen Page Content", rec.Title)
		assert.Equal(t, schema.MediumPriority, rec.Priority)
	})

	t.Run("weak authority", func(t *testing.T) {
		recs := generateRecommendations(scoresWith(85, 80, 75, 70, 40), nil, schema.Trend{})
		rec := findByCategory(t, recs, schema.AuthorityCategory)
		assert.Equal(t, "Build Referring Domain Authority", rec.Title)
		assert.Equal(t, schema.MediumPriority, rec.Priority)
	})

	t.Run("performance issue priority follows severity", func(t *testing.T) {
		warning := []schema.Issue{{Type: issueSlowLCP, Severity: schema.WarningSeverity}}
		recs := generateRecommendations(scoresWith(85, 80, 75, 70, 65), warning, schema.Trend{})
		rec := findByCategory(t, recs, schema.UXCategory)
		assert.Equal(t, "Optimize Core Web Vitals", rec.Title)
		assert.Equal(t, schema.MediumPriority, rec.Priority)

		critical := []schema.Issue{{Type: issueSlowLCP, Severity: schema.CriticalSeverity}}
		recs = generateRecommendations(scoresWith(85, 80, 75, 70, 65), critical, schema.Trend{})
		rec = findByCategory(t, recs, schema.UXCategory)
		assert.Equal(t, schema.HighPriority, rec.Priority)
	})
}

// TestGenerateRecommendationsCapAndOrder ensures the list caps at five and
// sorts by priority then impact.
func TestGenerateRecommendationsCapAndOrder(t *testing.T) {
	issues := []schema.Issue{{Type: issueSlowLCP, Severity: schema.CriticalSeverity}}
	recs := generateRecommendations(scoresWith(45, 80, 50, 30, 40), issues, schema.Trend{})

	require.Len(t, recs, maxRecommendations)

	// High before medium before low, higher impact first inside a band
	assert.Equal(t, schema.OnPageCategory, recs[0].Category)
	assert.Equal(t, schema.UXCategory, recs[1].Category)
	assert.Equal(t, schema.ContentCategory, recs[2].Category)
	assert.Equal(t, schema.AuthorityCategory, recs[3].Category)
	assert.Equal(t, schema.TechnicalCategory, recs[4].Category)

	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, priorityRank[recs[i-1].Priority], priorityRank[recs[i].Priority])
	}

	// One recommendation per category
	seen := map[schema.Category]bool{}
	for _, rec := range recs {
		assert.False(t, seen[rec.Category], "category %s appeared twice", rec.Category)
		seen[rec.Category] = true
	}
}

// TestGenerateRecommendationsDecliningTrend ensures a slipping score raises
// the monitoring entry.
func TestGenerateRecommendationsDecliningTrend(t *testing.T) {
	declining := schema.Trend{HasEnoughData: true, Velocity: -8}
	recs := generateRecommendations(scoresWith(85, 80, 75, 70, 65), nil, declining)
	rec := findByCategory(t, recs, schema.TechnicalCategory)
	assert.Equal(t, schema.MediumPriority, rec.Priority)

	flat := schema.Trend{HasEnoughData: true, Velocity: 2}
	recs = generateRecommendations(scoresWith(85, 80, 75, 70, 65), nil, flat)
	rec = findByCategory(t, recs, schema.TechnicalCategory)
	assert.Equal(t, schema.LowPriority, rec.Priority)
}

// TestTotalEstimatedImpact validates the impact sum.
func TestTotalEstimatedImpact(t *testing.T) {
	assert.Zero(t, totalEstimatedImpact(nil))

	recs := []schema.Recommendation{
		{EstimatedImpact: 12},
		{EstimatedImpact: 8},
		{EstimatedImpact: 3.5},
	}
	assert.InDelta(t, 23.5, totalEstimatedImpact(recs), 0.001)
}

func findByCategory(t *testing.T, recs []schema.Recommendation, category schema.Category) schema.Recommendation {
	t.Helper()
	for _, rec := range recs {
		if rec.Category == category {
			return rec
		}
	}
	t.Fatalf("no recommendation for category %s", category)
	return schema.Recommendation{}
}
