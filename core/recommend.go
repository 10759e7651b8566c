package core

import (
	"sort"

	"github.com/sitepulse/sitepulse/schema"
)

// maxRecommendations caps the ranked list carried by a report.
const maxRecommendations = 5

var priorityRank = map[schema.Priority]int{
	schema.HighPriority:   0,
	schema.MediumPriority: 1,
	schema.LowPriority:    2,
}

// generateRecommendations derives a prioritized action list from the issue
// scan, category scores and trend. Each rule fires at most once per category,
// the result is capped at five entries, and a deterministic fallback
// guarantees at least the on-page and technical entries so generation never
// fails a report.
func generateRecommendations(scores map[schema.Category]schema.CategoryScore, issues []schema.Issue, trend schema.Trend) []schema.Recommendation {
	byCategory := make(map[schema.Category]schema.Recommendation)

	add := func(rec schema.Recommendation) {
		if _, seen := byCategory[rec.Category]; !seen {
			byCategory[rec.Category] = rec
		}
	}

	// --- Performance rule ---
	if present, critical := hasPerformanceIssue(issues); present {
		priority := schema.MediumPriority
		if critical {
			priority = schema.HighPriority
		}
		add(schema.Recommendation{
			Category:        schema.UXCategory,
			Priority:        priority,
			Title:           "Optimize Core Web Vitals",
			Description:     "Page speed metrics fall outside the recommended thresholds and drag down both rankings and user experience.",
			EstimatedImpact: 12,
			EstimatedEffort: schema.MediumEffort,
			Steps: []string{
				"Compress and lazy-load below-the-fold images",
				"Preload the largest above-the-fold resource",
				"Defer non-critical scripts and split long tasks",
				"Reserve layout space for late-loading embeds",
			},
		})
	}

	// --- On-page rule ---
	if onPage, ok := scores[schema.OnPageCategory]; ok && onPage.Value < 70 {
		priority := schema.MediumPriority
		impact := 8.0
		if onPage.Value < 50 {
			priority = schema.HighPriority
			impact = 15
		}
		add(schema.Recommendation{
			Category:        schema.OnPageCategory,
			Priority:        priority,
			Title:           "Fix On-Page SEO Elements",
			Description:     "Core markup elements are missing or out of range, which limits how well the page can rank for its target terms.",
			EstimatedImpact: impact,
			EstimatedEffort: schema.LowEffort,
			Steps: []string{
				"Write a 30-60 character title that leads with the primary keyword",
				"Add a 120-160 character meta description",
				"Structure the page under exactly one H1 with supporting H2 and H3 headings",
				"Add alt text to every image",
			},
		})
	}

	// --- Content rule ---
	if content, ok := scores[schema.ContentCategory]; ok && content.Value < 60 {
		add(schema.Recommendation{
			Category:        schema.ContentCategory,
			Priority:        schema.MediumPriority,
			Title:           "Deepen Page Content",
			Description:     "The page content is thinner or harder to read than what ranks for competitive queries.",
			EstimatedImpact: 8,
			EstimatedEffort: schema.HighEffort,
			Steps: []string{
				"Expand the main copy past 800 words of substantive material",
				"Keep keyword density inside the 0.5%-2.5% band",
				"Shorten sentences to bring the reading grade level down",
				"Add supporting images or video with descriptive captions",
			},
		})
	}

	// --- Authority rule ---
	if authority, ok := scores[schema.AuthorityCategory]; ok && authority.Value < 50 {
		add(schema.Recommendation{
			Category:        schema.AuthorityCategory,
			Priority:        schema.MediumPriority,
			Title:           "Build Referring Domain Authority",
			Description:     "The backlink profile is weaker than the competition, which suppresses rankings across the whole site.",
			EstimatedImpact: 6,
			EstimatedEffort: schema.HighEffort,
			Steps: []string{
				"Pitch linkable assets to industry publications",
				"Reclaim unlinked brand mentions",
				"Disavow toxic links dragging the spam score up",
			},
		})
	}

	// --- Guaranteed fallback entries ---
	// A report always carries on-page and technical actions even when no
	// threshold tripped. A slipping trend raises the technical entry.
	if _, ok := byCategory[schema.OnPageCategory]; !ok {
		add(schema.Recommendation{
			Category:        schema.OnPageCategory,
			Priority:        schema.LowPriority,
			Title:           "Keep On-Page Elements Current",
			Description:     "On-page markup is healthy; periodic review keeps titles and descriptions aligned with search demand.",
			EstimatedImpact: 3,
			EstimatedEffort: schema.LowEffort,
			Steps: []string{
				"Re-check title and description length each quarter",
				"Refresh headings when page focus shifts",
			},
		})
	}
	if _, ok := byCategory[schema.TechnicalCategory]; !ok {
		priority := schema.LowPriority
		if trend.HasEnoughData && trend.Velocity < 0 {
			priority = schema.MediumPriority
		}
		add(schema.Recommendation{
			Category:        schema.TechnicalCategory,
			Priority:        priority,
			Title:           "Monitor Technical Health",
			Description:     "Crawlability and rendering are in good shape; automated monitoring catches regressions before they cost rankings.",
			EstimatedImpact: 4,
			EstimatedEffort: schema.LowEffort,
			Steps: []string{
				"Track Lighthouse scores on every deploy",
				"Alert on HTTPS, canonical and viewport regressions",
			},
		})
	}

	recommendations := make([]schema.Recommendation, 0, len(byCategory))
	for _, rec := range byCategory {
		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if priorityRank[recommendations[i].Priority] != priorityRank[recommendations[j].Priority] {
			return priorityRank[recommendations[i].Priority] < priorityRank[recommendations[j].Priority]
		}
		if recommendations[i].EstimatedImpact != recommendations[j].EstimatedImpact {
			return recommendations[i].EstimatedImpact > recommendations[j].EstimatedImpact
		}
		return recommendations[i].Category < recommendations[j].Category
	})

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// totalEstimatedImpact sums the expected score gain across recommendations.
func totalEstimatedImpact(recommendations []schema.Recommendation) float64 {
	var total float64
	for _, rec := range recommendations {
		total += rec.EstimatedImpact
	}
	return total
}
