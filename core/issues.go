package core

import (
	"fmt"
	"sort"

	"github.com/sitepulse/sitepulse/schema"
)

// Issue types emitted by the rule scan.
const (
	issueMissingTitle     = "missing-title"
	issueTitleLength      = "title-length"
	issueMissingDesc      = "missing-description"
	issueDescLength       = "description-length"
	issueMissingH1        = "missing-h1"
	issueMultipleH1       = "multiple-h1"
	issueImagesWithoutAlt = "images-without-alt"
	issueNoHTTPS          = "no-https"
	issueMissingViewport  = "missing-viewport"
	issueMissingCanonical = "missing-canonical"
	issuePoorPerformance  = "poor-performance-score"
	issueSlowLCP          = "slow-lcp"
	issueHighFID          = "high-fid"
	issueHighCLS          = "high-cls"
	issueThinContent      = "thin-content"
	issueLowAccessibility = "low-accessibility"
	issueHighSpamScore    = "high-spam-score"
)

// performanceIssueTypes marks the issue types that count as performance
// problems for recommendation purposes.
var performanceIssueTypes = map[string]bool{
	issuePoorPerformance: true,
	issueSlowLCP:         true,
	issueHighFID:         true,
	issueHighCLS:         true,
}

var severityRank = map[schema.Severity]int{
	schema.CriticalSeverity: 0,
	schema.WarningSeverity:  1,
	schema.InfoSeverity:     2,
}

// scanIssues walks one measurement against the known failure patterns and
// emits one Issue per match with a fixed severity and impact. Rules only fire
// on observed facts; an absent provider section produces no issues for its
// patterns. The result is ranked by severity, then impact, then type.
func scanIssues(m *schema.RawMeasurement) []schema.Issue {
	var issues []schema.Issue

	page := m.Page

	// --- Markup patterns ---
	switch length := len(page.Title); {
	case length == 0:
		issues = append(issues, schema.Issue{
			Type:        issueMissingTitle,
			Severity:    schema.CriticalSeverity,
			Message:     "Page has no title tag",
			Remediation: "Add a descriptive title tag of 30-60 characters",
			Impact:      15,
		})
	case length < titleMinLen || length > titleMaxLen:
		issues = append(issues, schema.Issue{
			Type:        issueTitleLength,
			Severity:    schema.WarningSeverity,
			Message:     fmt.Sprintf("Title tag is %d characters", length),
			Remediation: "Keep the title between 30 and 60 characters",
			Impact:      8,
		})
	}

	switch length := len(page.Description); {
	case length == 0:
		issues = append(issues, schema.Issue{
			Type:        issueMissingDesc,
			Severity:    schema.WarningSeverity,
			Message:     "Page has no meta description",
			Remediation: "Add a meta description of 120-160 characters",
			Impact:      10,
		})
	case length < descMinLen || length > descMaxLen:
		issues = append(issues, schema.Issue{
			Type:        issueDescLength,
			Severity:    schema.InfoSeverity,
			Message:     fmt.Sprintf("Meta description is %d characters", length),
			Remediation: "Keep the meta description between 120 and 160 characters",
			Impact:      4,
		})
	}

	switch {
	case page.H1Count == 0:
		issues = append(issues, schema.Issue{
			Type:        issueMissingH1,
			Severity:    schema.CriticalSeverity,
			Message:     "Page has no H1 heading",
			Remediation: "Add exactly one H1 heading that states the page topic",
			Impact:      12,
		})
	case page.H1Count > 1:
		issues = append(issues, schema.Issue{
			Type:        issueMultipleH1,
			Severity:    schema.WarningSeverity,
			Message:     fmt.Sprintf("Page has %d H1 headings", page.H1Count),
			Remediation: "Use a single H1 and demote the rest to H2",
			Impact:      8,
		})
	}

	if missing := page.ImageCount - page.ImagesWithAlt; missing > 0 {
		issues = append(issues, schema.Issue{
			Type:        issueImagesWithoutAlt,
			Severity:    schema.WarningSeverity,
			Message:     fmt.Sprintf("%d of %d images missing alt text", missing, page.ImageCount),
			Remediation: "Add alt text to all images",
			Impact:      10,
		})
	}

	if !page.HasHTTPS {
		issues = append(issues, schema.Issue{
			Type:        issueNoHTTPS,
			Severity:    schema.CriticalSeverity,
			Message:     "Page is not served over HTTPS",
			Remediation: "Install a TLS certificate and redirect HTTP traffic",
			Impact:      15,
		})
	}
	if !page.HasViewport {
		issues = append(issues, schema.Issue{
			Type:        issueMissingViewport,
			Severity:    schema.WarningSeverity,
			Message:     "Page has no responsive viewport meta tag",
			Remediation: "Add a viewport meta tag with width=device-width",
			Impact:      8,
		})
	}
	if !page.HasCanonical {
		issues = append(issues, schema.Issue{
			Type:        issueMissingCanonical,
			Severity:    schema.InfoSeverity,
			Message:     "Page has no canonical link tag",
			Remediation: "Add a canonical link to consolidate duplicate URLs",
			Impact:      5,
		})
	}

	if page.WordCount < 300 {
		issues = append(issues, schema.Issue{
			Type:        issueThinContent,
			Severity:    schema.WarningSeverity,
			Message:     fmt.Sprintf("Page has only %d words", page.WordCount),
			Remediation: "Expand the page to at least 300 words of substantive content",
			Impact:      10,
		})
	}

	// --- Lighthouse patterns ---
	if lh := m.Lighthouse; lh != nil {
		if lh.Performance < 50 {
			issues = append(issues, schema.Issue{
				Type:        issuePoorPerformance,
				Severity:    schema.WarningSeverity,
				Message:     fmt.Sprintf("Lighthouse performance score is %.0f", lh.Performance),
				Remediation: "Reduce page weight and server response time",
				Impact:      10,
			})
		}
		if lh.Accessibility < 60 {
			issues = append(issues, schema.Issue{
				Type:        issueLowAccessibility,
				Severity:    schema.WarningSeverity,
				Message:     fmt.Sprintf("Lighthouse accessibility score is %.0f", lh.Accessibility),
				Remediation: "Fix contrast, labels and landmark structure",
				Impact:      8,
			})
		}
	}

	// --- Core Web Vitals patterns ---
	if v := m.Vitals; v != nil {
		switch {
		case v.LCPMs > 4000:
			issues = append(issues, schema.Issue{
				Type:        issueSlowLCP,
				Severity:    schema.CriticalSeverity,
				Message:     fmt.Sprintf("Largest Contentful Paint is %.0fms", v.LCPMs),
				Remediation: "Optimize the largest above-the-fold element and preload critical assets",
				Impact:      15,
			})
		case v.LCPMs > 2500:
			issues = append(issues, schema.Issue{
				Type:        issueSlowLCP,
				Severity:    schema.WarningSeverity,
				Message:     fmt.Sprintf("Largest Contentful Paint is %.0fms", v.LCPMs),
				Remediation: "Optimize the largest above-the-fold element and preload critical assets",
				Impact:      10,
			})
		}
		if v.FIDMs > 300 {
			issues = append(issues, schema.Issue{
				Type:        issueHighFID,
				Severity:    schema.WarningSeverity,
				Message:     fmt.Sprintf("First Input Delay is %.0fms", v.FIDMs),
				Remediation: "Break up long main-thread tasks and defer non-critical scripts",
				Impact:      8,
			})
		}
		switch {
		case v.CLS > 0.25:
			issues = append(issues, schema.Issue{
				Type:        issueHighCLS,
				Severity:    schema.CriticalSeverity,
				Message:     fmt.Sprintf("Cumulative Layout Shift is %.2f", v.CLS),
				Remediation: "Reserve space for images, ads and embeds before they load",
				Impact:      10,
			})
		case v.CLS > 0.1:
			issues = append(issues, schema.Issue{
				Type:        issueHighCLS,
				Severity:    schema.WarningSeverity,
				Message:     fmt.Sprintf("Cumulative Layout Shift is %.2f", v.CLS),
				Remediation: "Reserve space for images, ads and embeds before they load",
				Impact:      6,
			})
		}
	}

	// --- Backlink patterns ---
	if b := m.Backlinks; b != nil && b.SpamScore > 30 {
		issues = append(issues, schema.Issue{
			Type:        issueHighSpamScore,
			Severity:    schema.WarningSeverity,
			Message:     fmt.Sprintf("Spam score is %.0f", b.SpamScore),
			Remediation: "Disavow toxic backlinks and audit the link profile",
			Impact:      8,
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if severityRank[issues[i].Severity] != severityRank[issues[j].Severity] {
			return severityRank[issues[i].Severity] < severityRank[issues[j].Severity]
		}
		if issues[i].Impact != issues[j].Impact {
			return issues[i].Impact > issues[j].Impact
		}
		return issues[i].Type < issues[j].Type
	})

	return issues
}

// hasPerformanceIssue reports whether any issue in the list is a performance
// problem, and whether any of those is critical.
func hasPerformanceIssue(issues []schema.Issue) (present, critical bool) {
	for _, issue := range issues {
		if !performanceIssueTypes[issue.Type] {
			continue
		}
		present = true
		if issue.Severity == schema.CriticalSeverity {
			critical = true
		}
	}
	return present, critical
}
