package core

import (
	"math"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// Character bands for on-page text elements. Pages inside the band get the
// full allotment, pages outside get a reduced one.
const (
	titleMinLen = 30
	titleMaxLen = 60
	descMinLen  = 120
	descMaxLen  = 160
)

// maxCategoryPoints caps every category at 100 regardless of allotment drift.
const maxCategoryPoints = 100.0

// computeOnPageScore scores the markup facts of a page: title, meta
// description, heading structure, image alt coverage and internal links.
// Each factor has a capped allotment of 20 points.
func computeOnPageScore(page schema.PageFacts) schema.CategoryScore {
	breakdown := make(map[schema.BreakdownKey]float64)

	// --- Title (20) ---
	var title float64
	switch length := len(page.Title); {
	case length == 0:
		title = 0
	case length >= titleMinLen && length <= titleMaxLen:
		title = 20
	case length < titleMinLen:
		title = 10
	default:
		title = 14
	}
	breakdown[schema.BreakdownTitle] = title

	// --- Meta description (20) ---
	var desc float64
	switch length := len(page.Description); {
	case length == 0:
		desc = 0
	case length >= descMinLen && length <= descMaxLen:
		desc = 20
	default:
		desc = 10
	}
	breakdown[schema.BreakdownDescription] = desc

	// --- Heading structure (20) ---
	// Exactly one H1 is the contract; H2/H3 reward a real outline.
	var headings float64
	switch {
	case page.H1Count == 1:
		headings += 8
	case page.H1Count > 1:
		headings += 4
	}
	switch {
	case page.H2Count >= 2:
		headings += 6
	case page.H2Count == 1:
		headings += 3
	}
	switch {
	case page.H3Count >= 3:
		headings += 6
	case page.H3Count >= 1:
		headings += 3
	}
	breakdown[schema.BreakdownHeadings] = headings

	// --- Image alt coverage (20) ---
	// A page without images has nothing to fix, so it keeps the allotment.
	alt := 20.0
	if page.ImageCount > 0 {
		alt = 20.0 * float64(page.ImagesWithAlt) / float64(page.ImageCount)
	}
	breakdown[schema.BreakdownAltText] = alt

	// --- Internal links (20) ---
	var links float64
	switch {
	case page.InternalLinks >= 10:
		links = 20
	case page.InternalLinks >= 5:
		links = 15
	case page.InternalLinks >= 3:
		links = 10
	case page.InternalLinks >= 1:
		links = 5
	}
	breakdown[schema.BreakdownInternalLinks] = links

	return newCategoryScore(schema.OnPageCategory, breakdown)
}

// computeTechnicalScore combines lighthouse sub-scores under fixed relative
// weights with flat bonuses for HTTPS, a responsive viewport and a canonical
// tag. A missing lighthouse section falls back to the configured default for
// every sub-score rather than failing the run.
func computeTechnicalScore(m *schema.RawMeasurement, defaults contract.ProviderDefaults) schema.CategoryScore {
	const (
		wPerformance   = 0.35
		wAccessibility = 0.25
		wBestPractices = 0.15
		wSEO           = 0.25

		lighthouseShare = 0.85 // remaining 15 points come from markup bonuses
		markupBonus     = 5.0
	)

	perf := defaults.Lighthouse
	a11y := defaults.Lighthouse
	best := defaults.Lighthouse
	seo := defaults.Lighthouse
	if lh := m.Lighthouse; lh != nil {
		perf = lh.Performance
		a11y = lh.Accessibility
		best = lh.BestPractices
		seo = lh.SEO
	}

	breakdown := make(map[schema.BreakdownKey]float64)
	breakdown[schema.BreakdownPerformance] = wPerformance * perf * lighthouseShare
	breakdown[schema.BreakdownAccessibility] = wAccessibility * a11y * lighthouseShare
	breakdown[schema.BreakdownBestPractices] = wBestPractices * best * lighthouseShare
	breakdown[schema.BreakdownSEO] = wSEO * seo * lighthouseShare

	breakdown[schema.BreakdownHTTPS] = 0
	if m.Page.HasHTTPS {
		breakdown[schema.BreakdownHTTPS] = markupBonus
	}
	breakdown[schema.BreakdownViewport] = 0
	if m.Page.HasViewport {
		breakdown[schema.BreakdownViewport] = markupBonus
	}
	breakdown[schema.BreakdownCanonical] = 0
	if m.Page.HasCanonical {
		breakdown[schema.BreakdownCanonical] = markupBonus
	}

	return newCategoryScore(schema.TechnicalCategory, breakdown)
}

// computeContentScore scores body text depth and quality: word-count tiers,
// readability grade tiers, keyword density inside the optimal band, and the
// media-optimization sub-score.
func computeContentScore(page schema.PageFacts, defaults contract.ProviderDefaults) schema.CategoryScore {
	const (
		densityLow  = 0.5 // percent of body words
		densityHigh = 2.5

		mediaShare = 0.15
	)

	breakdown := make(map[schema.BreakdownKey]float64)

	// --- Word count tiers (35) ---
	var words float64
	switch {
	case page.WordCount >= 1500:
		words = 35
	case page.WordCount >= 1000:
		words = 30
	case page.WordCount >= 800:
		words = 25
	case page.WordCount >= 500:
		words = 20
	case page.WordCount >= 300:
		words = 15
	default:
		words = 5
	}
	breakdown[schema.BreakdownWordCount] = words

	// --- Readability tiers (25) ---
	// Lower grade level reads easier and earns more points.
	grade := page.ReadabilityGrade
	if grade == 0 {
		grade = defaults.ReadabilityGrade
	}
	var readability float64
	switch {
	case grade <= 8:
		readability = 25
	case grade <= 12:
		readability = 18
	case grade <= 16:
		readability = 10
	default:
		readability = 5
	}
	breakdown[schema.BreakdownReadability] = readability

	// --- Keyword density (25) ---
	// Full points inside the optimal band, linear falloff outside it.
	var keywords float64
	switch density := page.KeywordDensity; {
	case density >= densityLow && density <= densityHigh:
		keywords = 25
	case density < densityLow:
		keywords = 25 * density / densityLow
	default:
		keywords = 25 * math.Max(0, 1-(density-densityHigh)/densityHigh)
	}
	breakdown[schema.BreakdownKeywords] = keywords

	// --- Media optimization (15) ---
	breakdown[schema.BreakdownMedia] = page.MediaScore * mediaShare

	return newCategoryScore(schema.ContentCategory, breakdown)
}

// computeUXScore scores Core Web Vitals against the standard thresholds plus
// mobile-usability and measured-accessibility sub-scores. A missing vitals
// section falls back to the configured defaults, which land every vital in
// its degraded band.
func computeUXScore(m *schema.RawMeasurement, defaults contract.ProviderDefaults) schema.CategoryScore {
	const (
		lcpGoodMs = 2500.0
		lcpPoorMs = 4000.0
		fidGoodMs = 100.0
		fidPoorMs = 300.0
		clsGood   = 0.1
		clsPoor   = 0.25

		mobileShare = 0.20
		a11yShare   = 0.15
	)

	lcp := defaults.LCPMs
	fid := defaults.FIDMs
	cls := defaults.CLS
	mobile := defaults.Usability
	a11y := defaults.Usability
	if v := m.Vitals; v != nil {
		lcp = v.LCPMs
		fid = v.FIDMs
		cls = v.CLS
		mobile = v.MobileUsability
		a11y = v.Accessibility
	}

	breakdown := make(map[schema.BreakdownKey]float64)

	// --- LCP (25) ---
	var lcpPoints float64
	switch {
	case lcp <= lcpGoodMs:
		lcpPoints = 25
	case lcp <= lcpPoorMs:
		lcpPoints = 15
	default:
		lcpPoints = 5
	}
	breakdown[schema.BreakdownLCP] = lcpPoints

	// --- FID (20) ---
	var fidPoints float64
	switch {
	case fid <= fidGoodMs:
		fidPoints = 20
	case fid <= fidPoorMs:
		fidPoints = 12
	default:
		fidPoints = 4
	}
	breakdown[schema.BreakdownFID] = fidPoints

	// --- CLS (20) ---
	var clsPoints float64
	switch {
	case cls <= clsGood:
		clsPoints = 20
	case cls <= clsPoor:
		clsPoints = 12
	default:
		clsPoints = 4
	}
	breakdown[schema.BreakdownCLS] = clsPoints

	breakdown[schema.BreakdownMobile] = mobile * mobileShare
	breakdown[schema.BreakdownA11y] = a11y * a11yShare

	return newCategoryScore(schema.UXCategory, breakdown)
}

// computeAuthorityScore scores off-page signals: domain and page authority on
// a linear scale, referring-domain bands and an inverted spam penalty. When
// the backlink provider returned nothing the whole category takes the
// documented default with an empty breakdown.
func computeAuthorityScore(backlinks *schema.BacklinkFacts, defaults contract.ProviderDefaults) schema.CategoryScore {
	const (
		daShare   = 0.35
		paShare   = 0.25
		spamShare = 0.15
	)

	if backlinks == nil {
		return schema.CategoryScore{
			Category:  schema.AuthorityCategory,
			Value:     defaults.Authority,
			Breakdown: map[schema.BreakdownKey]float64{},
		}
	}

	breakdown := make(map[schema.BreakdownKey]float64)
	breakdown[schema.BreakdownDomainAuthority] = backlinks.DomainAuthority * daShare
	breakdown[schema.BreakdownPageAuthority] = backlinks.PageAuthority * paShare

	// --- Referring domain bands (25) ---
	var referring float64
	switch {
	case backlinks.ReferringDomains >= 500:
		referring = 25
	case backlinks.ReferringDomains >= 100:
		referring = 20
	case backlinks.ReferringDomains >= 50:
		referring = 15
	case backlinks.ReferringDomains >= 10:
		referring = 10
	case backlinks.ReferringDomains >= 1:
		referring = 5
	}
	breakdown[schema.BreakdownReferringDomain] = referring

	// Spam runs inverted: a clean profile keeps the full allotment.
	breakdown[schema.BreakdownSpamPenalty] = (100 - clampRange(backlinks.SpamScore, 0, 100)) * spamShare

	return newCategoryScore(schema.AuthorityCategory, breakdown)
}

// computeCategoryScores runs all five sub-models over one measurement.
// Absent provider sections never fail the computation; each sub-model
// substitutes its documented default and continues.
func computeCategoryScores(m *schema.RawMeasurement, defaults contract.ProviderDefaults) map[schema.Category]schema.CategoryScore {
	return map[schema.Category]schema.CategoryScore{
		schema.OnPageCategory:    computeOnPageScore(m.Page),
		schema.TechnicalCategory: computeTechnicalScore(m, defaults),
		schema.ContentCategory:   computeContentScore(m.Page, defaults),
		schema.UXCategory:        computeUXScore(m, defaults),
		schema.AuthorityCategory: computeAuthorityScore(m.Backlinks, defaults),
	}
}

// computeOverallScore folds the five category values into one integer score
// under the configured weights, rounded and clamped to [0,100].
func computeOverallScore(scores map[schema.Category]schema.CategoryScore, weights map[schema.Category]float64) int {
	var raw float64
	for category, score := range scores {
		raw += score.Value * weights[category]
	}
	overall := int(math.Round(raw))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	return overall
}

// newCategoryScore sums a breakdown into a category value clamped to the
// 0-100 scale.
func newCategoryScore(category schema.Category, breakdown map[schema.BreakdownKey]float64) schema.CategoryScore {
	var raw float64
	for _, v := range breakdown {
		raw += v
	}
	return schema.CategoryScore{
		Category:  category,
		Value:     clampRange(raw, 0, maxCategoryPoints),
		Breakdown: breakdown,
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
