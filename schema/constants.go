package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in category score breakdowns.
	BreakdownKey string

	// Category represents one of the five scoring categories.
	Category string

	// Severity represents how serious a detected issue is.
	Severity string

	// Priority represents how urgent a recommendation is.
	Priority string

	// Effort represents the estimated work behind a recommendation.
	Effort string

	// TrendDirection represents the movement of a score series.
	TrendDirection string

	// JobStatus represents the lifecycle state of a report job.
	JobStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// ExportFormat represents the payload format of a report export.
	ExportFormat string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// Preset represents a named depth/timeout tuning profile.
	Preset string
)

// Breakdown keys used in the scoring logic.
const (
	BreakdownTitle         BreakdownKey = "title"          // title presence and length
	BreakdownDescription   BreakdownKey = "description"    // meta description presence and length
	BreakdownHeadings      BreakdownKey = "headings"       // H1/H2/H3 structure
	BreakdownAltText       BreakdownKey = "alt_text"       // image alt coverage
	BreakdownInternalLinks BreakdownKey = "internal_links" // internal link count

	BreakdownPerformance   BreakdownKey = "performance"    // lighthouse performance
	BreakdownAccessibility BreakdownKey = "accessibility"  // lighthouse accessibility
	BreakdownBestPractices BreakdownKey = "best_practices" // lighthouse best practices
	BreakdownSEO           BreakdownKey = "seo"            // lighthouse seo
	BreakdownHTTPS         BreakdownKey = "https"          // https bonus
	BreakdownViewport      BreakdownKey = "viewport"       // responsive viewport bonus
	BreakdownCanonical     BreakdownKey = "canonical"      // canonical tag bonus

	BreakdownWordCount   BreakdownKey = "word_count"      // word count tier
	BreakdownReadability BreakdownKey = "readability"     // grade level tier
	BreakdownKeywords    BreakdownKey = "keyword_density" // keyword density band
	BreakdownMedia       BreakdownKey = "media"           // media optimization

	BreakdownLCP    BreakdownKey = "lcp"    // largest contentful paint
	BreakdownFID    BreakdownKey = "fid"    // first input delay
	BreakdownCLS    BreakdownKey = "cls"    // cumulative layout shift
	BreakdownMobile BreakdownKey = "mobile" // mobile usability
	BreakdownA11y   BreakdownKey = "a11y"   // measured accessibility

	BreakdownDomainAuthority BreakdownKey = "domain_authority" // linear DA scale
	BreakdownPageAuthority   BreakdownKey = "page_authority"   // linear PA scale
	BreakdownReferringDomain BreakdownKey = "referring"        // referring domain bands
	BreakdownSpamPenalty     BreakdownKey = "spam_penalty"     // inverted spam score
)

// All scoring categories.
const (
	OnPageCategory    Category = "onPage"
	TechnicalCategory Category = "technical"
	ContentCategory   Category = "content"
	UXCategory        Category = "ux"
	AuthorityCategory Category = "authority"
)

// All issue severities.
const (
	CriticalSeverity Severity = "critical"
	WarningSeverity  Severity = "warning"
	InfoSeverity     Severity = "info"
)

// All recommendation priorities.
const (
	HighPriority   Priority = "high"
	MediumPriority Priority = "medium"
	LowPriority    Priority = "low"
)

// All recommendation effort levels.
const (
	LowEffort    Effort = "low"
	MediumEffort Effort = "medium"
	HighEffort   Effort = "high"
)

// All trend directions.
const (
	IncreasingTrend TrendDirection = "increasing"
	DecreasingTrend TrendDirection = "decreasing"
	StableTrend     TrendDirection = "stable"
)

// All job statuses.
const (
	PendingStatus    JobStatus = "pending"
	ProcessingStatus JobStatus = "processing"
	CompletedStatus  JobStatus = "completed"
	FailedStatus     JobStatus = "failed"
	CancelledStatus  JobStatus = "cancelled"
)

// All output modes supported.
const (
	TableOut   OutputMode = "table" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All export formats supported.
const (
	JSONExport ExportFormat = "structured-json" // default
	CSVExport  ExportFormat = "tabular-csv"
	PDFExport  ExportFormat = "portable-document"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All tuning presets supported.
const (
	DefaultPreset  Preset = "default" // default
	QuickPreset    Preset = "quick"
	ThoroughPreset Preset = "thorough"
)

// AllCategories returns every scoring category in report order.
var AllCategories = []Category{
	OnPageCategory,
	TechnicalCategory,
	ContentCategory,
	UXCategory,
	AuthorityCategory,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TableOut:   {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidExportFormats lists all valid export formats.
var ValidExportFormats = map[ExportFormat]struct{}{
	JSONExport: {},
	CSVExport:  {},
	PDFExport:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPresets lists all valid tuning presets.
var ValidPresets = map[Preset]struct{}{
	DefaultPreset:  {},
	QuickPreset:    {},
	ThoroughPreset: {},
}

// ValidJobStatuses lists all valid job statuses.
var ValidJobStatuses = map[JobStatus]struct{}{
	PendingStatus:    {},
	ProcessingStatus: {},
	CompletedStatus:  {},
	FailedStatus:     {},
	CancelledStatus:  {},
}

// IsTerminal reports whether a job status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case CompletedStatus, FailedStatus, CancelledStatus:
		return true
	default:
		return false
	}
}

// GetDefaultCategoryWeights returns the default weight of each category
// in the overall score. The weights sum to 1.0.
func GetDefaultCategoryWeights() map[Category]float64 {
	return map[Category]float64{
		OnPageCategory:    0.25,
		TechnicalCategory: 0.25,
		ContentCategory:   0.20,
		UXCategory:        0.15,
		AuthorityCategory: 0.15,
	}
}
