package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/sitepulse/sitepulse/schema"
)

// Default values for configuration.
const (
	DefaultHistoryPoints = 12
	MaxHistoryPoints     = 104
	DefaultPrecision     = 1
	DefaultMaxWorkers    = 3
	MaxWorkersLimit      = 32
	DefaultQueueFactor   = 16 // pending queue capacity per worker
	DefaultServerPort    = 8082
)

// DefaultCollectorTimeout bounds every Metric Collector call. A fetch
// that exceeds it fails its own job and nothing else.
const DefaultCollectorTimeout = 30 * time.Second

// Preset tuning values. quick favors fast runs, thorough favors deeper
// history and patient fetches.
const (
	QuickPresetHistoryPoints       = 4
	QuickPresetCollectorTimeout    = 10 * time.Second
	ThoroughPresetHistoryPoints    = 24
	ThoroughPresetCollectorTimeout = 60 * time.Second
)

// DefaultIndustryBenchmark is the industry-average overall score that
// reports compare against.
const DefaultIndustryBenchmark = 65.0

// DefaultRecommendationImpact is the fixed per-recommendation impact
// constant used by the forecast projection.
const DefaultRecommendationImpact = 1.5

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProviderDefaults holds the scores assumed when an external provider
// returns nothing. Missing data downgrades a run, it never fails one.
type ProviderDefaults struct {
	Authority        float64 // authority score without backlink data
	Lighthouse       float64 // each audit sub-score without audit data
	LCPMs            float64 // assumed LCP without field data
	FIDMs            float64 // assumed FID without field data
	CLS              float64 // assumed CLS without field data
	Usability        float64 // mobile usability and accessibility fallback
	ReadabilityGrade float64 // assumed grade level when text was not scored
}

// GetDefaultProviderDefaults returns the documented fallback scores.
// Authority and audit scores fall back to the neutral midpoint; vitals
// fall back to the upper edge of the degraded band so absent field data
// reads as needs-improvement rather than broken.
func GetDefaultProviderDefaults() ProviderDefaults {
	return ProviderDefaults{
		Authority:        50.0,
		Lighthouse:       50.0,
		LCPMs:            4000.0,
		FIDMs:            300.0,
		CLS:              0.25,
		Usability:        50.0,
		ReadabilityGrade: 12.0,
	}
}

// WeightsRawInput holds custom category weights from the YAML config
// file. Use float64 pointers so absent fields fall through to defaults.
type WeightsRawInput struct {
	OnPage    *float64 `mapstructure:"onpage"`
	Technical *float64 `mapstructure:"technical"`
	Content   *float64 `mapstructure:"content"`
	UX        *float64 `mapstructure:"ux"`
	Authority *float64 `mapstructure:"authority"`
}

// TuningRawInput holds scoring tuning knobs from the YAML config file.
type TuningRawInput struct {
	Benchmark *float64 `mapstructure:"benchmark"`
	RecImpact *float64 `mapstructure:"rec_impact"`
}

// CompetitorRawInput is one externally supplied competitor score from
// the YAML config file.
type CompetitorRawInput struct {
	Name  string `mapstructure:"name"`
	Score int    `mapstructure:"score"`
}

// CompetitorInput is one validated competitor score handed to the
// report compiler.
type CompetitorInput struct {
	Name  string
	Score int
}

// validCadences lists the recurring schedule cadences accepted by the
// schedule command.
var validCadences = map[string]struct{}{
	"daily":   {},
	"weekly":  {},
	"monthly": {},
}

// IsValidCadence reports whether the (case-insensitive) cadence is one
// the schedule surfaces accept.
func IsValidCadence(cadence string) bool {
	_, ok := validCadences[strings.ToLower(strings.TrimSpace(cadence))]
	return ok
}

// Config holds the runtime configuration for report generation.
// This struct remains the "final, validated" config.
type Config struct {
	URL         string
	Period      string // YYYY-MM key
	PeriodStart time.Time
	PeriodEnd   time.Time // exclusive

	HistoryPoints    int
	MaxWorkers       int
	QueueCapacity    int
	CollectorTimeout time.Duration

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Format     schema.ExportFormat
	Width      int // Terminal width override (0 = auto-detect)

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	ServerHost string
	ServerPort int

	Cadence    string
	Recipients []string

	// Weights is the final weight of each category in the overall
	// score, computed from defaults + custom overrides.
	Weights map[schema.Category]float64

	// Defaults are the scores assumed for absent provider sections.
	Defaults ProviderDefaults

	// IndustryBenchmark is the overall score reports compare against.
	IndustryBenchmark float64

	// RecommendationImpact is the fixed impact constant in the
	// forecast projection.
	RecommendationImpact float64

	// Competitors are externally supplied comparison scores.
	Competitors []CompetitorInput

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	URLStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Period     string `mapstructure:"period"`
	Points     int    `mapstructure:"points"`
	Workers    int    `mapstructure:"workers"`
	QueueSize  int    `mapstructure:"queue-size"`
	Timeout    string `mapstructure:"timeout"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Backend    string `mapstructure:"backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`
	Preset     string `mapstructure:"preset"`

	// --- Fields from exportCmd.Flags() ---
	Format string `mapstructure:"format"`

	// --- Fields from serveCmd.Flags() ---
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// --- Fields from scheduleCmd.Flags() ---
	Cadence    string `mapstructure:"cadence"`
	Recipients string `mapstructure:"recipients"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Scoring tuning from config file ---
	Tuning TuningRawInput `mapstructure:"tuning"`

	// --- Competitor scores from config file ---
	Competitors []CompetitorRawInput `mapstructure:"competitors"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Recipients != nil {
		clone.Recipients = make([]string, len(c.Recipients))
		copy(clone.Recipients, c.Recipients)
	}
	if c.Competitors != nil {
		clone.Competitors = make([]CompetitorInput, len(c.Competitors))
		copy(clone.Competitors, c.Competitors)
	}
	if c.Weights != nil {
		clone.Weights = make(map[schema.Category]float64)
		maps.Copy(clone.Weights, c.Weights)
	}
	return &clone
}

// CloneWithPeriod creates a copy of the Config pointed at another
// reporting period.
func (c *Config) CloneWithPeriod(period string, start, end time.Time) *Config {
	clone := c.Clone()
	clone.Period = period
	clone.PeriodStart = start
	clone.PeriodEnd = end
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// Presets adjust the raw baseline, so they run before validation.
	if err := processPreset(input); err != nil {
		return err
	}
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeriod(cfg, input); err != nil {
		return err
	}
	if err := processTimeout(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	if err := processTuning(cfg, input); err != nil {
		return err
	}
	if err := processSchedule(cfg, input); err != nil {
		return err
	}
	if err := processCompetitors(cfg, input); err != nil {
		return err
	}
	if err := resolveURL(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-period fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ServerHost = input.Host

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. History Points Validation ---
	if input.Points <= 0 || input.Points > MaxHistoryPoints {
		return fmt.Errorf("points must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryPoints, input.Points)
	}
	cfg.HistoryPoints = input.Points

	// --- 2. Workers and Queue Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkersLimit {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkersLimit, input.Workers)
	}
	cfg.MaxWorkers = input.Workers

	if input.QueueSize < 0 {
		return fmt.Errorf("queue-size cannot be negative (received %d)", input.QueueSize)
	}
	cfg.QueueCapacity = input.QueueSize
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = DefaultQueueFactor * cfg.MaxWorkers
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be table, csv, json, parquet", cfg.Output)
	}

	// --- 4. Export Format Validation ---
	cfg.Format = schema.ExportFormat(strings.ToLower(input.Format))
	if cfg.Format != "" {
		if _, ok := schema.ValidExportFormats[cfg.Format]; !ok {
			return fmt.Errorf("%w: '%s'. must be structured-json, tabular-csv, portable-document", ErrUnsupportedFormat, input.Format)
		}
	}

	// --- 5. Backend Validation ---
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect); err != nil {
		return err
	}

	// --- 6. Server Port Validation ---
	if input.Port <= 0 || input.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (received %d)", input.Port)
	}
	cfg.ServerPort = input.Port

	return nil
}

// processPreset applies a named tuning preset to the raw input. Preset
// values only replace inputs still at their stock defaults, so explicit
// --points and --timeout always win over the preset.
func processPreset(input *ConfigRawInput) error {
	preset := schema.Preset(strings.ToLower(strings.TrimSpace(input.Preset)))
	if preset == "" || preset == schema.DefaultPreset {
		return nil
	}
	if _, ok := schema.ValidPresets[preset]; !ok {
		return fmt.Errorf("invalid preset '%s'. must be default, quick, thorough", input.Preset)
	}

	points := QuickPresetHistoryPoints
	timeout := QuickPresetCollectorTimeout
	if preset == schema.ThoroughPreset {
		points = ThoroughPresetHistoryPoints
		timeout = ThoroughPresetCollectorTimeout
	}
	if input.Points == DefaultHistoryPoints {
		input.Points = points
	}
	if input.Timeout == "" {
		input.Timeout = timeout.String()
	}
	return nil
}

// processPeriod resolves the reporting period key and its time window.
func processPeriod(cfg *Config, input *ConfigRawInput) error {
	period, start, end, err := ParsePeriod(input.Period, time.Now().UTC())
	if err != nil {
		return err
	}
	cfg.Period = period
	cfg.PeriodStart = start
	cfg.PeriodEnd = end
	return nil
}

// processTimeout resolves the collector time bound.
func processTimeout(cfg *Config, input *ConfigRawInput) error {
	cfg.CollectorTimeout = DefaultCollectorTimeout
	if input.Timeout == "" {
		return nil
	}
	timeout, err := ParseLookbackDuration(input.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	cfg.CollectorTimeout = timeout
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into the final weights map.
// If validateSum is true, it validates that the full set sums to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.Category]float64, error) {
	// Start with default weights, then override per provided field.
	result := schema.GetDefaultCategoryWeights()

	if weights.OnPage != nil {
		result[schema.OnPageCategory] = *weights.OnPage
	}
	if weights.Technical != nil {
		result[schema.TechnicalCategory] = *weights.Technical
	}
	if weights.Content != nil {
		result[schema.ContentCategory] = *weights.Content
	}
	if weights.UX != nil {
		result[schema.UXCategory] = *weights.UX
	}
	if weights.Authority != nil {
		result[schema.AuthorityCategory] = *weights.Authority
	}

	sum := 0.0
	for cat, w := range result {
		if w < 0 {
			return nil, fmt.Errorf("weight for category %s cannot be negative, got %.3f", cat, w)
		}
		sum += w
	}
	if validateSum && (sum < 0.999 || sum > 1.001) {
		return nil, fmt.Errorf("category weights must sum to 1.0, got %.3f", sum)
	}

	return result, nil
}

// processCustomWeights converts the raw input into the final cfg.Weights map
// and validates that the resulting weights sum up to 1.0.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processTuning resolves benchmark and forecast tuning values, falling
// back to defaults when the config file does not override them.
func processTuning(cfg *Config, input *ConfigRawInput) error {
	cfg.Defaults = GetDefaultProviderDefaults()

	cfg.IndustryBenchmark = DefaultIndustryBenchmark
	if input.Tuning.Benchmark != nil {
		if *input.Tuning.Benchmark < 0.0 || *input.Tuning.Benchmark > 100.0 {
			return fmt.Errorf("tuning benchmark must be between 0.0 and 100.0 (received %.2f)", *input.Tuning.Benchmark)
		}
		cfg.IndustryBenchmark = *input.Tuning.Benchmark
	}

	cfg.RecommendationImpact = DefaultRecommendationImpact
	if input.Tuning.RecImpact != nil {
		if *input.Tuning.RecImpact < 0.0 {
			return fmt.Errorf("tuning rec_impact cannot be negative (received %.2f)", *input.Tuning.RecImpact)
		}
		cfg.RecommendationImpact = *input.Tuning.RecImpact
	}

	return nil
}

// processSchedule validates recurring schedule inputs when present.
func processSchedule(cfg *Config, input *ConfigRawInput) error {
	cfg.Cadence = strings.ToLower(strings.TrimSpace(input.Cadence))
	if cfg.Cadence != "" && !IsValidCadence(cfg.Cadence) {
		return fmt.Errorf("invalid cadence '%s'. must be daily, weekly, monthly", input.Cadence)
	}
	cfg.Recipients = schema.ParseRecipients(input.Recipients)
	return nil
}

// processCompetitors transfers competitor scores from the config file.
func processCompetitors(cfg *Config, input *ConfigRawInput) error {
	for _, raw := range input.Competitors {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return fmt.Errorf("competitor entries must have a name")
		}
		if raw.Score < 0 || raw.Score > 100 {
			return fmt.Errorf("competitor score for '%s' must be between 0 and 100 (received %d)", name, raw.Score)
		}
		cfg.Competitors = append(cfg.Competitors, CompetitorInput{Name: name, Score: raw.Score})
	}
	return nil
}

// resolveURL canonicalizes the positional URL argument.
func resolveURL(cfg *Config, input *ConfigRawInput) error {
	cfg.URL = schema.NormalizeURL(input.URLStr)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
