package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// scoreLabel renders the health label for a score, colored when the
// config enables colored output.
func scoreLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// severityLabel renders an issue severity, colored when enabled.
func severityLabel(severity schema.Severity, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorSeverity(severity)
	}
	return string(severity)
}

// priorityLabel renders a recommendation priority, colored when enabled.
func priorityLabel(priority schema.Priority, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorPriority(priority)
	}
	return string(priority)
}

// sectionHeading renders a section title, prefixed with its emoji when
// the config enables emoji output.
func sectionHeading(emoji, title string, cfg *contract.Config) string {
	if cfg.UseEmojis && emoji != "" {
		return emoji + " " + title
	}
	return title
}

// categoryDisplayName maps category keys to their human headings.
var categoryDisplayName = map[schema.Category]string{
	schema.OnPageCategory:    "On-Page",
	schema.TechnicalCategory: "Technical",
	schema.ContentCategory:   "Content",
	schema.UXCategory:        "User Experience",
	schema.AuthorityCategory: "Authority",
}

// getDisplayNameForCategory returns the human heading for a category key.
func getDisplayNameForCategory(category schema.Category) string {
	if name, ok := categoryDisplayName[category]; ok {
		return name
	}
	return strings.ToUpper(string(category))
}

// factorContribution holds a key-value pair from the Breakdown map representing a sub-factor's contribution.
type factorContribution struct {
	Name  string  // e.g., "title", "performance", "lcp"
	Value float64 // The points contributed to the category score
}

const (
	factorContribMinimum = 0.5
	topNFactors          = 3
)

// formatTopFactors computes the top 3 sub-factors that contribute to a category score.
func formatTopFactors(cs schema.CategoryScore) string {
	var factors []factorContribution

	// 1. Filter and Convert Map to Slice
	for k, v := range cs.Breakdown {
		// Only include meaningful contributions
		if v >= factorContribMinimum {
			factors = append(factors, factorContribution{
				Name:  string(k),
				Value: v,
			})
		}
	}

	if len(factors) == 0 {
		return "Not applicable"
	}

	// 2. Sort the Slice by contributed points in descending order, with
	// name as the tie breaker so equal contributions render stably.
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Value != factors[j].Value {
			return factors[i].Value > factors[j].Value
		}
		return factors[i].Name < factors[j].Name
	})

	// 3. Limit to Top 3 and Format the Output
	limit := min(len(factors), topNFactors)
	parts := make([]string, 0, limit)
	for i := range limit {
		parts = append(parts, factors[i].Name)
	}

	return strings.Join(parts, " > ")
}

// formatSigned renders a float with an explicit sign so deltas read as
// movement rather than magnitude.
func formatSigned(v float64, fmtFloat func(float64) string) string {
	if v > 0 {
		return "+" + fmtFloat(v)
	}
	return fmtFloat(v)
}

// formatTrendDirection renders a trend direction with its arrow glyph.
func formatTrendDirection(direction schema.TrendDirection) string {
	switch direction {
	case schema.IncreasingTrend:
		return "↑ increasing"
	case schema.DecreasingTrend:
		return "↓ decreasing"
	default:
		return "→ stable"
	}
}

// shortID truncates an identifier for table display. Full identifiers
// stay available through the JSON and CSV output modes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
