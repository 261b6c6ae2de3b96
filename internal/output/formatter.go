package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/plancost/internal/domain"
)

// LedgerReport is the "show your work" view of one evaluated plan
type LedgerReport struct {
	CoverageYear int                 `json:"coverageYear"`
	Branding     domain.Branding     `json:"branding"`
	CoverageTier domain.CoverageTier `json:"coverageTier"`
	AgeGroup     domain.AgeGroup     `json:"ageGroup"`
	Result       domain.PlanResult   `json:"result"`
}

// NewLedgerReport builds a ledger report for one plan result
func NewLedgerReport(catalog *domain.PlanCatalog, inputs *domain.UserInputs, result domain.PlanResult) *LedgerReport {
	return &LedgerReport{
		CoverageYear: catalog.Year,
		Branding:     catalog.Branding,
		CoverageTier: inputs.CoverageTier,
		AgeGroup:     inputs.AgeGroup,
		Result:       result,
	}
}

// Formatter renders a ledger report into bytes
type Formatter interface {
	Name() string
	Format(report *LedgerReport) ([]byte, error)
}

var formatters = map[string]Formatter{
	"console": ConsoleLedgerFormatter{},
	"csv":     CSVLedgerFormatter{},
	"json":    JSONLedgerFormatter{Pretty: true},
	"pdf":     PDFLedgerFormatter{},
}

var formatAliases = map[string]string{
	"text": "console",
	"txt":  "console",
}

// GetFormatterByName returns the formatter registered under name or alias, nil if unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(name)
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists the registered formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FormatterForPath picks a formatter from a file extension
func FormatterForPath(path string) (Formatter, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f := GetFormatterByName(ext); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported output extension %q (available: %s)", ext, strings.Join(AvailableFormatterNames(), ", "))
}

// FileExtension returns the file extension for a formatter's output
func FileExtension(f Formatter) string {
	if f.Name() == "console" {
		return "txt"
	}
	return f.Name()
}

// WriteFormatted renders the report and writes it to a timestamped file in the working directory
func WriteFormatted(f Formatter, report *LedgerReport) (string, error) {
	filename := fmt.Sprintf("ledger_report_%s.%s", time.Now().Format("20060102_150405"), FileExtension(f))
	if err := WriteFormattedTo(f, report, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteFormattedTo renders the report and writes it to path
func WriteFormattedTo(f Formatter, report *LedgerReport, path string) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
