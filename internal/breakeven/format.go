package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/plancost/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as console text
type TableFormatter struct {
	// ShowSweep includes every sweep point
	ShowSweep bool
}

// Format generates the report for a single plan pair
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Plan A:              %s\n", result.PlanA))
	sb.WriteString(fmt.Sprintf("Plan B:              %s\n", result.PlanB))
	sb.WriteString(fmt.Sprintf("Estimated spending:  %s billed\n", output.FormatCurrency(result.BaseBilled)))
	sb.WriteString("\n")

	if result.Found {
		sb.WriteString(fmt.Sprintf("Break-even spending: %s billed (%sx your estimate)\n",
			output.FormatCurrency(result.Billed), result.Factor.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("Cost at break-even:  %s for the year\n", output.FormatCurrency(result.TotalCost)))
		if result.CheaperBelow != "" {
			sb.WriteString(fmt.Sprintf("Below that:          %s is cheaper\n", result.CheaperBelow))
		}
		if result.CheaperAbove != "" {
			sb.WriteString(fmt.Sprintf("Above that:          %s is cheaper\n", result.CheaperAbove))
		}
		if result.Iterations > 0 {
			sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
		}
	} else {
		last := result.Sweep[len(result.Sweep)-1]
		sb.WriteString(fmt.Sprintf("No break-even up to %s billed: %s is cheaper throughout\n",
			output.FormatCurrency(last.TotalBilled), result.CheaperBelow))
	}

	if tf.ShowSweep {
		sb.WriteString("\nSWEEP\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("%8s %14s %18s %18s %14s\n",
			"Factor", "Billed", tf.truncate(result.PlanA, 18), tf.truncate(result.PlanB, 18), "A - B"))
		for _, p := range result.Sweep {
			sb.WriteString(fmt.Sprintf("%8s %14s %18s %18s %14s\n",
				p.Factor.StringFixed(2),
				output.FormatCurrency(p.TotalBilled),
				output.FormatCurrency(p.TotalCostA),
				output.FormatCurrency(p.TotalCostB),
				tf.deltaSymbol(p.Difference)+output.FormatCurrency(p.Difference)))
		}
	}

	return sb.String()
}

// FormatAll formats the break-even of one baseline plan against several others
func (tf *TableFormatter) FormatAll(results []Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if len(results) == 0 {
		sb.WriteString("No other plans to compare.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Baseline: %s\n\n", results[0].PlanA))
	sb.WriteString(fmt.Sprintf("%-24s %16s %24s %12s\n", "Versus", "Break-even", "Cheaper Below", "Factor"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range results {
		if !r.Found {
			sb.WriteString(fmt.Sprintf("%-24s %16s %24s %12s\n",
				tf.truncate(r.PlanB, 24), "none", tf.truncate(r.CheaperBelow, 24), "-"))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-24s %16s %24s %12s\n",
			tf.truncate(r.PlanB, 24),
			output.FormatCurrency(r.Billed),
			tf.truncate(r.CheaperBelow, 24),
			r.Factor.StringFixed(2)+"x"))
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for one or more results
func (jf *JSONFormatter) Format(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
