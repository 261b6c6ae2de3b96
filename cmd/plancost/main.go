package main

import (
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/plancost/internal/calculation"
	"github.com/rgehrsitz/plancost/internal/compare"
	"github.com/rgehrsitz/plancost/internal/config"
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/rgehrsitz/plancost/internal/output"
	"github.com/rgehrsitz/plancost/internal/tui"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plancost %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plancost",
		Short: "Medical plan cost comparison CLI",
		Long: "Estimate the true annual cost of each medical plan an employer offers, " +
			"from premiums, expected care, tax-advantaged accounts and employer HSA money.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("catalog", "", "Plan catalog YAML file (default: built-in catalog)")
	rootCmd.PersistentFlags().Int("year", config.LatestYear(), "Coverage year of the built-in catalog")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for plan calculations")

	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(whatIfCmd())
	rootCmd.AddCommand(breakEvenCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// loadCatalog reads --catalog when given, otherwise the built-in catalog for --year
func loadCatalog(cmd *cobra.Command) (*domain.PlanCatalog, string, error) {
	loader := config.NewCatalogLoader()
	path, _ := cmd.Flags().GetString("catalog")
	if path != "" {
		catalog, err := loader.LoadFromFile(path)
		return catalog, path, err
	}

	year, _ := cmd.Flags().GetInt("year")
	catalog, err := loader.DefaultCatalog(year)
	return catalog, "", err
}

// loadInputs parses the optional inputs file argument; no argument means default inputs
func loadInputs(args []string) (*domain.UserInputs, string, error) {
	if len(args) == 0 {
		inputs := domain.DefaultUserInputs()
		return &inputs, "", nil
	}
	inputs, err := config.NewInputParser().LoadFromFile(args[0])
	return inputs, args[0], err
}

func newComparator(cmd *cobra.Command) *calculation.PlanComparator {
	comparator := calculation.NewPlanComparator()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		comparator.SetLogger(simpleCLILogger{})
	}
	return comparator
}

// warnUnknownCategories reports estimates the catalog has no metadata for
func warnUnknownCategories(inputs *domain.UserInputs, catalog *domain.PlanCatalog) {
	for _, id := range config.UnknownCategories(inputs, catalog) {
		log.Printf("WARN: category %s is not described by the catalog; plan defaults apply", id)
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [inputs-file]",
		Short: "Rank every plan by total annual cost",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, catalogPath, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			inputs, inputsPath, err := loadInputs(args)
			if err != nil {
				return err
			}
			warnUnknownCategories(inputs, catalog)

			options := compare.CompareOptions{}
			if plans, _ := cmd.Flags().GetString("plans"); plans != "" {
				for _, name := range strings.Split(plans, ",") {
					options.PlanNames = append(options.PlanNames, strings.TrimSpace(name))
				}
			}
			if planType, _ := cmd.Flags().GetString("type"); planType != "" {
				options.PlanType = domain.PlanType(strings.ToUpper(planType))
			}

			engine := compare.NewCompareEngine(newComparator(cmd))
			compSet, err := engine.Compare(catalog, inputs, options)
			if err != nil {
				return err
			}
			compSet.CatalogPath = catalogPath
			compSet.InputsPath = inputsPath

			format, _ := cmd.Flags().GetString("format")
			return writeComparison(cmd.OutOrStdout(), compSet, format)
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().String("plans", "", "Comma-separated list of plan names to compare (default: all)")
	cmd.Flags().String("type", "", "Only compare plans of this type (PPO, HSA)")
	return cmd
}

func writeComparison(w io.Writer, compSet *compare.ComparisonSet, format string) error {
	switch strings.ToLower(format) {
	case "table", "console":
		fmt.Fprint(w, (&compare.TableFormatter{}).Format(compSet))
	case "compact":
		fmt.Fprintln(w, (&compare.TableFormatter{}).FormatCompact(compSet))
	case "csv":
		out, err := (&compare.CSVFormatter{}).Format(compSet)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	case "json":
		out, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger [inputs-file]",
		Short: "Show the itemized cost ledger for one plan",
		Long: "Show how a plan's total is built: contributions and tax savings, premiums, " +
			"and every in-network and out-of-network expense after deductible, copay and coinsurance.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			inputs, _, err := loadInputs(args)
			if err != nil {
				return err
			}
			warnUnknownCategories(inputs, catalog)

			comparator := newComparator(cmd)
			planName, _ := cmd.Flags().GetString("plan")

			var result domain.PlanResult
			if planName == "" {
				results := comparator.CompareAll(catalog, inputs)
				if len(results) == 0 {
					return fmt.Errorf("catalog has no plans")
				}
				result = results[0]
			} else {
				plan, ok := catalog.FindPlan(planName)
				if !ok {
					return fmt.Errorf("plan %s not found in catalog", planName)
				}
				result = comparator.EvaluatePlan(catalog, plan, inputs)
			}

			report := output.NewLedgerReport(catalog, inputs, result)

			outPath, _ := cmd.Flags().GetString("output")
			if outPath != "" {
				formatter, err := output.FormatterForPath(outPath)
				if err != nil {
					return err
				}
				if err := output.WriteFormattedTo(formatter, report, outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ledger for %s written to %s\n", result.PlanName, outPath)
				return nil
			}

			format, _ := cmd.Flags().GetString("format")
			formatter := output.GetFormatterByName(format)
			if save, _ := cmd.Flags().GetBool("save"); save {
				if formatter == nil {
					return fmt.Errorf("unsupported format: %s", format)
				}
				filename, err := output.WriteFormatted(formatter, report)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ledger for %s written to %s\n", result.PlanName, filename)
				return nil
			}
			if formatter == nil || formatter.Name() == "pdf" {
				return fmt.Errorf("unsupported format: %s (use --output for PDF)", format)
			}
			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringP("plan", "p", "", "Plan name (default: the lowest-cost plan)")
	cmd.Flags().StringP("format", "f", "console", ledgerFormatHelp())
	cmd.Flags().StringP("output", "o", "", "Write the ledger to a file; format follows the extension (.txt, .csv, .json, .pdf)")
	cmd.Flags().Bool("save", false, "Write the ledger in --format to a timestamped file in the working directory")
	return cmd
}

// ledgerFormatHelp lists the ledger formats and their aliases
func ledgerFormatHelp() string {
	return fmt.Sprintf("Output format (%s; aliases %s; pdf needs --output or --save)",
		strings.Join(output.AvailableFormatterNames(), ", "),
		strings.Join(output.AvailableFormatAliases(), ", "))
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [inputs-file]",
		Short: "Validate a plan catalog and an optional inputs file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, catalogPath, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			if catalogPath == "" {
				catalogPath = fmt.Sprintf("built-in %d catalog", catalog.Year)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog %s is valid (%d plans)\n", catalogPath, len(catalog.Plans))

			if len(args) == 0 {
				return nil
			}
			inputs, _, err := loadInputs(args)
			if err != nil {
				return err
			}
			warnUnknownCategories(inputs, catalog)
			fmt.Fprintf(cmd.OutOrStdout(), "Inputs file %s is valid (%d category estimates)\n", args[0], len(inputs.CategoryEstimates))
			return nil
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List built-in catalog years and the plans in the selected catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			years := config.AvailableYears()
			yearNames := make([]string, 0, len(years))
			for _, y := range years {
				yearNames = append(yearNames, fmt.Sprintf("%d", y))
			}
			fmt.Fprintf(w, "Built-in catalogs: %s\n\n", strings.Join(yearNames, ", "))

			catalog, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d plans (%s)\n", catalog.Year, catalog.Branding.CompanyName)
			fmt.Fprintf(w, "Payroll tax: %s Social Security, %s Medicare\n\n",
				output.FormatPercentage(catalog.PayrollTaxRates.SocialSecurity),
				output.FormatPercentage(catalog.PayrollTaxRates.Medicare))
			fmt.Fprintf(w, "%-20s %-4s %12s %12s %12s %12s %12s\n",
				"Plan", "Type", "Single/mo", "2-Party/mo", "Family/mo", "Deductible", "OOP Max")
			for _, plan := range catalog.Plans {
				fmt.Fprintf(w, "%-20s %-4s %12s %12s %12s %12s %12s\n",
					plan.Name,
					plan.Type,
					output.FormatCurrency(plan.MonthlyPremium.Single),
					output.FormatCurrency(plan.MonthlyPremium.TwoParty),
					output.FormatCurrency(plan.MonthlyPremium.Family),
					output.FormatCurrency(plan.AnnualDeductible.For(domain.InNetwork, domain.TierSingle)),
					output.FormatCurrency(plan.OutOfPocketMax.For(domain.InNetwork, domain.TierSingle)))
			}
			return nil
		},
	}
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [inputs-file]",
		Short: "Browse the comparison and plan ledgers interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := tui.Options{}
			options.CatalogPath, _ = cmd.Flags().GetString("catalog")
			options.Year, _ = cmd.Flags().GetInt("year")
			if len(args) > 0 {
				options.InputsPath = args[0]
			}

			p := tea.NewProgram(tui.NewModel(options), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
