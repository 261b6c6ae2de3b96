package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/plancost/internal/breakeven"
	"github.com/rgehrsitz/plancost/internal/compare"
	"github.com/rgehrsitz/plancost/internal/output"
	"github.com/rgehrsitz/plancost/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func whatIfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [inputs-file]",
		Short: "Re-rank the plans after changing your inputs",
		Long: "Apply one or more input transforms, or a named template, and show how each plan's " +
			"total moves.\n\nTransforms use name:key=value,... for example:\n" +
			"  --transform scale_utilization:factor=2\n" +
			"  --transform set_visits:category=specialist_visit,network=out,quantity=2,cost=350\n" +
			"  --template family",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			registry := transform.NewTransformRegistry()
			templates := transform.CreateBuiltInTemplates()

			if list, _ := cmd.Flags().GetBool("list"); list {
				listTransforms(w, registry, templates)
				return nil
			}

			exprs, _ := cmd.Flags().GetStringArray("transform")
			transforms, err := registry.ParseTransforms(exprs)
			if err != nil {
				return err
			}
			if name, _ := cmd.Flags().GetString("template"); name != "" {
				tmpl, ok := templates.Get(name)
				if !ok {
					return fmt.Errorf("unknown template %s (available: %s)", name, strings.Join(templates.List(), ", "))
				}
				transforms = append(append([]transform.InputTransform{}, tmpl.Transforms...), transforms...)
			}
			if len(transforms) == 0 {
				return fmt.Errorf("no transforms given; use --transform or --template (see --list)")
			}

			catalog, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			inputs, _, err := loadInputs(args)
			if err != nil {
				return err
			}
			warnUnknownCategories(inputs, catalog)

			modified, err := transform.ApplyTransforms(inputs, transforms)
			if err != nil {
				return err
			}

			engine := compare.NewCompareEngine(newComparator(cmd))
			baseSet, err := engine.Compare(catalog, inputs, compare.CompareOptions{})
			if err != nil {
				return err
			}
			whatIfSet, err := engine.Compare(catalog, modified, compare.CompareOptions{})
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			if strings.ToLower(format) != "table" {
				return writeComparison(w, whatIfSet, format)
			}

			fmt.Fprintln(w, "WHAT-IF CHANGES")
			for _, desc := range transform.Describe(transforms) {
				fmt.Fprintf(w, "• %s\n", desc)
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, (&compare.TableFormatter{}).Format(whatIfSet))
			writeDeltas(w, baseSet, whatIfSet)
			return nil
		},
	}

	cmd.Flags().StringArrayP("transform", "t", nil, "Transform to apply, name:key=value,... (repeatable)")
	cmd.Flags().String("template", "", "Named what-if template to apply first")
	cmd.Flags().Bool("list", false, "List available transforms and templates")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}

func listTransforms(w io.Writer, registry *transform.TransformRegistry, templates *transform.TemplateRegistry) {
	fmt.Fprintln(w, "Transforms:")
	for _, name := range registry.List() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w, "\nTemplates:")
	for _, name := range templates.List() {
		tmpl, _ := templates.Get(name)
		fmt.Fprintf(w, "  %-12s %s\n", name, tmpl.Description)
	}
}

// writeDeltas shows each plan's change from the unmodified inputs, in what-if rank order
func writeDeltas(w io.Writer, baseSet, whatIfSet *compare.ComparisonSet) {
	base := make(map[string]decimal.Decimal, len(baseSet.Results))
	for _, r := range baseSet.Results {
		base[r.Result.PlanName] = r.Result.TotalCost
	}

	fmt.Fprintln(w, "CHANGE FROM YOUR INPUTS")
	fmt.Fprintf(w, "%-20s %14s %14s %14s\n", "Plan", "Before", "After", "Change")
	for _, r := range whatIfSet.Results {
		before := base[r.Result.PlanName]
		delta := r.Result.TotalCost.Sub(before)
		sign := ""
		if delta.IsPositive() {
			sign = "+"
		}
		fmt.Fprintf(w, "%-20s %14s %14s %14s\n",
			r.Result.PlanName,
			output.FormatCurrency(before),
			output.FormatCurrency(r.Result.TotalCost),
			sign+output.FormatCurrency(delta))
	}
}

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [inputs-file]",
		Short: "Find the spending level where two plans cost the same",
		Long: "Scale every estimated cost from zero up to --max-factor times your estimate and find " +
			"where the annual totals of two plans cross. Without --plan-b the first plan is " +
			"compared against every other plan.",
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
			planA, _ := cmd.Flags().GetString("plan-a")
			planB, _ := cmd.Flags().GetString("plan-b")
			if planA == "" {
				results := comparator.CompareAll(catalog, inputs)
				if len(results) == 0 {
					return fmt.Errorf("catalog has no plans")
				}
				planA = results[0].PlanName
			}

			maxFactorStr, _ := cmd.Flags().GetString("max-factor")
			maxFactor, err := decimal.NewFromString(maxFactorStr)
			if err != nil {
				return fmt.Errorf("invalid --max-factor: %w", err)
			}

			solver := breakeven.NewDefaultSolver(comparator)
			format, _ := cmd.Flags().GetString("format")
			showSweep, _ := cmd.Flags().GetBool("sweep")
			w := cmd.OutOrStdout()

			var result interface{}
			var text string
			if planB == "" {
				results, err := solver.SolveAgainst(cmd.Context(), catalog, inputs, planA, maxFactor)
				if err != nil {
					return err
				}
				result = results
				text = (&breakeven.TableFormatter{}).FormatAll(results)
			} else {
				res, err := solver.Solve(cmd.Context(), breakeven.Request{
					Catalog:   catalog,
					Inputs:    inputs,
					PlanA:     planA,
					PlanB:     planB,
					MaxFactor: maxFactor,
				})
				if err != nil {
					return err
				}
				result = res
				text = (&breakeven.TableFormatter{ShowSweep: showSweep}).Format(res)
			}

			switch strings.ToLower(format) {
			case "table", "console":
				fmt.Fprint(w, text)
			case "json":
				out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, out)
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().String("plan-a", "", "First plan (default: the lowest-cost plan)")
	cmd.Flags().String("plan-b", "", "Second plan (default: every other plan)")
	cmd.Flags().String("max-factor", breakeven.DefaultMaxFactor.String(), "Largest multiple of your estimated spending to search")
	cmd.Flags().Bool("sweep", false, "Show every sweep point")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}
