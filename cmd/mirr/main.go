// Package main is a command-line front end to the housing model. It prints
// the MIRR of the illustrative condo (or of assumptions read from a JSON file)
// and can print the amortization table, run a sensitivity sweep and write the
// sweep as an HTML chart.
//
// Usage:
//
//	mirr [-file assumptions.json] [-schedule] [-rows 12]
//	     [-sweep apr:0.001:0.004] [-chart sweep.html]
//	     [-method nelder-mead|closed-form] [-policy permissive|floored] [-v]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aristath/homestead/internal/modules/charts"
	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/aristath/homestead/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mirr:", err)
		os.Exit(1)
	}
}

type options struct {
	file     string
	schedule bool
	rows     int
	sweep    string
	chart    string
	method   string
	policy   string
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("mirr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.file, "file", "", "JSON file of assumption overrides (name → value)")
	fs.BoolVar(&o.schedule, "schedule", false, "print the amortization table")
	fs.IntVar(&o.rows, "rows", 12, "schedule rows to print (0 = full term)")
	fs.StringVar(&o.sweep, "sweep", "", "sensitivity sweep as attribute:lower:upper")
	fs.StringVar(&o.chart, "chart", "", "write the sweep chart to this HTML file")
	fs.StringVar(&o.method, "method", string(housing.SolverNelderMead), "payment solver: nelder-mead or closed-form")
	fs.StringVar(&o.policy, "policy", string(housing.PrincipalPolicyPermissive), "principal policy: permissive or floored")
	fs.BoolVar(&o.verbose, "v", false, "log solver diagnostics")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.chart != "" && o.sweep == "" {
		return o, fmt.Errorf("-chart requires -sweep")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: stderr})

	method, err := housing.ParseSolverMethod(o.method)
	if err != nil {
		return err
	}
	policy, err := housing.ParsePrincipalPolicy(o.policy)
	if err != nil {
		return err
	}
	factory := housing.NewFactory(housing.SolverConfig{Method: method}, policy, log)

	a, err := loadAssumptions(o.file)
	if err != nil {
		return err
	}

	model, err := factory.NewModel(a)
	if err != nil {
		return err
	}
	ev, err := model.Evaluate()
	if err != nil {
		return err
	}
	printEvaluation(stdout, ev)

	if o.schedule {
		printSchedule(stdout, ev.Schedule, o.rows)
	}

	if o.sweep != "" {
		attr, lower, upper, err := parseSweep(o.sweep)
		if err != nil {
			return err
		}
		res, err := model.Sensitivity(attr, lower, upper)
		if err != nil {
			return err
		}
		printSweep(stdout, res)

		if o.chart != "" {
			if err := writeChart(o.chart, res, log); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\nChart written to %s\n", o.chart)
		}
	}

	return nil
}

// loadAssumptions overlays the JSON file, if any, on the default assumptions.
func loadAssumptions(path string) (housing.Assumptions, error) {
	if path == "" {
		return housing.DefaultAssumptions(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return housing.Assumptions{}, fmt.Errorf("failed to read assumptions: %w", err)
	}
	var overrides map[string]float64
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return housing.Assumptions{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	values := housing.DefaultAssumptions().ToMap()
	for k, v := range overrides {
		values[k] = v
	}
	return housing.FromMap(values)
}

func parseSweep(spec string) (string, float64, float64, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid sweep %q (want attribute:lower:upper)", spec)
	}
	lower, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sweep lower bound %q: %w", parts[1], err)
	}
	upper, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sweep upper bound %q: %w", parts[2], err)
	}
	return parts[0], lower, upper, nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v*100).StringFixed(2) + "%"
}

func printEvaluation(w io.Writer, ev *housing.Evaluation) {
	fmt.Fprintf(w, "MIRR: %s\n\n", percent(ev.MIRR))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Loan payment\t%s\t\n", money(ev.LoanPayment))
	fmt.Fprintf(tw, "Carrying cost\t%s\t\n", money(ev.CarryingCost))
	fmt.Fprintf(tw, "Monthly payment\t%s\t\n", money(ev.MonthlyPayment))
	fmt.Fprintf(tw, "Terminal value\t%s\t\n", money(ev.TerminalValue))
	fmt.Fprintf(tw, "Sale proceeds\t%s\t\n", money(ev.SaleProceeds))
	fmt.Fprintf(tw, "Tax benefit\t%s\t\n", money(ev.TaxBenefit))
	fmt.Fprintf(tw, "Cash flow value\t%s\t\n", money(ev.CashFlowValue))
	fmt.Fprintf(tw, "Capital\t%s\t\n", money(ev.Capital))
	fmt.Fprintf(tw, "Branch\t%s\t\n", ev.Branch)
	tw.Flush()
}

func printSchedule(w io.Writer, schedule housing.Schedule, rows int) {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPayment\tInterest\tPrincipal\tOutstanding\t")
	for _, row := range schedule.Rows(rows) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			row.Month,
			row.Payment.StringFixed(2),
			row.Interest.StringFixed(2),
			row.PrincipalPaid.StringFixed(2),
			row.Outstanding.StringFixed(2))
	}
	tw.Flush()
}

func printSweep(w io.Writer, res *housing.SensitivityResult) {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tMIRR\t\n", res.Attribute)
	for i := range res.Values {
		fmt.Fprintf(tw, "%.6g\t%s\t\n", res.Values[i], percent(res.MIRR[i]))
	}
	tw.Flush()
}

func writeChart(path string, res *housing.SensitivityResult, log zerolog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := charts.NewService(log).RenderSensitivity(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
