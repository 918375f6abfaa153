package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/api"
	"github.com/mindfiredigital/PivotHead-sub001/config"
	"github.com/mindfiredigital/PivotHead-sub001/engine"
	"github.com/mindfiredigital/PivotHead-sub001/helpers"
	"github.com/mindfiredigital/PivotHead-sub001/profile"
	"github.com/mindfiredigital/PivotHead-sub001/recommend"
)

// ============================================================================
// PIVOTCHART CLI — Chart recommendations and chart data for flat files
// ============================================================================

const version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	file       string
	rows       string
	cols       string
	measures   string
	chart      string
	recommend  bool
	profile    bool
	discover   bool
	format     string
	out        string
	serve      bool
	configPath string
	envFile    string
	limit      int
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	o := &options{}
	fset := flag.NewFlagSet("pivotchart", flag.ContinueOnError)
	fset.SetOutput(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	fset.StringVar(&o.file, "file", "", "Path to CSV or XLSX data file")
	fset.StringVar(&o.rows, "rows", "", "Comma-separated row fields (default: suggested layout)")
	fset.StringVar(&o.cols, "cols", "", "Comma-separated column fields")
	fset.StringVar(&o.measures, "measures", "", "Comma-separated measures (default: all)")
	fset.StringVar(&o.chart, "chart", "auto", "Chart type, or auto for the top recommendation")
	fset.BoolVar(&o.recommend, "recommend", false, "Print ranked recommendations and exit")
	fset.BoolVar(&o.profile, "profile", false, "Print the data profile and exit")
	fset.BoolVar(&o.discover, "discover", false, "Print the auto-detected schema and exit")
	fset.StringVar(&o.format, "format", "json", "Output format: json, pretty, text, csv")
	fset.StringVar(&o.out, "out", "", "Write output to file instead of stdout")
	fset.BoolVar(&o.serve, "serve", false, "Run the HTTP server instead of a one-shot command")
	fset.StringVar(&o.configPath, "config", "config.yaml", "Path to YAML config (optional)")
	fset.StringVar(&o.envFile, "env", ".env", "Path to .env file (optional)")
	fset.IntVar(&o.limit, "limit", 0, "Keep the top N row categories (overrides top_n)")
	fset.BoolVar(&o.version, "version", false, "Print version and exit")

	fset.Usage = func() {
		fmt.Fprintf(stderr, `pivotchart — chart recommendations for pivot data

Usage:
  pivotchart --file sales.csv --recommend --format pretty
  pivotchart --file sales.csv --rows region --cols product --chart stackedColumn --format csv
  pivotchart --file budget.xlsx --rows category,field --chart treemap
  pivotchart --serve --config config.yaml

Flags:
`)
		fset.PrintDefaults()
		fmt.Fprintf(stderr, `
Chart types:
  %s

Formats:
  json      Full JSON output (default)
  pretty    Pretty-printed JSON
  text      Human-readable summary only
  csv       Chart data as CSV (ready for Sheets/Excel)
`, strings.Join(chartTypeNames(), ", "))
	}

	if err := fset.Parse(args); err != nil {
		return nil, fset, errUsage
	}
	return o, fset, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, fset, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintf(stdout, "pivotchart %s\n", version)
		return nil
	}

	// ── Configuration ─────────────────────────────────────────────────────
	if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", o.envFile, err)
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("runId", uuid.NewString()))

	if o.serve {
		return serve(cfg, logger)
	}

	if o.file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fset.Usage()
		return errUsage
	}
	switch o.format {
	case "json", "pretty", "text", "csv":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	writer := stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Data + schema ─────────────────────────────────────────────────────
	tbl, err := helpers.ReadFile(o.file)
	if err != nil {
		return err
	}
	ds, err := helpers.NewDataset(tbl)
	if err != nil {
		return fmt.Errorf("auto-detect failed: %w", err)
	}
	logger.Info("schema discovered",
		zap.String("file", o.file),
		zap.Int("dimensions", len(ds.Schema.Dimensions)),
		zap.Int("measures", len(ds.Schema.Measures)),
		zap.Int("skipped", len(ds.Schema.SkippedColumns)),
		zap.Int("records", len(ds.Records)),
	)

	if o.discover {
		return writeJSON(writer, ds.Schema, o.format)
	}

	state, err := ds.State(splitList(o.rows), splitList(o.cols), splitList(o.measures))
	if err != nil {
		return err
	}

	p := profile.Build(state, profile.WithLogger(logger))
	if o.profile {
		return writeJSON(writer, p, o.format)
	}

	thresholds, err := cfg.Thresholds()
	if err != nil {
		return err
	}
	recs := recommend.NewEngine(
		recommend.WithThresholds(thresholds),
		recommend.WithLogger(logger),
	).RecommendProfile(p)

	if o.recommend {
		if o.format == "text" {
			for _, r := range recs {
				fmt.Fprintf(writer, "%-14s %.2f  %s (%s)\n", r.ChartType, r.Score, r.Reason, r.Preview)
			}
			return nil
		}
		return writeJSON(writer, recs, o.format)
	}

	// ── Chart data ────────────────────────────────────────────────────────
	chartType := engine.ChartType(o.chart)
	if o.chart == "auto" {
		best, _ := recs.Best()
		chartType = best.ChartType
	}

	opts := cfg.EngineOptions(logger)
	if o.limit > 0 {
		opts = append(opts, engine.WithLimit(o.limit))
	}
	result, err := engine.Build(chartType, engine.InputFromState(state, nil), opts...)
	if err != nil {
		return err
	}
	logger.Info("chart built", zap.String("chartType", string(result.ChartType)))

	switch o.format {
	case "csv":
		return helpers.WriteCSV(writer, engine.BuildTable(result))
	case "text":
		for _, line := range engine.BuildText(result).Lines {
			fmt.Fprintln(writer, line)
		}
		return nil
	default:
		rec, _ := recs.Find(result.ChartType)
		return writeJSON(writer, cliOutput{Recommendation: rec, Result: result}, o.format)
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	srv, err := api.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// ============================================================================
// OUTPUT
// ============================================================================

type cliOutput struct {
	Recommendation recommend.Recommendation `json:"recommendation"`
	Result         *engine.Result           `json:"result"`
}

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func chartTypeNames() []string {
	names := make([]string, len(engine.ChartTypes))
	for i, t := range engine.ChartTypes {
		names[i] = string(t)
	}
	return names
}
