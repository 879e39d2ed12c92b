package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/latnet/internal/config"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/logging"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/primpoly"
	"github.com/san-kum/latnet/internal/resultfile"
	"github.com/san-kum/latnet/internal/store"
	"github.com/san-kum/latnet/internal/ui"
)

var (
	dataDir    string
	tablePath  string
	logLevel   string
	logFormat  string
	noColor    bool
	configFile string
	preset     string
	level      uint
	maxPoints  uint64
	codecName  string
	precision  int
	indices    string
	metricsOn  bool
	lang       string
	outPath    string
	xAxis      int
	yAxis      int
	width      int
	height     int
	bins       int
	sparkBins  int
)

var logger = logging.Noop()

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "latnet",
		Short:         "lattice and digital net point generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				ui.SetColor(false)
			}
			return setupLogger(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "run directory")
	rootCmd.PersistentFlags().StringVar(&tablePath, "primitive-table", "", "primitive polynomial table (csv) for Sobol coordinates")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "text or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")

	pointsCmd := &cobra.Command{
		Use:   "points [result_file]",
		Short: "print points as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printPoints,
	}
	addSourceFlags(pointsCmd)
	pointsCmd.Flags().StringVar(&indices, "indices", "", "only these indices, e.g. 0,5,10-20")
	pointsCmd.Flags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits")

	matricesCmd := &cobra.Command{
		Use:   "matrices [result_file]",
		Short: "print generating matrices",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printMatrices,
	}
	addSourceFlags(matricesCmd)

	saveCmd := &cobra.Command{
		Use:   "save [result_file]",
		Short: "render points into the run directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  saveRun,
	}
	addSourceFlags(saveCmd)
	saveCmd.Flags().StringVar(&codecName, "codec", config.DefaultCodec, "none, zstd or lz4")
	saveCmd.Flags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits")
	saveCmd.Flags().BoolVar(&metricsOn, "metrics", true, "store uniformity metrics")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run points to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run points to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	inspectCmd := &cobra.Command{
		Use:   "inspect [result_file]",
		Short: "summarize a point set and its uniformity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspect,
	}
	addSourceFlags(inspectCmd)
	inspectCmd.Flags().IntVar(&sparkBins, "bins", 16, "histogram bins per coordinate")

	previewCmd := &cobra.Command{
		Use:   "preview [result_file]",
		Short: "scatter plot of two coordinates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  preview,
	}
	addSourceFlags(previewCmd)
	previewCmd.Flags().IntVar(&xAxis, "x", 1, "coordinate on the x axis (1-based)")
	previewCmd.Flags().IntVar(&yAxis, "y", 2, "coordinate on the y axis (1-based)")
	previewCmd.Flags().IntVar(&width, "width", 40, "plot width in cells")
	previewCmd.Flags().IntVar(&height, "height", 20, "plot height in cells")
	previewCmd.Flags().IntVar(&bins, "bins", 32, "histogram bins")

	codegenCmd := &cobra.Command{
		Use:   "codegen [result_file]",
		Short: "generate a stand-alone program printing the points",
		Args:  cobra.MaximumNArgs(1),
		RunE:  generateCode,
	}
	addSourceFlags(codegenCmd)
	codegenCmd.Flags().StringVar(&lang, "lang", "c", "c, python or matlab")
	codegenCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [result_file]",
		Short: "time construction and evaluation per level",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	addSourceFlags(benchCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render every job of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	rootCmd.AddCommand(pointsCmd, matricesCmd, saveCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd,
		inspectCmd, previewCmd, codegenCmd, presetsCmd, benchCmd, batchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error("error:"), err)
		os.Exit(1)
	}
}

// addSourceFlags registers the flags selecting and shaping a point set.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as kind/name")
	cmd.Flags().UintVar(&level, "level", 0, "truncate to base^level points")
	cmd.Flags().Uint64Var(&maxPoints, "max-points", pointset.DefaultMaxPoints, "refuse to evaluate larger sets")
}

func setupLogger(lvl, format string) error {
	l, err := logging.ParseLevel(lvl)
	if err != nil {
		return err
	}
	lg, err := logging.New(os.Stderr, format, l)
	if err != nil {
		return err
	}
	logger = lg
	return nil
}

func newBuilder() (*generator.Builder, error) {
	if tablePath == "" {
		return generator.NewBuilder(nil, logger), nil
	}
	f, err := os.Open(tablePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	table, err := primpoly.Load(f)
	if err != nil {
		return nil, fmt.Errorf("primitive table %s: %w", tablePath, err)
	}
	return generator.NewBuilder(table, logger), nil
}

// loadConfig resolves the input and applies the command-line overrides.
// A result file wins; otherwise --config is read over --preset, if both
// are given.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case len(args) > 0:
		b, berr := newBuilder()
		if berr != nil {
			return nil, berr
		}
		res, perr := resultfile.ParseFile(cmd.Context(), args[0], resultfile.VerifyMatrices(b))
		if perr != nil {
			return nil, fmt.Errorf("%s: %w", args[0], perr)
		}
		cfg = config.DefaultConfig()
		cfg.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		cfg.Definition = res.Definition
	case configFile != "":
		base := config.DefaultConfig()
		if preset != "" {
			if base, err = config.Lookup(preset); err != nil {
				return nil, err
			}
		}
		if cfg, err = config.LoadOnto(configFile, base); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		flags := cmd.Flags()
		if !flags.Changed("log-level") && !flags.Changed("log-format") {
			if err := setupLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
				return nil, err
			}
		}
	case preset != "":
		if cfg, err = config.Lookup(preset); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("no input: pass a result file, --config or --preset")
	}

	flags := cmd.Flags()
	if flags.Changed("level") {
		lvl := level
		cfg.Level = &lvl
	}
	if flags.Changed("max-points") {
		cfg.MaxPoints = maxPoints
	}
	if flags.Changed("codec") {
		cfg.Output.Codec = codecName
	}
	if flags.Changed("precision") {
		cfg.Output.Precision = precision
	}
	if flags.Changed("data") || configFile == "" {
		cfg.Output.Dir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadPointSet builds the configured set, truncated to its level.
func loadPointSet(cmd *cobra.Command, args []string) (*config.Config, pointset.PointSet, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	b, err := newBuilder()
	if err != nil {
		return nil, nil, err
	}
	ps, err := b.Build(cmd.Context(), &cfg.Definition)
	if err != nil {
		return nil, nil, err
	}
	if ps, err = cfg.Truncated(ps); err != nil {
		return nil, nil, err
	}
	return cfg, ps, nil
}

// guard refuses sets above the eager limit.
func guard(ctx context.Context, ps pointset.PointSet, limit uint64) error {
	if err := pointset.CheckLimit(ps, limit); err != nil {
		logger.LogLargeSet(ctx, pointset.FormatCount(ps.Len()), pointset.FormatCount(limit))
		return fmt.Errorf("%w (raise --max-points or lower --level)", err)
	}
	return nil
}

func openStore() *store.Store {
	return store.New(dataDir, logger)
}

// output returns stdout, or the file named by --out.
func output() (*os.File, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
