package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/latnet/internal/batch"
	"github.com/san-kum/latnet/internal/codegen"
	"github.com/san-kum/latnet/internal/config"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/metrics"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/store"
	"github.com/san-kum/latnet/internal/ui"
)

func printPoints(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, ps, err := loadPointSet(cmd, args)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if indices == "" {
		if err := guard(ctx, ps, cfg.MaxPoints); err != nil {
			return err
		}
		return store.WriteCSV(ctx, out, ps, cfg.Output.Precision)
	}

	bm, err := pointset.ParseIndices(indices)
	if err != nil {
		return err
	}
	if bm.GetCardinality() > cfg.MaxPoints {
		return fmt.Errorf("%s indices, limit %s: %w", pointset.FormatCount(bm.GetCardinality()), pointset.FormatCount(cfg.MaxPoints), pointset.ErrTooManyPoints)
	}
	seq, err := pointset.Select(ps, bm)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	header := []string{"index"}
	for j := 1; j <= ps.Dimension(); j++ {
		header = append(header, "x"+strconv.Itoa(j))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, ps.Dimension()+1)
	for i, p := range seq {
		row[0] = strconv.FormatUint(i, 10)
		for j, v := range p {
			row[j+1] = strconv.FormatFloat(v, 'g', cfg.Output.Precision, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printMatrices(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	def := &cfg.Definition

	if !def.Kind.DigitalNet() {
		size := def.Size
		if cfg.Level != nil {
			size.Power = *cfg.Level
		}
		n, err := size.N()
		if err != nil {
			return err
		}
		fmt.Printf("%s %s points\n", ui.Label("rank-1 lattice:"), ui.Value(pointset.FormatCount(n)))
		fmt.Printf("%s %v\n", ui.Label("generating vector:"), def.Vector)
		return nil
	}

	b, err := newBuilder()
	if err != nil {
		return err
	}
	mats, err := b.Matrices(cmd.Context(), def)
	if err != nil {
		return err
	}

	d := def.InterlacingFactor()
	for c, mat := range mats {
		if cfg.Level != nil {
			if mat, err = mat.Submatrix(*cfg.Level); err != nil {
				return err
			}
		}
		title := fmt.Sprintf("coordinate %d", c/d+1)
		if d > 1 {
			title += fmt.Sprintf(", component %d", c%d+1)
		}
		fmt.Printf("%s %s\n", ui.Title(title), ui.Muted(fmt.Sprintf("(rank %d)", mat.Rank())))
		fmt.Println(mat.String())
	}
	return nil
}

func saveRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	b, err := newBuilder()
	if err != nil {
		return err
	}
	st := store.New(cfg.Output.Dir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	meta, err := batch.NewRunner(b, st, logger).Render(cmd.Context(), cfg, metricsOn)
	if err != nil {
		return err
	}

	fmt.Printf("%s in %v\n", ui.Success("saved"), time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", meta.ID)
	fmt.Printf("points: %s in dimension %d\n", pointset.FormatCount(meta.Points), meta.Dimension)
	printMetrics(meta.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s %s\n", ui.Label(name+":"), ui.Value(strconv.FormatFloat(m[name], 'g', 6, 64)))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tPOINTS\tDIM\tCODEC\tCREATED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Definition.Kind,
			pointset.FormatCount(run.Points),
			run.Dimension,
			run.Codec,
			humanize.Time(run.Timestamp),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", ui.Label(fmt.Sprintf("%-12s", label)), value)
	}
	row("id", meta.ID)
	row("name", meta.Name)
	row("created", meta.Timestamp.Format("2006-01-02 15:04:05")+" ("+humanize.Time(meta.Timestamp)+")")
	row("kind", meta.Definition.Kind.String())
	row("dimension", strconv.Itoa(meta.Dimension))
	if d := meta.Definition.InterlacingFactor(); d > 1 {
		row("interlacing", strconv.Itoa(d))
	}
	row("size", meta.Definition.PointSize().String())
	if meta.Level != nil {
		row("level", strconv.FormatUint(uint64(*meta.Level), 10))
	}
	row("points", ui.Value(pointset.FormatCount(meta.Points)))
	row("codec", string(meta.Codec))

	fmt.Println(ui.Panel(strings.TrimRight(b.String(), "\n")))
	printMetrics(meta.Metrics)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, done, err := output()
	if err != nil {
		return err
	}
	if err := openStore().ExportCSV(f, args[0]); err != nil {
		done()
		return err
	}
	return done()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	f, done, err := output()
	if err != nil {
		return err
	}
	if err := openStore().ExportJSON(f, args[0]); err != nil {
		done()
		return err
	}
	return done()
}

func inspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, ps, err := loadPointSet(cmd, args)
	if err != nil {
		return err
	}
	def := &cfg.Definition

	fmt.Println(ui.Title(cfg.Name))
	fmt.Println(ui.Separator(40))
	fmt.Printf("%s %s\n", ui.Label("kind:       "), def.Kind)
	fmt.Printf("%s %d\n", ui.Label("dimension:  "), ps.Dimension())
	if d := def.InterlacingFactor(); d > 1 {
		fmt.Printf("%s %d\n", ui.Label("interlacing:"), d)
	}
	fmt.Printf("%s %s\n", ui.Label("size:       "), def.PointSize())
	fmt.Printf("%s %s\n", ui.Label("points:     "), ui.Value(pointset.FormatCount(ps.Len())))

	if err := guard(ctx, ps, cfg.MaxPoints); err != nil {
		return err
	}

	results, err := metrics.Evaluate(ctx, ps, metrics.Default(ps.Len(), ps.Dimension())...)
	if err != nil {
		return err
	}
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.Name] = r.Value
	}
	printMetrics(m)

	fmt.Println("\nhistograms:")
	for j := range ps.Dimension() {
		values := slices.Collect(ps.Coordinate(j))
		fmt.Printf("  %s %s\n", ui.Label(fmt.Sprintf("x%-3d", j+1)), ui.Sparkline(ui.Histogram(values, sparkBins)))
	}
	return nil
}

func preview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, ps, err := loadPointSet(cmd, args)
	if err != nil {
		return err
	}

	dim := ps.Dimension()
	if xAxis < 1 || xAxis > dim {
		return fmt.Errorf("x coordinate %d outside 1..%d", xAxis, dim)
	}
	if dim > 1 && (yAxis < 1 || yAxis > dim) {
		return fmt.Errorf("y coordinate %d outside 1..%d", yAxis, dim)
	}

	if err := guard(ctx, ps, cfg.MaxPoints); err != nil {
		return err
	}
	points, err := pointset.Materialize(ctx, ps, cfg.MaxPoints)
	if err != nil {
		return err
	}

	x, y := xAxis-1, yAxis-1
	if dim == 1 {
		// plot the only coordinate against the point index
		n := float64(len(points))
		for i, p := range points {
			points[i] = []float64{p[0], float64(i) / n}
		}
		x, y = 0, 1
	}

	fmt.Printf("%s %s\n", ui.Title(cfg.Name), ui.Muted(fmt.Sprintf("x%d vs x%d, %s points", xAxis, yAxis, pointset.FormatCount(ps.Len()))))
	fmt.Print(ui.Scatter(points, x, y, width, height))

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p[x]
	}
	fmt.Println()
	fmt.Println(ui.HistogramPlot(values, bins, fmt.Sprintf("x%d", xAxis)))
	return nil
}

func generateCode(cmd *cobra.Command, args []string) error {
	l, err := codegen.ParseLanguage(lang)
	if err != nil {
		return err
	}
	cfg, ps, err := loadPointSet(cmd, args)
	if err != nil {
		return err
	}

	f, done, err := output()
	if err != nil {
		return err
	}
	if err := codegen.Render(f, l, ps, cfg.Name); err != nil {
		done()
		return err
	}
	return done()
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := generator.Kinds
	if len(args) > 0 {
		k, err := generator.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []generator.Kind{k}
	}

	for _, k := range kinds {
		presets := config.ListPresets(k)
		if len(presets) == 0 {
			fmt.Printf("no presets for kind: %s\n", k)
			continue
		}
		fmt.Printf("%s\n", ui.Title(k.String()))
		for _, p := range presets {
			def := config.GetPreset(k, p).Definition
			fmt.Printf("  %-14s %s\n", p, ui.Muted(fmt.Sprintf("dim %d, %s points", def.Dimension, def.PointSize())))
		}
	}
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	b, err := newBuilder()
	if err != nil {
		return err
	}

	start := time.Now()
	full, err := b.Build(ctx, &cfg.Definition)
	if err != nil {
		return err
	}
	buildTime := time.Since(start)

	fmt.Printf("benchmarking %s (build %v)\n\n", cfg.Name, buildTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tPOINTS\tTRUNCATE\tEVALUATE\tPOINTS/SEC")

	top := cfg.Definition.Resolution()
	if cfg.Level != nil {
		top = *cfg.Level
	}
	for lvl := uint(0); lvl <= top; lvl++ {
		start := time.Now()
		ps, err := full.Truncate(lvl)
		if err != nil {
			return err
		}
		truncTime := time.Since(start)
		if ps.Len() > cfg.MaxPoints {
			logger.LogLargeSet(ctx, pointset.FormatCount(ps.Len()), pointset.FormatCount(cfg.MaxPoints))
			break
		}

		dim := ps.Dimension()
		start = time.Now()
		err = pointset.ParallelFor(ctx, ps.Len(), 1024, func(lo, hi uint64) {
			buf := make([]float64, dim)
			for i := lo; i < hi; i++ {
				buf = ps.Point(i, buf)
			}
		})
		if err != nil {
			return err
		}
		evalTime := time.Since(start)

		rate := float64(ps.Len()) / max(evalTime.Seconds(), 1e-9)
		fmt.Fprintf(w, "%d\t%s\t%v\t%v\t%s\n",
			lvl, pointset.FormatCount(ps.Len()), truncTime, evalTime, humanize.SIWithDigits(rate, 2, ""))
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}
	b, err := newBuilder()
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	runs, err := batch.NewRunner(b, st, logger).Run(cmd.Context(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOINTS\tDIM")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", run.ID, run.Name, pointset.FormatCount(run.Points), run.Dimension)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
