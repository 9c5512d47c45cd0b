package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/config"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/export"
	"github.com/san-kum/bubblechart/internal/format"
	"github.com/san-kum/bubblechart/internal/scene"
	"github.com/san-kum/bubblechart/internal/storage"
	"github.com/san-kum/bubblechart/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const watchDebounce = 200 * time.Millisecond

var (
	errWatchBundled = errors.New("--watch needs --dataset pointing at a file")
	errUnknownTheme = errors.New("unknown theme")
	errConfigExists = errors.New("config file exists (use --force to overwrite)")
)

func runLive(cmd *cobra.Command, args []string) error {
	if !viz.HasTheme(cfg.Theme) {
		return fmt.Errorf("%w: %s (available: %s)", errUnknownTheme, cfg.Theme, strings.Join(viz.ThemeNames(), ", "))
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := newChart(ds)
	if err != nil {
		return err
	}

	var w *dataset.Watcher
	if watch {
		if cfg.Dataset == "" {
			return errWatchBundled
		}
		w, err = dataset.NewWatcher(cfg.Dataset, watchDebounce, logger)
		if err != nil {
			return err
		}
	}

	m, err := viz.NewModel(c, ds, viz.LiveOptions{
		Interval:   cfg.Animation.Interval,
		Transition: cfg.Animation.Transition,
		FPS:        cfg.Animation.FPS,
		Theme:      cfg.Theme,
		Logger:     logger,
		Watch:      w,
	})
	if err != nil {
		if w != nil {
			_ = w.Close()
		}
		return err
	}
	logger.Info("live view",
		zap.String("dataset", datasetName()),
		zap.Int("frames", ds.Len()),
		zap.Bool("watch", watch))
	return viz.Run(cmd.Context(), m)
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func renderFrame(cmd *cobra.Command, args []string) error {
	year, err := parseYear(args[0])
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(renderFmt)
	if err != nil {
		return err
	}
	if f != export.FormatSVG && f != export.FormatPNG {
		return fmt.Errorf("%w: render writes svg or png, got %q", export.ErrUnknownFormat, renderFmt)
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := newChart(ds)
	if err != nil {
		return err
	}
	v, err := c.FrameForYear(ds, year)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = fmt.Sprintf("frame_%d.%s", year, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch f {
	case export.FormatSVG:
		_, err = io.WriteString(file, export.FrameSVG(c, v))
	case export.FormatPNG:
		var r *export.Raster
		r, err = export.NewRaster()
		if err != nil {
			return err
		}
		defer r.Close()
		err = r.EncodePNG(file, c, v.Year, scene.Settle(v))
	}
	if err != nil {
		return err
	}

	logger.Debug("frame rendered", zap.Int("year", year), zap.String("path", path))
	fmt.Printf("Wrote %s (%d circles)\n", path, len(v.Points))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	fs := make([]export.Format, 0, len(formats))
	for _, s := range formats {
		f, err := export.ParseFormat(s)
		if err != nil {
			return err
		}
		fs = append(fs, f)
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := newChart(ds)
	if err != nil {
		return err
	}

	st := storage.New(cfg.OutputDir)
	ex := export.NewExporter(c, ds, st, logger)
	meta, err := ex.Run(cmd.Context(), export.Options{
		Formats: fs,
		Years:   years,
		Workers: workers,
		GIF: export.GIFOptions{
			Interval:   cfg.Animation.Interval,
			Transition: cfg.Animation.Transition,
			FPS:        cfg.Animation.FPS,
		},
		Dataset: datasetName(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Export %s: %d frames (%d-%d), %s\n",
		meta.ID, meta.Frames, meta.FirstYear, meta.LastYear, humanize.Bytes(uint64(meta.Bytes)))
	fmt.Printf("  dir: %s\n", st.RunDir(meta.ID))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.OutputDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No exports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tDATASET\tYEARS\tFRAMES\tFORMATS\tSIZE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%d\t%s\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			run.Dataset,
			run.FirstYear,
			run.LastYear,
			run.Frames,
			strings.Join(run.Formats, ","),
			humanize.Bytes(uint64(run.Bytes)),
		)
	}
	return w.Flush()
}

func listYears(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := newChart(ds)
	if err != nil {
		return err
	}
	return writeYears(os.Stdout, c, ds)
}

func writeYears(out io.Writer, c *chart.Chart, ds *dataset.Dataset) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tRECORDS\tRENDERABLE\tUNKNOWN\tMIN POP\tMAX POP")
	for _, f := range ds.Frames {
		v := c.Frame(f)
		sum := export.FrameData(f, v)
		lo, hi := "-", "-"
		if len(sum.Points) > 0 {
			minPop, maxPop := sum.Points[0].Population, sum.Points[0].Population
			for _, p := range sum.Points[1:] {
				minPop = min(minPop, p.Population)
				maxPop = max(maxPop, p.Population)
			}
			lo, hi = format.Grouped(minPop), format.Grouped(maxPop)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n",
			sum.Year, sum.Records, sum.Renderable, len(sum.Unknown), lo, hi)
	}
	return w.Flush()
}

func inspectYear(cmd *cobra.Command, args []string) error {
	year, err := parseYear(args[0])
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := newChart(ds)
	if err != nil {
		return err
	}
	return writeInspect(os.Stdout, c, ds, year, asJSON)
}

func writeInspect(out io.Writer, c *chart.Chart, ds *dataset.Dataset, year int, asJSON bool) error {
	v, err := c.FrameForYear(ds, year)
	if err != nil {
		return err
	}
	if asJSON {
		f := ds.Frames[ds.FrameIndex(year)]
		return storage.WriteJSON(out, []storage.FrameExport{export.FrameData(f, v)})
	}
	for i, p := range v.Points {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, chart.NewTooltip(p.Record).String())
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWIDTH\tHEIGHT\tCHROME")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\n", name, p.ContainerWidth, p.ViewportHeight, p.Chrome)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "bubblechart.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceWrite {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
