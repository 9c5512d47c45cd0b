package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/config"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile  string
	datasetPath string
	logLevel    string
	logFile     string
	outputDir   string
	preset      string
	radiusMode  string

	// live
	interval   time.Duration
	transition time.Duration
	fps        int
	theme      string
	watch      bool

	// render / export
	renderFmt  string
	outFile    string
	formats    []string
	years      []int
	workers    int
	forceWrite bool
	asJSON     bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bubblechart",
		Short:         "animated income / life expectancy bubble chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		// live view is the default
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&datasetPath, "dataset", "", "dataset JSON file (bundled gapminder data when empty)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&preset, "preset", "", "layout preset")
	pf.StringVar(&radiusMode, "radius-domain", string(chart.DomainFrame), "population domain of the radius scale (frame, global)")
	pf.StringVar(&outputDir, "out-dir", config.DefaultOutputDir, "export directory")

	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the chart in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	renderCmd := &cobra.Command{
		Use:   "render [year]",
		Short: "render one settled frame as SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().StringVar(&renderFmt, "format", "svg", "output format (svg, png)")
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default frame_<year>.<format>)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export frames and the animation into a new run directory",
		Args:  cobra.NoArgs,
		RunE:  exportRun,
	}
	exportCmd.Flags().StringSliceVar(&formats, "formats", []string{"svg"}, "formats to write (svg, png, gif, json)")
	exportCmd.Flags().IntSliceVar(&years, "years", nil, "only export these years")
	exportCmd.Flags().IntVar(&workers, "workers", 0, "concurrent frame renders (default GOMAXPROCS)")
	exportCmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "time per frame in the GIF")
	exportCmd.Flags().DurationVar(&transition, "transition", config.DefaultTransition, "transition duration in the GIF")
	exportCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "GIF frame rate")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list exports",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	yearsCmd := &cobra.Command{
		Use:   "years",
		Short: "list the frames of the dataset",
		Args:  cobra.NoArgs,
		RunE:  listYears,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [year]",
		Short: "print the tooltip of every country in a year",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectYear,
	}
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "print computed positions as JSON")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list layout presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&forceWrite, "force", false, "overwrite an existing file")
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective config",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(liveCmd, renderCmd, exportCmd, runsCmd, yearsCmd, inspectCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "time per frame")
	cmd.Flags().DurationVar(&transition, "transition", config.DefaultTransition, "transition duration")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "redraw rate")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the dataset when the file changes")
}

// setup resolves the effective config (defaults, then the config file, then
// the preset, then flags that were set explicitly) and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg = config.DefaultConfig()
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if preset != "" {
		if err := config.ApplyPreset(cfg, preset); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset = datasetPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("radius-domain") {
		cfg.Scale.RadiusDomain = radiusMode
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("interval") {
		cfg.Animation.Interval = interval
	}
	if flags.Changed("transition") {
		cfg.Animation.Transition = transition
	}
	if flags.Changed("fps") {
		cfg.Animation.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The live view owns the terminal, so it only logs to a file.
	if isLive(cmd) {
		logger, err = logging.ForTerminal(cfg.LogLevel, logFile)
	} else {
		logger, err = logging.New(cfg.LogLevel, logFile)
	}
	return err
}

func isLive(cmd *cobra.Command) bool {
	return cmd.Name() == "live" || !cmd.HasParent()
}

func loadDataset() (*dataset.Dataset, error) {
	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", zap.String("path", datasetName()), zap.Int("frames", ds.Len()))
	return ds, nil
}

func datasetName() string {
	if cfg.Dataset == "" {
		return "bundled"
	}
	return cfg.Dataset
}

func newChart(ds *dataset.Dataset) (*chart.Chart, error) {
	return chart.New(cfg.ChartLayout(), cfg.ChartOptions(), ds)
}
