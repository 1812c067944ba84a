// Package main provides the CLI entrypoint for ampgraph.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ampgraph/internal/config"
	"github.com/verte-zerg/ampgraph/internal/generator"
	"github.com/verte-zerg/ampgraph/internal/logdata"
	"github.com/verte-zerg/ampgraph/internal/model"
	"github.com/verte-zerg/ampgraph/internal/stats"
	"github.com/verte-zerg/ampgraph/internal/tui"
)

const (
	defaultCapacity   = 2000.0
	defaultPlotHeight = 10
	defaultRedrawMs   = 200
	defaultRefreshMs  = 1000
	defaultLogLevel   = "info"

	defaultDemoSamples  = 600
	defaultDemoInterval = 100
)

var version = "dev"

var (
	rootDir      string
	rootLogLevel string
	rootLogFile  string
	rootCapacity float64

	listPlain bool

	showCapacity float64
	showWidth    int
	showHeight   int
	showColor    bool

	exportOut    string
	exportWidth  float64
	exportHeight float64

	demoType     string
	demoSamples  int
	demoInterval int
	demoName     string
	demoSeed     int64
	demoForce    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ampgraph",
		Short:         "Browse current and voltage logs in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runBrowseCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDir, "dir", "", "log directory (default: app data directory)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "append logs to this file")
	rootCmd.Flags().Float64Var(&rootCapacity, "capacity", defaultCapacity, "battery capacity in mAh")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newDirCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// resolveConfig overlays the config file onto flag values. capacity may be nil for
// commands without a --capacity flag.
func resolveConfig(cmd *cobra.Command, capacity *float64, height *int) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &rootDir, fileCfg.Storage.Dir)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)

	capacityMAh := defaultCapacity
	if capacity != nil {
		applyFloatConfig(cmd, "capacity", capacity, fileCfg.Battery.CapacityMAh)
		capacityMAh = *capacity
	} else if fileCfg.Battery.CapacityMAh != nil {
		capacityMAh = *fileCfg.Battery.CapacityMAh
	}

	plotHeight := defaultPlotHeight
	if height != nil {
		applyIntConfig(cmd, "height", height, fileCfg.Plot.Height)
		plotHeight = *height
	} else if fileCfg.Plot.Height != nil {
		plotHeight = *fileCfg.Plot.Height
	}

	redrawMs := defaultRedrawMs
	if fileCfg.Plot.RedrawMs != nil {
		redrawMs = *fileCfg.Plot.RedrawMs
	}
	refreshMs := defaultRefreshMs
	if fileCfg.Browser.RefreshMs != nil {
		refreshMs = *fileCfg.Browser.RefreshMs
	}

	dataDir, err := config.ResolveDataDir(rootDir)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	cfg := model.Config{
		DataDir:         dataDir,
		CapacityMAh:     capacityMAh,
		PlotHeight:      plotHeight,
		RedrawInterval:  time.Duration(redrawMs) * time.Millisecond,
		RefreshInterval: time.Duration(refreshMs) * time.Millisecond,
		Version:         version,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.CapacityMAh <= 0 {
		return fmt.Errorf("--capacity must be > 0")
	}
	if cfg.PlotHeight <= 0 {
		return fmt.Errorf("--height must be > 0")
	}
	if cfg.RedrawInterval <= 0 {
		return fmt.Errorf("plot.redraw-ms must be > 0")
	}
	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("browser.refresh-ms must be > 0")
	}
	return nil
}

func ensureStore(dir string) (*logdata.Store, error) {
	st, err := logdata.NewStore(dir)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureReady(); err != nil {
		return nil, err
	}
	return st, nil
}

// commandLogger logs to --log-file when set, otherwise to stderr.
func commandLogger() (*logrus.Logger, func(), error) {
	if rootLogFile != "" {
		return fileLogger(rootLogLevel, rootLogFile)
	}
	return newLogger(rootLogLevel, os.Stderr), func() {}, nil
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, &rootCapacity, nil)
	if err != nil {
		return err
	}
	st, err := ensureStore(cfg.DataDir)
	if err != nil {
		return err
	}
	log, closeLog, err := fileLogger(rootLogLevel, rootLogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log.WithField("dir", st.Dir()).Info("starting browser")

	m := tui.NewModel(cfg, st, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List valid log files",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().BoolVar(&listPlain, "plain", false, "print file names only")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	st, err := ensureStore(cfg.DataDir)
	if err != nil {
		return err
	}
	log, closeLog, err := commandLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	infos, err := st.ListValidInfos()
	if err != nil {
		return err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	log.WithFields(logrus.Fields{"dir": st.Dir(), "files": len(infos)}).Debug("scanned data directory")

	out := cmd.OutOrStdout()
	if listPlain {
		for _, name := range model.Names(infos) {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	if len(infos) == 0 {
		logErrf("No log files in %s\n", st.Dir())
		return nil
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, humanize.Bytes(uint64(info.Size)), humanize.Time(info.ModTime)})
	}
	if err := stats.WriteTable(out, []string{"Name", "Size", "Modified"}, rows, map[int]bool{1: true}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print statistics and a chart for a log file",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().Float64Var(&showCapacity, "capacity", defaultCapacity, "battery capacity in mAh")
	cmd.Flags().IntVar(&showWidth, "width", 0, "chart width in columns (default: terminal width)")
	cmd.Flags().IntVar(&showHeight, "height", defaultPlotHeight, "chart height in rows")
	cmd.Flags().BoolVar(&showColor, "color", false, "force colored output")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &showCapacity, &showHeight)
	if err != nil {
		return err
	}
	if showWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	ds, err := loadFile(cfg.DataDir, args[0])
	if err != nil {
		return err
	}
	summary, err := stats.Summarize(ds, cfg.CapacityMAh)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderChart(out, stats.ChartFor(ds), showWidth, cfg.PlotHeight, showColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadFile loads name from the data directory, rejecting files the browser would not list.
func loadFile(dir, name string) (*logdata.DataSet, error) {
	st, err := ensureStore(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsValid(name) {
		if _, err := os.Stat(st.Path(name)); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("log file %q not found in %s", name, st.Dir())
		}
		if _, err := st.Load(name); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s is not a valid log file", name)
	}
	return st.Load(name)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Save the chart of a log file as an image",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output image path (.png, .svg, .pdf, .jpg)")
	cmd.Flags().Float64Var(&exportWidth, "width-in", stats.DefaultExportWidth, "image width in inches")
	cmd.Flags().Float64Var(&exportHeight, "height-in", stats.DefaultExportHeight, "image height in inches")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
	}
	ds, err := loadFile(cfg.DataDir, args[0])
	if err != nil {
		return err
	}
	log, closeLog, err := commandLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := stats.ExportImage(out, ds, exportWidth, exportHeight); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": ds.FileName(), "out": out}).Info("exported chart")
	return nil
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a synthetic log file to the data directory",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().StringVar(&demoType, "type", "current", "series type: current or voltage")
	cmd.Flags().IntVar(&demoSamples, "samples", defaultDemoSamples, "number of samples")
	cmd.Flags().IntVar(&demoInterval, "interval", defaultDemoInterval, "sample interval in ms")
	cmd.Flags().StringVar(&demoName, "name", "", "file name (default: demo-<type>-<time>)")
	cmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().BoolVar(&demoForce, "force", false, "overwrite an existing file")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	if demoSamples <= 0 {
		return fmt.Errorf("--samples must be > 0")
	}
	if demoInterval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}

	gen := generator.New()
	if cmd.Flags().Changed("seed") {
		gen = generator.NewWithSeed(demoSeed)
	}
	var valueType string
	var values []float64
	switch strings.ToLower(strings.TrimSpace(demoType)) {
	case "current":
		valueType = model.ValueCurrent
		values = gen.Current(demoSamples, generator.DefaultCurrent)
	case "voltage":
		valueType = model.ValueVoltage
		values = gen.Voltage(demoSamples, generator.DefaultVoltage)
	default:
		return fmt.Errorf("--type must be current or voltage")
	}

	name, err := demoFileName(demoName, valueType, time.Now())
	if err != nil {
		return err
	}
	st, err := ensureStore(cfg.DataDir)
	if err != nil {
		return err
	}
	if !demoForce {
		if _, err := os.Stat(st.Path(name)); err == nil {
			return fmt.Errorf("log file already exists: %s (use --force to overwrite)", st.Path(name))
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat log file: %w", err)
		}
	}
	log, closeLog, err := commandLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := st.Write(name, valueType, demoInterval, values); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": name, "samples": len(values)}).Info("wrote demo log")
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), st.Path(name)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// demoFileName slugifies name into a bare .txt file name.
func demoFileName(name, valueType string, now time.Time) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".txt")
	if name == "" {
		name = fmt.Sprintf("demo %s %s", valueType, now.Format("2006-01-02 150405"))
	}
	s := slug.Make(name)
	if s == "" {
		return "", fmt.Errorf("--name %q has no usable characters", name)
	}
	return s + ".txt", nil
}

func newDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Print the log directory, creating it if needed",
		Args:  cobra.NoArgs,
		RunE:  runDirCmd,
	}
}

func runDirCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	st, err := ensureStore(cfg.DataDir)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), st.Dir()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template at path unless a file exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "ampgraph "+version)
			return err
		},
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ampgraph configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# dir = %q

[battery]
# capacity-mah = %s      # Battery capacity used for the time to run out

[plot]
# height = %d            # Chart rows
# redraw-ms = %d        # Minimum time between chart redraws in the browser

[browser]
# refresh-ms = %d      # Directory rescan interval

[log]
# level = %q         # debug, info, warn or error
`,
		config.DefaultDataDir(),
		strconv.FormatFloat(defaultCapacity, 'f', -1, 64),
		defaultPlotHeight,
		defaultRedrawMs,
		defaultRefreshMs,
		defaultLogLevel,
	)
}
