// Package main provides the CLI entrypoint for charfit.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/calculator"
	"github.com/verte-zerg/charfit/internal/charsui"
	"github.com/verte-zerg/charfit/internal/config"
	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/generic"
	"github.com/verte-zerg/charfit/internal/measure"
	"github.com/verte-zerg/charfit/internal/model"
	"github.com/verte-zerg/charfit/internal/server"
	"github.com/verte-zerg/charfit/internal/stats"
	"github.com/verte-zerg/charfit/internal/store"
	"github.com/verte-zerg/charfit/internal/usage"
)

const (
	defaultMeasureMode = "font"
	defaultCellPx      = 8.0
	defaultSort        = "frequency"
	defaultDir         = "desc"
	defaultAddr        = ":8080"
	defaultLogLevel    = "warn"
	defaultWatchEvery  = time.Second
)

var (
	calcWidth        float64
	calcCorpus       string
	calcGeneric      bool
	calcReduce       bool
	calcLocale       string
	calcLocalize     bool
	calcLangs        []string
	calcGenericRate  float64
	calcGenericRates bool

	filterCapitals bool
	filterNumbers  bool
	filterSymbols  bool
	filterSpaces   bool

	measureMode     string
	measureFont     string
	measureFontSize float64
	measureDPI      float64
	measureCellPx   float64
	measureWidths   string

	logLevel string

	charsSort        string
	charsDir         string
	charsInteractive bool

	usageWatch    bool
	usageInterval time.Duration

	serveAddr string
)

type langSpec struct {
	Code string
	Path string
}

type measureConfig struct {
	Mode     string
	Font     string
	FontSize float64
	DPI      float64
	CellPx   float64
	Widths   string
}

type calcConfig struct {
	Width        float64
	Corpus       string
	Generic      bool
	Filters      model.FilterConfig
	Locale       language.Tag
	Localize     bool
	Langs        []langSpec
	GenericRate  float64
	GenericRates bool
	Measure      measureConfig
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "charfit",
		Short:         "Estimate how many characters fit into a UI element",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalcCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&calcWidth, "width", 0, "element width in pixels")
	flags.StringVar(&calcCorpus, "corpus", "", "corpus file (.json, .toml or one string per line)")
	flags.BoolVar(&calcGeneric, "generic", false, "use the built-in English frequency table instead of a corpus")
	flags.BoolVar(&calcReduce, "reduce", true, "reduce the result by 10%")
	flags.StringVar(&calcLocale, "locale", "", "collation locale for character ranking (BCP 47)")
	flags.BoolVar(&filterCapitals, "ignore-capitals", false, "fold capitals to lowercase")
	flags.BoolVar(&filterNumbers, "ignore-numbers", false, "skip digits")
	flags.BoolVar(&filterSymbols, "ignore-symbols", false, "skip symbols and punctuation")
	flags.BoolVar(&filterSpaces, "ignore-spaces", false, "skip whitespace")
	flags.BoolVar(&calcLocalize, "localize", false, "adjust the result for translation expansion")
	flags.StringArrayVar(&calcLangs, "lang", nil, "translated corpus as code=path (repeatable)")
	flags.Float64Var(&calcGenericRate, "generic-rate", model.DefaultGenericExpansionRate, "generic expansion rate (>= 1)")
	flags.BoolVar(&calcGenericRates, "generic-rates", false, "use the generic expansion rate instead of per-language rates")
	flags.StringVar(&measureMode, "measure", defaultMeasureMode, "width source: font, cells or table")
	flags.StringVar(&measureFont, "font", "", "TrueType font file (default: Go Regular)")
	flags.Float64Var(&measureFontSize, "font-size", measure.DefaultFontSize, "font size in points")
	flags.Float64Var(&measureDPI, "dpi", measure.DefaultDPI, "rendering DPI")
	flags.Float64Var(&measureCellPx, "cell-px", defaultCellPx, "pixel width of one terminal cell")
	flags.StringVar(&measureWidths, "widths", "", "TOML file with measured widths")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(newCharsCmd())
	rootCmd.AddCommand(newUsageCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runCalcCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, log, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := applyCalcConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("--width must be > 0")
	}

	ctx := cmd.Context()
	counter, closeCounter := openCounter(log)
	defer closeCounter()
	tracker := usage.NewTracker(counter, log)

	m, closeMeasurer, err := buildMeasurer(cfg.Measure)
	if err != nil {
		return err
	}
	defer closeMeasurer()

	sess, err := buildSession(ctx, cfg, log, tracker, m)
	if err != nil {
		return err
	}
	res, ready, err := sess.Calculate()
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("calculation inputs are incomplete")
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderCharTable(out, sess.Ranked(stats.SortFrequency, stats.SortDesc)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderLanguages(out, sess.Localization()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCapacity(out, cfg.Width, res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	count := sess.Complete(ctx)
	if _, err := fmt.Fprintf(out, "Calculations: %d\n", count); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCharsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "Show ranked character statistics",
		Args:  cobra.NoArgs,
		RunE:  runCharsCmd,
	}
	cmd.Flags().StringVar(&charsSort, "sort", defaultSort, "sort field: char, count or frequency")
	cmd.Flags().StringVar(&charsDir, "dir", defaultDir, "sort direction: asc or desc")
	cmd.Flags().BoolVar(&charsInteractive, "interactive", false, "open the interactive table")
	return cmd
}

func runCharsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, log, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "sort", &charsSort, fileCfg.Calculator.Sort)
	applyStringConfig(cmd, "dir", &charsDir, fileCfg.Calculator.Dir)
	cfg, err := applyCalcConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	field, err := stats.ParseSortField(charsSort)
	if err != nil {
		return fmt.Errorf("invalid --sort: %w", err)
	}
	dir, err := stats.ParseSortDirection(charsDir)
	if err != nil {
		return fmt.Errorf("invalid --dir: %w", err)
	}
	if charsInteractive && !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("--interactive requires a terminal")
	}

	ctx := cmd.Context()
	m, closeMeasurer, err := buildMeasurer(cfg.Measure)
	if err != nil {
		return err
	}
	defer closeMeasurer()

	if !charsInteractive {
		sess, err := buildSession(ctx, cfg, log, nil, m)
		if err != nil {
			return err
		}
		if err := stats.RenderCharTable(cmd.OutOrStdout(), sess.Ranked(field, dir)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	tracker := usage.NewTracker(st, log)
	sess, err := buildSession(ctx, cfg, log, tracker, m)
	if err != nil {
		return err
	}
	uiCfg := charsui.Config{
		Data:         sess.CharacterData(),
		Localization: sess.Localization(),
		Budget:       cfg.Width,
		Usage:        tracker.Refresh(ctx),
		Field:        field,
		Dir:          dir,
		Locale:       cfg.Locale,
	}
	if cfg.Width > 0 {
		res, ready, err := sess.Calculate()
		if err != nil {
			return err
		}
		if ready {
			uiCfg.Result = &res
		}
	}

	program := tea.NewProgram(charsui.NewModel(uiCfg), tea.WithAltScreen())
	cancelSub := st.Subscribe(func(v int64) { program.Send(charsui.UsageMsg(v)) })
	defer cancelSub()
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := st.Watch(watchCtx, defaultWatchEvery); err != nil {
			log.Warn("failed to watch usage counter", slog.Any("error", err))
		}
	}()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chars TUI: %w", err)
	}
	return nil
}

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show how many calculations have been completed",
		Args:  cobra.NoArgs,
		RunE:  runUsageCmd,
	}
	cmd.Flags().BoolVar(&usageWatch, "watch", false, "follow counter updates")
	cmd.Flags().DurationVar(&usageInterval, "interval", defaultWatchEvery, "poll interval for --watch")
	return cmd
}

func runUsageCmd(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	if usageWatch && usageInterval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	count, err := st.Read(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read usage counter: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Calculations: %d\n", count); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !usageWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cancelSub := st.Subscribe(func(v int64) {
		if _, err := fmt.Fprintf(out, "Calculations: %d\n", v); err != nil {
			logErrf("failed to write output: %v\n", err)
		}
	})
	defer cancelSub()
	return st.Watch(ctx, usageInterval)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, log, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	mc := applyMeasureConfig(cmd, fileCfg)
	if err := validateMeasureConfig(mc); err != nil {
		return err
	}
	applyStringConfig(cmd, "locale", &calcLocale, fileCfg.Calculator.Locale)
	locale, err := parseLocale(calcLocale)
	if err != nil {
		return err
	}

	m, closeMeasurer, err := buildMeasurer(mc)
	if err != nil {
		return err
	}
	defer closeMeasurer()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	srv, err := server.New(server.Options{
		Logger:   log,
		Counter:  st,
		Measurer: m,
		Locale:   locale,
	})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, serveAddr)
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

// loadFileConfig reads the config file and builds the logger.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, *slog.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.LogLevel)
	log, err := newLogger(logLevel)
	if err != nil {
		return config.FileConfig{}, nil, err
	}
	return fileCfg, log, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func applyCalcConfig(cmd *cobra.Command, fileCfg config.FileConfig) (calcConfig, error) {
	applyFloatConfig(cmd, "width", &calcWidth, fileCfg.Calculator.Width)
	applyBoolConfig(cmd, "reduce", &calcReduce, fileCfg.Calculator.Reduce)
	applyBoolConfig(cmd, "generic", &calcGeneric, fileCfg.Calculator.Generic)
	applyStringConfig(cmd, "locale", &calcLocale, fileCfg.Calculator.Locale)
	applyBoolConfig(cmd, "ignore-capitals", &filterCapitals, fileCfg.Filters.IgnoreCapitals)
	applyBoolConfig(cmd, "ignore-numbers", &filterNumbers, fileCfg.Filters.IgnoreNumbers)
	applyBoolConfig(cmd, "ignore-symbols", &filterSymbols, fileCfg.Filters.IgnoreSymbols)
	applyBoolConfig(cmd, "ignore-spaces", &filterSpaces, fileCfg.Filters.IgnoreSpaces)
	applyBoolConfig(cmd, "localize", &calcLocalize, fileCfg.Localization.Enabled)
	applyBoolConfig(cmd, "generic-rates", &calcGenericRates, fileCfg.Localization.GenericRates)
	applyFloatConfig(cmd, "generic-rate", &calcGenericRate, fileCfg.Localization.GenericRate)

	langs, err := parseLangSpecs(calcLangs)
	if err != nil {
		return calcConfig{}, err
	}
	locale, err := parseLocale(calcLocale)
	if err != nil {
		return calcConfig{}, err
	}
	cfg := calcConfig{
		Width:   calcWidth,
		Corpus:  calcCorpus,
		Generic: calcGeneric,
		Filters: model.DefaultFilterConfig().
			WithIgnoreCapitals(filterCapitals).
			WithIgnoreNumbers(filterNumbers).
			WithIgnoreSymbols(filterSymbols).
			WithIgnoreSpaces(filterSpaces).
			WithReduceByTenPercent(calcReduce),
		Locale:       locale,
		Localize:     calcLocalize,
		Langs:        langs,
		GenericRate:  calcGenericRate,
		GenericRates: calcGenericRates,
		Measure:      applyMeasureConfig(cmd, fileCfg),
	}
	if err := validateConfig(cfg); err != nil {
		return calcConfig{}, err
	}
	return cfg, nil
}

func applyMeasureConfig(cmd *cobra.Command, fileCfg config.FileConfig) measureConfig {
	applyStringConfig(cmd, "measure", &measureMode, fileCfg.Measure.Mode)
	applyStringConfig(cmd, "font", &measureFont, fileCfg.Measure.Font)
	applyFloatConfig(cmd, "font-size", &measureFontSize, fileCfg.Measure.FontSize)
	applyFloatConfig(cmd, "dpi", &measureDPI, fileCfg.Measure.DPI)
	applyFloatConfig(cmd, "cell-px", &measureCellPx, fileCfg.Measure.CellPx)
	applyStringConfig(cmd, "widths", &measureWidths, fileCfg.Measure.Widths)
	return measureConfig{
		Mode:     strings.ToLower(strings.TrimSpace(measureMode)),
		Font:     measureFont,
		FontSize: measureFontSize,
		DPI:      measureDPI,
		CellPx:   measureCellPx,
		Widths:   measureWidths,
	}
}

func buildMeasurer(mc measureConfig) (measure.Measurer, func(), error) {
	switch mc.Mode {
	case "cells":
		return measure.CellMeasurer{CellWidth: mc.CellPx}, func() {}, nil
	case "table":
		tm, err := measure.LoadTableMeasurer(mc.Widths)
		if err != nil {
			return nil, nil, err
		}
		return tm, func() {}, nil
	default:
		fm, err := measure.LoadFontMeasurer(mc.Font, mc.FontSize, mc.DPI)
		if err != nil {
			return nil, nil, err
		}
		return fm, func() {
			if cerr := fm.Close(); cerr != nil {
				// Best-effort close of the font face.
				_ = cerr
			}
		}, nil
	}
}

// buildSession loads the datasets and measures widths. A nil tracker disables usage counting.
func buildSession(ctx context.Context, cfg calcConfig, log *slog.Logger, tracker *usage.Tracker, m measure.Measurer) (*calculator.Session, error) {
	sess := calculator.NewSession(
		calculator.WithLogger(log),
		calculator.WithTracker(tracker),
		calculator.WithMeasurer(m),
		calculator.WithLocale(cfg.Locale),
	)
	sess.SetFilters(cfg.Filters)

	if cfg.Generic {
		table, err := generic.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load generic table: %w", err)
		}
		if err := sess.ProcessGeneric(table); err != nil {
			return nil, err
		}
	} else {
		c, err := corpus.LoadFile(cfg.Corpus)
		if err != nil {
			return nil, err
		}
		if err := sess.ProcessDataset(c); err != nil {
			return nil, err
		}
	}

	for _, lang := range cfg.Langs {
		c, err := corpus.LoadFile(lang.Path)
		if err != nil {
			return nil, err
		}
		if err := sess.AddLanguage(lang.Code, c); err != nil {
			return nil, err
		}
	}
	sess.SetLocalizationEnabled(cfg.Localize)
	if cfg.GenericRates {
		sess.SetUseGenericRates(true)
	}
	if err := sess.SetGenericExpansionRate(cfg.GenericRate); err != nil {
		return nil, err
	}
	if err := sess.SetElementWidth(cfg.Width); err != nil {
		return nil, err
	}
	if err := sess.MeasureWidths(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// openCounter opens the usage store. Failures leave usage counting disabled.
func openCounter(log *slog.Logger) (usage.Counter, func()) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Warn("usage counter unavailable", slog.Any("error", err))
		return nil, func() {}
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
}

func parseLangSpecs(values []string) ([]langSpec, error) {
	out := make([]langSpec, 0, len(values))
	for _, v := range values {
		code, path, ok := strings.Cut(v, "=")
		code = strings.TrimSpace(code)
		path = strings.TrimSpace(path)
		if !ok || code == "" || path == "" {
			return nil, fmt.Errorf("invalid --lang value %q (want code=path)", v)
		}
		out = append(out, langSpec{Code: code, Path: path})
	}
	return out, nil
}

func parseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid --locale %q: %w", s, err)
	}
	return tag, nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# charfit configuration
# Uncomment a value to enable it. CLI flags override config values.

# log-level = %q         # debug, info, warn or error

[calculator]
# width = 320.0            # Element width in pixels
# reduce = true            # Reduce the result by 10%%
# generic = false          # Use the built-in English frequency table
# sort = %q        # chars: char, count or frequency
# dir = %q              # chars: asc or desc
# locale = "en"            # Collation locale for ranking

[filters]
# ignore-capitals = false
# ignore-numbers = false
# ignore-symbols = false
# ignore-spaces = false

[localization]
# enabled = false          # Adjust for translation expansion
# generic-rates = false    # Use generic-rate instead of per-language rates
# generic-rate = %.2f      # Generic expansion rate (>= 1)

[measure]
# mode = %q            # font, cells or table
# font = ""                # TrueType file (default: Go Regular)
# font-size = %.1f        # Points
# dpi = %.1f              # Rendering DPI
# cell-px = %.1f           # Pixel width of one terminal cell
# widths = ""              # TOML widths file for mode "table"

[server]
# addr = %q
`,
		defaultLogLevel,
		defaultSort,
		defaultDir,
		model.DefaultGenericExpansionRate,
		defaultMeasureMode,
		measure.DefaultFontSize,
		measure.DefaultDPI,
		defaultCellPx,
		defaultAddr,
	)
}

func validateConfig(cfg calcConfig) error {
	if cfg.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	if cfg.Generic && cfg.Corpus != "" {
		return fmt.Errorf("--corpus and --generic are mutually exclusive")
	}
	if !cfg.Generic && cfg.Corpus == "" {
		return fmt.Errorf("--corpus is required unless --generic is set")
	}
	if cfg.GenericRate < 1 {
		return fmt.Errorf("--generic-rate must be >= 1")
	}
	return validateMeasureConfig(cfg.Measure)
}

func validateMeasureConfig(mc measureConfig) error {
	switch mc.Mode {
	case "font":
		if mc.FontSize <= 0 {
			return fmt.Errorf("--font-size must be > 0")
		}
		if mc.DPI <= 0 {
			return fmt.Errorf("--dpi must be > 0")
		}
	case "cells":
		if mc.CellPx <= 0 {
			return fmt.Errorf("--cell-px must be > 0")
		}
	case "table":
		if mc.Widths == "" {
			return fmt.Errorf("--widths is required for --measure table")
		}
	default:
		return fmt.Errorf("--measure must be font, cells or table")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
