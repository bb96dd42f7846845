package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/catalog"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/console"
	"github.com/san-kum/algoviz/internal/export"
	"github.com/san-kum/algoviz/internal/logging"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/trace"
	"github.com/san-kum/algoviz/internal/tutor"
	"github.com/san-kum/algoviz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	algorithm  string
	preset     string
	speed      string
	logLevel   string
	logFormat  string
	// export
	format    string
	outFile   string
	stepIndex int
	// plot
	field string
	// tutor
	addr     string
	endpoint string
)

const shutdownTimeout = 5 * time.Second

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "algoviz",
		Short:        "step through classic algorithms in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, "")
			if err != nil {
				return err
			}
			// the alt screen owns the terminal, so TUI sessions do not log
			return viz.RunInteractive(catalog.New(), cfg, logging.Discard())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&algorithm, "algorithm", "", "algorithm (merge, knight, closest-pair, bubble)")
	pf.StringVar(&preset, "preset", "", "use preset input")
	pf.StringVar(&speed, "speed", "", "playback speed (slow, normal, fast)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "log format (text, json)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list algorithms",
		Args:  cobra.NoArgs,
		RunE:  listAlgorithms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list preset inputs for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	generateCmd := &cobra.Command{
		Use:   "generate [algorithm...]",
		Short: "generate traces and summarize them",
		RunE:  generateTraces,
	}

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "play a trace in the terminal player",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playTrace,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [algorithm]",
		Short: "replay a trace as plain text at playback speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  replayTrace,
	}

	exportCmd := &cobra.Command{
		Use:   "export [algorithm]",
		Short: "export a trace as json, csv, or a step as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportTrace,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&stepIndex, "step", -1, "step to render as svg (default last)")

	plotCmd := &cobra.Command{
		Use:   "plot [algorithm]",
		Short: "plot a numeric payload field across the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotField,
	}
	plotCmd.Flags().StringVar(&field, "field", "", "payload field to plot")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the tutor /ask endpoint",
		Args:  cobra.NoArgs,
		RunE:  serveTutor,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")
	serveCmd.Flags().StringVar(&endpoint, "endpoint", "", "upstream /ask endpoint to forward to")

	askCmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "ask the tutor about the selected algorithm",
		Args:  cobra.MinimumNArgs(1),
		RunE:  askTutor,
	}
	askCmd.Flags().StringVar(&endpoint, "endpoint", "", "tutor /ask endpoint")

	rootCmd.AddCommand(listCmd, presetsCmd, generateCmd, playCmd, replayCmd, exportCmd, plotCmd, serveCmd, askCmd)
	return rootCmd
}

// loadConfig layers defaults, the config file, a preset and explicitly set
// flags, in that order. A non-empty arg selects the algorithm.
func loadConfig(cmd *cobra.Command, arg string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if arg != "" {
		cfg.Algorithm = arg
	}
	if preset != "" {
		p := config.GetPreset(cfg.Algorithm, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Algorithm))
		}
		cfg.Apply(p)
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(os.Stderr, level, cfg.Log.Format)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// prepare loads config and generates the selected algorithm's trace.
func prepare(cmd *cobra.Command, args []string) (*config.Config, *slog.Logger, *trace.Store, error) {
	cfg, err := loadConfig(cmd, firstArg(args))
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)
	store, err := catalog.New().Generate(cmd.Context(), cfg.Algorithm, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("trace generated", "algorithm", cfg.Algorithm, "steps", store.Len())
	return cfg, logger, store, nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	cat := catalog.New()
	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Name", "Title", "Description", "Presets"})
	for _, name := range cat.List() {
		e, _ := cat.Lookup(name)
		t.AppendRow(table.Row{
			text.FgCyan.Sprint(e.Name),
			e.Title,
			e.Description,
			strings.Join(config.ListPresets(name), ", "),
		})
	}
	t.Render()
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, ok := catalog.New().Lookup(name); !ok {
		return fmt.Errorf("unknown algorithm: %s", name)
	}
	presets := config.ListPresets(name)
	if len(presets) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no presets for algorithm: %s\n", name)
		return nil
	}
	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Preset", "Input"})
	for _, p := range presets {
		t.AppendRow(table.Row{text.FgCyan.Sprint(p), describeInput(name, config.GetPreset(name, p))})
	}
	t.Render()
	return nil
}

// describeInput summarizes algorithm's section of c on one line.
func describeInput(algorithm string, c *config.Config) string {
	switch algorithm {
	case "merge":
		return fmt.Sprintf("sizes %v", c.Merge.Sizes)
	case "knight":
		return fmt.Sprintf("%dx%d board from (%d,%d)", c.Knight.Size, c.Knight.Size, c.Knight.StartRow, c.Knight.StartCol)
	case "closest-pair":
		return strings.Join(lo.Map(c.ClosestPair.Points, func(p config.PointConfig, _ int) string {
			return fmt.Sprintf("%s(%g,%g)", p.Label, p.X, p.Y)
		}), " ")
	case "bubble":
		return fmt.Sprintf("values %v", c.Bubble.Values)
	}
	return ""
}

func generateTraces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	names := args
	if len(names) == 0 {
		names = []string{cfg.Algorithm}
	}

	start := time.Now()
	stores, err := catalog.New().GenerateAll(cmd.Context(), names, cfg)
	if err != nil {
		return err
	}
	logger.Info("traces generated", "count", len(stores), "elapsed", time.Since(start))

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Algorithm", "Steps", "Kinds", "Metrics"})
	for _, st := range stores {
		sum := metrics.Summarize(st, metrics.Default(st.Algorithm())...)
		t.AppendRow(table.Row{
			text.FgCyan.Sprint(sum.Algorithm),
			sum.Steps,
			formatCounts(sum.Kinds),
			formatValues(sum.Values),
		})
	}
	t.Render()
	return nil
}

func formatCounts(kinds map[trace.Kind]int) string {
	keys := lo.Keys(kinds)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k trace.Kind, _ int) string {
		return fmt.Sprintf("%s=%d", k, kinds[k])
	}), " ")
}

func formatValues(values map[string]float64) string {
	keys := lo.Keys(values)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%g", k, values[k])
	}), " ")
}

func newController(cfg *config.Config, store *trace.Store, logger *slog.Logger, opts ...playback.Option) (*playback.Controller, error) {
	return playback.New(store, append([]playback.Option{
		playback.WithClock(playback.RealClock{}),
		playback.WithDelays(cfg.Delays()),
		playback.WithSpeed(cfg.PlaybackSpeed()),
		playback.WithLogger(logger),
	}, opts...)...)
}

func playTrace(cmd *cobra.Command, args []string) error {
	cfg, _, store, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	ctl, err := newController(cfg, store, logging.Discard())
	if err != nil {
		return err
	}
	defer ctl.Close()

	title := cfg.Algorithm
	if e, ok := catalog.New().Lookup(cfg.Algorithm); ok {
		title = e.Title
	}
	return viz.RunPlayer(ctl, store, title)
}

func replayTrace(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := console.NewPrinter(cmd.OutOrStdout())
	ctl, err := newController(cfg, store, logger, playback.WithObserver(printer))
	if err != nil {
		return err
	}
	defer ctl.Close()

	logger.Info("replay started", "algorithm", cfg.Algorithm, "steps", store.Len(), "speed", cfg.PlaybackSpeed().Label())
	ctl.Run()

	select {
	case <-printer.Done():
		for _, line := range console.History(store.Last().Payload) {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
		}
		return nil
	case <-ctx.Done():
		ctl.Pause()
		logger.Info("replay interrupted", "cursor", ctl.View().Cursor)
		return nil
	}
}

func exportTrace(cmd *cobra.Command, args []string) error {
	_, logger, store, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		err = export.WriteJSON(out, export.NewDocument(store, time.Now()))
	case "csv":
		err = export.WriteCSV(out, store)
	case "svg":
		idx := stepIndex
		if idx < 0 {
			idx = store.Len() - 1
		}
		s, serr := store.StepAt(idx)
		if serr != nil {
			return serr
		}
		_, err = io.WriteString(out, export.StepToSVG(s, 600, 400))
	default:
		return fmt.Errorf("unknown format: %s (available: json, csv, svg)", format)
	}
	if err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported", "file", outFile, "format", format, "steps", store.Len())
	}
	return nil
}

func plotField(cmd *cobra.Command, args []string) error {
	cfg, _, store, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	name := field
	if name == "" {
		name = metrics.ChartField(cfg.Algorithm)
	}
	data := metrics.Series(store, name)
	if len(data) == 0 {
		return fmt.Errorf("no numeric field %q (available: %v)", name, metrics.NumericFields(store))
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "algorithm: %s\n", store.Algorithm())
	fmt.Fprintf(w, "steps: %d\n\n", store.Len())
	fmt.Fprintln(w, asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(name),
	))
	return nil
}

func serveTutor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cmd.Flags().Changed("addr") {
		cfg.Tutor.Addr = addr
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Tutor.Endpoint = endpoint
	}

	var answerer tutor.Answerer = tutor.Unavailable{}
	if cfg.Tutor.Endpoint != "" {
		answerer = tutor.NewClient(cfg.Tutor.Endpoint)
	}
	srv := tutor.NewServer(cfg.Tutor.Addr, tutor.NewHandler(answerer, logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("tutor listening", "addr", cfg.Tutor.Addr, "upstream", cfg.Tutor.Endpoint != "")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("tutor shutting down")
	return srv.Shutdown(shutdownCtx)
}

func askTutor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	url := cfg.Tutor.Endpoint
	if cmd.Flags().Changed("endpoint") {
		url = endpoint
	}
	if url == "" {
		url = "http://" + cfg.Tutor.Addr + "/ask"
	}

	answer, ok := tutor.NewClient(url).Ask(cmd.Context(), cfg.Algorithm, strings.Join(args, " "))
	if !ok {
		return errors.New(answer)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
