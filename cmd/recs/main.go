package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"recs/internal/config"
	"recs/internal/domain"
	"recs/internal/loader"
	"recs/internal/logging"
	"recs/internal/parallel"
	"recs/internal/service"
	"recs/internal/summarizer"
	"recs/internal/tui"
)

type globalFlags struct {
	configPath string
	data       []string
	features   string
	logLevel   string
	strategy   string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Err(err).Msg("recs failed")
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Metrics are served only by browse, the
// one long-running command.
func newRootCmd() *cobra.Command {
	var g globalFlags
	rootCmd := &cobra.Command{
		Use:           "recs",
		Short:         "Content-based restaurant recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to YAML config file (optional; uses ~/.config/recs/config.yaml if not provided)")
	rootCmd.PersistentFlags().StringSliceVar(&g.data, "data", nil, "Restaurant listing files or globs")
	rootCmd.PersistentFlags().StringVar(&g.features, "features", "", "Feature code dictionary file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override")
	rootCmd.PersistentFlags().StringVar(&g.strategy, "strategy", "", "Similarity storage: auto, dense or sparse")

	var (
		k           int
		includeSelf bool
	)
	similarCmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "List the restaurants most similar to one restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id %q: %w", args[0], domain.ErrInvalidInput)
			}
			cfg, rec, err := setup(cmd.Context(), g, func(c *config.AppConfig) {
				if cmd.Flags().Changed("include-self") {
					c.Engine.IncludeSelf = includeSelf
				}
			})
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = cfg.Engine.TopK
			}
			return runSimilar(cmd.Context(), rec, id, k)
		},
	}
	similarCmd.Flags().IntVarP(&k, "k", "k", 10, "Number of neighbors")
	similarCmd.Flags().BoolVar(&includeSelf, "include-self", false, "Include the queried restaurant in its own results")

	similarityCmd := &cobra.Command{
		Use:   "similarity <idA> <idB>",
		Short: "Print the cosine similarity of two restaurants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, errA := strconv.Atoi(args[0])
			b, errB := strconv.Atoi(args[1])
			if err := errors.Join(errA, errB); err != nil {
				return fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
			}
			_, rec, err := setup(cmd.Context(), g, nil)
			if err != nil {
				return err
			}
			score, err := rec.Similarity(a, b)
			if err != nil {
				return err
			}
			fmt.Printf("%.6f\n", score)
			return nil
		},
	}

	var metricsAddr string
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse similar restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rec, err := setup(cmd.Context(), g, func(c *config.AppConfig) {
				if metricsAddr != "" {
					c.Metrics.Addr = metricsAddr
				}
			})
			if err != nil {
				return err
			}
			if cfg.Metrics.Addr != "" {
				go serveMetrics(cfg.Metrics.Addr)
			}
			sum := summarizer.NewFrequencySummarizer().Summarize(rec.Vocabulary(), rec.Weighter(), cfg.Summarizer.MaxTerms)
			_, err = tea.NewProgram(tui.New(rec, sum, cfg.Engine.TopK), tea.WithAltScreen()).Run()
			return err
		},
	}
	browseCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while browsing")

	var top int
	sessionsCmd := &cobra.Command{
		Use:   "sessions [files...]",
		Short: "Summarize personality tags from session logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = cfg.Data.Sessions
			}
			if len(args) == 0 {
				return fmt.Errorf("no session files given: %w", domain.ErrInvalidInput)
			}
			sessions, report, err := loader.LoadSessions(args)
			if err != nil {
				return err
			}
			logReport("sessions", report)
			printProfiles(loader.PersonalityProfile(sessions), len(sessions), top)
			return nil
		},
	}
	sessionsCmd.Flags().IntVar(&top, "top", 20, "Number of restaurants to print")

	rootCmd.AddCommand(similarCmd, similarityCmd, browseCmd, sessionsCmd)
	return rootCmd
}

func loadConfig(g globalFlags) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if g.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(g.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(g.data) > 0 {
		cfg.Data.Restaurants = g.data
	}
	if g.features != "" {
		cfg.Data.Features = g.features
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.strategy != "" {
		cfg.Engine.Strategy = g.strategy
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return cfg, nil
}

// setup loads config and data and fits the recommender.
func setup(ctx context.Context, g globalFlags, adjust func(*config.AppConfig)) (*config.AppConfig, *service.Recommender, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	features, err := loader.LoadFeatures(cfg.Data.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("load features: %w", err)
	}
	l := &loader.Restaurants{Features: features, PreserveCase: cfg.Data.PreserveCase}
	restaurants, report, err := l.Load(cfg.Data.Restaurants)
	logReport("load", report)
	if err != nil {
		return nil, nil, err
	}

	exec := parallel.Default()
	if cfg.Engine.Workers > 0 {
		exec = parallel.Executor{Workers: cfg.Engine.Workers}
	}
	start := time.Now()
	rec, fitReport, err := service.Fit(ctx, loader.Items(restaurants), service.Options{
		Strategy:    cfg.Engine.Strategy,
		DenseLimit:  cfg.Engine.DenseLimit,
		IncludeSelf: cfg.Engine.IncludeSelf,
		Executor:    exec,
	})
	logReport("fit", fitReport)
	if err != nil {
		return nil, nil, fmt.Errorf("fit failed: %w", err)
	}
	logging.Info().
		Int("restaurants", rec.Len()).
		Int("terms", rec.Vocabulary().Len()).
		Str("store", rec.StoreName()).
		Dur("took", time.Since(start)).
		Msg("recommender ready")
	return cfg, rec, nil
}

func runSimilar(ctx context.Context, rec *service.Recommender, id, k int) error {
	item, ok := rec.Item(id)
	if !ok {
		return fmt.Errorf("restaurant %d: %w", id, domain.ErrOutOfRange)
	}
	neighbors, err := rec.Similar(ctx, id, k)
	if err != nil {
		return err
	}
	fmt.Printf("Similar to %s (#%d):\n", item.Name, item.ID)
	for i, n := range neighbors {
		fmt.Printf("%3d. %-40s #%-6d %.4f\n", i+1, n.Name, n.ItemID, n.Score)
	}
	return nil
}

func logReport(stage string, report domain.Report) {
	for _, f := range report.Failures {
		logging.Warn().Str("stage", stage).Str("source", f.Source).Int("line", f.Line).Err(f.Err).Msg("record degraded")
	}
	if n := len(report.Failures); n > 0 {
		logging.Info().Str("stage", stage).Int("processed", report.Processed).Int("failures", n).Msg("batch finished with failures")
	}
}

func printProfiles(profiles map[int]map[string]int, sessions, top int) {
	type row struct {
		id    int
		total int
		tags  map[string]int
	}
	rows := make([]row, 0, len(profiles))
	for id, tags := range profiles {
		total := 0
		for _, c := range tags {
			total += c
		}
		rows = append(rows, row{id, total, tags})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].id < rows[j].id
	})
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}
	fmt.Printf("%d sessions, %d restaurants with personality tags\n", sessions, len(profiles))
	for _, r := range rows {
		names := make([]string, 0, len(r.tags))
		for tag := range r.tags {
			names = append(names, tag)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, tag := range names {
			parts[i] = fmt.Sprintf("%s=%d", tag, r.tags[tag])
		}
		fmt.Printf("#%-6d %s\n", r.id, strings.Join(parts, " "))
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logging.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Err(err).Msg("metrics server stopped")
	}
}
