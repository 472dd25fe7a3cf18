package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pitchside/crease/internal/analyze"
	"github.com/pitchside/crease/internal/config"
	"github.com/pitchside/crease/internal/dataset"
	"github.com/pitchside/crease/internal/narrative"
	"github.com/pitchside/crease/internal/server"
	"github.com/pitchside/crease/internal/stats"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "crease",
	Short:   "IPL cricket analytics with AI commentary",
	Long:    "Crease aggregates historical IPL match and ball-by-ball records into leaderboards, season trends and player comparisons, narrated by a hosted language model.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("crease", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/crease/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your matches/deliveries tables and set the narrative API key env var.")
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a summary of the loaded dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		fmt.Println("Dataset:")
		fmt.Printf("  Matches:    %d\n", len(ds.Matches()))
		fmt.Printf("  Deliveries: %d\n", len(ds.Deliveries()))
		fmt.Printf("  Seasons:    %d\n", len(ds.Seasons()))
		fmt.Printf("  Batters:    %d\n", len(ds.Players()))
		return nil
	},
}

// --- stats commands ---

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregated statistics",
}

var scorersCmd = &cobra.Command{
	Use:   "scorers",
	Short: "Top run scorers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		entries, err := stats.TopRunScorers(ds, statsLimit)
		if err != nil {
			return err
		}
		printLeaderboard("Runs", entries)
		return nil
	},
}

var wicketsCmd = &cobra.Command{
	Use:   "wickets",
	Short: "Top wicket takers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		entries, err := stats.TopWicketTakers(ds, statsLimit)
		if err != nil {
			return err
		}
		printLeaderboard("Wickets", entries)
		return nil
	},
}

var trendMode string

var trendCmd = &cobra.Command{
	Use:   "trend [player]",
	Short: "A player's per-season totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		mode := stats.ModeRuns
		if trendMode == string(stats.ModeWickets) {
			mode = stats.ModeWickets
		}
		points, err := stats.SeasonTrend(ds, args[0], mode)
		if err != nil {
			return err
		}

		tbl := tablewriter.NewTable(os.Stdout)
		tbl.Header("Season", string(mode))
		for _, p := range points {
			tbl.Append(p.Season, strconv.Itoa(p.Value))
		}
		return tbl.Render()
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [playerA] [playerB]",
	Short: "Two players' stat blocks side by side",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		comparison, err := stats.ComparePlayers(ds, args[0], args[1])
		if err != nil {
			return err
		}

		tbl := tablewriter.NewTable(os.Stdout)
		tbl.Header("", comparison.A.Name, comparison.B.Name)
		tbl.Append("Runs", strconv.Itoa(comparison.A.Runs), strconv.Itoa(comparison.B.Runs))
		tbl.Append("Strike rate", fmt.Sprintf("%.2f", comparison.A.StrikeRate), fmt.Sprintf("%.2f", comparison.B.StrikeRate))
		tbl.Append("Average", fmt.Sprintf("%.2f", comparison.A.Average), fmt.Sprintf("%.2f", comparison.B.Average))
		tbl.Append("Matches", strconv.Itoa(comparison.A.Matches), strconv.Itoa(comparison.B.Matches))
		tbl.Append("Wickets", strconv.Itoa(comparison.A.Wickets), strconv.Itoa(comparison.B.Wickets))
		tbl.Append("Best season", comparison.A.BestSeason, comparison.B.BestSeason)
		return tbl.Render()
	},
}

func init() {
	statsCmd.PersistentFlags().IntVarP(&statsLimit, "limit", "n", 10, "Leaderboard size")
	trendCmd.Flags().StringVar(&trendMode, "mode", "runs", "Metric to trend: runs or wickets")

	statsCmd.AddCommand(scorersCmd)
	statsCmd.AddCommand(wicketsCmd)
	statsCmd.AddCommand(trendCmd)
	statsCmd.AddCommand(compareCmd)
}

func printLeaderboard(metric string, entries []stats.LeaderboardEntry) {
	tbl := tablewriter.NewTable(os.Stdout)
	tbl.Header("Rank", "Player", metric)
	for i, e := range entries {
		tbl.Append(strconv.Itoa(i+1), e.Player, strconv.Itoa(e.Value))
	}
	if err := tbl.Render(); err != nil {
		log.Printf("Error rendering table: %v", err)
	}
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [question]",
	Short: "Run a question through the full pipeline and print AI commentary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		// The credential check happens here, before any query runs.
		provider, err := narrative.CreateProvider(cfg.Narrative)
		if err != nil {
			return err
		}

		analyzer := analyze.New(ds, provider, cfg.Narrative.MaxTokens)
		result, err := analyzer.Ask(context.Background(), args[0])
		if err != nil {
			return err
		}

		if len(result.Facts) > 0 {
			fmt.Println("Facts:")
			for _, f := range result.Facts {
				fmt.Printf("  %s: %s\n", f.Label, f.Value)
			}
			fmt.Println()
		}
		fmt.Println(result.Commentary)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		provider, err := narrative.CreateProvider(cfg.Narrative)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting dashboard at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ds, analyze.New(ds, provider, cfg.Narrative.MaxTokens), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func loadDataset() (*dataset.Dataset, error) {
	d := cfg.Data
	ds, err := dataset.Load(d.Format, d.MatchesPath, d.DeliveriesPath, d.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d matches, %d deliveries", len(ds.Matches()), len(ds.Deliveries()))
	return ds, nil
}
