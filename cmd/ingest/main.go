package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uidai-ingest/internal/audit"
	"github.com/uidai-ingest/internal/config"
	"github.com/uidai-ingest/internal/dates"
	"github.com/uidai-ingest/internal/pipeline"
	"github.com/uidai-ingest/internal/resolver"
	"github.com/uidai-ingest/internal/store"
	"github.com/uidai-ingest/internal/web"
)

var (
	cfg    config.Settings
	logger *zap.Logger
)

func main() {
	cfg = config.Load()

	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Enrolment region ingestion pipeline",
		Long:  `Ingests enrolment CSV extracts, resolves their regions against the state and union-territory taxonomy, and maintains merged per-region tables`,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.InputDir, "input", cfg.InputDir, "input directory")
	rootCmd.PersistentFlags().StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "output directory")

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createResolveCmd())
	rootCmd.AddCommand(createParseDateCmd())
	rootCmd.AddCommand(createLayoutCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createRunCmd creates the command that processes the input directory.
func createRunCmd() *cobra.Command {
	var keepInput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every CSV file in the input directory",
		Run: func(cmd *cobra.Command, args []string) {
			if keepInput {
				cfg.CleanupInput = false
			}

			p := pipeline.New(cfg, logger)
			result, err := p.Run()
			if err != nil {
				logger.Fatal("run failed", zap.Error(err))
			}

			if cfg.AuditDSN != "" {
				recordRun(result)
			}

			c := result.Totals
			fmt.Println("Run complete.")
			fmt.Printf("  files:     %d\n", len(result.Files))
			fmt.Printf("  rows read: %d\n", c.TotalRead)
			fmt.Printf("  written:   %d (states %d, UTs %d)\n", c.Writes(), c.WrittenStates, c.WrittenUTs)
			fmt.Printf("  omitted:   %d (invalid date %d, unmapped %d, not allowed %d)\n",
				c.Omissions(), c.OmittedInvalidDate, c.OmittedUnmappedRegion, c.OmittedNotAllowed)
			fmt.Printf("  report:    %s\n", cfg.OutputDir+"/"+pipeline.ReportFile)

			if !result.Succeeded() {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&keepInput, "keep-input", false, "do not delete processed input files")
	return cmd
}

// recordRun writes the run to the audit database. Audit problems are logged,
// never fatal: the tables on disk are already correct.
func recordRun(result pipeline.RunResult) {
	tracker, err := audit.Open(cfg.AuditDSN)
	if err != nil {
		logger.Error("audit store unavailable", zap.Error(err))
		return
	}
	defer tracker.Close()

	runID, err := tracker.RecordRun(result)
	if err != nil {
		logger.Error("recording run failed", zap.Error(err))
		return
	}
	logger.Info("run recorded", zap.String("run_id", runID))
}

// createResolveCmd creates a command for resolving a single region label.
func createResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [state] [district]",
		Short: "Resolve a state/district pair against the taxonomy",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			state := args[0]
			district := ""
			if len(args) > 1 {
				district = args[1]
			}

			region := resolver.New(cfg.FuzzyCutoff).Resolve(state, district)
			fmt.Printf("%s\t%s\n", region.Type, region.Name)
		},
	}
}

// createParseDateCmd creates a command for checking date values by hand.
func createParseDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-date [value]...",
		Short: "Parse date values the way the pipeline does",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, arg := range args {
				if t, ok := dates.Parse(arg); ok {
					fmt.Printf("%s\t%s\n", arg, t.Format(dates.Layout))
				} else {
					fmt.Printf("%s\tmissing\n", arg)
				}
			}
		},
	}
}

// createLayoutCmd creates a command that bootstraps the output folder tree.
func createLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Create the output folder tree without processing anything",
		Run: func(cmd *cobra.Command, args []string) {
			if err := store.EnsureLayout(cfg.OutputDir); err != nil {
				logger.Fatal("layout failed", zap.Error(err))
			}
			fmt.Printf("Output layout ready under %s\n", cfg.OutputDir)
		},
	}
}

// createServeCmd creates the read-only status server command.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest report and table counts over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			server := web.NewServer(cfg.ListenAddr, cfg.OutputDir, logger)
			if err := server.Run(); err != nil {
				logger.Fatal("server failed", zap.Error(err))
			}
		},
	}
}
