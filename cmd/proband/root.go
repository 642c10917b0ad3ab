package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/internal/logging"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/config"
)

var (
	cfgFile      string
	verbose      bool
	logLevel     string
	pprofPrefix  string
	pprofCPUFile *os.File

	// Set by the root pre-run hook.
	cfg       *config.Config
	cfgSource string
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "proband",
	Short: "Biomechanical test reports for tennis players",
	Long: `Proband compares the biomechanical test results of a player (proband)
with the group average or with an earlier archived measurement, and writes
PDF, DOCX or HTML reports with charts and interpretations.

Input tables are Excel workbooks (.xlsx) or CSV files with the columns
Jmeno, Prijmeni and Narozen plus one column per measured metric.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		if pprofPrefix != "" {
			f, err := os.Create(pprofPrefix + ".cpu.pprof")
			if err != nil {
				return fmt.Errorf("failed to create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return fmt.Errorf("failed to start CPU profile: %w", err)
			}
			pprofCPUFile = f
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		if pprofPrefix != "" {
			pprof.StopCPUProfile()
			if pprofCPUFile != nil {
				pprofCPUFile.Close()
				color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
			}

			memFile, err := os.Create(pprofPrefix + ".mem.pprof")
			if err != nil {
				return fmt.Errorf("failed to create memory profile: %w", err)
			}
			defer memFile.Close()

			runtime.GC()
			if err := pprof.WriteHeapProfile(memFile); err != nil {
				return fmt.Errorf("failed to write memory profile: %w", err)
			}
			color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pprofPrefix, "pprof", "", "Enable pprof profiling (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)")
}

// setup loads the configuration and builds the logger.
func setup() error {
	var opts []config.LoadOption
	if cfgFile != "" {
		opts = append(opts, config.WithPath(cfgFile))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return err
	}
	cfg, cfgSource = result.Config, result.Source

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	l, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	if cfgSource != "" {
		logger.Debug("configuration loaded", zap.String("source", cfgSource))
	}
	return nil
}

// newService builds the pipeline from the loaded configuration.
func newService() *pipeline.Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return pipeline.New(
		pipeline.WithConfig(cfg),
		pipeline.WithLogger(logger),
		pipeline.WithVersion(version),
	)
}
