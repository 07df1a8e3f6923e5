package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/logging"
	"github.com/ivlev/reelforge/internal/system"
	"github.com/ivlev/reelforge/internal/timeline"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

// Persistent flags
var (
	inputPath string
	workers   int
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "reelforge",
	Short: "Frame-indexed timeline composition for short vertical videos",
	Long: `reelforge turns a props file (footage, captions, beat cuts, steps, branding)
into the ordered layer stack of every frame of a short vertical video.

When --input is omitted, the newest props file in REELFORGE_INPUT_DIR is used.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Props YAML file (default: newest file in the input dir)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Worker goroutines (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies flags set on cmd and sets up logging
func loadConfig(cmd *cobra.Command) error {
	cfg = config.Load()

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger = logging.Setup(cfg.Environment, cfg.LogLevel)

	cfg.InputPath = inputPath
	if cfg.InputPath == "" {
		latest, err := system.FindLatestProps(cfg.InputDir)
		if err != nil {
			return fmt.Errorf("no --input given and %w; put a props file into %s", err, cfg.InputDir)
		}
		cfg.InputPath = latest
		logger.Info().Str("path", latest).Msg("using newest props file")
	}
	return nil
}

// loadTimeline reads the configured props file and builds its timeline
func loadTimeline() (*timeline.Timeline, error) {
	props, err := config.LoadProps(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load props %s: %w", cfg.InputPath, err)
	}
	tl, err := timeline.New(props)
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	return tl, nil
}
