package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelforge/internal/director"
	"github.com/ivlev/reelforge/internal/engine"
)

// Render flags
var (
	renderOutput string
	renderFrom   int
	renderTo     int
	renderStats  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Evaluate every frame and export the render plan",
	Long: `Evaluates the layer stack of each frame in [from, to) in parallel and writes
the resulting plan as YAML. The plan is what a rendering host draws frame by frame.

Examples:
  reelforge render -i input/props/example.yaml
  reelforge render --from 0 --to 300 --output output/hook.yaml --stats`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Plan path (default: timestamped file in the output dir)")
	renderCmd.Flags().IntVar(&renderFrom, "from", 0, "First frame")
	renderCmd.Flags().IntVar(&renderTo, "to", 0, "End frame, exclusive (0 = total frames)")
	renderCmd.Flags().BoolVar(&renderStats, "stats", false, "Log a performance report and append it to the benchmark log")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	tl, err := loadTimeline()
	if err != nil {
		return err
	}

	cfg.FrameFrom = renderFrom
	cfg.FrameTo = renderTo
	cfg.OutputPath = renderOutput
	if cfg.OutputPath == "" {
		cfg.OutputPath = director.GeneratePlanPath(cfg.OutputDir, cfg.InputPath)
	}
	if cmd.Flags().Changed("stats") {
		cfg.ShowStats = renderStats
	}

	project := engine.NewProject(cfg, tl, logger)
	plan, err := project.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d frames)\n", cfg.OutputPath, len(plan.Frames))
	return nil
}
