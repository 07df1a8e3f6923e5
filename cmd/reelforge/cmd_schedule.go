package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/director"
)

var scheduleOutput string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the hook, step and call-to-action windows",
	Long: `Prints the narrative scene schedule of the props file. When the steps do not
fit, the call-to-action is pulled back over them; the document flags this as
ctaOverlapsSteps and reports frames left after the call-to-action as tailGapFrames.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&scheduleOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	props, err := config.LoadProps(cfg.InputPath)
	if err != nil {
		return err
	}

	doc := director.NewScheduleDocument(props.Timeline(), props.Steps)
	if doc.Overlap {
		logger.Warn().Int("cta_start", doc.Schedule.CTA.Start).Msg("cta overlaps the tail steps")
	}

	if scheduleOutput == "" {
		return director.EncodeSchedule(cmd.OutOrStdout(), doc)
	}

	if err := os.MkdirAll(filepath.Dir(scheduleOutput), 0755); err != nil {
		return err
	}
	if err := director.WriteSchedule(doc, scheduleOutput); err != nil {
		return err
	}
	logger.Info().Str("path", scheduleOutput).Msg("schedule written")
	return nil
}
