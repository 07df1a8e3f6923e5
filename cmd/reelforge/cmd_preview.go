package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelforge/internal/preview"
	"github.com/ivlev/reelforge/internal/system"
)

// Preview flags
var (
	previewFrame  int
	previewFrames []int
	previewCols   int
	previewOut    string
	previewWidth  int
	previewHeight int
	previewRaw    bool
	previewTo     int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw a schematic PNG of one frame or a contact sheet of several",
	Long: `Draws the layer stack as labelled boxes and text. Media is never loaded.

Examples:
  reelforge preview --frame 300
  reelforge preview --frames 0,150,300,450,700 --cols 5 --out output/sheet.png
  reelforge preview --raw --frame 0 --to 300 | ffplay -f rawvideo -pixel_format rgba -video_size 540x960 -framerate 30 -`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVarP(&previewFrame, "frame", "f", 0, "Frame to draw")
	previewCmd.Flags().IntSliceVar(&previewFrames, "frames", nil, "Frames for a contact sheet, in order")
	previewCmd.Flags().IntVar(&previewCols, "cols", 4, "Contact sheet columns")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "PNG path (default: output dir)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "Raster width (default REELFORGE_PREVIEW_WIDTH)")
	previewCmd.Flags().IntVar(&previewHeight, "height", 0, "Raster height (default REELFORGE_PREVIEW_HEIGHT)")
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "Stream raw RGBA frames [frame, to) to stdout")
	previewCmd.Flags().IntVar(&previewTo, "to", 0, "End frame for --raw, exclusive (0 = total frames)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	tl, err := loadTimeline()
	if err != nil {
		return err
	}

	if previewWidth > 0 {
		cfg.PreviewWidth = previewWidth
	}
	if previewHeight > 0 {
		cfg.PreviewHeight = previewHeight
	}

	r, err := preview.New(tl, preview.Options{Width: cfg.PreviewWidth, Height: cfg.PreviewHeight})
	if err != nil {
		return err
	}

	if previewRaw {
		to := previewTo
		if to == 0 {
			to = tl.Config().TotalFrames
		}
		logger.Info().Int("from", previewFrame).Int("to", to).Msg("streaming raw frames")
		return r.Stream(cmd.Context(), cmd.OutOrStdout(), previewFrame, to)
	}

	out := previewOut
	if len(previewFrames) > 0 {
		if out == "" {
			out = previewPath("sheet")
		}
		sheet, err := r.ContactSheet(cmd.Context(), previewFrames, previewCols, cfg.Workers)
		if err != nil {
			return err
		}
		if err := preview.WritePNG(sheet, out); err != nil {
			return err
		}
		logger.Info().Str("path", out).Ints("frames", previewFrames).Msg("contact sheet written")
		return nil
	}

	if out == "" {
		out = previewPath(fmt.Sprintf("frame%05d", previewFrame))
	}
	img, err := r.Frame(previewFrame)
	if err != nil {
		return err
	}
	defer system.PutImage(img)

	if err := preview.WritePNG(img, out); err != nil {
		return err
	}
	logger.Info().Str("path", out).Int("frame", previewFrame).Msg("preview written")
	return nil
}

func previewPath(suffix string) string {
	base := filepath.Base(cfg.InputPath)
	name := strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_%s.png", name, suffix, timestamp))
}
