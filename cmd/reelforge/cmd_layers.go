package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelforge/internal/engine"
)

var layersFrame int

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Print the layer stack of one frame as YAML",
	RunE:  runLayers,
}

func init() {
	rootCmd.AddCommand(layersCmd)

	layersCmd.Flags().IntVarP(&layersFrame, "frame", "f", 0, "Frame index")
}

func runLayers(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	tl, err := loadTimeline()
	if err != nil {
		return err
	}

	layers, err := tl.LayersAt(layersFrame)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(engine.FrameStack{Frame: layersFrame, Layers: layers}); err != nil {
		return err
	}
	return enc.Close()
}
