package engine

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelforge/internal/beats"
	"github.com/ivlev/reelforge/internal/director"
	"github.com/ivlev/reelforge/internal/timeline"
)

// PlanVersion is written into every exported plan.
const PlanVersion = "1.0"

// Plan is the exported render plan: the layer stack of every evaluated frame
// plus the tracks it was computed from. A rendering host consumes it frame by frame.
type Plan struct {
	Version     string                  `yaml:"version"`
	RunID       string                  `yaml:"runId"`
	Title       string                  `yaml:"title"`
	GeneratedAt string                  `yaml:"generatedAt"`
	Timeline    director.TimelineConfig `yaml:"timeline"`
	Schedule    director.Schedule       `yaml:"schedule"`
	Overlays    []beats.Overlay         `yaml:"overlays"`
	From        int                     `yaml:"from"`
	To          int                     `yaml:"to"`
	Frames      []FrameStack            `yaml:"frames"`
}

// FrameStack is the layer stack of one frame
type FrameStack struct {
	Frame  int              `yaml:"frame"`
	Layers []timeline.Layer `yaml:"layers"`
}

// WritePlan writes a plan to a YAML file
func WritePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a plan from a YAML file
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}
