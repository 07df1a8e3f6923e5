package director

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ScheduleDocument is the on-disk form of a computed schedule
type ScheduleDocument struct {
	Version  string         `yaml:"version"`
	Timeline TimelineConfig `yaml:"timeline"`
	Steps    []Step         `yaml:"steps"`
	Schedule Schedule       `yaml:"schedule"`
	Overlap  bool           `yaml:"ctaOverlapsSteps"`
	TailGap  int            `yaml:"tailGapFrames"`
}

// NewScheduleDocument schedules steps under cfg and wraps the result for export
func NewScheduleDocument(cfg TimelineConfig, steps []Step) *ScheduleDocument {
	s := ScheduleScenes(cfg, len(steps))
	return &ScheduleDocument{
		Version:  "1.0",
		Timeline: cfg,
		Steps:    steps,
		Schedule: s,
		Overlap:  s.Overlaps(),
		TailGap:  s.TailGap(cfg.TotalFrames),
	}
}

// EncodeSchedule writes doc as YAML to w
func EncodeSchedule(w io.Writer, doc *ScheduleDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// WriteSchedule writes a schedule document to a YAML file
func WriteSchedule(doc *ScheduleDocument, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadSchedule reads a schedule document from a YAML file
func ReadSchedule(path string) (*ScheduleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc ScheduleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
