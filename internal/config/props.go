package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelforge/internal/captions"
	"github.com/ivlev/reelforge/internal/director"
)

var (
	// ErrMissingField is returned when a required prop is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidProps is returned when a prop is present but unusable.
	ErrInvalidProps = errors.New("invalid props")
)

// Defaults applied to absent optional props.
const (
	DefaultFPS          = 30
	DefaultTotalFrames  = 1800
	DefaultHookDuration = 120
	DefaultStepDuration = 180
	DefaultCTADuration  = 150
	DefaultBrandColor   = "#5EEAD4"
	DefaultTextColor    = "#FFFFFF"
	DefaultBgColor      = "#0B0D12"
	DefaultVignette     = 0.55
	DefaultGradeTint    = "rgba(10, 20, 40, 0.35)"

	// MaxVignette caps the vignette strength applied by the grade layer.
	MaxVignette = 0.85
)

// DefaultSteps is used when the props carry no steps at all.
func DefaultSteps() []director.Step {
	return []director.Step{
		{Label: "Open with the problem", Icon: "spark"},
		{Label: "Show the fix", Icon: "wrench"},
		{Label: "Prove it works", Icon: "check"},
	}
}

// Props is the full input of one composition
type Props struct {
	Title      string `yaml:"title"`
	FootageURL string `yaml:"footageUrl"`

	FPS          int `yaml:"fps"`
	TotalFrames  int `yaml:"totalFrames"`
	HookDuration int `yaml:"hookDuration"`
	StepDuration int `yaml:"stepDuration"`
	CTADuration  int `yaml:"ctaDuration"`

	Steps []director.Step `yaml:"steps"`

	BrandColor string   `yaml:"brandColor"`
	TextColor  string   `yaml:"textColor"`
	BgColor    string   `yaml:"bgColor"`
	Vignette   *float64 `yaml:"vignette"`
	GradeTint  string   `yaml:"gradeTint"`

	Captions  []captions.Chunk `yaml:"captions"`
	BeatCuts  []int            `yaml:"beatCuts"`
	BrollURLs []string         `yaml:"brollUrls"`

	MusicURL string `yaml:"musicUrl"`
	LogoURL  string `yaml:"logoUrl"`
	Handle   string `yaml:"handle"`
}

// LoadProps reads composition props from a YAML file, fills defaults and validates them
func LoadProps(path string) (*Props, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Props
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse props %s: %w", path, err)
	}

	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// ApplyDefaults substitutes documented defaults for absent optional props
func (p *Props) ApplyDefaults() {
	if p.FPS == 0 {
		p.FPS = DefaultFPS
	}
	if p.TotalFrames == 0 {
		p.TotalFrames = DefaultTotalFrames
	}
	if p.HookDuration == 0 {
		p.HookDuration = DefaultHookDuration
	}
	if p.StepDuration == 0 {
		p.StepDuration = DefaultStepDuration
	}
	if p.CTADuration == 0 {
		p.CTADuration = DefaultCTADuration
	}
	if p.Steps == nil {
		p.Steps = DefaultSteps()
	}
	if p.BrandColor == "" {
		p.BrandColor = DefaultBrandColor
	}
	if p.TextColor == "" {
		p.TextColor = DefaultTextColor
	}
	if p.BgColor == "" {
		p.BgColor = DefaultBgColor
	}
	if p.Vignette == nil {
		v := DefaultVignette
		p.Vignette = &v
	}
	if p.GradeTint == "" {
		p.GradeTint = DefaultGradeTint
	}
}

// Validate checks the props after defaults have been applied
func (p *Props) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if p.FootageURL == "" {
		return fmt.Errorf("%w: footageUrl", ErrMissingField)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"fps", p.FPS},
		{"totalFrames", p.TotalFrames},
		{"hookDuration", p.HookDuration},
		{"stepDuration", p.StepDuration},
		{"ctaDuration", p.CTADuration},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidProps, f.name, f.value)
		}
	}

	if p.CTADuration > p.TotalFrames {
		return fmt.Errorf("%w: ctaDuration %d exceeds totalFrames %d", ErrInvalidProps, p.CTADuration, p.TotalFrames)
	}

	for i, c := range p.Captions {
		if c.Start < 0 || c.End < c.Start {
			return fmt.Errorf("%w: caption %d has span [%d, %d]", ErrInvalidProps, i, c.Start, c.End)
		}
		for j, w := range c.Words {
			if w.OffsetFromStart < 0 {
				return fmt.Errorf("%w: caption %d word %d has negative offset", ErrInvalidProps, i, j)
			}
		}
	}

	for i, f := range p.BeatCuts {
		if f < 0 {
			return fmt.Errorf("%w: beat %d at negative frame %d", ErrInvalidProps, i, f)
		}
	}

	return nil
}

// Timeline extracts the frame timing of the props
func (p *Props) Timeline() director.TimelineConfig {
	return director.TimelineConfig{
		FPS:          p.FPS,
		TotalFrames:  p.TotalFrames,
		HookDuration: p.HookDuration,
		StepDuration: p.StepDuration,
		CTADuration:  p.CTADuration,
	}
}

// VignetteStrength returns the configured vignette capped at MaxVignette
func (p *Props) VignetteStrength() float64 {
	v := DefaultVignette
	if p.Vignette != nil {
		v = *p.Vignette
	}
	return min(v, MaxVignette)
}
