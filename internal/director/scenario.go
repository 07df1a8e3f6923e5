package director

// TimelineConfig holds the frame-based timing of a composition. All durations are in frames.
type TimelineConfig struct {
	FPS          int `yaml:"fps"`
	TotalFrames  int `yaml:"totalFrames"`
	HookDuration int `yaml:"hookDuration"`
	StepDuration int `yaml:"stepDuration"`
	CTADuration  int `yaml:"ctaDuration"`
}

// Window is a half-open frame span [Start, Start+Length)
type Window struct {
	Start  int `yaml:"start"`
	Length int `yaml:"length"`
}

// End returns the first frame after the window
func (w Window) End() int {
	return w.Start + w.Length
}

// Contains reports whether frame falls inside the window
func (w Window) Contains(frame int) bool {
	return frame >= w.Start && frame < w.End()
}

// Local converts an absolute frame into a frame offset from the window start
func (w Window) Local(frame int) int {
	return frame - w.Start
}

// Step is one value step of the narrative. Order defines numbering.
type Step struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
}

// SceneKind names a narrative scene
type SceneKind string

const (
	SceneHook SceneKind = "hook"
	SceneStep SceneKind = "step"
	SceneCTA  SceneKind = "cta"
)

// Schedule is the set of narrative windows for one composition
type Schedule struct {
	Hook  Window   `yaml:"hook"`
	Steps []Window `yaml:"steps"`
	CTA   Window   `yaml:"cta"`
}

// ActiveScene is a narrative window that contains the queried frame
type ActiveScene struct {
	Kind   SceneKind
	Index  int // step index, 0 for hook and cta
	Window Window
}
