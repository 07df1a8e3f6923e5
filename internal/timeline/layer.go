package timeline

import (
	"github.com/ivlev/reelforge/internal/beats"
	"github.com/ivlev/reelforge/internal/captions"
	"github.com/ivlev/reelforge/internal/director"
)

// Kind identifies what a layer shows. Kinds are listed bottom to top.
type Kind string

const (
	KindMusic    Kind = "music" // non-visual passthrough for the audio host
	KindBase     Kind = "base_clip"
	KindBeat     Kind = "beat_overlay"
	KindGrade    Kind = "grade"
	KindScene    Kind = "scene"
	KindCaption  Kind = "caption"
	KindLogo     Kind = "logo"
	KindHandle   Kind = "handle"
	KindProgress Kind = "progress"
)

// Layer is one entry of a frame's layer stack. Exactly one of the content
// pointers matching Kind is set; media references are passed through untouched.
type Layer struct {
	Kind    Kind    `yaml:"kind"`
	ZIndex  int     `yaml:"zIndex"`
	Source  string  `yaml:"source,omitempty"`
	Opacity float64 `yaml:"opacity"`

	Beat     *BeatContent     `yaml:"beat,omitempty"`
	Grade    *GradeContent    `yaml:"grade,omitempty"`
	Scene    *SceneContent    `yaml:"scene,omitempty"`
	Caption  *CaptionContent  `yaml:"caption,omitempty"`
	Brand    *BrandContent    `yaml:"brand,omitempty"`
	Progress *ProgressContent `yaml:"progress,omitempty"`
}

// BeatContent describes an active b-roll punch-in
type BeatContent struct {
	Overlay beats.Overlay `yaml:"overlay"`
	PunchIn beats.PunchIn `yaml:"punchIn"`
}

// GradeContent is the static color grade and vignette applied over the footage
type GradeContent struct {
	Tint     string  `yaml:"tint"`
	Vignette float64 `yaml:"vignette"`
}

// SceneContent describes the narrative card active at the frame
type SceneContent struct {
	Kind       director.SceneKind `yaml:"kind"`
	Index      int                `yaml:"index"`
	Number     int                `yaml:"number,omitempty"` // 1-based step number
	Heading    string             `yaml:"heading"`
	Label      string             `yaml:"label,omitempty"`
	Icon       string             `yaml:"icon,omitempty"`
	Handle     string             `yaml:"handle,omitempty"`
	Window     director.Window    `yaml:"window"`
	LocalFrame int                `yaml:"localFrame"`
	Entrance   float64            `yaml:"entrance"`
	TranslateY float64            `yaml:"translateY"`
	Accent     string             `yaml:"accent"`
	TextColor  string             `yaml:"textColor"`
}

// CaptionContent is a caption chunk evaluated at the frame
type CaptionContent struct {
	Chunk    int                  `yaml:"chunk"` // index into the active caption list
	Static   bool                 `yaml:"static"`
	Words    []captions.WordState `yaml:"words"`
	Color    string               `yaml:"color"`
	Emphasis string               `yaml:"emphasis"`
}

// BrandContent carries the creator mark
type BrandContent struct {
	Handle string `yaml:"handle,omitempty"`
	Color  string `yaml:"color"`
}

// ProgressContent drives the progress bar. Fraction is not clamped.
type ProgressContent struct {
	Fraction float64 `yaml:"fraction"`
	Color    string  `yaml:"color"`
}
