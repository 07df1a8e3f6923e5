// Package timeline composes the schedulers into one ordered layer stack per frame.
//
// A Timeline is built once from props and never changes afterwards, so LayersAt
// may be called for any frame, in any order, from any number of goroutines.
package timeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ivlev/reelforge/internal/anim"
	"github.com/ivlev/reelforge/internal/beats"
	"github.com/ivlev/reelforge/internal/captions"
	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/director"
)

// ErrNegativeFrame is returned for frame indexes below zero.
var ErrNegativeFrame = errors.New("negative frame index")

// EntranceFrames is how long a narrative card takes to slide in.
const EntranceFrames = 10

// EntranceRise is the starting vertical offset of a card, in device-independent units.
const EntranceRise = 40.0

// Timeline holds the precomputed tracks of one composition
type Timeline struct {
	props    config.Props
	cfg      director.TimelineConfig
	schedule director.Schedule
	captions []captions.Chunk
	overlays []beats.Overlay
}

// New fills defaults, validates props and precomputes the scene schedule, the
// active captions and the beat overlays. Props are copied; later changes to
// them have no effect.
func New(p *config.Props) (*Timeline, error) {
	props := *p
	props.Steps = slices.Clone(p.Steps)
	props.BeatCuts = slices.Clone(p.BeatCuts)
	props.BrollURLs = slices.Clone(p.BrollURLs)
	props.Captions = make([]captions.Chunk, len(p.Captions))
	for i, c := range p.Captions {
		c.Words = slices.Clone(c.Words)
		props.Captions[i] = c
	}
	if p.Vignette != nil {
		v := *p.Vignette
		props.Vignette = &v
	}

	props.ApplyDefaults()
	if err := props.Validate(); err != nil {
		return nil, err
	}

	cfg := props.Timeline()
	return &Timeline{
		props:    props,
		cfg:      cfg,
		schedule: director.ScheduleScenes(cfg, len(props.Steps)),
		captions: captions.Active(props.Captions, cfg.TotalFrames),
		overlays: beats.Schedule(props.BeatCuts, props.BrollURLs),
	}, nil
}

// Config returns the frame timing of the composition
func (tl *Timeline) Config() director.TimelineConfig {
	return tl.cfg
}

// Title returns the hook title
func (tl *Timeline) Title() string {
	return tl.props.Title
}

// Background returns the canvas color shown where no media is loaded
func (tl *Timeline) Background() string {
	return tl.props.BgColor
}

// Schedule returns the narrative scene windows
func (tl *Timeline) Schedule() director.Schedule {
	s := tl.schedule
	s.Steps = slices.Clone(s.Steps)
	return s
}

// Captions returns the caption chunks kept after dropping those past the end
func (tl *Timeline) Captions() []captions.Chunk {
	return slices.Clone(tl.captions)
}

// Overlays returns the scheduled beat overlays
func (tl *Timeline) Overlays() []beats.Overlay {
	return slices.Clone(tl.overlays)
}

// Steps returns the narrative steps
func (tl *Timeline) Steps() []director.Step {
	return slices.Clone(tl.props.Steps)
}

// ProgressAt returns frame / TotalFrames without clamping
func (tl *Timeline) ProgressAt(frame int) float64 {
	return float64(frame) / float64(tl.cfg.TotalFrames)
}

// LayersAt returns the layer stack for frame, bottom first. ZIndex equals the
// position in the returned slice. The result is freshly allocated on every call.
func (tl *Timeline) LayersAt(frame int) ([]Layer, error) {
	if frame < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}

	var stack []Layer
	push := func(l Layer) {
		l.ZIndex = len(stack)
		stack = append(stack, l)
	}

	if tl.props.MusicURL != "" {
		push(Layer{Kind: KindMusic, Source: tl.props.MusicURL, Opacity: 0})
	}

	push(Layer{Kind: KindBase, Source: tl.props.FootageURL, Opacity: 1})

	for _, o := range beats.ActiveAt(tl.overlays, frame) {
		punch, err := beats.PunchInAt(o, frame)
		if err != nil {
			return nil, fmt.Errorf("beat %d: %w", o.Index, err)
		}
		opacity := punch.Opacity
		if o.Empty {
			opacity = 0
		}
		push(Layer{
			Kind:    KindBeat,
			Source:  o.Source,
			Opacity: opacity,
			Beat:    &BeatContent{Overlay: o, PunchIn: punch},
		})
	}

	push(Layer{
		Kind:    KindGrade,
		Opacity: 1,
		Grade:   &GradeContent{Tint: tl.props.GradeTint, Vignette: tl.props.VignetteStrength()},
	})

	for _, s := range tl.schedule.ActiveAt(frame) {
		scene, err := tl.sceneContent(s, frame)
		if err != nil {
			return nil, err
		}
		push(Layer{Kind: KindScene, Opacity: scene.Entrance, Scene: scene})
	}

	for i, c := range tl.captions {
		if !c.Visible(frame) {
			continue
		}
		r, err := captions.Render(c, frame, tl.cfg.FPS)
		if err != nil {
			return nil, fmt.Errorf("caption %d: %w", i, err)
		}
		push(Layer{
			Kind:    KindCaption,
			Opacity: 1,
			Caption: &CaptionContent{
				Chunk:    i,
				Static:   r.Static,
				Words:    r.Words,
				Color:    tl.props.TextColor,
				Emphasis: tl.props.BrandColor,
			},
		})
	}

	if tl.props.LogoURL != "" {
		push(Layer{Kind: KindLogo, Source: tl.props.LogoURL, Opacity: 1})
	}
	if tl.props.Handle != "" {
		push(Layer{
			Kind:    KindHandle,
			Opacity: 1,
			Brand:   &BrandContent{Handle: tl.props.Handle, Color: tl.props.TextColor},
		})
	}

	push(Layer{
		Kind:     KindProgress,
		Opacity:  1,
		Progress: &ProgressContent{Fraction: tl.ProgressAt(frame), Color: tl.props.BrandColor},
	})

	return stack, nil
}

func (tl *Timeline) sceneContent(s director.ActiveScene, frame int) (*SceneContent, error) {
	local := s.Window.Local(frame)
	entranceDomain := anim.Domain{Low: 0, High: EntranceFrames}

	entrance, err := anim.Progress(float64(local), entranceDomain)
	if err != nil {
		return nil, err
	}
	rise, err := anim.Interpolate(float64(local), entranceDomain, anim.Range{Low: EntranceRise, High: 0}, anim.ClampBoth)
	if err != nil {
		return nil, err
	}

	sc := &SceneContent{
		Kind:       s.Kind,
		Index:      s.Index,
		Window:     s.Window,
		LocalFrame: local,
		Entrance:   entrance,
		TranslateY: rise,
		Accent:     tl.props.BrandColor,
		TextColor:  tl.props.TextColor,
	}

	switch s.Kind {
	case director.SceneHook:
		sc.Heading = tl.props.Title
	case director.SceneStep:
		step := tl.props.Steps[s.Index]
		sc.Number = s.Index + 1
		sc.Heading = fmt.Sprintf("Step %d", sc.Number)
		sc.Label = step.Label
		sc.Icon = step.Icon
	case director.SceneCTA:
		sc.Heading = "Follow for more"
		sc.Handle = tl.props.Handle
	}

	return sc, nil
}
