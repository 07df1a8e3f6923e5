// Package beats schedules short b-roll punch-in overlays on supplied beat frames.
package beats

import (
	"github.com/ivlev/reelforge/internal/anim"
	"github.com/ivlev/reelforge/internal/director"
)

const (
	// BaseLength is the overlay length of beat 0; later beats add i mod LengthCycle frames.
	BaseLength  = 14
	LengthCycle = 4

	// PunchScale is the overlay scale on its first frame; it settles to 1 by the window end.
	PunchScale = 1.12
)

// Overlay is one beat-cut window with its assigned b-roll source.
// An overlay without a source is an empty slot: it occupies the timeline but shows nothing.
type Overlay struct {
	Index  int             `yaml:"index"`
	Window director.Window `yaml:"window"`
	Source string          `yaml:"source,omitempty"`
	Empty  bool            `yaml:"empty"`
}

// Schedule builds one overlay per beat frame, in the order given.
// Lengths cycle 14, 15, 16, 17 by index and sources wrap around cyclically.
func Schedule(beatFrames []int, sources []string) []Overlay {
	overlays := make([]Overlay, len(beatFrames))
	for i, f := range beatFrames {
		o := Overlay{
			Index:  i,
			Window: director.Window{Start: f, Length: Length(i)},
			Empty:  len(sources) == 0,
		}
		if !o.Empty {
			o.Source = sources[i%len(sources)]
		}
		overlays[i] = o
	}
	return overlays
}

// Length returns the window length of the beat at index i
func Length(i int) int {
	return BaseLength + i%LengthCycle
}

// ActiveAt returns the overlays whose windows contain frame, in list order
func ActiveAt(overlays []Overlay, frame int) []Overlay {
	var active []Overlay
	for _, o := range overlays {
		if o.Window.Contains(frame) {
			active = append(active, o)
		}
	}
	return active
}

// PunchIn is the transform of an active overlay at one frame
type PunchIn struct {
	LocalFrame int     `yaml:"localFrame"`
	Scale      float64 `yaml:"scale"`
	Opacity    float64 `yaml:"opacity"`
}

// PunchInAt computes the zoom-settle transform of o at frame.
// Scale eases from PunchScale down to 1 over the window.
func PunchInAt(o Overlay, frame int) (PunchIn, error) {
	local := o.Window.Local(frame)

	t, err := anim.Progress(float64(local), anim.Domain{Low: 0, High: float64(o.Window.Length - 1)})
	if err != nil {
		return PunchIn{}, err
	}

	return PunchIn{
		LocalFrame: local,
		Scale:      anim.Lerp(PunchScale, 1, anim.EaseOutCubic(t)),
		Opacity:    1,
	}, nil
}
