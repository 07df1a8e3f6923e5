// Package captions computes per-frame visibility and word reveal progress of timed caption chunks.
package captions

import (
	"github.com/ivlev/reelforge/internal/anim"
)

// RiseDistance is how far, in device-independent units, a word travels while it reveals.
const RiseDistance = 12.0

// Word is one individually timed word of a chunk
type Word struct {
	Text            string `yaml:"text"`
	OffsetFromStart int    `yaml:"offsetFromStart"` // frames after Chunk.Start
}

// Chunk is a timed unit of on-screen text. End is inclusive.
type Chunk struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Words []Word `yaml:"words,omitempty"`
	Text  string `yaml:"text,omitempty"`
}

// Animated reports whether the chunk reveals word by word
func (c Chunk) Animated() bool {
	return len(c.Words) > 0
}

// Visible reports whether frame is inside [Start, End]
func (c Chunk) Visible(frame int) bool {
	return frame >= c.Start && frame <= c.End
}

// WordState is the reveal state of a word at one frame
type WordState struct {
	Text     string  `yaml:"text"`
	Progress float64 `yaml:"progress"`
	YOffset  float64 `yaml:"yOffset"`
	Opacity  float64 `yaml:"opacity"`
}

// Rendered is a chunk evaluated at one frame. Static chunks carry a single
// fully revealed unit holding the fallback text.
type Rendered struct {
	Visible bool        `yaml:"visible"`
	Static  bool        `yaml:"static"`
	Words   []WordState `yaml:"words"`
}

// Active returns the chunks that fit inside the rendered span. A chunk ending
// after totalFrames is dropped whole rather than truncated.
func Active(chunks []Chunk, totalFrames int) []Chunk {
	active := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.End > totalFrames {
			continue
		}
		active = append(active, c)
	}
	return active
}

// RevealFrames is the length of one word's reveal ramp: a sixth of a second.
func RevealFrames(fps int) float64 {
	return float64(fps) / 6
}

// Render evaluates chunk at frame.
func Render(c Chunk, frame, fps int) (Rendered, error) {
	if !c.Visible(frame) {
		return Rendered{}, nil
	}

	if !c.Animated() {
		return Rendered{
			Visible: true,
			Static:  true,
			Words:   []WordState{wordState(c.Text, 1)},
		}, nil
	}

	ramp := RevealFrames(fps)
	words := make([]WordState, len(c.Words))
	for i, w := range c.Words {
		appear := float64(c.Start + w.OffsetFromStart)
		p, err := anim.Progress(float64(frame), anim.Domain{Low: appear, High: appear + ramp})
		if err != nil {
			return Rendered{}, err
		}
		words[i] = wordState(w.Text, p)
	}

	return Rendered{Visible: true, Words: words}, nil
}

// VisibleAt renders every chunk visible at frame, keeping list order.
// Overlapping chunks are all returned.
func VisibleAt(chunks []Chunk, frame, fps int) ([]Rendered, error) {
	var out []Rendered
	for _, c := range chunks {
		if !c.Visible(frame) {
			continue
		}
		r, err := Render(c, frame, fps)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func wordState(text string, progress float64) WordState {
	return WordState{
		Text:     text,
		Progress: progress,
		YOffset:  (1 - progress) * RiseDistance,
		Opacity:  progress,
	}
}
