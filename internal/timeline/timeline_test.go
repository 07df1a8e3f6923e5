package timeline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ivlev/reelforge/internal/captions"
	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/director"
)

func testProps() *config.Props {
	return &config.Props{
		Title:      "Three editing tricks",
		FootageURL: "https://cdn.example.com/clip.mp4",
		Captions: []captions.Chunk{
			{Start: 0, End: 70, Words: []captions.Word{{Text: "Stop", OffsetFromStart: 0}, {Text: "scrolling", OffsetFromStart: 8}}},
			{Start: 30, End: 90, Text: "overlapping line"},
			{Start: 1790, End: 1810, Text: "too late"},
		},
		BeatCuts:  []int{60, 120, 240},
		BrollURLs: []string{"a.mp4", "b.mp4"},
	}
}

func mustTimeline(t *testing.T, p *config.Props) *Timeline {
	t.Helper()
	tl, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tl
}

func kinds(layers []Layer) []Kind {
	out := make([]Kind, len(layers))
	for i, l := range layers {
		out[i] = l.Kind
	}
	return out
}

func TestNewAppliesDefaults(t *testing.T) {
	tl := mustTimeline(t, testProps())

	cfg := tl.Config()
	if cfg.FPS != 30 || cfg.TotalFrames != 1800 {
		t.Errorf("unexpected timing: %+v", cfg)
	}
	if len(tl.Steps()) != 3 {
		t.Errorf("expected default steps, got %d", len(tl.Steps()))
	}
	if tl.Schedule().CTA != (director.Window{Start: 660, Length: 150}) {
		t.Errorf("unexpected cta: %+v", tl.Schedule().CTA)
	}
	if len(tl.Captions()) != 2 {
		t.Errorf("chunk ending past total must be dropped, got %d captions", len(tl.Captions()))
	}
	if len(tl.Overlays()) != 3 {
		t.Errorf("expected 3 overlays, got %d", len(tl.Overlays()))
	}
}

func TestNewRejectsInvalidProps(t *testing.T) {
	p := testProps()
	p.FootageURL = ""
	if _, err := New(p); !errors.Is(err, config.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestNewCopiesProps(t *testing.T) {
	p := testProps()
	tl := mustTimeline(t, p)

	p.BrollURLs[0] = "mutated.mp4"
	p.Captions[0].Words[0].Text = "mutated"
	p.Title = "mutated"

	layers, _ := tl.LayersAt(62)
	for _, l := range layers {
		if l.Kind == KindBeat && l.Source != "a.mp4" {
			t.Errorf("overlay source leaked caller mutation: %s", l.Source)
		}
		if l.Kind == KindCaption && l.Caption.Words[0].Text == "mutated" {
			t.Error("caption words leaked caller mutation")
		}
		if l.Kind == KindScene && l.Scene.Heading == "mutated" {
			t.Error("title leaked caller mutation")
		}
	}
}

func TestLayersAtOrder(t *testing.T) {
	p := testProps()
	p.MusicURL = "music.mp3"
	p.LogoURL = "logo.png"
	p.Handle = "@reels"
	tl := mustTimeline(t, p)

	layers, err := tl.LayersAt(62)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}

	want := []Kind{KindMusic, KindBase, KindBeat, KindGrade, KindScene, KindCaption, KindCaption, KindLogo, KindHandle, KindProgress}
	if !reflect.DeepEqual(kinds(layers), want) {
		t.Fatalf("unexpected stack:\n got %v\nwant %v", kinds(layers), want)
	}
	for i, l := range layers {
		if l.ZIndex != i {
			t.Errorf("layer %d (%s) has zIndex %d", i, l.Kind, l.ZIndex)
		}
	}

	if layers[1].Source != p.FootageURL {
		t.Errorf("base clip must pass the footage reference through, got %q", layers[1].Source)
	}
	if layers[2].Source != "a.mp4" || layers[2].Beat.PunchIn.LocalFrame != 2 {
		t.Errorf("unexpected beat layer: %+v", layers[2].Beat)
	}
	if layers[4].Scene.Kind != director.SceneHook || layers[4].Scene.Heading != p.Title {
		t.Errorf("expected hook scene, got %+v", layers[4].Scene)
	}
	if layers[5].Caption.Chunk != 0 || layers[6].Caption.Chunk != 1 {
		t.Errorf("captions must stack in list order")
	}
}

func TestLayersAtOmitsAbsentOptionalLayers(t *testing.T) {
	tl := mustTimeline(t, testProps())

	layers, err := tl.LayersAt(1000)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}

	want := []Kind{KindBase, KindGrade, KindProgress}
	if !reflect.DeepEqual(kinds(layers), want) {
		t.Errorf("expected bare stack in the tail gap, got %v", kinds(layers))
	}
	if layers[1].Grade.Vignette != 0.55 {
		t.Errorf("expected default vignette, got %v", layers[1].Grade.Vignette)
	}
}

func TestLayersAtStepScene(t *testing.T) {
	p := testProps()
	p.Steps = []director.Step{{Label: "Cut on action", Icon: "scissors"}, {Label: "J-cuts"}}
	tl := mustTimeline(t, p)

	layers, err := tl.LayersAt(305)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}

	var scene *SceneContent
	for _, l := range layers {
		if l.Kind == KindScene {
			scene = l.Scene
		}
	}
	if scene == nil {
		t.Fatal("expected a scene layer")
	}
	if scene.Kind != director.SceneStep || scene.Number != 2 || scene.Heading != "Step 2" || scene.Label != "J-cuts" {
		t.Errorf("unexpected step scene: %+v", scene)
	}
	if scene.LocalFrame != 5 || scene.Entrance != 0.5 || scene.TranslateY != 20 {
		t.Errorf("unexpected entrance at local frame 5: %+v", scene)
	}
}

func TestLayersAtCTAOverlapsStep(t *testing.T) {
	p := testProps()
	p.TotalFrames = 600
	p.Handle = "@reels"
	tl := mustTimeline(t, p)

	layers, err := tl.LayersAt(500)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}

	var scenes []director.SceneKind
	for _, l := range layers {
		if l.Kind == KindScene {
			scenes = append(scenes, l.Scene.Kind)
			if l.Scene.Kind == director.SceneCTA && l.Scene.Handle != "@reels" {
				t.Errorf("cta should carry the handle, got %q", l.Scene.Handle)
			}
		}
	}
	if !reflect.DeepEqual(scenes, []director.SceneKind{director.SceneStep, director.SceneCTA}) {
		t.Errorf("expected step and cta together, got %v", scenes)
	}
}

func TestLayersAtEmptyOverlaySlot(t *testing.T) {
	p := testProps()
	p.BrollURLs = nil
	tl := mustTimeline(t, p)

	layers, err := tl.LayersAt(60)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}
	for _, l := range layers {
		if l.Kind == KindBeat {
			if !l.Beat.Overlay.Empty || l.Source != "" || l.Opacity != 0 {
				t.Errorf("expected invisible empty slot, got %+v", l)
			}
			return
		}
	}
	t.Error("empty overlay slot must still occupy the stack")
}

func TestLayersAtProgressUnclamped(t *testing.T) {
	tl := mustTimeline(t, testProps())

	layers, err := tl.LayersAt(3600)
	if err != nil {
		t.Fatalf("LayersAt failed: %v", err)
	}
	last := layers[len(layers)-1]
	if last.Kind != KindProgress || last.Progress.Fraction != 2.0 {
		t.Errorf("expected unclamped fraction 2.0, got %+v", last.Progress)
	}

	if f := tl.ProgressAt(900); f != 0.5 {
		t.Errorf("expected 0.5 at half way, got %v", f)
	}
}

func TestLayersAtNegativeFrame(t *testing.T) {
	tl := mustTimeline(t, testProps())
	if _, err := tl.LayersAt(-1); !errors.Is(err, ErrNegativeFrame) {
		t.Errorf("expected ErrNegativeFrame, got %v", err)
	}
}

func TestLayersAtDeterministicAcrossOrder(t *testing.T) {
	tl := mustTimeline(t, testProps())
	total := tl.Config().TotalFrames

	forward := make([][]Layer, total)
	for f := 0; f < total; f++ {
		layers, err := tl.LayersAt(f)
		if err != nil {
			t.Fatalf("LayersAt(%d) failed: %v", f, err)
		}
		forward[f] = layers
	}

	for f := total - 1; f >= 0; f-- {
		layers, err := tl.LayersAt(f)
		if err != nil {
			t.Fatalf("LayersAt(%d) failed: %v", f, err)
		}
		if !reflect.DeepEqual(layers, forward[f]) {
			t.Fatalf("frame %d differs between forward and reverse evaluation", f)
		}
	}
}
