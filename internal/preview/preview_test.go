package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/timeline"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	tl, err := timeline.New(&config.Props{
		Title:      "Preview",
		FootageURL: "clip.mp4",
		BrandColor: "#FF0000",
		BeatCuts:   []int{40},
		BrollURLs:  []string{"b.mp4"},
		LogoURL:    "logo.png",
		Handle:     "@preview",
	})
	if err != nil {
		t.Fatalf("timeline.New failed: %v", err)
	}
	r, err := New(tl, Options{Width: 108, Height: 192})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#0B0D12", color.NRGBA{11, 13, 18, 255}},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 255}},
		{"rgba(10, 20, 40, 0.35)", color.NRGBA{10, 20, 40, 89}},
		{" rgba(0,0,0,1) ", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"blue", "#12", "#zzzzzz", "rgba(1, 2, 3)", "rgb(300, 0, 0)", "rgba(1, 2, 3, 2)"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseColor(%q) expected ErrBadColor, got %v", bad, err)
		}
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	tl, err := timeline.New(&config.Props{Title: "x", FootageURL: "y"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(tl, Options{Width: 0, Height: 10}); !errors.Is(err, ErrBadSize) {
		t.Errorf("expected ErrBadSize, got %v", err)
	}
}

func TestFrameDrawsProgressBar(t *testing.T) {
	r := testRenderer(t)

	img, err := r.Frame(900)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if img.Bounds().Size() != image.Pt(108, 192) {
		t.Fatalf("unexpected size %v", img.Bounds().Size())
	}

	red := color.RGBA{255, 0, 0, 255}
	if got := img.RGBAAt(5, 191); got != red {
		t.Errorf("left half of the bar should be filled at 50%%, got %v", got)
	}
	if got := img.RGBAAt(100, 191); got == red {
		t.Error("right half of the bar should not be filled at 50%")
	}
}

func TestFramePastEndFillsBar(t *testing.T) {
	r := testRenderer(t)

	img, err := r.Frame(3600)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := img.RGBAAt(107, 191); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bar should be drawn full width past the end, got %v", got)
	}
}

func TestFrameScenes(t *testing.T) {
	r := testRenderer(t)

	// hook, beat overlay, step and cta with its qr code
	for _, f := range []int{0, 45, 300, 700} {
		if _, err := r.Frame(f); err != nil {
			t.Errorf("Frame(%d) failed: %v", f, err)
		}
	}
	if len(r.qrs) != 1 {
		t.Errorf("expected the cta qr code to be cached once, got %d", len(r.qrs))
	}
}

func TestFrameNegative(t *testing.T) {
	r := testRenderer(t)
	if _, err := r.Frame(-1); !errors.Is(err, timeline.ErrNegativeFrame) {
		t.Errorf("expected ErrNegativeFrame, got %v", err)
	}
}

func TestContactSheet(t *testing.T) {
	r := testRenderer(t)

	sheet, err := r.ContactSheet(context.Background(), []int{0, 300, 700}, 2, 2)
	if err != nil {
		t.Fatalf("ContactSheet failed: %v", err)
	}
	// two columns, two rows of half-size tiles
	if sheet.Bounds().Size() != image.Pt(108, 192) {
		t.Errorf("unexpected sheet size %v", sheet.Bounds().Size())
	}

	if _, err := r.ContactSheet(context.Background(), nil, 2, 1); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
	if _, err := r.ContactSheet(context.Background(), []int{-5}, 1, 1); !errors.Is(err, timeline.ErrNegativeFrame) {
		t.Errorf("expected ErrNegativeFrame, got %v", err)
	}
}

func TestWriteRawRGBA(t *testing.T) {
	var buf bytes.Buffer
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	if err := WriteRawRGBA(&buf, gray); err != nil {
		t.Fatalf("WriteRawRGBA failed: %v", err)
	}
	if buf.Len() != 3*2*4 {
		t.Errorf("expected %d bytes, got %d", 3*2*4, buf.Len())
	}
}

func TestStream(t *testing.T) {
	r := testRenderer(t)

	var buf bytes.Buffer
	if err := r.Stream(context.Background(), &buf, 10, 13); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if want := 3 * 108 * 192 * 4; buf.Len() != want {
		t.Errorf("expected %d bytes, got %d", want, buf.Len())
	}
}

func TestWritePNG(t *testing.T) {
	r := testRenderer(t)
	img, err := r.Frame(10)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out", "frame.png")
	if err := WritePNG(img, path); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 108 || cfg.Height != 192 {
		t.Errorf("unexpected png size %dx%d", cfg.Width, cfg.Height)
	}
}
