// Package preview rasterizes a frame's layer stack into a schematic image.
//
// The preview never loads media: clips, b-roll and logos are drawn as labelled
// placeholders so that timing, stacking and animation can be checked without a
// rendering host.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/reelforge/internal/director"
	"github.com/ivlev/reelforge/internal/system"
	"github.com/ivlev/reelforge/internal/timeline"
)

// DesignWidth is the canvas width layer offsets are expressed in.
const DesignWidth = 1080.0

// ErrBadSize is returned for non-positive preview dimensions.
var ErrBadSize = errors.New("preview size must be positive")

var (
	white     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black     = color.NRGBA{A: 255}
	muted     = color.NRGBA{R: 160, G: 168, B: 180, A: 255}
	brollFill = color.NRGBA{R: 255, G: 255, B: 255, A: 36}
)

// Options controls the raster size
type Options struct {
	Width  int
	Height int
}

// Renderer draws frames of one timeline. It holds no per-frame state and may be
// used from several goroutines.
type Renderer struct {
	tl    *timeline.Timeline
	size  image.Point
	scale float64
	bg    color.NRGBA

	mu  sync.Mutex
	qrs map[string]image.Image
}

// New creates a renderer for tl
func New(tl *timeline.Timeline, opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, opts.Width, opts.Height)
	}
	return &Renderer{
		tl:    tl,
		size:  image.Pt(opts.Width, opts.Height),
		scale: float64(opts.Width) / DesignWidth,
		bg:    MustColor(tl.Background(), black),
		qrs:   make(map[string]image.Image),
	}, nil
}

// Size returns the raster dimensions
func (r *Renderer) Size() image.Point {
	return r.size
}

// Frame draws the layer stack of frame bottom to top. The canvas comes from the
// shared image pool; callers done with it may hand it back with system.PutImage.
func (r *Renderer) Frame(frame int) (*image.RGBA, error) {
	layers, err := r.tl.LayersAt(frame)
	if err != nil {
		return nil, err
	}

	img := system.GetImage(r.size)
	captionRow := 0
	for _, l := range layers {
		switch l.Kind {
		case timeline.KindBase:
			r.drawBase(img, l)
		case timeline.KindBeat:
			r.drawBeat(img, l)
		case timeline.KindGrade:
			r.drawGrade(img, l)
		case timeline.KindScene:
			if err := r.drawScene(img, l); err != nil {
				system.PutImage(img)
				return nil, err
			}
		case timeline.KindCaption:
			r.drawCaption(img, l, captionRow)
			captionRow++
		case timeline.KindLogo:
			r.drawLogo(img, l)
		case timeline.KindHandle:
			r.drawHandle(img, l)
		case timeline.KindProgress:
			r.drawProgress(img, l)
		}
		// music is audio only
	}

	return img, nil
}

func (r *Renderer) px(v float64) int {
	return int(math.Round(v * r.scale))
}

func (r *Renderer) textScale(k float64) int {
	return max(1, int(math.Round(k*r.scale)))
}

func (r *Renderer) drawBase(img *image.RGBA, l timeline.Layer) {
	fill(img, img.Bounds(), r.bg)
	drawText(img, "footage: "+l.Source, r.px(24), r.px(24), r.textScale(2), muted)
}

func (r *Renderer) drawBeat(img *image.RGBA, l timeline.Layer) {
	if l.Beat == nil || l.Opacity <= 0 {
		return
	}
	// the visible crop shrinks as the punch-in scale grows
	s := l.Beat.PunchIn.Scale
	w := int(float64(r.size.X) / s)
	h := int(float64(r.size.Y) / s)
	x0 := (r.size.X - w) / 2
	y0 := (r.size.Y - h) / 2
	crop := image.Rect(x0, y0, x0+w, y0+h)

	fill(img, crop, fade(brollFill, l.Opacity))
	outline(img, crop, max(1, r.px(4)), fade(white, l.Opacity))
	label := fmt.Sprintf("b-roll %d: %s x%.2f", l.Beat.Overlay.Index, l.Source, s)
	drawText(img, label, x0+r.px(24), y0+r.px(64), r.textScale(2), fade(white, l.Opacity))
}

func (r *Renderer) drawGrade(img *image.RGBA, l timeline.Layer) {
	if l.Grade == nil {
		return
	}
	if tint, err := ParseColor(l.Grade.Tint); err == nil {
		fill(img, img.Bounds(), fade(tint, l.Opacity))
	}
	vignette(img, l.Grade.Vignette)
}

func (r *Renderer) drawScene(img *image.RGBA, l timeline.Layer) error {
	sc := l.Scene
	if sc == nil || l.Opacity <= 0 {
		return nil
	}

	accent := MustColor(sc.Accent, white)
	text := MustColor(sc.TextColor, white)
	dy := r.px(sc.TranslateY)

	panel := image.Rect(r.size.X/10, r.size.Y*3/10+dy, r.size.X*9/10, r.size.Y*6/10+dy)
	fill(img, panel, fade(r.bg, 0.85*l.Opacity))
	fill(img, image.Rect(panel.Min.X, panel.Min.Y, panel.Max.X, panel.Min.Y+max(2, r.px(10))), fade(accent, l.Opacity))

	x := panel.Min.X + r.px(40)
	y := panel.Min.Y + r.px(60)
	y += drawText(img, sc.Heading, x, y, r.textScale(5), fade(text, l.Opacity)) + r.px(24)

	switch sc.Kind {
	case director.SceneStep:
		drawText(img, sc.Label, x, y, r.textScale(4), fade(accent, l.Opacity))
	case director.SceneCTA:
		if sc.Handle == "" {
			return nil
		}
		y += drawText(img, sc.Handle, x, y, r.textScale(3), fade(accent, l.Opacity)) + r.px(24)
		code, err := r.qrCode(sc.Handle)
		if err != nil {
			return fmt.Errorf("qr for %q: %w", sc.Handle, err)
		}
		side := min(r.px(260), panel.Max.Y-y-r.px(24))
		if side > 0 {
			overlay(img, image.Rect(x, y, x+side, y+side), code, l.Opacity)
		}
	}
	return nil
}

func (r *Renderer) drawCaption(img *image.RGBA, l timeline.Layer, row int) {
	c := l.Caption
	if c == nil {
		return
	}
	base := MustColor(c.Color, white)
	emphasis := MustColor(c.Emphasis, base)
	ts := r.textScale(4)
	lineHeight := glyphHeight()*ts + r.px(16)

	widths := make([]int, len(c.Words))
	total := 0
	space := glyphWidth(" ") * ts
	for i, w := range c.Words {
		widths[i] = glyphWidth(w.Text) * ts
		total += widths[i]
		if i > 0 {
			total += space
		}
	}

	x := (r.size.X - total) / 2
	y := r.size.Y*7/10 + row*lineHeight
	for i, w := range c.Words {
		col := base
		if w.Progress < 1 {
			col = emphasis
		}
		drawText(img, w.Text, x, y+r.px(w.YOffset), ts, fade(col, w.Opacity*l.Opacity))
		x += widths[i] + space
	}
}

func (r *Renderer) drawLogo(img *image.RGBA, l timeline.Layer) {
	side := r.px(120)
	m := r.px(32)
	box := image.Rect(r.size.X-m-side, m, r.size.X-m, m+side)
	outline(img, box, max(1, r.px(3)), fade(white, l.Opacity))
	drawText(img, "LOGO", box.Min.X+r.px(16), box.Min.Y+side/2-r.px(12), r.textScale(2), fade(white, l.Opacity))
}

func (r *Renderer) drawHandle(img *image.RGBA, l timeline.Layer) {
	if l.Brand == nil {
		return
	}
	col := MustColor(l.Brand.Color, white)
	drawText(img, l.Brand.Handle, r.px(32), r.size.Y-r.px(96), r.textScale(3), fade(col, l.Opacity))
}

func (r *Renderer) drawProgress(img *image.RGBA, l timeline.Layer) {
	if l.Progress == nil {
		return
	}
	h := max(2, r.px(10))
	track := image.Rect(0, r.size.Y-h, r.size.X, r.size.Y)
	fill(img, track, fade(white, 0.2*l.Opacity))

	// the layer fraction is unclamped; only the bar is limited to the canvas
	w := int(clamp01(l.Progress.Fraction) * float64(r.size.X))
	fill(img, image.Rect(0, track.Min.Y, w, track.Max.Y), fade(MustColor(l.Progress.Color, white), l.Opacity))
}

func (r *Renderer) qrCode(handle string) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.qrs[handle]; ok {
		return img, nil
	}
	q, err := qrcode.New(handle, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	img := q.Image(256)
	r.qrs[handle] = img
	return img, nil
}

func fill(img *image.RGBA, rect image.Rectangle, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func outline(img *image.RGBA, rect image.Rectangle, t int, c color.NRGBA) {
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t), c)
	fill(img, image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y), c)
	fill(img, image.Rect(rect.Min.X, rect.Min.Y+t, rect.Min.X+t, rect.Max.Y-t), c)
	fill(img, image.Rect(rect.Max.X-t, rect.Min.Y+t, rect.Max.X, rect.Max.Y-t), c)
}

// overlay scales src into rect and composites it at the given opacity
func overlay(img *image.RGBA, rect image.Rectangle, src image.Image, opacity float64) {
	scaled := image.NewRGBA(image.Rectangle{Max: rect.Size()})
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(opacity)*255 + 0.5)})
	draw.DrawMask(img, rect, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

// vignette darkens pixels with the square of their distance from the center
func vignette(img *image.RGBA, strength float64) {
	if strength <= 0 {
		return
	}
	b := img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	maxD := math.Hypot(cx, cy)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := float64(y-b.Min.Y) - cy
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			d := math.Hypot(float64(x)-cx, dy) / maxD
			k := 1 - strength*d*d
			i := x * 4
			row[i] = uint8(float64(row[i]) * k)
			row[i+1] = uint8(float64(row[i+1]) * k)
			row[i+2] = uint8(float64(row[i+2]) * k)
		}
	}
}

func glyphWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func glyphHeight() int {
	return basicfont.Face7x13.Metrics().Height.Ceil()
}

// drawText renders s with its top-left corner at (x, y), magnified by scale.
// It returns the height of the drawn line.
func drawText(img *image.RGBA, s string, x, y, scale int, c color.NRGBA) int {
	h := glyphHeight()
	if s == "" || c.A == 0 {
		return h * scale
	}

	face := basicfont.Face7x13
	glyphs := image.NewRGBA(image.Rect(0, 0, glyphWidth(s), h))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	b := glyphs.Bounds()
	dst := image.Rect(x, y, x+b.Dx()*scale, y+b.Dy()*scale)
	draw.NearestNeighbor.Scale(img, dst, glyphs, b, draw.Over, nil)
	return b.Dy() * scale
}
