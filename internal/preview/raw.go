package preview

import (
	"context"
	"image"
	"io"

	"golang.org/x/image/draw"

	"github.com/ivlev/reelforge/internal/system"
)

// WriteRawRGBA writes the pixels of img as tightly packed RGBA rows, the
// format ffmpeg reads with -f rawvideo -pixel_format rgba.
func WriteRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// Stream renders frames [from, to) in order and writes each as raw RGBA to w.
// The output can be piped into ffplay or ffmpeg for a quick motion check:
//
//	reelforge preview --raw | ffplay -f rawvideo -pixel_format rgba -video_size 540x960 -framerate 30 -
func (r *Renderer) Stream(ctx context.Context, w io.Writer, from, to int) error {
	for f := from; f < to; f++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := r.Frame(f)
		if err != nil {
			return err
		}
		err = WriteRawRGBA(w, img)
		system.PutImage(img)
		if err != nil {
			return err
		}
	}
	return nil
}
