package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelforge/internal/system"
)

// ErrNoFrames is returned when a contact sheet is requested for no frames.
var ErrNoFrames = errors.New("no frames requested")

// ContactSheet renders frames as thumbnails on a grid with the given number of
// columns, in the order given. Tiles are rendered concurrently by up to
// workers goroutines (zero means one per CPU).
func (r *Renderer) ContactSheet(ctx context.Context, frames []int, cols, workers int) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	cols = min(max(cols, 1), len(frames))
	rows := (len(frames) + cols - 1) / cols

	tile := image.Pt(max(1, r.size.X/2), max(1, r.size.Y/2))
	sheet := image.NewRGBA(image.Rect(0, 0, tile.X*cols, tile.Y*rows))
	fill(sheet, sheet.Bounds(), black)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(system.ResolveWorkers(workers, len(frames)))

	for i, f := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := r.Frame(f)
			if err != nil {
				return fmt.Errorf("frame %d: %w", f, err)
			}
			defer system.PutImage(img)

			// tiles never overlap, so goroutines write disjoint pixels
			origin := image.Pt((i%cols)*tile.X, (i/cols)*tile.Y)
			dst := image.Rectangle{Min: origin, Max: origin.Add(tile)}
			draw.ApproxBiLinear.Scale(sheet, dst, img, img.Bounds(), draw.Src, nil)
			drawText(sheet, strconv.Itoa(f), dst.Min.X+4, dst.Min.Y+4, 1, white)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// WritePNG encodes img to path, creating parent directories
func WritePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
