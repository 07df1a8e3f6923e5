package system

import (
	"image"
	"sync"
)

// ImagePool recycles *image.RGBA buffers by size so that drawing many preview
// tiles does not allocate a new canvas per frame.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

var tilePool = NewImagePool()

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage returns a cleared canvas of the given size from the shared pool
func GetImage(size image.Point) *image.RGBA {
	return tilePool.Get(size)
}

// PutImage hands a canvas back to the shared pool
func PutImage(img *image.RGBA) {
	tilePool.Put(img)
}

// Get returns a zeroed canvas with bounds (0,0)-size
func (p *ImagePool) Get(size image.Point) *image.RGBA {
	pool := p.poolFor(size)
	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put returns img to the pool. Canvases not anchored at the origin are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.poolFor(img.Rect.Size()).Put(img)
}

func (p *ImagePool) poolFor(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}
