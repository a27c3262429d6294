package draw

// Image is a small bitmap. Empty pixels (Color zero) are transparent.
type Image struct {
	Width  int
	Height int
	Pix    []Color
}

// NewImage allocates a transparent image.
func NewImage(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{Width: w, Height: h, Pix: make([]Color, w*h)}
}

// At returns the pixel at (x, y), or 0 when out of range.
func (img *Image) At(x, y int) Color {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return 0
	}
	return img.Pix[y*img.Width+x]
}

// Set sets the pixel at (x, y). Out of range writes are ignored.
func (img *Image) Set(x, y int, c Color) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	img.Pix[y*img.Width+x] = c
}

// Scale returns a nearest-neighbour resized copy. Scaling to the same size
// returns img itself.
func (img *Image) Scale(w, h int) *Image {
	if w == img.Width && h == img.Height {
		return img
	}
	out := NewImage(w, h)
	if img.Width == 0 || img.Height == 0 {
		return out
	}
	for y := 0; y < h; y++ {
		sy := y * img.Height / h
		for x := 0; x < w; x++ {
			sx := x * img.Width / w
			out.Pix[y*w+x] = img.Pix[sy*img.Width+sx]
		}
	}
	return out
}

// Aspect returns height/width, or 1 for an empty image.
func (img *Image) Aspect() float64 {
	if img == nil || img.Width == 0 {
		return 1
	}
	return float64(img.Height) / float64(img.Width)
}

// CacheKey identifies one rendered variant of an image.
type CacheKey struct {
	Image  *Image
	Key    string
	Width  int
	Height int
}

// ImageCache keeps pre-scaled images so static sprites are not resampled
// every frame. Not safe for concurrent use; each game owns its own cache.
type ImageCache struct {
	entries map[CacheKey]*Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[CacheKey]*Image)}
}

// Get returns the cached rendering for key.
func (ic *ImageCache) Get(key CacheKey) (*Image, bool) {
	img, ok := ic.entries[key]
	return img, ok
}

// Has reports whether key has been rendered before.
func (ic *ImageCache) Has(key CacheKey) bool {
	_, ok := ic.entries[key]
	return ok
}

// Set renders key.Image at the key's size and stores the result.
func (ic *ImageCache) Set(key CacheKey) *Image {
	img := key.Image.Scale(key.Width, key.Height)
	ic.entries[key] = img
	return img
}

// Len returns the number of cached renderings.
func (ic *ImageCache) Len() int {
	return len(ic.entries)
}

// Reset drops all cached renderings.
func (ic *ImageCache) Reset() {
	clear(ic.entries)
}
