package graphics

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/opd-ai/agraphics/internal/color"
)

// MaxSurfaceDimension bounds the width and height of a surface.
const MaxSurfaceDimension = 32768

// Surface is an in-memory raster image in premultiplied 8-bit RGBA,
// the equivalent of a Cairo ARGB32 image surface.
type Surface struct {
	mu        sync.RWMutex
	img       *image.RGBA
	destroyed bool

	// fixed at creation; Destroy does not change them
	width, height int
}

// SurfaceBytes returns the size of the pixel buffer of a width x height
// surface. Dimensions NewSurface would reject yield 0.
func SurfaceBytes(width, height int) uint64 {
	if width <= 0 || height <= 0 || width > MaxSurfaceDimension || height > MaxSurfaceDimension {
		return 0
	}
	return uint64(width) * uint64(height) * 4
}

// NewSurface creates a fully transparent surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 || width > MaxSurfaceDimension || height > MaxSurfaceDimension {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSurfaceSize)
	}
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}, nil
}

// NewSurfaceFromImage copies img into a new surface.
func NewSurfaceFromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	s, err := NewSurface(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
	return s, nil
}

// ImageSize reads the dimensions of an image file without decoding its
// pixels.
func ImageSize(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("load surface %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("load surface %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// LoadSurface decodes an image file into a new surface. PNG is the
// canonical format; any format the decoder recognizes is accepted.
func LoadSurface(path string) (*Surface, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load surface %s: %w", path, err)
	}
	s, err := NewSurfaceFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("load surface %s: %w", path, err)
	}
	return s, nil
}

// Export encodes the surface to path. The format follows the file
// extension; unknown extensions are written as PNG.
func (s *Surface) Export(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed {
		return ErrSurfaceDestroyed
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export surface: %w", err)
	}
	if err := imaging.Encode(f, s.img, format); err != nil {
		f.Close()
		return fmt.Errorf("export surface %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export surface %s: %w", path, err)
	}
	return nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Size returns the surface dimensions as a vector.
func (s *Surface) Size() Vector2 {
	return Vector2{X: float64(s.Width()), Y: float64(s.Height())}
}

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// Pixel returns the unpremultiplied color at (x, y). Coordinates outside
// the surface yield transparent.
func (s *Surface) Pixel(x, y int) color.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed || !(image.Point{x, y}).In(s.img.Rect) {
		return color.Transparent
	}
	return color.FromColor(s.img.RGBAAt(x, y))
}

// Destroy releases the pixel buffer. Later drawing and export fail with
// ErrSurfaceDestroyed. Calling Destroy more than once is harmless.
func (s *Surface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.img = image.NewRGBA(s.img.Rect)
	s.img.Pix = nil
}

// Destroyed reports whether Destroy has been called.
func (s *Surface) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}
