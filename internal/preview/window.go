// Package preview shows surfaces passed to agraphics.show in a desktop
// window. It implements ebiten.Game; frames are scaled to the window with
// golang.org/x/image/draw before upload.
package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// ErrWindowClosed is returned by Run when its context is cancelled and by
// Show once the window is gone.
var ErrWindowClosed = errors.New("preview window closed")

// Config describes the preview window.
type Config struct {
	Width     int
	Height    int
	Title     string
	KeepAbove bool
}

// Window implements ebiten.Game and displays the latest frame.
type Window struct {
	config Config
	scaler draw.Scaler

	mu      sync.Mutex
	pending *image.RGBA
	frame   *ebiten.Image
	dirty   bool
	closed  bool
	hinted  bool
	ctx     context.Context
	onError func(error)
}

// NewWindow creates a window that has not been opened yet.
func NewWindow(config Config) *Window {
	if config.Width <= 0 {
		config.Width = 640
	}
	if config.Height <= 0 {
		config.Height = 480
	}
	return &Window{
		config: config,
		scaler: draw.CatmullRom,
	}
}

// SetErrorHandler receives errors that cannot be returned from the game
// loop, such as failing to apply window hints.
func (w *Window) SetErrorHandler(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Show replaces the displayed frame. The image is scaled to fit the
// window immediately, so img may be reused by the caller afterwards.
func (w *Window) Show(img image.Image) error {
	canvas := w.fit(img)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWindowClosed
	}
	w.pending = canvas
	w.dirty = true
	return nil
}

// Frame returns the last frame passed to Show, already scaled to the
// window size, or nil if none was shown.
func (w *Window) Frame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// fit scales img into a window-sized canvas, centered, keeping its aspect
// ratio. Uncovered areas stay transparent.
func (w *Window) fit(img image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w.config.Width, w.config.Height))
	dst := FitRect(img.Bounds(), canvas.Bounds())
	if dst.Empty() {
		return canvas
	}
	if dst.Size() == img.Bounds().Size() {
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Src)
	} else {
		w.scaler.Scale(canvas, dst, img, img.Bounds(), draw.Src, nil)
	}
	return canvas
}

// FitRect returns the largest rectangle with src's aspect ratio that fits
// centered in bounds.
func FitRect(src, bounds image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	bw, bh := bounds.Dx(), bounds.Dy()
	if sw <= 0 || sh <= 0 || bw <= 0 || bh <= 0 {
		return image.Rectangle{}
	}
	w, h := bw, sh*bw/sw
	if h > bh {
		w, h = sw*bh/sh, bh
	}
	x := bounds.Min.X + (bw-w)/2
	y := bounds.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Update implements ebiten.Game.Update.
func (w *Window) Update() error {
	w.mu.Lock()
	ctx := w.ctx
	needHint := w.config.KeepAbove && !w.hinted
	w.hinted = true
	onError := w.onError
	w.mu.Unlock()

	if ctx != nil {
		select {
		case <-ctx.Done():
			return ErrWindowClosed
		default:
		}
	}

	// The window exists once the first tick runs.
	if needHint {
		if err := ApplyKeepAbove(); err != nil && onError != nil {
			onError(err)
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()

	screen.Fill(color.Black)
	if w.pending == nil {
		return
	}
	if w.dirty || w.frame == nil {
		if w.frame == nil {
			w.frame = ebiten.NewImage(w.config.Width, w.config.Height)
		}
		w.frame.WritePixels(w.pending.Pix)
		w.dirty = false
	}
	screen.DrawImage(w.frame, nil)
}

// Layout implements ebiten.Game.Layout. The logical screen keeps the
// configured size; ebiten scales it to the outside window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.config.Width, w.config.Height
}

// Run opens the window and blocks until it is closed by the user or ctx
// is cancelled. Run must be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	ebiten.SetWindowSize(w.config.Width, w.config.Height)
	ebiten.SetWindowTitle(w.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(w)

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	return err
}

// Close marks the window closed; later Show calls fail.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// Closed reports whether the window has been closed.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
