package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestNewWindowDefaults(t *testing.T) {
	w := NewWindow(Config{Title: "t"})
	if gw, gh := w.Layout(1920, 1080); gw != 640 || gh != 480 {
		t.Errorf("Layout() = %dx%d, want 640x480", gw, gh)
	}
	if w.Frame() != nil {
		t.Error("new window should have no frame")
	}
	if w.Closed() {
		t.Error("new window should not be closed")
	}
}

func TestFitRect(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)
	tests := []struct {
		name string
		src  image.Rectangle
		want image.Rectangle
	}{
		{"same size", image.Rect(0, 0, 200, 100), image.Rect(0, 0, 200, 100)},
		{"wide source", image.Rect(0, 0, 400, 100), image.Rect(0, 25, 200, 75)},
		{"tall source", image.Rect(0, 0, 50, 100), image.Rect(75, 0, 125, 100)},
		{"upscale", image.Rect(0, 0, 20, 10), image.Rect(0, 0, 200, 100)},
		{"empty source", image.Rectangle{}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRect(tt.src, bounds); got != tt.want {
				t.Errorf("FitRect(%v) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestShowScalesAndCenters(t *testing.T) {
	w := NewWindow(Config{Width: 100, Height: 100})
	red := color.RGBA{255, 0, 0, 255}
	if err := w.Show(solid(50, 25, red)); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	frame := w.Frame()
	if frame == nil || frame.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}
	if got := frame.RGBAAt(50, 50); got.R < 250 || got.G > 5 || got.A < 250 {
		t.Errorf("center pixel = %v, want about %v", got, red)
	}
	if got := frame.RGBAAt(50, 5); got.A != 0 {
		t.Errorf("letterbox pixel = %v, want transparent", got)
	}
}

func TestShowCopiesSource(t *testing.T) {
	w := NewWindow(Config{Width: 4, Height: 4})
	src := solid(4, 4, color.RGBA{0, 0, 255, 255})
	if err := w.Show(src); err != nil {
		t.Fatal(err)
	}
	src.Pix[0] = 9
	if w.Frame().Pix[0] == 9 {
		t.Error("frame aliases the source image")
	}
}

func TestShowAfterClose(t *testing.T) {
	w := NewWindow(Config{Width: 10, Height: 10})
	w.Close()
	err := w.Show(solid(1, 1, color.RGBA{A: 255}))
	if !errors.Is(err, ErrWindowClosed) {
		t.Errorf("Show() after Close = %v, want ErrWindowClosed", err)
	}
}

func TestUpdateStopsOnCancel(t *testing.T) {
	w := NewWindow(Config{})
	if err := w.Update(); err != nil {
		t.Fatalf("Update() without context = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	if err := w.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	cancel()
	if err := w.Update(); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("Update() after cancel = %v, want ErrWindowClosed", err)
	}
}

func TestApplyKeepAboveWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	if err := ApplyKeepAbove(); err != nil {
		t.Errorf("ApplyKeepAbove() without X server = %v", err)
	}
}
