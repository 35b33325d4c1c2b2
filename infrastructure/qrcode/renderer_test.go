package qrcode

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// near tolerates resampling rounding.
func near(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	g := rgba(got)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	assert.True(t, diff(want.R, g.R) <= 2 && diff(want.G, g.G) <= 2 && diff(want.B, g.B) <= 2 && diff(want.A, g.A) <= 2,
		"want %v, got %v", want, g)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderer_Render_Geometry(t *testing.T) {
	// Arrange
	r := NewRenderer()
	s := DefaultSettings()

	// Act
	sym, err := r.Render(context.Background(), "https://example.com", s)

	// Assert
	require.NoError(t, err)
	modules := 17 + 4*sym.Version + 2*s.Border
	assert.Equal(t, modules*s.ModuleSize, sym.Image.Bounds().Dx())
	assert.Equal(t, modules*s.ModuleSize, sym.Image.Bounds().Dy())
	assert.Equal(t, LevelH, sym.Level)

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	assert.Equal(t, white, rgba(sym.Image.At(0, 0)), "quiet zone")
	edge := s.Border * s.ModuleSize
	assert.Equal(t, black, rgba(sym.Image.At(edge, edge)), "finder pattern corner")
}

func TestRenderer_Render_Colours(t *testing.T) {
	s := DefaultSettings()
	s.FillColor = "#ff0000"
	s.BackColor = "#0000ff"
	s.Border = 1
	s.ModuleSize = 3

	sym, err := NewRenderer().Render(context.Background(), "colours", s)

	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgba(sym.Image.At(0, 0)))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(sym.Image.At(3, 3)))
}

func TestRenderer_Render_ZeroBorder(t *testing.T) {
	s := DefaultSettings()
	s.Border = 0
	s.ModuleSize = 1

	sym, err := NewRenderer().Render(context.Background(), "x", s)

	require.NoError(t, err)
	assert.Equal(t, 17+4*sym.Version, sym.Image.Bounds().Dx())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgba(sym.Image.At(0, 0)))
}

func TestRenderer_Render_VersionIsFloor(t *testing.T) {
	r := NewRenderer()

	s := DefaultSettings()
	s.Version = 5
	sym, err := r.Render(context.Background(), "hi", s)
	require.NoError(t, err)
	assert.Equal(t, 5, sym.Version)

	s.Version = 1
	sym, err = r.Render(context.Background(), strings.Repeat("payload ", 40), s)
	require.NoError(t, err)
	assert.Greater(t, sym.Version, 1)
}

func TestRenderer_Render_Capacity(t *testing.T) {
	_, err := NewRenderer().Render(context.Background(), strings.Repeat("a", 3000), DefaultSettings())

	assert.ErrorIs(t, err, qrerr.ErrCapacity)
}

func TestRenderer_Render_InvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Version = 99

	_, err := NewRenderer().Render(context.Background(), "x", s)

	assert.ErrorIs(t, err, qrerr.ErrValidation)
}

func TestRenderer_Render_LowerCaseLevel(t *testing.T) {
	// Arrange
	r := NewRenderer()
	text := strings.Repeat("A", 120)
	lower := DefaultSettings()
	require.NoError(t, json.Unmarshal([]byte(`{"error_correction":"l"}`), &lower))
	raw := DefaultSettings()
	raw.ErrorCorrection = "l"
	upper := DefaultSettings()
	upper.ErrorCorrection = LevelL

	// Act
	fromJSON, err := r.Render(context.Background(), text, lower)
	require.NoError(t, err)
	fromRaw, err := r.Render(context.Background(), text, raw)
	require.NoError(t, err)
	want, err := r.Render(context.Background(), text, upper)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, want.Version, fromJSON.Version)
	assert.Equal(t, want.Version, fromRaw.Version)
	assert.Equal(t, LevelL, fromJSON.Level)
	assert.Equal(t, LevelL, fromRaw.Level)
}

func TestRenderer_Render_OversizedModules(t *testing.T) {
	s := DefaultSettings()
	s.ModuleSize = 100000

	_, err := NewRenderer().Render(context.Background(), "x", s)

	assert.ErrorIs(t, err, qrerr.ErrValidation)
}

func TestRenderer_OverlayLogo_DefaultSize(t *testing.T) {
	// Arrange
	r := NewRenderer()
	sym, err := r.Render(context.Background(), "logo test", DefaultSettings())
	require.NoError(t, err)
	logoPath := writePNG(t, solid(40, 40, color.NRGBA{255, 0, 0, 255}))

	// Act
	out, err := r.OverlayLogo(context.Background(), sym.Image, logoPath, nil)

	// Assert
	require.NoError(t, err)
	b := out.Bounds()
	assert.Equal(t, sym.Image.Bounds().Size(), b.Size())
	near(t, color.RGBA{255, 0, 0, 255}, out.At(b.Dx()/2, b.Dy()/2))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out.At(0, 0)))

	quarter := b.Dx() / LogoScale
	left := (b.Dx() - quarter) / 2
	near(t, color.RGBA{255, 0, 0, 255}, out.At(left+1, b.Dy()/2))
	assert.NotEqual(t, color.RGBA{255, 0, 0, 255}, rgba(out.At(left-1, b.Dy()/2)))
}

func TestRenderer_OverlayLogo_ExplicitSize(t *testing.T) {
	r := NewRenderer()
	sym, err := r.Render(context.Background(), "sized", DefaultSettings())
	require.NoError(t, err)
	logoPath := writePNG(t, solid(8, 8, color.NRGBA{0, 255, 0, 255}))

	out, err := r.OverlayLogo(context.Background(), sym.Image, logoPath, &image.Point{X: 20, Y: 10})

	require.NoError(t, err)
	b := out.Bounds()
	x0 := (b.Dx() - 20) / 2
	y0 := (b.Dy() - 10) / 2
	near(t, color.RGBA{0, 255, 0, 255}, out.At(x0, y0))
	near(t, color.RGBA{0, 255, 0, 255}, out.At(x0+19, y0+9))

	_, err = r.OverlayLogo(context.Background(), sym.Image, logoPath, &image.Point{X: 0, Y: 10})
	assert.ErrorIs(t, err, qrerr.ErrValidation)
}

func TestRenderer_OverlayLogo_Transparent(t *testing.T) {
	r := NewRenderer()
	sym, err := r.Render(context.Background(), "alpha", DefaultSettings())
	require.NoError(t, err)
	logoPath := writePNG(t, solid(16, 16, color.NRGBA{0, 0, 0, 0}))

	out, err := r.OverlayLogo(context.Background(), sym.Image, logoPath, nil)

	require.NoError(t, err)
	b := out.Bounds()
	for _, p := range []image.Point{{b.Dx() / 2, b.Dy() / 2}, {b.Dx()/2 + 7, b.Dy()/2 - 3}} {
		assert.Equal(t, rgba(sym.Image.At(p.X, p.Y)), rgba(out.At(p.X, p.Y)))
	}
}

func TestRenderer_OverlayLogo_Missing(t *testing.T) {
	r := NewRenderer()
	sym, err := r.Render(context.Background(), "missing", DefaultSettings())
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "nope.png")
	_, err = r.OverlayLogo(context.Background(), sym.Image, missing, nil)

	assert.ErrorIs(t, err, qrerr.ErrResource)
	assert.Contains(t, err.Error(), missing)
}

func TestRenderer_OverlayLogo_NotAnImage(t *testing.T) {
	r := NewRenderer()
	sym, err := r.Render(context.Background(), "garbage", DefaultSettings())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err = r.OverlayLogo(context.Background(), sym.Image, path, nil)

	assert.ErrorIs(t, err, qrerr.ErrResource)
}
