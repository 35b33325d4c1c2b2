package qrcode

import (
	"context"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/prasetyowira/qr-utils/infrastructure/logger"
	goqrcode "github.com/skip2/go-qrcode"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LogoScale is the fraction of the QR image a logo covers by default.
const LogoScale = 4

// Symbol is a rendered QR code.
type Symbol struct {
	Image   image.Image
	Version int
	Level   Level
}

// Renderer draws QR symbols and composites logos onto them.
type Renderer struct{}

// NewRenderer creates a new QR code renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render encodes text using s. The configured version is a lower bound: when
// the text does not fit, the smallest version that holds it is used instead.
func (r *Renderer) Render(ctx context.Context, text string, s Settings) (*Symbol, error) {
	s, err := s.Normalize()
	if err != nil {
		return nil, err
	}
	fg, _ := ParseColor(s.FillColor)
	bg, _ := ParseColor(s.BackColor)
	level, err := s.ErrorCorrection.recovery()
	if err != nil {
		return nil, err
	}

	q, err := goqrcode.NewWithForcedVersion(text, s.Version, level)
	if err != nil {
		logger.CtxDebug(ctx, "Configured version too small, growing to best fit", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Data: map[string]interface{}{
				constant.DataVersion:    s.Version,
				constant.DataPayloadLen: len(text),
			},
		})
		q, err = goqrcode.New(text, level)
		if err != nil {
			logger.CtxWarn(ctx, "Payload exceeds QR capacity", logger.LoggerInfo{
				ContextFunction: constant.CtxRender,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeCapacity,
					Message: err.Error(),
					Type:    constant.ErrTypeCapacity,
				},
				Data: map[string]interface{}{
					constant.DataLevel:      string(s.ErrorCorrection),
					constant.DataPayloadLen: len(text),
				},
			})
			return nil, qrerr.Capacity(constant.CtxRender, "payload does not fit in a version 40 symbol at level "+string(s.ErrorCorrection), err)
		}
	}

	q.ForegroundColor = fg
	q.BackgroundColor = bg
	q.DisableBorder = true

	img := withBorder(q.Image(-s.ModuleSize), s.Border*s.ModuleSize, bg)

	logger.CtxDebug(ctx, "QR symbol rendered", logger.LoggerInfo{
		ContextFunction: constant.CtxRender,
		Data: map[string]interface{}{
			constant.DataVersion:    q.VersionNumber,
			constant.DataLevel:      string(s.ErrorCorrection),
			constant.DataModuleSize: s.ModuleSize,
			constant.DataBorder:     s.Border,
			constant.DataWidth:      img.Bounds().Dx(),
		},
	})

	return &Symbol{Image: img, Version: q.VersionNumber, Level: s.ErrorCorrection}, nil
}

// withBorder surrounds src with a quiet zone of pad pixels.
func withBorder(src image.Image, pad int, bg color.Color) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(pad, pad, pad+b.Dx(), pad+b.Dy()), src, b.Min, draw.Src)
	return dst
}

// OverlayLogo centres the image at logoPath on img. A nil size scales the logo
// to a quarter of the QR width and height. Transparent logo pixels let the
// code show through.
func (r *Renderer) OverlayLogo(ctx context.Context, img image.Image, logoPath string, size *image.Point) (image.Image, error) {
	logo, err := loadImage(logoPath)
	if err != nil {
		logger.CtxError(ctx, "Failed to load logo", logger.LoggerInfo{
			ContextFunction: constant.CtxOverlay,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeLogo,
				Message: err.Error(),
				Type:    constant.ErrTypeResource,
			},
			Data: map[string]interface{}{
				constant.DataLogoPath: logoPath,
			},
		})
		return nil, err
	}

	bounds := img.Bounds()
	target := image.Pt(bounds.Dx()/LogoScale, bounds.Dy()/LogoScale)
	if size != nil {
		target = *size
	}
	if target.X <= 0 || target.Y <= 0 {
		return nil, qrerr.Validation(constant.CtxOverlay, "logo size %dx%d must be positive", target.X, target.Y)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, target.X, target.Y))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), logo, logo.Bounds(), draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	origin := image.Pt((bounds.Dx()-target.X)/2, (bounds.Dy()-target.Y)/2)
	draw.Draw(out, image.Rectangle{Min: origin, Max: origin.Add(target)}, scaled, image.Point{}, draw.Over)

	logger.CtxDebug(ctx, "Logo composited", logger.LoggerInfo{
		ContextFunction: constant.CtxOverlay,
		Data: map[string]interface{}{
			constant.DataLogoPath: logoPath,
			constant.DataSize:     target.String(),
		},
	})

	return out, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, qrerr.Resource(constant.CtxOverlay, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, qrerr.Resource(constant.CtxOverlay, path, err)
	}
	return img, nil
}
