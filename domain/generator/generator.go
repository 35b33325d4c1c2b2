package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/payload"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/prasetyowira/qr-utils/infrastructure/cache"
	"github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/prasetyowira/qr-utils/infrastructure/qrcode"
	"github.com/prasetyowira/qr-utils/infrastructure/storage"
)

const (
	// DefaultHistoryLimit is used when History is called with a non-positive limit.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single History call.
	MaxHistoryLimit = 500
)

// Stage is a step of the generation pipeline.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageFormatting Stage = "formatting"
	StageRendering  Stage = "rendering"
	StageOverlaying Stage = "overlaying"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Artifact represents a generated QR image
type Artifact struct {
	ID             uint           `json:"id"`
	Kind           payload.Kind   `json:"kind"`
	Path           string         `json:"path"`
	Format         storage.Format `json:"format"`
	PayloadPreview string         `json:"payload_preview"`
	Version        int            `json:"version"`
	Bytes          int64          `json:"bytes"`
	CreatedAt      time.Time      `json:"created_at"`

	Image image.Image `json:"-"`
}

// Renderer draws QR symbols
type Renderer interface {
	Render(ctx context.Context, text string, s qrcode.Settings) (*qrcode.Symbol, error)
	OverlayLogo(ctx context.Context, img image.Image, logoPath string, size *image.Point) (image.Image, error)
}

// ImageStore persists encoded images
type ImageStore interface {
	Save(ctx context.Context, path string, img image.Image, f storage.Format) (int64, error)
}

// HistoryRepository defines the interface for generation history persistence
type HistoryRepository interface {
	Store(ctx context.Context, artifact *Artifact) error
	ListRecent(ctx context.Context, limit int) ([]Artifact, error)
}

// Options holds the configured defaults of a Service.
type Options struct {
	Settings  qrcode.Settings
	OutputDir string
	Format    storage.Format
	// Cache holds encoded previews. Nil disables caching.
	Cache *cache.NamespaceLRU[[]byte]
	// Now is the clock used for default file names. Defaults to time.Now.
	Now func() time.Time
}

// GenerateOptions describes one generation call.
type GenerateOptions struct {
	Request    payload.Request
	OutputPath string
	LogoPath   string
	// LogoSize overrides the default logo size of a quarter of the image.
	LogoSize  *image.Point
	Overrides qrcode.Overrides
}

// Service represents the domain service for QR generation
type Service struct {
	renderer Renderer
	store    ImageStore
	history  HistoryRepository
	opts     Options
}

// NewService creates a new generator service. history may be nil.
func NewService(renderer Renderer, store ImageStore, history HistoryRepository, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Format == "" {
		opts.Format = storage.FormatPNG
	}
	if opts.Settings == (qrcode.Settings{}) {
		opts.Settings = qrcode.DefaultSettings()
	}

	logger.CtxDebug(logger.NewRequestContext(), "Creating generator service", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerator,
		Data: map[string]interface{}{
			constant.DataService:    "generator",
			constant.DataOutputPath: opts.OutputDir,
			constant.DataFormat:     string(opts.Format),
		},
	})

	return &Service{
		renderer: renderer,
		store:    store,
		history:  history,
		opts:     opts,
	}
}

// Generate formats the request, renders it, overlays the optional logo and
// writes the image. The returned error is the one raised by the failing stage.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*Artifact, error) {
	if opts.Request == nil {
		return nil, qrerr.Validation(constant.CtxGenerate, "request is required")
	}
	kind := opts.Request.Kind()
	s.logStage(ctx, StageIdle, kind, "")

	s.logStage(ctx, StageFormatting, kind, "")
	text, err := opts.Request.Format()
	if err != nil {
		return nil, s.fail(ctx, StageFormatting, kind, "", err)
	}
	preview := logger.Truncate(text, constant.PayloadPreviewMaxRunes)

	path, format, err := s.resolveOutput(kind, opts.OutputPath)
	if err != nil {
		return nil, s.fail(ctx, StageFormatting, kind, preview, err)
	}

	s.logStage(ctx, StageRendering, kind, preview)
	settings := s.opts.Settings.Merge(opts.Overrides)
	symbol, err := s.renderer.Render(ctx, text, settings)
	if err != nil {
		return nil, s.fail(ctx, StageRendering, kind, preview, err)
	}
	img := symbol.Image

	if opts.LogoPath != "" {
		s.logStage(ctx, StageOverlaying, kind, preview)
		img, err = s.renderer.OverlayLogo(ctx, img, opts.LogoPath, opts.LogoSize)
		if err != nil {
			return nil, s.fail(ctx, StageOverlaying, kind, preview, err)
		}
	}

	s.logStage(ctx, StagePersisting, kind, preview)
	n, err := s.store.Save(ctx, path, img, format)
	if err != nil {
		return nil, s.fail(ctx, StagePersisting, kind, preview, err)
	}

	artifact := &Artifact{
		Kind:           kind,
		Path:           path,
		Format:         format,
		PayloadPreview: preview,
		Version:        symbol.Version,
		Bytes:          n,
		CreatedAt:      s.opts.Now(),
		Image:          img,
	}
	s.record(ctx, artifact)

	logger.CtxInfo(ctx, "QR code generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataStage:      string(StageDone),
			constant.DataKind:       string(kind),
			constant.DataOutputPath: path,
			constant.DataVersion:    symbol.Version,
			constant.DataSize:       n,
		},
	})

	return artifact, nil
}

// Preview formats and renders the request in memory and returns the encoded
// image together with the payload text.
func (s *Service) Preview(ctx context.Context, req payload.Request, overrides qrcode.Overrides, format storage.Format) ([]byte, string, error) {
	if req == nil {
		return nil, "", qrerr.Validation(constant.CtxPreview, "request is required")
	}
	kind := req.Kind()
	if format == "" {
		format = s.opts.Format
	}

	text, err := req.Format()
	if err != nil {
		return nil, "", s.fail(ctx, StageFormatting, kind, "", err)
	}
	preview := logger.Truncate(text, constant.PayloadPreviewMaxRunes)
	settings := s.opts.Settings.Merge(overrides)

	namespace := constant.ImageNamespace + ":" + string(kind)
	key := cacheKey(text, settings, format)
	if s.opts.Cache != nil {
		if data, ok := s.opts.Cache.Get(namespace, key); ok {
			logger.CtxDebug(ctx, "Preview served from cache", logger.LoggerInfo{
				ContextFunction: constant.CtxPreview,
				Data: map[string]interface{}{
					constant.DataKind:     string(kind),
					constant.DataCacheHit: true,
				},
			})
			return data, text, nil
		}
	}

	symbol, err := s.renderer.Render(ctx, text, settings)
	if err != nil {
		return nil, text, s.fail(ctx, StageRendering, kind, preview, err)
	}

	data, err := storage.EncodeBytes(symbol.Image, format)
	if err != nil {
		return nil, text, s.fail(ctx, StagePersisting, kind, preview, err)
	}

	if s.opts.Cache != nil {
		s.opts.Cache.Set(namespace, key, data)
	}

	logger.CtxDebug(ctx, "Preview rendered", logger.LoggerInfo{
		ContextFunction: constant.CtxPreview,
		Data: map[string]interface{}{
			constant.DataKind:     string(kind),
			constant.DataVersion:  symbol.Version,
			constant.DataSize:     len(data),
			constant.DataCacheHit: false,
		},
	})

	return data, text, nil
}

// History lists recently generated artifacts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]Artifact, error) {
	if s.history == nil {
		return []Artifact{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	artifacts, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		logger.CtxError(ctx, "Failed to list history", logger.LoggerInfo{
			ContextFunction: constant.CtxHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryList,
				Message: err.Error(),
				Type:    constant.ErrTypeHistory,
			},
			Data: map[string]interface{}{
				constant.DataLimit: limit,
			},
		})
		return nil, err
	}
	return artifacts, nil
}

// DefaultFileName returns qr_<kind>_<YYYYMMDD_HHMMSS>.<ext>.
func DefaultFileName(kind payload.Kind, now time.Time, format storage.Format) string {
	return fmt.Sprintf("%s%s_%s.%s", constant.DefaultFilePrefix, kind, now.Format(constant.DefaultFileTimeLayout), format.Extension())
}

func (s *Service) resolveOutput(kind payload.Kind, outputPath string) (string, storage.Format, error) {
	if outputPath == "" {
		return filepath.Join(s.opts.OutputDir, DefaultFileName(kind, s.opts.Now(), s.opts.Format)), s.opts.Format, nil
	}
	format, err := storage.FormatFromPath(outputPath, s.opts.Format)
	if err != nil {
		return "", "", err
	}
	return outputPath, format, nil
}

func (s *Service) record(ctx context.Context, artifact *Artifact) {
	if s.history == nil {
		return
	}
	if err := s.history.Store(ctx, artifact); err != nil {
		logger.CtxWarn(ctx, "Failed to record generation history", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryRecord,
				Message: err.Error(),
				Type:    constant.ErrTypeHistory,
			},
			Data: map[string]interface{}{
				constant.DataOutputPath: artifact.Path,
			},
		})
	}
}

func (s *Service) logStage(ctx context.Context, stage Stage, kind payload.Kind, preview string) {
	data := map[string]interface{}{
		constant.DataStage: string(stage),
		constant.DataKind:  string(kind),
	}
	if preview != "" {
		data[constant.DataPreview] = preview
	}
	logger.CtxDebug(ctx, "Generation stage", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data:            data,
	})
}

// fail logs the failing stage and hands err back unchanged.
func (s *Service) fail(ctx context.Context, stage Stage, kind payload.Kind, preview string, err error) error {
	logger.CtxError(ctx, "QR generation failed", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Error: &logger.CustomError{
			Code:    ErrorCode(err),
			Message: err.Error(),
			Type:    qrerr.Type(err),
		},
		Data: map[string]interface{}{
			constant.DataStage:       string(StageFailed),
			constant.DataFailedStage: string(stage),
			constant.DataKind:        string(kind),
			constant.DataPreview:     preview,
		},
	})
	return err
}

// ErrorCode maps err to its log error code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, qrerr.ErrValidation):
		return constant.ErrCodeInvalidPayload
	case errors.Is(err, qrerr.ErrCapacity):
		return constant.ErrCodeCapacity
	case errors.Is(err, qrerr.ErrResource):
		return resourceCode(err)
	case errors.Is(err, qrerr.ErrPersistence):
		return constant.ErrCodePersist
	default:
		return constant.ErrCodeRenderFailure
	}
}

// resourceCode tells a missing logo apart from an unreadable config.
func resourceCode(err error) string {
	var qe *qrerr.Error
	if errors.As(err, &qe) && qe.Op == constant.CtxConfig {
		return constant.ErrCodeConfig
	}
	return constant.ErrCodeLogo
}

func cacheKey(text string, s qrcode.Settings, f storage.Format) string {
	sum := sha256.Sum256([]byte(text + "\x00" + s.String() + "\x00" + string(f)))
	return hex.EncodeToString(sum[:])
}
