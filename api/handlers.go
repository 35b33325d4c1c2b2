package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/generator"
	"github.com/prasetyowira/qr-utils/domain/payload"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	appLogger "github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/prasetyowira/qr-utils/infrastructure/qrcode"
	"github.com/prasetyowira/qr-utils/infrastructure/storage"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// QRService is the part of generator.Service the handlers use
type QRService interface {
	Preview(ctx context.Context, req payload.Request, overrides qrcode.Overrides, format storage.Format) ([]byte, string, error)
	History(ctx context.Context, limit int) ([]generator.Artifact, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service      QRService
	vcardVersion string
}

// RenderRequest is the request object for the RenderQRCode endpoint
type RenderRequest struct {
	Payload  json.RawMessage  `json:"payload"`
	Settings qrcode.Overrides `json:"settings"`
	Format   string           `json:"format"`
}

// PayloadResponse is the response object for the FormatPayload endpoint
type PayloadResponse struct {
	Kind    payload.Kind `json:"kind"`
	Payload string       `json:"payload"`
}

// HistoryResponse is the response for the history listing
type HistoryResponse struct {
	Artifacts []generator.Artifact `json:"artifacts"`
	Count     int                  `json:"count"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler. vcardVersion fills vCard requests
// that leave the version empty.
func NewHandler(service QRService, vcardVersion string) *Handler {
	if vcardVersion == "" {
		vcardVersion = payload.DefaultVCardVersion
	}
	return &Handler{
		service:      service,
		vcardVersion: vcardVersion,
	}
}

// RenderQRCode renders the posted payload and returns the image bytes
func (h *Handler) RenderQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, body, ok := h.decodePayload(w, r, constant.CtxRenderQRCode)
	if !ok {
		return
	}

	format := storage.FormatPNG
	if body.Format != "" {
		f, err := storage.ParseFormat(body.Format)
		if err != nil {
			h.writeServiceError(ctx, w, constant.CtxRenderQRCode, err)
			return
		}
		format = f
	}

	data, _, err := h.service.Preview(ctx, req, body.Settings, format)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxRenderQRCode, err)
		return
	}

	appLogger.CtxInfo(ctx, "QR code rendered", appLogger.LoggerInfo{
		ContextFunction: constant.CtxRenderQRCode,
		Data: map[string]interface{}{
			constant.DataKind:   string(req.Kind()),
			constant.DataFormat: string(format),
			constant.DataSize:   len(data),
		},
	})

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// FormatPayload returns the encoded payload string without rendering
func (h *Handler) FormatPayload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, _, ok := h.decodePayload(w, r, constant.CtxFormatPayload)
	if !ok {
		return
	}

	text, err := req.Format()
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxFormatPayload, err)
		return
	}

	appLogger.CtxDebug(ctx, "Payload formatted", appLogger.LoggerInfo{
		ContextFunction: constant.CtxFormatPayload,
		Data: map[string]interface{}{
			constant.DataKind:    string(req.Kind()),
			constant.DataPreview: appLogger.Truncate(text, constant.PayloadPreviewMaxRunes),
		},
	})

	WriteJSON(w, PayloadResponse{Kind: req.Kind(), Payload: text}, http.StatusOK)
}

// ListHistory returns recently generated artifacts
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	artifacts, err := h.service.History(ctx, limit)
	if err != nil {
		h.writeServiceError(ctx, w, constant.CtxListHistory, err)
		return
	}

	WriteJSON(w, HistoryResponse{Artifacts: artifacts, Count: len(artifacts)}, http.StatusOK)
}

// decodePayload resolves the kind URL parameter and decodes the request body
// into the matching payload request. It writes the error response itself.
func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, fn string) (payload.Request, RenderRequest, bool) {
	ctx := r.Context()
	var body RenderRequest

	kind, err := payload.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		appLogger.CtxWarn(ctx, "Unknown payload kind", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeUnknownKind,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		WriteJSONError(w, err.Error(), http.StatusNotFound)
		return nil, body, false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := decoder.Decode(&body); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return nil, body, false
	}

	req, err := payload.New(kind)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusNotFound)
		return nil, body, false
	}
	if len(body.Payload) > 0 {
		if err := json.Unmarshal(body.Payload, req); err != nil {
			WriteJSONError(w, "Invalid payload for "+string(kind)+": "+err.Error(), http.StatusBadRequest)
			return nil, body, false
		}
	}
	if vc, ok := req.(*payload.VCardRequest); ok && vc.Version == "" {
		vc.Version = h.vcardVersion
	}

	return req, body, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, fn string, err error) {
	status := StatusFor(err)
	logFunc := appLogger.CtxWarn
	if status >= http.StatusInternalServerError {
		logFunc = appLogger.CtxError
	}
	logFunc(ctx, "Request failed", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    generator.ErrorCode(err),
			Message: err.Error(),
			Type:    qrerr.Type(err),
		},
		Data: map[string]interface{}{
			constant.DataStatus: status,
		},
	})

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	WriteJSONError(w, message, status)
}

// StatusFor maps a pipeline error to an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, qrerr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, qrerr.ErrCapacity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
