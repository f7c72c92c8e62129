package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/memohai/assetd/internal/assets"
	"github.com/memohai/assetd/internal/auth"
)

// AssetsHandler serves asset upload and listing.
type AssetsHandler struct {
	service     *assets.Service
	uploadLimit echo.MiddlewareFunc
	logger      *slog.Logger
}

// NewAssetsHandler creates an assets handler.
func NewAssetsHandler(log *slog.Logger, service *assets.Service) *AssetsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AssetsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "assets")),
	}
}

// WithUploadLimit rate limits uploads per user. perSecond <= 0 disables it.
func (h *AssetsHandler) WithUploadLimit(perSecond float64, burst int) *AssetsHandler {
	h.uploadLimit = UploadRateLimiter(perSecond, burst)
	return h
}

func (h *AssetsHandler) Register(e *echo.Echo) {
	group := e.Group("/api/v2/asset")
	var uploadMiddleware []echo.MiddlewareFunc
	if h.uploadLimit != nil {
		uploadMiddleware = append(uploadMiddleware, h.uploadLimit)
	}
	group.POST("/upload", h.Upload, uploadMiddleware...)
	group.GET("", h.List)
}

// Upload godoc
// @Summary Upload an asset
// @Description Stores an image or icon for the current user. Re-uploading identical
// @Description bytes returns the existing asset; a different file name renames it.
// @Tags assets
// @Accept multipart/form-data
// @Param Authorization header string true "Bearer <token>"
// @Param file formData file true "Asset file"
// @Param asset_type formData string true "image or icon"
// @Param display_name formData string false "Display name (required for icons)"
// @Param category formData string false "Category"
// @Success 201 {object} assets.View
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v2/asset/upload [post]
func (h *AssetsHandler) Upload(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	assetType, err := h.parseAssetType(c.FormValue("asset_type"))
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer func() { _ = file.Close() }()

	// One byte past the ceiling is enough for the size check to fire.
	limit := h.service.Policy().MaxBytes
	var reader io.Reader = file
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read file: %v", err))
	}

	rec, err := h.service.Upload(c.Request().Context(), assets.UploadInput{
		OwnerID:     userID,
		AssetType:   assetType,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Data:        data,
		DisplayName: c.FormValue("display_name"),
		Category:    c.FormValue("category"),
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, h.service.View(rec))
}

// List godoc
// @Summary List assets
// @Description Lists the current user's assets, oldest first.
// @Tags assets
// @Param Authorization header string true "Bearer <token>"
// @Param asset_type query string false "Filter by image or icon"
// @Success 200 {array} assets.View
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v2/asset [get]
func (h *AssetsHandler) List(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	var filter *assets.AssetType
	if raw := strings.TrimSpace(c.QueryParam("asset_type")); raw != "" {
		assetType, err := h.parseAssetType(raw)
		if err != nil {
			return err
		}
		filter = &assetType
	}
	items, err := h.service.List(c.Request().Context(), userID, filter)
	if err != nil {
		return h.httpError(err)
	}
	views := make([]assets.View, 0, len(items))
	for _, item := range items {
		views = append(views, h.service.View(item))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *AssetsHandler) parseAssetType(raw string) (assets.AssetType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "asset_type is required")
	}
	assetType := assets.AssetType(raw)
	if !h.service.Policy().Known(assetType) {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown asset_type %q", raw))
	}
	return assetType, nil
}

func (h *AssetsHandler) httpError(err error) error {
	switch {
	case errors.Is(err, assets.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, assets.ErrUnsupportedMediaType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, assets.ErrPayloadTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, assets.ErrStorageUnavailable), errors.Is(err, assets.ErrLedgerUnavailable):
		h.logger.Error("asset backend unavailable", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "asset storage temporarily unavailable")
	default:
		h.logger.Error("asset request failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
