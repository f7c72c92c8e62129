package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/memohai/assetd/internal/storage"
)

// FilesPrefix is the public route the local blob store is served under.
const FilesPrefix = "/files"

// FilesHandler serves stored blobs from the local filesystem backend so
// that asset URLs resolve without an external CDN.
type FilesHandler struct {
	provider storage.Provider
	logger   *slog.Logger
}

// NewFilesHandler creates a files handler. It only registers routes when
// provider is a *storage.FileStore.
func NewFilesHandler(log *slog.Logger, provider storage.Provider) *FilesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FilesHandler{
		provider: provider,
		logger:   log.With(slog.String("handler", "files")),
	}
}

func (h *FilesHandler) Register(e *echo.Echo) {
	if _, ok := h.provider.(*storage.FileStore); !ok {
		return
	}
	e.GET(FilesPrefix+"/*", h.Get)
}

// Get godoc
// @Summary Download a stored asset
// @Tags files
// @Param key path string true "Storage key"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{key} [get]
func (h *FilesHandler) Get(c echo.Context) error {
	key, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid key")
	}
	key = strings.TrimPrefix(key, "/")
	reader, err := h.provider.Open(c.Request().Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		case errors.Is(err, storage.ErrInvalidKey):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid key")
		}
		h.logger.Error("open blob failed", slog.String("key", key), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "open file failed")
	}
	defer func() { _ = reader.Close() }()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	header := c.Response().Header()
	header.Set("Cache-Control", "public, max-age=31536000, immutable")
	// Blobs are user content served from the API origin; scripts inside them must not run.
	header.Set(echo.HeaderXContentTypeOptions, "nosniff")
	header.Set(echo.HeaderContentSecurityPolicy, "sandbox; default-src 'none'; img-src 'self' data:; style-src 'unsafe-inline'")
	return c.Stream(http.StatusOK, contentType, reader)
}
