package handlers

// @title assetd API
// @version 1.0.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@latest init -g swagger.go -o ../../docs --parseDependency --parseInternal

// DefaultSwaggerPath is where swag writes the generated document.
const DefaultSwaggerPath = "docs/swagger.json"

// SwaggerHandler serves the generated OpenAPI document and a Swagger UI page.
type SwaggerHandler struct {
	path   string
	logger *slog.Logger

	once sync.Once
	spec []byte
	err  error
}

func NewSwaggerHandler(log *slog.Logger) *SwaggerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SwaggerHandler{
		path:   DefaultSwaggerPath,
		logger: log.With(slog.String("handler", "swagger")),
	}
}

func (h *SwaggerHandler) Register(e *echo.Echo) {
	e.GET("/api/swagger.json", h.Spec)
	e.GET("/api/docs", h.UI)
	e.GET("/api/docs/", h.UI)
}

func (h *SwaggerHandler) Spec(c echo.Context) error {
	h.once.Do(func() {
		h.spec, h.err = os.ReadFile(h.path)
		if h.err != nil {
			h.logger.Warn("swagger document unavailable", slog.String("path", h.path), slog.Any("error", h.err))
		}
	})
	if h.err != nil {
		if errors.Is(h.err, fs.ErrNotExist) {
			return echo.NewHTTPError(http.StatusNotFound, "swagger document not generated")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, h.err.Error())
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, h.spec)
}

func (h *SwaggerHandler) UI(c echo.Context) error {
	return c.HTML(http.StatusOK, swaggerUIHTML)
}

const swaggerUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>assetd API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.onload = () => {
        window.ui = SwaggerUIBundle({ url: '/api/swagger.json', dom_id: '#swagger-ui' });
      };
    </script>
  </body>
</html>`
