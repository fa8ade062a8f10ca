package pubstatic

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return path.Ext(c.Request().URL.Path) != ""
		},
	}))
	if base := a.Config.BasePath; base != "" {
		e.Pre(middleware.Rewrite(map[string]string{
			base + "/*": "/$1",
		}))
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.logger.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			switch strings.ToLower(path.Ext(c.Request().URL.Path)) {
			case ".jpg", ".jpeg", ".png", ".gif", ".webp":
				return true
			}
			return false
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; connect-src 'self'",
	}))

	e.Use(noCacheMiddleware)

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  a.Config.OutputDir,
		Index: "index.html",
	}))
}

// noCacheMiddleware makes browsers revalidate every file so rebuilds show up
// on reload.
func noCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache")
		return next(c)
	}
}
