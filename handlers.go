package pubstatic

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		if rerr := RenderStatus(c, http.StatusNotFound, a.Views.NotFound()); rerr != nil {
			a.logger.Error("Rendering not found page failed", "error", rerr)
		}
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("Server error", "uri", c.Request().RequestURI, "error", err)
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
