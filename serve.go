package pubstatic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 5 * time.Second

// Serve builds the site, then serves the output directory on Config.Addr
// until ctx is cancelled. With WithWatch(true) the site is rebuilt whenever
// a source file changes.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	a.Echo = a.newServer()

	if a.watch {
		w, err := a.watchSources(ctx)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(a.Config.Addr)
	}()
	a.logger.Info("Serving site",
		"url", "http://localhost"+a.Config.Addr+a.Config.BasePath+"/",
		"output", a.Config.OutputDir,
		"watch", a.watch,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down server")
		return a.Echo.Shutdown(shutdownCtx)
	}
}

func (a *App) newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	a.Echo = e
	a.setupMiddleware(e)
	return e
}
