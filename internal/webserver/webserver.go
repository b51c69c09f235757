package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/lachlan2k/sesame/internal/accesscontrol"
	"github.com/lachlan2k/sesame/internal/config"
	"github.com/lachlan2k/sesame/internal/session"
)

const shutdownTimeout = 10 * time.Second

type Webserver struct {
	echo *echo.Echo
	conf *config.Config

	sessionHandler session.SessionHandler
	verifier       *accesscontrol.Verifier
	classifier     *accesscontrol.Classifier
}

func New() *Webserver {
	e := echo.New()
	e.HideBanner = true

	return &Webserver{echo: e}
}

func (w *Webserver) Logger() echo.Logger {
	return w.echo.Logger
}

func parseLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func (w *Webserver) setup(conf *config.Config) error {
	e := w.echo
	e.Logger.SetLevel(parseLogLevel(conf.LogLevel))

	for _, warning := range conf.Warnings {
		e.Logger.Warn(warning)
	}

	classifier, err := accesscontrol.NewClassifier(conf)
	if err != nil {
		return err
	}

	w.conf = conf
	w.classifier = classifier
	w.verifier = accesscontrol.NewVerifier(conf.Access.Passphrase)
	w.sessionHandler = &session.JWTSessionHandler{
		Secret:       []byte(conf.Session.Secret),
		CookieSecure: conf.IsProduction(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.BodyLimit("16K"))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "same-origin",
		HSTSMaxAge:         hstsMaxAge(conf),
	}))
	e.Use(w.gate)

	w.registerRoutes()

	return nil
}

func hstsMaxAge(conf *config.Config) int {
	if conf.IsProduction() {
		return 60 * 60 * 24 * 365
	}
	return 0
}

func (w *Webserver) registerRoutes() {
	e := w.echo

	api := e.Group("/api")
	api.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	api.POST("/login", w.loginRouteHandler)
	api.POST("/logout", w.logoutRouteHandler)

	e.GET(accesscontrol.PublicPath, w.homePageHandler)
	e.GET(accesscontrol.ProtectedPath, w.protectedPageHandler)

	if entry := w.conf.EntryRoute(); entry != "" {
		e.GET(entry, w.loginPageHandler)
	}
}

// Serves until ctx is cancelled, then shuts down gracefully
func (w *Webserver) Run(ctx context.Context, conf *config.Config) error {
	if err := w.setup(conf); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.ListenPort),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.echo.StartServer(server)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	w.echo.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// echo.Shutdown only knows about e.Server, not the server handed to StartServer
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
