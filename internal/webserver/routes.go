package webserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lachlan2k/sesame/internal/accesscontrol"
)

type loginReq struct {
	Password string `json:"password" form:"password"`
}

type loginRes struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

type successRes struct {
	Success bool `json:"success"`
}

type errorRes struct {
	Error string `json:"error"`
}

func (w *Webserver) loginRouteHandler(c echo.Context) error {
	logger := c.Logger()

	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorRes{Error: "Invalid request body"})
	}

	err := w.verifier.Check(req.Password)
	logger.Debugf("Passphrase check: submitted length %d, configured length %d, matched %t",
		len(strings.TrimSpace(req.Password)), w.verifier.ConfiguredLength(), err == nil)

	if errors.Is(err, accesscontrol.ErrNotConfigured) || w.conf.Session.Secret == "" {
		logger.Error("Login attempted, but the passphrase or session secret isn't configured")
		return c.JSON(http.StatusInternalServerError, errorRes{Error: "Server configuration error"})
	}
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorRes{Error: "Invalid password"})
	}

	if err := w.sessionHandler.Start(c); err != nil {
		logger.Errorf("Couldn't start session: %v", err)
		return c.JSON(http.StatusInternalServerError, errorRes{Error: "Failed to start session"})
	}

	return c.JSON(http.StatusOK, loginRes{
		Success:  true,
		Redirect: accesscontrol.ProtectedPath,
	})
}

func (w *Webserver) logoutRouteHandler(c echo.Context) error {
	w.sessionHandler.Destroy(c)
	return c.JSON(http.StatusOK, successRes{Success: true})
}

func (w *Webserver) homePageHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, homePage)
}

func (w *Webserver) loginPageHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, loginPage)
}

// Only reachable through the gate with a valid session
func (w *Webserver) protectedPageHandler(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTML(http.StatusOK, protectedPage)
}
