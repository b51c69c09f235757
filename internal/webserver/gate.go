package webserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lachlan2k/sesame/internal/accesscontrol"
	"github.com/lachlan2k/sesame/internal/session"
	"github.com/lachlan2k/sesame/internal/utils"
)

// Paths that never go through the gate: the API does its own checks, and static assets are public
var gateBypass = []string{
	"/api/*",
	"/static/*",
	"/favicon.ico",
	"*.svg",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.webp",
}

func gateSkipper(c echo.Context) bool {
	return utils.MatchesAny(gateBypass, c.Request().URL.Path)
}

func redirectToPublic(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, accesscontrol.PublicPath)
}

// Lets public and login pages through, lets the protected area through with a valid session,
// and bounces everything else back to the home page. Why a request was bounced is never
// visible to the client.
func (w *Webserver) gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if gateSkipper(c) {
			return next(c)
		}

		logger := c.Logger()

		switch class := w.classifier.Classify(c.Request().URL.Path); class {
		case accesscontrol.Public, accesscontrol.LoginEntry:
			return next(c)

		case accesscontrol.Protected:
			_, err := w.sessionHandler.GetSessionData(c)
			if err == nil {
				return next(c)
			}

			if errors.Is(err, session.ErrNoSecret) {
				logger.Error("Denied access to the protected area: no session secret is configured")
			} else {
				logger.Debugf("Denied access to %s: session was %s", class, session.Reason(err))
			}
			return redirectToPublic(c)

		default:
			logger.Debugf("Denied access to %s path", class)
			return redirectToPublic(c)
		}
	}
}
