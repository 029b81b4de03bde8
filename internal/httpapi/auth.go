package httpapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Ducky705/Live-Pick-Scraper/internal/auth"
)

// requireToken checks the bearer token against the configured hash. With no
// hash configured every request is rejected.
func (s *Server) requireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.opts.TokenHash == "" {
				return unauthorized(c)
			}
			token := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" || !auth.VerifyToken(token, s.opts.TokenHash) {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}
