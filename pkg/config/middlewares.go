package config

import (
	"github.com/labstack/echo/v4"
)

// contentSecurityPolicy whitelists the third-party origins the frontend
// talks to directly (YouTube embeds, map tiles, provider images).
const contentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"font-src 'self' data:; " +
	"img-src 'self' data: https: blob:; " +
	"script-src 'self' 'unsafe-inline' https://*.googleapis.com; " +
	"frame-src 'self' https://www.youtube.com; " +
	"connect-src 'self' https://app.ticketmaster.com https://*.googleapis.com https://api.openweathermap.org"

// CSPMiddleware sets the Content-Security-Policy header on every response.
func CSPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Content-Security-Policy", contentSecurityPolicy)
			return next(c)
		}
	}
}
