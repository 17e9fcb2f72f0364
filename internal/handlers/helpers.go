package handlers

import (
	"errors"
	"net/http"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's ID from the JWT
// claims stored by the auth middleware, or 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// upstreamStatus maps a provider client error to the response status:
// known upstream statuses are forwarded, everything else (timeouts,
// connection failures, malformed payloads) becomes a 502.
func upstreamStatus(err error) int {
	var upstream *clients.UpstreamError
	if errors.As(err, &upstream) && upstream.Status > 0 {
		return upstream.Status
	}
	return http.StatusBadGateway
}
