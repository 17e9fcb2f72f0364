package handlers

import (
	"log"
	"net/http"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/anvex/concertly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// EventHandler handles event search and saved-event HTTP requests
type EventHandler struct {
	savedEventRepository repositories.SavedEventRepository
	ticketmaster         *clients.TicketmasterClient
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(savedEventRepo repositories.SavedEventRepository, ticketmaster *clients.TicketmasterClient) *EventHandler {
	return &EventHandler{
		savedEventRepository: savedEventRepo,
		ticketmaster:         ticketmaster,
	}
}

// RegisterPublicRoutes registers routes that need no authentication
func (h *EventHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/events", h.SearchEvents)
}

// RegisterProtectedRoutes registers saved-event routes behind JWT auth
func (h *EventHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/events/save", h.SaveEvent)
	g.GET("/events/saved", h.GetSavedEvents)
	g.DELETE("/events/saved/:eventId", h.UnsaveEvent)
}

// SearchEvents searches Ticketmaster for music events in a city
func (h *EventHandler) SearchEvents(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "City parameter is required"})
	}

	events, err := h.ticketmaster.SearchEvents(c.Request().Context(), city)
	if err != nil {
		log.Printf("Ticketmaster search failed for city %q: %v", city, err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Error fetching events"})
	}

	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// SaveEvent bookmarks an event for the authenticated user. Saving an
// already-saved event succeeds and returns the existing record.
func (h *EventHandler) SaveEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SaveEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	saved, err := h.savedEventRepository.Save(c.Request().Context(), currentUserID, req.EventID, req.EventData)
	if err != nil {
		log.Printf("Failed to save event %s for user %d: %v", req.EventID, currentUserID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save event"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Event saved successfully",
		"savedEvent": saved,
	})
}

// GetSavedEvents lists the authenticated user's saved events
func (h *EventHandler) GetSavedEvents(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	saved, err := h.savedEventRepository.ListByUser(c.Request().Context(), currentUserID)
	if err != nil {
		log.Printf("Failed to list saved events for user %d: %v", currentUserID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch saved events"})
	}

	return c.JSON(http.StatusOK, echo.Map{"savedEvents": saved})
}

// UnsaveEvent removes an event from the user's saved list. Removing an
// event that is not saved succeeds, so retried deletes stay harmless.
func (h *EventHandler) UnsaveEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	eventID := c.Param("eventId")

	if err := h.savedEventRepository.Unsave(c.Request().Context(), currentUserID, eventID); err != nil {
		log.Printf("Failed to unsave event %s for user %d: %v", eventID, currentUserID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove event"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Event removed successfully"})
}
