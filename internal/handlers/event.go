package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvp-service/internal/cache"
	"rsvp-service/internal/models"
	"rsvp-service/internal/repositories"
	"rsvp-service/internal/tally"
	"rsvp-service/internal/telemetry"
	"rsvp-service/internal/ws"
)

// EventHandler manages event and date-option endpoints.
type EventHandler struct {
	eventRepo repositories.EventRepository
	rsvpRepo  repositories.RsvpRepository
	hub       *ws.Hub
	snapshots *cache.Snapshot
	export    *telemetry.ExportEmitter
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(eventRepo repositories.EventRepository, rsvpRepo repositories.RsvpRepository, hub *ws.Hub, snapshots *cache.Snapshot, export *telemetry.ExportEmitter) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		hub:       hub,
		snapshots: snapshots,
		export:    export,
	}
}

// CreateEvent handles POST /events.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		ImageURL     string `json:"image_url"`
		Location     string `json:"location"`
		LocationNote string `json:"location_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventRepo.CreateEvent(c.Request.Context(), models.Event{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Location:     req.Location,
		LocationNote: req.LocationNote,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent returns the event with its date options scored against the
// guests' selections.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if detail, ok := h.snapshots.GetDetail(c.Request.Context(), eventID); ok {
		c.JSON(http.StatusOK, detail)
		return
	}

	event, err := h.eventRepo.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	options, err := h.eventRepo.ListDateOptions(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load date options"})
		return
	}
	selections, err := h.rsvpRepo.ListSelections(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load selections"})
		return
	}
	count, err := h.rsvpRepo.CountRsvps(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count rsvps"})
		return
	}

	detail := models.EventDetail{
		Event:       event,
		DateOptions: tally.Count(options, selections),
		RsvpCount:   count,
	}
	h.snapshots.SetDetail(c.Request.Context(), eventID, detail)
	c.JSON(http.StatusOK, detail)
}

// UpdateEvent overwrites the event's editable fields, broadcasts the
// change and hands the new snapshot to the export pipeline.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		ImageURL     string `json:"image_url"`
		Location     string `json:"location"`
		LocationNote string `json:"location_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventRepo.UpdateEvent(c.Request.Context(), models.Event{
		ID:           eventID,
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Location:     req.Location,
		LocationNote: req.LocationNote,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not update event"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeEventUpdated, event)
	h.export.Emit(c.Request.Context(), event, requestIDFromContext(c))
	c.JSON(http.StatusOK, event)
}

// SetFinalDate locks in one of the event's date options. The transition
// is one way; there is no unset endpoint.
func (h *EventHandler) SetFinalDate(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req struct {
		DateOptionID int `json:"date_option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.eventRepo.GetEvent(c.Request.Context(), eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	if err := h.eventRepo.SetFinalDate(c.Request.Context(), eventID, req.DateOptionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrDateOptionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "date option not found"})
		return
	}

	event, err := h.eventRepo.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload event"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeEventUpdated, event)
	c.JSON(http.StatusOK, event)
}

// CreateDateOption adds a candidate date to the event.
func (h *EventHandler) CreateDateOption(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date" binding:"required"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.eventRepo.GetEvent(c.Request.Context(), eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	option, err := h.eventRepo.CreateDateOption(c.Request.Context(), models.DateOption{
		EventID: eventID,
		Date:    req.Date,
		Time:    req.Time,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create date option"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeDateOptionCreated, option)
	c.JSON(http.StatusCreated, option)
}

// DeleteDateOption removes a candidate date (host moderation). Guests'
// selections of it cascade away; a final date pointing at it is cleared.
func (h *EventHandler) DeleteDateOption(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	optionID, ok := intParam(c, "option_id", "date option id")
	if !ok {
		return
	}

	if err := h.eventRepo.DeleteDateOption(c.Request.Context(), eventID, optionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrDateOptionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete date option"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeDateOptionDeleted, gin.H{"date_option_id": optionID})
	c.Status(http.StatusNoContent)
}
