package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvp-service/internal/cache"
	"rsvp-service/internal/models"
	"rsvp-service/internal/repositories"
	"rsvp-service/internal/ws"
)

// RsvpHandler manages guest reply endpoints.
type RsvpHandler struct {
	eventRepo repositories.EventRepository
	rsvpRepo  repositories.RsvpRepository
	hub       *ws.Hub
	snapshots *cache.Snapshot
}

// NewRsvpHandler builds an RsvpHandler.
func NewRsvpHandler(eventRepo repositories.EventRepository, rsvpRepo repositories.RsvpRepository, hub *ws.Hub, snapshots *cache.Snapshot) *RsvpHandler {
	return &RsvpHandler{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		hub:       hub,
		snapshots: snapshots,
	}
}

// ListRsvps returns the event's replies with their date selections.
func (h *RsvpHandler) ListRsvps(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
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

	rsvps, err := h.rsvpRepo.ListRsvps(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rsvps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// CreateRsvp stores a reply and its date selections in one transaction
// and broadcasts it. A selection of an option from another event fails
// the whole reply.
func (h *RsvpHandler) CreateRsvp(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req struct {
		GuestName     string `json:"guest_name" binding:"required"`
		Message       string `json:"message"`
		Email         string `json:"email"`
		WantsUpdates  bool   `json:"wants_updates"`
		DateOptionIDs []int  `json:"date_option_ids"`
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

	rsvp, err := h.rsvpRepo.CreateRsvp(c.Request.Context(), models.Rsvp{
		EventID:      eventID,
		GuestName:    req.GuestName,
		Message:      req.Message,
		Email:        req.Email,
		WantsUpdates: req.WantsUpdates,
	}, req.DateOptionIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrDateOptionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not create rsvp"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeRsvpCreated, rsvp)
	c.JSON(http.StatusCreated, rsvp)
}
