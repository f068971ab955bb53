package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvp-service/internal/cache"
	"rsvp-service/internal/feed"
	"rsvp-service/internal/models"
	"rsvp-service/internal/repositories"
	"rsvp-service/internal/ws"
)

// ActivityHandler manages the event feed: posts, replies and reactions.
type ActivityHandler struct {
	eventRepo    repositories.EventRepository
	activityRepo repositories.ActivityRepository
	reactionRepo repositories.ReactionRepository
	hub          *ws.Hub
	snapshots    *cache.Snapshot
}

// NewActivityHandler builds an ActivityHandler.
func NewActivityHandler(eventRepo repositories.EventRepository, activityRepo repositories.ActivityRepository, reactionRepo repositories.ReactionRepository, hub *ws.Hub, snapshots *cache.Snapshot) *ActivityHandler {
	return &ActivityHandler{
		eventRepo:    eventRepo,
		activityRepo: activityRepo,
		reactionRepo: reactionRepo,
		hub:          hub,
		snapshots:    snapshots,
	}
}

// ListActivities returns the event's threaded feed with reaction counts.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if forest, ok := h.snapshots.GetFeed(c.Request.Context(), eventID); ok {
		c.JSON(http.StatusOK, gin.H{"activities": forest})
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

	activities, err := h.activityRepo.ListActivities(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activities"})
		return
	}
	reactions, err := h.reactionRepo.ListReactionsForEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reactions"})
		return
	}

	forest := feed.Build(activities, reactions)
	h.snapshots.SetFeed(c.Request.Context(), eventID, forest)
	c.JSON(http.StatusOK, gin.H{"activities": forest})
}

// CreateActivity posts a message or a reply. A reply's parent must be an
// activity of the same event.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Author   string `json:"author" binding:"required"`
		Message  string `json:"message" binding:"required"`
		ParentID *int   `json:"parent_id"`
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

	if req.ParentID != nil {
		parent, err := h.activityRepo.GetActivity(c.Request.Context(), *req.ParentID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, repositories.ErrActivityNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": "parent activity not found"})
			return
		}
		if parent.EventID != eventID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent activity belongs to another event"})
			return
		}
	}

	activity, err := h.activityRepo.CreateActivity(c.Request.Context(), models.Activity{
		EventID:  eventID,
		Author:   req.Author,
		Message:  req.Message,
		ParentID: req.ParentID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create activity"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeActivityCreated, activity)
	c.JSON(http.StatusCreated, activity)
}

// DeleteActivity removes a post, its reply subtree and every reaction on
// the removed nodes (host moderation).
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	activityID, ok := intParam(c, "activity_id", "activity id")
	if !ok {
		return
	}

	activity, err := h.activityRepo.GetActivity(c.Request.Context(), activityID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrActivityNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "activity not found"})
		return
	}
	if activity.EventID != eventID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity does not belong to event"})
		return
	}

	deleted, err := h.activityRepo.DeleteActivity(c.Request.Context(), activityID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrActivityNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete activity"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeActivityDeleted, gin.H{"activity_id": activityID, "deleted_ids": deleted})
	c.Status(http.StatusNoContent)
}

// CreateReaction attaches an emoji reaction to an activity. Repeats from
// the same author count each time.
func (h *ActivityHandler) CreateReaction(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	activityID, ok := intParam(c, "activity_id", "activity id")
	if !ok {
		return
	}

	var req struct {
		Author string `json:"author" binding:"required"`
		Emoji  string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.activityRepo.GetActivity(c.Request.Context(), activityID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrActivityNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "activity not found"})
		return
	}
	if activity.EventID != eventID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity does not belong to event"})
		return
	}

	reaction, err := h.reactionRepo.CreateReaction(c.Request.Context(), models.Reaction{
		ActivityID: activityID,
		Author:     req.Author,
		Emoji:      req.Emoji,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create reaction"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeReactionAdded, reaction)
	c.JSON(http.StatusCreated, reaction)
}

// DeleteReaction removes a single reaction from an activity.
func (h *ActivityHandler) DeleteReaction(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	activityID, ok := intParam(c, "activity_id", "activity id")
	if !ok {
		return
	}
	reactionID, ok := intParam(c, "reaction_id", "reaction id")
	if !ok {
		return
	}

	activity, err := h.activityRepo.GetActivity(c.Request.Context(), activityID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrActivityNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "activity not found"})
		return
	}
	if activity.EventID != eventID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity does not belong to event"})
		return
	}

	if err := h.reactionRepo.DeleteReaction(c.Request.Context(), activityID, reactionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrReactionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete reaction"})
		return
	}

	h.snapshots.Invalidate(c.Request.Context(), eventID)
	h.hub.Broadcast(eventID, models.NoticeReactionRemoved, gin.H{"activity_id": activityID, "reaction_id": reactionID})
	c.Status(http.StatusNoContent)
}
