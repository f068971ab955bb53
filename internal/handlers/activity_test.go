package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rsvp-service/internal/cache"
	"rsvp-service/internal/mocks"
	"rsvp-service/internal/models"
	"rsvp-service/internal/repositories"
	"rsvp-service/internal/ws"
)

func setupActivityRouter(handler *ActivityHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events/:event_id/activities", handler.ListActivities)
	r.POST("/events/:event_id/activities", handler.CreateActivity)
	r.DELETE("/events/:event_id/activities/:activity_id", handler.DeleteActivity)
	r.POST("/events/:event_id/activities/:activity_id/reactions", handler.CreateReaction)
	r.DELETE("/events/:event_id/activities/:activity_id/reactions/:reaction_id", handler.DeleteReaction)
	return r
}

func newActivityHandler(eventRepo *mocks.EventRepositoryMock, activityRepo *mocks.ActivityRepositoryMock, reactionRepo *mocks.ReactionRepositoryMock) *ActivityHandler {
	return NewActivityHandler(eventRepo, activityRepo, reactionRepo, ws.NewHub(), cache.NewSnapshot(nil, 0))
}

func ptr(v int) *int { return &v }

func TestListActivitiesBuildsForest(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, reactionRepo)
	router := setupActivityRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	activityRepo.On("ListActivities", mock.Anything, 1).Return([]models.Activity{
		{ID: 3, EventID: 1, Author: "cam", Message: "newest"},
		{ID: 2, EventID: 1, Author: "bob", Message: "reply", ParentID: ptr(1)},
		{ID: 1, EventID: 1, Author: "ann", Message: "first"},
	}, nil).Once()
	reactionRepo.On("ListReactionsForEvent", mock.Anything, 1).Return([]models.Reaction{
		{ID: 1, ActivityID: 1, Author: "bob", Emoji: "👍"},
		{ID: 2, ActivityID: 1, Author: "cam", Emoji: "👍"},
		{ID: 3, ActivityID: 1, Author: "dee", Emoji: "❤️"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/1/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Activities []models.ActivityNode `json:"activities"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Activities, 2)
	assert.Equal(t, 3, resp.Activities[0].ID)
	assert.Empty(t, resp.Activities[0].Replies)
	require.Len(t, resp.Activities[1].Replies, 1)
	assert.Equal(t, 2, resp.Activities[1].Replies[0].ID)
	require.Len(t, resp.Activities[1].Reactions, 2)
	assert.Equal(t, models.ReactionSummary{Emoji: "👍", Count: 2}, resp.Activities[1].Reactions[0])
	assert.Equal(t, models.ReactionSummary{Emoji: "❤️", Count: 1}, resp.Activities[1].Reactions[1])

	eventRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
	reactionRepo.AssertExpectations(t)
}

func TestCreateActivityTopLevel(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, new(mocks.ReactionRepositoryMock))
	router := setupActivityRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	activityRepo.On("CreateActivity", mock.Anything, models.Activity{EventID: 1, Author: "ann", Message: "hello"}).
		Return(models.Activity{ID: 1, EventID: 1, Author: "ann", Message: "hello"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/activities", bytes.NewBufferString(`{"author":"ann","message":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	eventRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestCreateActivityReplyParentOtherEvent(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, new(mocks.ReactionRepositoryMock))
	router := setupActivityRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	activityRepo.On("GetActivity", mock.Anything, 8).Return(models.Activity{ID: 8, EventID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/activities", bytes.NewBufferString(`{"author":"ann","message":"hi","parent_id":8}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	eventRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestCreateActivityReplyParentMissing(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, new(mocks.ReactionRepositoryMock))
	router := setupActivityRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	activityRepo.On("GetActivity", mock.Anything, 8).Return(models.Activity{}, repositories.ErrActivityNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/activities", bytes.NewBufferString(`{"author":"ann","message":"hi","parent_id":8}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestDeleteActivityCascades(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, new(mocks.ReactionRepositoryMock))
	router := setupActivityRouter(handler)

	activityRepo.On("GetActivity", mock.Anything, 1).Return(models.Activity{ID: 1, EventID: 1}, nil).Once()
	activityRepo.On("DeleteActivity", mock.Anything, 1).Return([]int{1, 2, 3}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/events/1/activities/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	activityRepo.AssertExpectations(t)
}

func TestDeleteActivityWrongEvent(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, new(mocks.ReactionRepositoryMock))
	router := setupActivityRouter(handler)

	activityRepo.On("GetActivity", mock.Anything, 1).Return(models.Activity{ID: 1, EventID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/events/1/activities/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	activityRepo.AssertExpectations(t)
}

func TestCreateReactionSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, reactionRepo)
	router := setupActivityRouter(handler)

	activityRepo.On("GetActivity", mock.Anything, 3).Return(models.Activity{ID: 3, EventID: 1}, nil).Once()
	reactionRepo.On("CreateReaction", mock.Anything, models.Reaction{ActivityID: 3, Author: "ann", Emoji: "🎉"}).
		Return(models.Reaction{ID: 5, ActivityID: 3, Author: "ann", Emoji: "🎉"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/activities/3/reactions", bytes.NewBufferString(`{"author":"ann","emoji":"🎉"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	activityRepo.AssertExpectations(t)
	reactionRepo.AssertExpectations(t)
}

func TestDeleteReactionNotFound(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	activityRepo := new(mocks.ActivityRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := newActivityHandler(eventRepo, activityRepo, reactionRepo)
	router := setupActivityRouter(handler)

	activityRepo.On("GetActivity", mock.Anything, 3).Return(models.Activity{ID: 3, EventID: 1}, nil).Once()
	reactionRepo.On("DeleteReaction", mock.Anything, 3, 9).Return(repositories.ErrReactionNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/events/1/activities/3/reactions/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	activityRepo.AssertExpectations(t)
	reactionRepo.AssertExpectations(t)
}
