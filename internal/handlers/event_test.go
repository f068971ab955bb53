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

func setupEventRouter(handler *EventHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/events", handler.CreateEvent)
	r.GET("/events/:event_id", handler.GetEvent)
	r.PUT("/events/:event_id", handler.UpdateEvent)
	r.POST("/events/:event_id/final-date", handler.SetFinalDate)
	r.POST("/events/:event_id/date-options", handler.CreateDateOption)
	r.DELETE("/events/:event_id/date-options/:option_id", handler.DeleteDateOption)
	return r
}

func newEventHandler(eventRepo *mocks.EventRepositoryMock, rsvpRepo *mocks.RsvpRepositoryMock) *EventHandler {
	return NewEventHandler(eventRepo, rsvpRepo, ws.NewHub(), cache.NewSnapshot(nil, 0), nil)
}

func TestCreateEventSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("CreateEvent", mock.Anything, models.Event{Title: "Garden party"}).
		Return(models.Event{ID: 1, Title: "Garden party"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"title":"Garden party"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestCreateEventMissingTitle(t *testing.T) {
	handler := newEventHandler(new(mocks.EventRepositoryMock), new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"description":"no title"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEventWithTallies(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	rsvpRepo := new(mocks.RsvpRepositoryMock)
	handler := newEventHandler(eventRepo, rsvpRepo)
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1, Title: "Garden party"}, nil).Once()
	eventRepo.On("ListDateOptions", mock.Anything, 1).Return([]models.DateOption{
		{ID: 1, EventID: 1, Date: "Jul 15"},
		{ID: 2, EventID: 1, Date: "Jul 22"},
	}, nil).Once()
	rsvpRepo.On("ListSelections", mock.Anything, 1).Return([]models.DateSelection{
		{RsvpID: 1, DateOptionID: 1},
		{RsvpID: 2, DateOptionID: 1},
		{RsvpID: 3, DateOptionID: 1},
		{RsvpID: 2, DateOptionID: 2},
	}, nil).Once()
	rsvpRepo.On("CountRsvps", mock.Anything, 1).Return(3, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.EventDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	require.Len(t, detail.DateOptions, 2)
	assert.Equal(t, 3, detail.DateOptions[0].Votes)
	assert.Equal(t, float64(100), detail.DateOptions[0].Percentage)
	assert.Equal(t, 1, detail.DateOptions[1].Votes)
	assert.InDelta(t, 33.33, detail.DateOptions[1].Percentage, 0.01)
	assert.Equal(t, 3, detail.RsvpCount)

	eventRepo.AssertExpectations(t)
	rsvpRepo.AssertExpectations(t)
}

func TestGetEventNotFound(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 9).Return(models.Event{}, repositories.ErrEventNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestGetEventInvalidID(t *testing.T) {
	handler := newEventHandler(new(mocks.EventRepositoryMock), new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/events/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetFinalDateSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	final := 2
	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	eventRepo.On("SetFinalDate", mock.Anything, 1, 2).Return(nil).Once()
	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1, FinalDateOptionID: &final}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/final-date", bytes.NewBufferString(`{"date_option_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var event models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&event))
	require.NotNil(t, event.FinalDateOptionID)
	assert.Equal(t, 2, *event.FinalDateOptionID)
	eventRepo.AssertExpectations(t)
}

func TestSetFinalDateCrossEventOption(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	eventRepo.On("SetFinalDate", mock.Anything, 1, 99).Return(repositories.ErrDateOptionNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/final-date", bytes.NewBufferString(`{"date_option_id":99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestUpdateEventSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("UpdateEvent", mock.Anything, models.Event{ID: 1, Title: "Moved indoors", Location: "Hall"}).
		Return(models.Event{ID: 1, Title: "Moved indoors", Location: "Hall"}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/events/1", bytes.NewBufferString(`{"title":"Moved indoors","location":"Hall"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestCreateDateOptionSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	eventRepo.On("CreateDateOption", mock.Anything, models.DateOption{EventID: 1, Date: "Jul 15", Time: "18:00"}).
		Return(models.DateOption{ID: 4, EventID: 1, Date: "Jul 15", Time: "18:00"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/1/date-options", bytes.NewBufferString(`{"date":"Jul 15","time":"18:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestDeleteDateOptionSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("DeleteDateOption", mock.Anything, 1, 4).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/events/1/date-options/4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestDeleteDateOptionNotFound(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newEventHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupEventRouter(handler)

	eventRepo.On("DeleteDateOption", mock.Anything, 1, 4).Return(repositories.ErrDateOptionNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/events/1/date-options/4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}
