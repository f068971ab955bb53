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

func setupRsvpRouter(handler *RsvpHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events/:event_id/rsvps", handler.ListRsvps)
	r.POST("/events/:event_id/rsvps", handler.CreateRsvp)
	return r
}

func newRsvpHandler(eventRepo *mocks.EventRepositoryMock, rsvpRepo *mocks.RsvpRepositoryMock) *RsvpHandler {
	return NewRsvpHandler(eventRepo, rsvpRepo, ws.NewHub(), cache.NewSnapshot(nil, 0))
}

func TestCreateRsvpSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	rsvpRepo := new(mocks.RsvpRepositoryMock)
	handler := newRsvpHandler(eventRepo, rsvpRepo)
	router := setupRsvpRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	rsvpRepo.On("CreateRsvp", mock.Anything, models.Rsvp{EventID: 1, GuestName: "ann", WantsUpdates: true}, []int{1, 2}).
		Return(models.RsvpDetail{Rsvp: models.Rsvp{ID: 7, EventID: 1, GuestName: "ann"}, DateOptionIDs: []int{1, 2}}, nil).Once()

	body := bytes.NewBufferString(`{"guest_name":"ann","wants_updates":true,"date_option_ids":[1,2]}`)
	req := httptest.NewRequest(http.MethodPost, "/events/1/rsvps", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var detail models.RsvpDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	assert.Equal(t, []int{1, 2}, detail.DateOptionIDs)
	eventRepo.AssertExpectations(t)
	rsvpRepo.AssertExpectations(t)
}

func TestCreateRsvpMissingGuestName(t *testing.T) {
	handler := newRsvpHandler(new(mocks.EventRepositoryMock), new(mocks.RsvpRepositoryMock))
	router := setupRsvpRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/events/1/rsvps", bytes.NewBufferString(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRsvpForeignDateOption(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	rsvpRepo := new(mocks.RsvpRepositoryMock)
	handler := newRsvpHandler(eventRepo, rsvpRepo)
	router := setupRsvpRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	rsvpRepo.On("CreateRsvp", mock.Anything, models.Rsvp{EventID: 1, GuestName: "ann"}, []int{99}).
		Return(models.RsvpDetail{}, repositories.ErrDateOptionNotFound).Once()

	body := bytes.NewBufferString(`{"guest_name":"ann","date_option_ids":[99]}`)
	req := httptest.NewRequest(http.MethodPost, "/events/1/rsvps", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
	rsvpRepo.AssertExpectations(t)
}

func TestListRsvpsSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	rsvpRepo := new(mocks.RsvpRepositoryMock)
	handler := newRsvpHandler(eventRepo, rsvpRepo)
	router := setupRsvpRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 1).Return(models.Event{ID: 1}, nil).Once()
	rsvpRepo.On("ListRsvps", mock.Anything, 1).Return([]models.RsvpDetail{
		{Rsvp: models.Rsvp{ID: 2, EventID: 1, GuestName: "bob"}, DateOptionIDs: []int{}},
		{Rsvp: models.Rsvp{ID: 1, EventID: 1, GuestName: "ann"}, DateOptionIDs: []int{3}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/1/rsvps", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Rsvps []models.RsvpDetail `json:"rsvps"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Rsvps, 2)
	assert.Equal(t, "bob", resp.Rsvps[0].GuestName)
	eventRepo.AssertExpectations(t)
	rsvpRepo.AssertExpectations(t)
}

func TestListRsvpsEventNotFound(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := newRsvpHandler(eventRepo, new(mocks.RsvpRepositoryMock))
	router := setupRsvpRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 5).Return(models.Event{}, repositories.ErrEventNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/5/rsvps", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}
