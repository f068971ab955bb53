package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rsvp-service/internal/models"
	"rsvp-service/internal/repositories"
)

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var created models.Event
	if val := args.Get(0); val != nil {
		created = val.(models.Event)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	args := m.Called(ctx, eventID)
	var event models.Event
	if val := args.Get(0); val != nil {
		event = val.(models.Event)
	}
	return event, args.Error(1)
}

func (m *EventRepositoryMock) UpdateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var updated models.Event
	if val := args.Get(0); val != nil {
		updated = val.(models.Event)
	}
	return updated, args.Error(1)
}

func (m *EventRepositoryMock) SetFinalDate(ctx context.Context, eventID int, dateOptionID int) error {
	args := m.Called(ctx, eventID, dateOptionID)
	return args.Error(0)
}

func (m *EventRepositoryMock) CreateDateOption(ctx context.Context, option models.DateOption) (models.DateOption, error) {
	args := m.Called(ctx, option)
	var created models.DateOption
	if val := args.Get(0); val != nil {
		created = val.(models.DateOption)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) GetDateOption(ctx context.Context, optionID int) (models.DateOption, error) {
	args := m.Called(ctx, optionID)
	var option models.DateOption
	if val := args.Get(0); val != nil {
		option = val.(models.DateOption)
	}
	return option, args.Error(1)
}

func (m *EventRepositoryMock) ListDateOptions(ctx context.Context, eventID int) ([]models.DateOption, error) {
	args := m.Called(ctx, eventID)
	var options []models.DateOption
	if val := args.Get(0); val != nil {
		options = val.([]models.DateOption)
	}
	return options, args.Error(1)
}

func (m *EventRepositoryMock) DeleteDateOption(ctx context.Context, eventID int, optionID int) error {
	args := m.Called(ctx, eventID, optionID)
	return args.Error(0)
}

type RsvpRepositoryMock struct {
	mock.Mock
}

func (m *RsvpRepositoryMock) CreateRsvp(ctx context.Context, rsvp models.Rsvp, dateOptionIDs []int) (models.RsvpDetail, error) {
	args := m.Called(ctx, rsvp, dateOptionIDs)
	var detail models.RsvpDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.RsvpDetail)
	}
	return detail, args.Error(1)
}

func (m *RsvpRepositoryMock) ListRsvps(ctx context.Context, eventID int) ([]models.RsvpDetail, error) {
	args := m.Called(ctx, eventID)
	var rsvps []models.RsvpDetail
	if val := args.Get(0); val != nil {
		rsvps = val.([]models.RsvpDetail)
	}
	return rsvps, args.Error(1)
}

func (m *RsvpRepositoryMock) CountRsvps(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *RsvpRepositoryMock) ListSelections(ctx context.Context, eventID int) ([]models.DateSelection, error) {
	args := m.Called(ctx, eventID)
	var selections []models.DateSelection
	if val := args.Get(0); val != nil {
		selections = val.([]models.DateSelection)
	}
	return selections, args.Error(1)
}

type ActivityRepositoryMock struct {
	mock.Mock
}

func (m *ActivityRepositoryMock) CreateActivity(ctx context.Context, activity models.Activity) (models.Activity, error) {
	args := m.Called(ctx, activity)
	var created models.Activity
	if val := args.Get(0); val != nil {
		created = val.(models.Activity)
	}
	return created, args.Error(1)
}

func (m *ActivityRepositoryMock) GetActivity(ctx context.Context, activityID int) (models.Activity, error) {
	args := m.Called(ctx, activityID)
	var activity models.Activity
	if val := args.Get(0); val != nil {
		activity = val.(models.Activity)
	}
	return activity, args.Error(1)
}

func (m *ActivityRepositoryMock) ListActivities(ctx context.Context, eventID int) ([]models.Activity, error) {
	args := m.Called(ctx, eventID)
	var activities []models.Activity
	if val := args.Get(0); val != nil {
		activities = val.([]models.Activity)
	}
	return activities, args.Error(1)
}

func (m *ActivityRepositoryMock) DeleteActivity(ctx context.Context, activityID int) ([]int, error) {
	args := m.Called(ctx, activityID)
	var deleted []int
	if val := args.Get(0); val != nil {
		deleted = val.([]int)
	}
	return deleted, args.Error(1)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) CreateReaction(ctx context.Context, reaction models.Reaction) (models.Reaction, error) {
	args := m.Called(ctx, reaction)
	var created models.Reaction
	if val := args.Get(0); val != nil {
		created = val.(models.Reaction)
	}
	return created, args.Error(1)
}

func (m *ReactionRepositoryMock) GetReaction(ctx context.Context, reactionID int) (models.Reaction, error) {
	args := m.Called(ctx, reactionID)
	var reaction models.Reaction
	if val := args.Get(0); val != nil {
		reaction = val.(models.Reaction)
	}
	return reaction, args.Error(1)
}

func (m *ReactionRepositoryMock) ListReactionsForEvent(ctx context.Context, eventID int) ([]models.Reaction, error) {
	args := m.Called(ctx, eventID)
	var reactions []models.Reaction
	if val := args.Get(0); val != nil {
		reactions = val.([]models.Reaction)
	}
	return reactions, args.Error(1)
}

func (m *ReactionRepositoryMock) DeleteReaction(ctx context.Context, activityID int, reactionID int) error {
	args := m.Called(ctx, activityID, reactionID)
	return args.Error(0)
}

var _ repositories.EventRepository = (*EventRepositoryMock)(nil)
var _ repositories.RsvpRepository = (*RsvpRepositoryMock)(nil)
var _ repositories.ActivityRepository = (*ActivityRepositoryMock)(nil)
var _ repositories.ReactionRepository = (*ReactionRepositoryMock)(nil)
