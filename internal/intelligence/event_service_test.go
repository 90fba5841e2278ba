package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_Suggest(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{"events":[
		{"name":"Jazz Night","when":"2025-09-02 20:00","venue":"Blue Note","url":"https://example.com"},
		{"when":"2025-09-02","venue":"Piazza Navona"},
		{"name":"Harvest Fair","date":"unknown","city":"Rome"},
		{}
	]}` + "\n```"}
	svc := NewEventService(client)

	events, err := svc.Suggest(context.Background(), EventQuery{Location: " Rome ", Date: "2025-09-02"})

	require.NoError(t, err)
	assert.True(t, client.last.JSON)
	assert.Equal(t, llm.TaskEvents, client.last.Task)
	assert.Contains(t, client.last.UserPrompt, "in or near Rome on 2025-09-02")
	assert.Equal(t, []domain.Event{
		{Name: "Jazz Night", When: "2025-09-02 20:00", Venue: "Blue Note", URL: "https://example.com"},
		{Name: "Event", When: "2025-09-02", Venue: "Piazza Navona"},
		{Name: "Harvest Fair", Venue: "Rome"},
	}, events)
}

func TestEventService_CoercesNonStrings(t *testing.T) {
	client := &fakeClient{response: `{"events":[{"name":42,"when":true,"venue":["x"]}]}`}
	events, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "Oslo"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "42", events[0].Name)
	assert.Equal(t, "true", events[0].When)
	assert.Equal(t, "", events[0].Venue)
	assert.Contains(t, client.last.UserPrompt, "on (a specific day)")
}

func TestEventService_CapsResults(t *testing.T) {
	client := &fakeClient{response: `{"events":[{"name":"1"},{"name":"2"},{"name":"3"},{"name":"4"},{"name":"5"},{"name":"6"}]}`}
	events, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "Paris"})
	require.NoError(t, err)
	assert.Len(t, events, maxEvents)
}

func TestEventService_EmptyLocation(t *testing.T) {
	client := &fakeClient{}
	_, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "  "})
	assert.ErrorIs(t, err, ErrEmptyLocation)
	assert.Equal(t, 0, client.calls)
}

func TestEventService_InvalidOutput(t *testing.T) {
	client := &fakeClient{response: "No events that day, sorry."}
	_, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "Rome"})
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestEventService_ClientError(t *testing.T) {
	client := &fakeClient{err: llm.ErrTimeout}
	_, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "Rome"})
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestEvent_PoolItemFromSuggestion(t *testing.T) {
	client := &fakeClient{response: `{"events":[{"name":"Jazz Night","venue":"Blue Note","when":"20:00"}]}`}
	events, err := NewEventService(client).Suggest(context.Background(), EventQuery{Location: "Rome"})
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night @ Blue Note (20:00)", events[0].PoolItem().Text)
}
