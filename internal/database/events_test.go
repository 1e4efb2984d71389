package database

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogEventAndGetEventsSince(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})

	err := testStore.LogEvent(context.Background(), user.ID, "item_created", map[string]interface{}{
		"item_id": 42,
		"title":   "Raport",
	})
	require.NoError(t, err)
	err = testStore.LogEvent(context.Background(), user.ID, "item_deleted", map[string]interface{}{
		"item_id": 42,
	})
	require.NoError(t, err)

	events, err := testStore.GetEventsSince(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "item_created", events[0].EventType)
	require.Equal(t, "item_deleted", events[1].EventType)
	require.Less(t, events[0].ID, events[1].ID)

	var decoded struct {
		EventType string `json:"event_type"`
		Payload   struct {
			ItemID int64  `json:"item_id"`
			Title  string `json:"title"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload, &decoded))
	require.Equal(t, "item_created", decoded.EventType)
	require.Equal(t, int64(42), decoded.Payload.ItemID)
	require.Equal(t, "Raport", decoded.Payload.Title)
}

func TestGetEventsSinceCursor(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})

	for i := 0; i < 3; i++ {
		require.NoError(t, testStore.LogEvent(context.Background(), user.ID, "item_updated", nil))
	}

	all, err := testStore.GetEventsSince(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	tail, err := testStore.GetEventsSince(context.Background(), user.ID, all[0].ID)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	require.Equal(t, all[1].ID, tail[0].ID)

	empty, err := testStore.GetEventsSince(context.Background(), user.ID, all[2].ID)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestExecTxRollsBackOnJournalFailure(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})

	var itemID int64
	err := testStore.ExecTx(context.Background(), func(q *Queries) error {
		item, err := q.CreateItem(context.Background(), CreateItemParams{Title: "Szkic"}, user.ID)
		if err != nil {
			return err
		}
		itemID = item.ID
		// Channels cannot be marshalled, so the journal write fails.
		return q.LogEvent(context.Background(), user.ID, "item_created", map[string]interface{}{
			"broken": make(chan int),
		})
	})
	require.Error(t, err)

	item, getErr := testStore.GetItemByID(context.Background(), itemID)
	require.NoError(t, getErr)
	require.Nil(t, item)

	events, getErr := testStore.GetEventsSince(context.Background(), user.ID, 0)
	require.NoError(t, getErr)
	require.Empty(t, events)
}

func TestGetEventsSinceIsPerUser(t *testing.T) {
	alice := createTestUser(t, CreateUserParams{})
	bob := createTestUser(t, CreateUserParams{})

	require.NoError(t, testStore.LogEvent(context.Background(), alice.ID, "item_created", nil))

	events, err := testStore.GetEventsSince(context.Background(), bob.ID, 0)
	require.NoError(t, err)
	require.Empty(t, events)
}
