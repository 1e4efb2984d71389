package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestSession(t *testing.T, userID int64, token string, expiresAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:           id,
		UserID:       userID,
		RefreshToken: token,
		UserAgent:    "go-test",
		ClientIP:     "127.0.0.1",
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
	return id
}

func TestGetUserByRefreshToken(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	token := uuid.NewString()
	createTestSession(t, user.ID, token, time.Now().Add(time.Hour))

	found, err := testStore.GetUserByRefreshToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, user.ID, found.ID)

	missing, err := testStore.GetUserByRefreshToken(context.Background(), "no-such-token")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetUserByRefreshTokenExpired(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	token := uuid.NewString()
	createTestSession(t, user.ID, token, time.Now().Add(-time.Minute))

	found, err := testStore.GetUserByRefreshToken(context.Background(), token)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestListSessionsForUser(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	createTestSession(t, user.ID, uuid.NewString(), time.Now().Add(time.Hour))
	createTestSession(t, user.ID, uuid.NewString(), time.Now().Add(time.Hour))
	createTestSession(t, user.ID, uuid.NewString(), time.Now().Add(-time.Minute))

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}

func TestDeleteSessionByID(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	other := createTestUser(t, CreateUserParams{})
	token := uuid.NewString()
	sessionID := createTestSession(t, user.ID, token, time.Now().Add(time.Hour))

	// Deleting with the wrong owner is a no-op.
	err := testStore.DeleteSessionByID(context.Background(), sessionID, other.ID)
	require.NoError(t, err)
	still, err := testStore.GetUserByRefreshToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, still)

	err = testStore.DeleteSessionByID(context.Background(), sessionID, user.ID)
	require.NoError(t, err)
	gone, err := testStore.GetUserByRefreshToken(context.Background(), token)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteAllSessionsForUser(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	createTestSession(t, user.ID, uuid.NewString(), time.Now().Add(time.Hour))
	createTestSession(t, user.ID, uuid.NewString(), time.Now().Add(time.Hour))

	err := testStore.DeleteAllSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestRefreshTokenRotation(t *testing.T) {
	user := createTestUser(t, CreateUserParams{})
	oldToken := uuid.NewString()
	createTestSession(t, user.ID, oldToken, time.Now().Add(time.Hour))

	newToken := uuid.NewString()
	err := testStore.ExecTx(context.Background(), func(q *Queries) error {
		if err := q.DeleteSessionByRefreshToken(context.Background(), oldToken); err != nil {
			return err
		}
		return q.CreateSession(context.Background(), CreateSessionParams{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: newToken,
			ExpiresAt:    time.Now().Add(time.Hour),
		})
	})
	require.NoError(t, err)

	gone, err := testStore.GetUserByRefreshToken(context.Background(), oldToken)
	require.NoError(t, err)
	require.Nil(t, gone)

	current, err := testStore.GetUserByRefreshToken(context.Background(), newToken)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, user.ID, current.ID)
}
