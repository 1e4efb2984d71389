package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"serwer-zasobow/internal/database"
	"serwer-zasobow/internal/models"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func createTestItemAPI(t *testing.T, ownerID int64, title string) *models.Item {
	t.Helper()
	item, err := testServer.store.CreateItem(context.Background(), database.CreateItemParams{
		Title: title,
	}, ownerID)
	require.NoError(t, err)
	return item
}

func itemRouter() chi.Router {
	r := chi.NewRouter()
	r.With(testServer.AuthMiddleware).Route("/api/v1", func(r chi.Router) {
		r.Get("/items", testServer.ListItemsHandler)
		r.Post("/items", testServer.CreateItemHandler)
		r.Get("/items/{itemId}", testServer.GetItemHandler)
		r.Put("/items/{itemId}", testServer.UpdateItemHandler)
		r.Delete("/items/{itemId}", testServer.DeleteItemHandler)
	})
	return r
}

func TestCreateItemHandler(t *testing.T) {
	payload := CreateItemRequest{Title: "Nowy zasób"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "Nowy zasób", created.Title)
	require.Equal(t, testUser.ID, created.OwnerID, "owner must come from the token, not the body")
}

func TestCreateItemHandler_EmptyTitle(t *testing.T) {
	payload := CreateItemRequest{Title: "   "}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetItemHandler_Ownership(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Prywatny zasób")

	cases := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"owner", testUserToken, http.StatusOK},
		{"other user", otherUserToken, http.StatusForbidden},
		{"superuser", superUserToken, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/items/%d", item.ID), nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			rr := httptest.NewRecorder()

			itemRouter().ServeHTTP(rr, req)

			require.Equal(t, tc.wantCode, rr.Code)
		})
	}
}

func TestGetItemHandler_NotFoundBeforePermission(t *testing.T) {
	// A missing item is 404 for everyone, including callers who would get
	// 403 on an existing foreign item.
	for _, token := range []string{testUserToken, otherUserToken, superUserToken} {
		req := httptest.NewRequest("GET", "/api/v1/items/99999999", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		itemRouter().ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	}
}

func TestUpdateItemHandler(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Przed zmianą")

	newTitle := "Po zmianie"
	payload := UpdateItemRequest{Title: &newTitle}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var updated models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Equal(t, "Po zmianie", updated.Title)
	require.Equal(t, testUser.ID, updated.OwnerID)
}

func TestUpdateItemHandler_ForeignItem(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Cudzy zasób")

	newTitle := "Włamanie"
	payload := UpdateItemRequest{Title: &newTitle}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+otherUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)

	unchanged, err := testServer.store.GetItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, "Cudzy zasób", unchanged.Title)
}

func TestUpdateItemHandler_SuperuserOnForeignItem(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Do poprawy")

	newTitle := "Poprawione przez admina"
	payload := UpdateItemRequest{Title: &newTitle}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/items/%d", item.ID), bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+superUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Equal(t, "Poprawione przez admina", updated.Title)
	require.Equal(t, testUser.ID, updated.OwnerID, "ownership must not move to the superuser")
}

func TestDeleteItemHandler(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Do usunięcia przez API")

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/items/%d", item.ID), nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var deleted models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleted))
	require.Equal(t, item.ID, deleted.ID)
	require.Equal(t, "Do usunięcia przez API", deleted.Title)

	gone, err := testServer.store.GetItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteItemHandler_ForeignItem(t *testing.T) {
	item := createTestItemAPI(t, testUser.ID, "Nie do ruszenia")

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/items/%d", item.ID), nil)
	req.Header.Set("Authorization", "Bearer "+otherUserToken)
	rr := httptest.NewRecorder()

	itemRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)

	still, err := testServer.store.GetItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestListItemsHandler_Scoping(t *testing.T) {
	mine := createTestItemAPI(t, testUser.ID, "Mój wpis listowy")
	foreign := createTestItemAPI(t, otherUser.ID, "Cudzy wpis listowy")

	listItems := func(token string) []models.Item {
		req := httptest.NewRequest("GET", "/api/v1/items?limit=1000", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		itemRouter().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var items []models.Item
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
		return items
	}

	t.Run("regular user sees only own items", func(t *testing.T) {
		items := listItems(testUserToken)
		require.NotEmpty(t, items)
		for _, it := range items {
			require.Equal(t, testUser.ID, it.OwnerID)
		}
	})

	t.Run("superuser sees everything", func(t *testing.T) {
		items := listItems(superUserToken)
		ids := make(map[int64]bool, len(items))
		for _, it := range items {
			ids[it.ID] = true
		}
		require.True(t, ids[mine.ID])
		require.True(t, ids[foreign.ID])
	})
}
