package api

import (
	"encoding/json"
	"log"
	"net/http"
	"serwer-zasobow/internal/authz"
	"serwer-zasobow/internal/database"
	"serwer-zasobow/internal/models"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreateItemRequest struct {
	Title       string  `json:"title" example:"Raport kwartalny"`
	Description *string `json:"description,omitempty" example:"Wersja robocza"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// @Summary      List items
// @Description  Retrieves a paginated list of items. Regular users see only their own items; superusers see all items.
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 100)"
// @Param        offset  query     int  false  "Offset (default 0)"
// @Success      200  {array}   models.Item
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /items [get]
func (s *Server) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r)

	var (
		items []models.Item
		err   error
	)
	if caller.IsSuperuser {
		items, err = s.store.ListItems(r.Context(), limit, offset)
	} else {
		items, err = s.store.ListItemsByOwner(r.Context(), caller.ID, limit, offset)
	}
	if err != nil {
		http.Error(w, "Failed to list items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// @Summary      Create an item
// @Description  Creates a new item owned by the caller. The owner is always the authenticated user, regardless of the request body.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createItemRequest  body      CreateItemRequest  true  "New item"
// @Success      201  {object}  models.Item
// @Failure      400  {string}  string "Invalid request body"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /items [post]
func (s *Server) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, "Title cannot be empty", http.StatusBadRequest)
		return
	}

	var item *models.Item
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		var err error
		item, err = q.CreateItem(r.Context(), database.CreateItemParams{
			Title:       req.Title,
			Description: req.Description,
		}, caller.ID)
		if err != nil {
			return err
		}
		return q.LogEvent(r.Context(), caller.ID, "item_created", map[string]interface{}{
			"item_id": item.ID,
			"title":   item.Title,
		})
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to create item for user %d: %v", caller.ID, txErr)
		http.Error(w, "Failed to create item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// @Summary      Get an item
// @Description  Retrieves a single item. Accessible to the item's owner and to superusers.
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path      int  true  "Item ID"
// @Success      200  {object}  models.Item
// @Failure      400  {string}  string "Invalid item ID"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Not enough permissions"
// @Failure      404  {string}  string "Item not found"
// @Router       /items/{itemId} [get]
func (s *Server) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := s.store.GetItemByID(r.Context(), itemID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if !authz.Permit(caller, item) {
		http.Error(w, "Not enough permissions", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// @Summary      Update an item
// @Description  Partially updates an item. Only fields present in the body are changed. Accessible to the item's owner and to superusers.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId             path      int                true  "Item ID"
// @Param        updateItemRequest  body      UpdateItemRequest  true  "Fields to update"
// @Success      200  {object}  models.Item
// @Failure      400  {string}  string "Invalid request"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Not enough permissions"
// @Failure      404  {string}  string "Item not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /items/{itemId} [put]
func (s *Server) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			http.Error(w, "Title cannot be empty", http.StatusBadRequest)
			return
		}
		req.Title = &trimmed
	}

	// Existence is checked before permissions; a missing item is 404
	// even for callers who would not be allowed to touch it.
	existing, err := s.store.GetItemByID(r.Context(), itemID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if !authz.Permit(caller, existing) {
		http.Error(w, "Not enough permissions", http.StatusForbidden)
		return
	}

	var updated *models.Item
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		var err error
		updated, err = q.UpdateItem(r.Context(), itemID, database.UpdateItemParams{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			return err
		}
		if updated == nil {
			return nil
		}
		return q.LogEvent(r.Context(), existing.OwnerID, "item_updated", map[string]interface{}{
			"item_id": updated.ID,
		})
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to update item %d: %v", itemID, txErr)
		http.Error(w, "Failed to update item", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Delete an item
// @Description  Deletes an item and returns the removed record. Accessible to the item's owner and to superusers.
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path      int  true  "Item ID"
// @Success      200  {object}  models.Item
// @Failure      400  {string}  string "Invalid item ID"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Not enough permissions"
// @Failure      404  {string}  string "Item not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /items/{itemId} [delete]
func (s *Server) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	existing, err := s.store.GetItemByID(r.Context(), itemID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if !authz.Permit(caller, existing) {
		http.Error(w, "Not enough permissions", http.StatusForbidden)
		return
	}

	var deleted *models.Item
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		var err error
		deleted, err = q.DeleteItem(r.Context(), itemID)
		if err != nil {
			return err
		}
		if deleted == nil {
			return nil
		}
		return q.LogEvent(r.Context(), existing.OwnerID, "item_deleted", map[string]interface{}{
			"item_id": deleted.ID,
			"title":   deleted.Title,
		})
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to delete item %d: %v", itemID, txErr)
		http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deleted)
}
