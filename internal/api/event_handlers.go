package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// @Summary      Get events
// @Description  Retrieves journal events for the authenticated user that occurred after the given event ID. Used to catch up after a lost websocket connection.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     int  false  "Return events with an ID greater than this value (default 0)"
// @Success      200  {array}   database.Event
// @Failure      400  {string}  string "Invalid since parameter"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /events [get]
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	var sinceID int64
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid since parameter", http.StatusBadRequest)
			return
		}
		sinceID = parsed
	}

	events, err := s.store.GetEventsSince(r.Context(), caller.ID, sinceID)
	if err != nil {
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
