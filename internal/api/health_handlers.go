package api

import (
	"encoding/json"
	"net/http"
)

// @Summary      Health check
// @Description  Reports whether the server and its database connection are alive.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "database": "down"})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "up"})
}
