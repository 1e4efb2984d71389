package api

import (
	"log"
	"net/http"
	"serwer-zasobow/internal/auth"
	"serwer-zasobow/internal/websocket"
)

// @Summary      Event stream
// @Description  Upgrades the connection to a websocket and streams item events for the authenticated user. Browsers cannot set headers on websocket requests, so the access token is passed as a query parameter.
// @Tags         events
// @Param        token  query  string  true  "JWT access token"
// @Success      101  "Switching Protocols"
// @Failure      401  {string}  string "Could not validate credentials"
// @Router       /ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil || user == nil || user.Disabled {
		http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR: Websocket upgrade failed for user %d: %v", user.ID, err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, user.ID)
	s.wsHub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
