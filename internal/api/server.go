package api

import (
	"serwer-zasobow/internal/config"
	"serwer-zasobow/internal/database"
	"serwer-zasobow/internal/mailer"
	"serwer-zasobow/internal/websocket"
)

type Server struct {
	config *config.Config
	store  *database.Store
	mailer mailer.Mailer
	wsHub  *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, mail mailer.Mailer, wsHub *websocket.Hub) *Server {
	return &Server{
		config: cfg,
		store:  store,
		mailer: mail,
		wsHub:  wsHub,
	}
}
