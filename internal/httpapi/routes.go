package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger, origins []string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/rooms", ListRooms(h))
	r.Post("/rooms", CreateRoom(h))
	r.Get("/ws", ws.Handler(h, log, origins))
	return r
}
