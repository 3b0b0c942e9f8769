package server

import (
	"net/http"

	"smartsite/internal/gateway/handler"
	"smartsite/internal/gateway/middleware"
)

func NewMux(
	chatHandler *handler.ChatHandler,
	adminHandler *handler.AdminHandler,
	gate middleware.Authorizer,
) http.Handler {
	mux := http.NewServeMux()

	// Intake flow
	mux.HandleFunc("POST /api/chat", chatHandler.HandleMessage)
	mux.HandleFunc("POST /api/chat/close", chatHandler.HandleClose)
	mux.HandleFunc("GET /api/chat/ws", chatHandler.HandleChatWS)

	// Review surface
	mux.HandleFunc("POST /api/admin/login", adminHandler.HandleLogin)

	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/ideas", adminHandler.HandleList)
	admin.HandleFunc("GET /api/admin/ideas/{id}", adminHandler.HandleGet)
	admin.HandleFunc("POST /api/admin/ideas/{id}/status", adminHandler.HandleStatus)
	admin.HandleFunc("GET /api/admin/ideas/{id}/code", adminHandler.HandleCode)
	mux.Handle("/api/admin/ideas", middleware.AdminGate(gate, admin))
	mux.Handle("/api/admin/ideas/", middleware.AdminGate(gate, admin))

	return middleware.CORS(mux)
}
