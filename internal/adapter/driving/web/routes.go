package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /admin/ai-config", h.AIConfig)
	mux.HandleFunc("POST /admin/ai-config/credentials", h.AddCredential)
	mux.HandleFunc("POST /admin/ai-config/credentials/delete", h.DeleteCredential)
	mux.HandleFunc("POST /admin/ai-config/activate", h.Activate)
	mux.HandleFunc("POST /admin/ai-config/refresh", h.Refresh)
	mux.HandleFunc("GET /chat", h.Chat)
	mux.HandleFunc("POST /chat", h.ChatSubmit)
}
