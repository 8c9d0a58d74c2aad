package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/security"
)

// Models probes an endpoint for its model names.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	var in application.ProbeInput
	if !decodeBody(w, r, &in) {
		return
	}

	names, err := h.configSvc.ProbeModels(r.Context(), security.PrincipalFromContext(r.Context()), in)
	h.observe(r.Context(), procModels, err)
	if err != nil {
		writeJSON(w, http.StatusOK, ModelsResponse{Success: false, Models: []string{}})
		return
	}

	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ModelsResponse{Success: true, Models: names})
}

// Chat sends a message to the active model.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var in application.ChatInput
	if !decodeBody(w, r, &in) {
		return
	}

	answer, err := h.chatSvc.Chat(r.Context(), security.PrincipalFromContext(r.Context()), in)
	h.observe(r.Context(), procChat, err)
	if err != nil {
		writeJSON(w, http.StatusOK, ChatResponse{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Success: true, Response: answer})
}
