package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/security"
)

// AddCredentials stores a new AI server. Answers the stored credential or null.
func (h *Handler) AddCredentials(w http.ResponseWriter, r *http.Request) {
	var in application.CredentialInput
	if !decodeBody(w, r, &in) {
		return
	}

	created, err := h.configSvc.AddCredential(r.Context(), security.PrincipalFromContext(r.Context()), in)
	h.observe(r.Context(), procAddCredentials, err)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, toCredentialResponse(created))
}

// RemoveCredentials deletes an AI server by id or endpointUrl. Answers the
// removed credential or null.
func (h *Handler) RemoveCredentials(w http.ResponseWriter, r *http.Request) {
	var in application.RemoveInput
	if !decodeBody(w, r, &in) {
		return
	}

	removed, err := h.configSvc.RemoveCredential(r.Context(), security.PrincipalFromContext(r.Context()), in)
	h.observe(r.Context(), procRemoveCredentials, err)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, toCredentialResponse(removed))
}

// AddModel stores a model and makes it the active one. Answers the model or null.
func (h *Handler) AddModel(w http.ResponseWriter, r *http.Request) {
	var in application.ModelInput
	if !decodeBody(w, r, &in) {
		return
	}

	activated, err := h.configSvc.AddModel(r.Context(), security.PrincipalFromContext(r.Context()), in)
	h.observe(r.Context(), procAddModel, err)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, toModelResponse(activated))
}

// ListCredentials answers every stored credential reconciled against a fresh
// probe, or null.
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.configSvc.Credentials(r.Context(), security.PrincipalFromContext(r.Context()))
	h.observe(r.Context(), procCredentials, err)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	resp := make([]CredentialResponse, 0, len(creds))
	for _, c := range creds {
		resp = append(resp, toCredentialResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Activate submits the form's toggle state. At most one model may be toggled.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	var req []ActivateRequestCredential
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.configSvc.Submit(r.Context(), security.PrincipalFromContext(r.Context()), toDomainCredentials(req))
	h.observe(r.Context(), procActivate, err)
	if err != nil {
		writeJSON(w, http.StatusOK, ActivateResponse{})
		return
	}

	resp := ActivateResponse{Notification: toNotificationResponse(res.Notification)}
	if res.Activated != nil {
		m := toModelResponse(*res.Activated)
		resp.Model = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// Refresh runs an immediate availability check. Answers the new summary or null.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !security.PrincipalFromContext(r.Context()).IsAdmin() {
		h.observe(r.Context(), procRefresh, application.ErrUnauthorized)
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if h.monitor == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	err := h.monitor.Refresh(r.Context())
	h.observe(r.Context(), procRefresh, err)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, h.monitor.Availability())
}
