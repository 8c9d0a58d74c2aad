package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody decodes a JSON request body into v. On failure it writes a 400
// response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CredentialResponse is the JSON representation of an AI server credential.
// The token itself is never returned.
type CredentialResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	EndpointURL string          `json:"endpointUrl"`
	HasToken    bool            `json:"hasToken"`
	Available   bool            `json:"available"`
	Models      []ModelResponse `json:"models"`
}

// ModelResponse is the JSON representation of a model. ID is null for
// models reported by a probe but not stored yet.
type ModelResponse struct {
	ID           *string `json:"id"`
	Name         string  `json:"name"`
	CredentialID string  `json:"credentialId"`
	Active       bool    `json:"active"`
	Toggle       bool    `json:"toggle"`
}

// NotificationResponse is the JSON representation of a toast.
type NotificationResponse struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// ActivateRequestCredential is one entry of the activate request body.
type ActivateRequestCredential struct {
	ID     string                 `json:"id"`
	Models []ActivateRequestModel `json:"models"`
}

// ActivateRequestModel carries the form's toggle state for one model.
type ActivateRequestModel struct {
	ID           *string `json:"id"`
	Name         string  `json:"name"`
	CredentialID string  `json:"credentialId"`
	Toggle       bool    `json:"toggle"`
}

// ActivateResponse is the result of submitting the activation form.
type ActivateResponse struct {
	Notification *NotificationResponse `json:"notification"`
	Model        *ModelResponse        `json:"model"`
}

// ModelsResponse is the result of the models probe procedure.
type ModelsResponse struct {
	Success bool     `json:"success"`
	Models  []string `json:"models"`
}

// ChatResponse is the result of the chat procedure.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string                    `json:"status"`
	Time   string                    `json:"time"`
	AI     *application.Availability `json:"ai,omitempty"`
}

// toCredentialResponse converts a domain Credential to its JSON representation.
func toCredentialResponse(c model.Credential) CredentialResponse {
	models := make([]ModelResponse, 0, len(c.Models))
	for _, m := range c.Models {
		models = append(models, toModelResponse(m))
	}

	return CredentialResponse{
		ID:          c.ID,
		Name:        c.Name,
		EndpointURL: c.EndpointURL,
		HasToken:    c.Token != "",
		Available:   c.Available,
		Models:      models,
	}
}

// toModelResponse converts a domain Model to its JSON representation.
func toModelResponse(m model.Model) ModelResponse {
	resp := ModelResponse{
		Name:         m.Name,
		CredentialID: m.CredentialID,
		Active:       m.Active,
		Toggle:       m.Toggle,
	}
	if m.Persisted() {
		id := m.ID
		resp.ID = &id
	}
	return resp
}

// toNotificationResponse converts a domain Notification; nil stays nil.
func toNotificationResponse(n *model.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{Type: string(n.Type), Title: n.Title, Subtitle: n.Subtitle}
}

// toDomainCredentials converts the activate request body into the toggle
// state Submit scans.
func toDomainCredentials(req []ActivateRequestCredential) []model.Credential {
	creds := make([]model.Credential, 0, len(req))
	for _, rc := range req {
		cred := model.Credential{ID: rc.ID, Models: make([]model.Model, 0, len(rc.Models))}
		for _, rm := range rc.Models {
			m := model.Model{Name: rm.Name, CredentialID: rm.CredentialID, Toggle: rm.Toggle}
			if rm.ID != nil {
				m.ID = *rm.ID
			}
			cred.Models = append(cred.Models, m)
		}
		creds = append(creds, cred)
	}
	return creds
}

// nowRFC3339 formats the current UTC time for JSON responses.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
