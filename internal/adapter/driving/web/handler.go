// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/selflearning/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/selflearning/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/selflearning/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
	"github.com/ericfisherdev/selflearning/internal/security"
)

const aiConfigPath = "/admin/ai-config"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	configSvc *application.ConfigService
	chatSvc   *application.ChatService
	monitor   *application.Monitor
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. monitor may be nil.
func NewHandler(
	configSvc *application.ConfigService,
	chatSvc *application.ChatService,
	monitor *application.Monitor,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		configSvc: configSvc,
		chatSvc:   chatSvc,
		monitor:   monitor,
		logger:    logger,
	}
}

// Home sends administrators to the configuration page and everyone else to chat.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if security.PrincipalFromContext(r.Context()).IsAdmin() {
		http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// AIConfig renders the configuration page with every server reconciled
// against a fresh probe.
func (h *Handler) AIConfig(w http.ResponseWriter, r *http.Request) {
	creds, err := h.configSvc.Credentials(r.Context(), security.PrincipalFromContext(r.Context()))
	if errors.Is(err, application.ErrUnauthorized) {
		http.Error(w, "Zugriff verweigert", http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.Error("failed to load credentials", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	cards := toCredentialCardViewModels(creds)
	page := vm.AIConfigPageViewModel{
		CSRFToken: csrfToken(w, r),
		Cards:     cards,
		Toast:     toToastViewModel(popFlash(w, r)),
		HasModels: hasSelectableModels(cards),
	}

	h.render(w, r, "KI-Konfiguration", pages.AIConfig(page))
}

// AddCredential stores a server from the add form, probes it, and redirects
// back with a notification.
func (h *Handler) AddCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	in := application.CredentialInput{
		Name:        r.FormValue("name"),
		Token:       r.FormValue("token"),
		EndpointURL: r.FormValue("endpointUrl"),
	}

	created, err := h.configSvc.AddCredential(r.Context(), security.PrincipalFromContext(r.Context()), in)
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		http.Error(w, "Zugriff verweigert", http.StatusForbidden)
		return
	case errors.Is(err, application.ErrValidation):
		setFlash(w, model.ErrorNotification("Bitte einen Namen und eine gültige URL angeben."))
	case errors.Is(err, driven.ErrCredentialExists):
		setFlash(w, model.ErrorNotification("Ein Server mit dieser URL existiert bereits."))
	case err != nil:
		h.logger.Error("failed to add credential", "endpoint", in.EndpointURL, "error", err)
		setFlash(w, model.ErrorNotification("Fehler beim Speichern des Servers"))
	default:
		probed := h.configSvc.ProbeCredential(r.Context(), created)
		if probed.Available {
			setFlash(w, model.SuccessNotification(
				fmt.Sprintf("Server %s hinzugefügt, %d Modelle gefunden", created.Name, len(probed.Models))))
		} else {
			setFlash(w, model.ErrorNotification(
				fmt.Sprintf("Server %s gespeichert, aber nicht erreichbar!", created.Name)))
		}
	}

	http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
}

// DeleteCredential removes the server named by the id form field.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	removed, err := h.configSvc.RemoveCredential(r.Context(), security.PrincipalFromContext(r.Context()),
		application.RemoveInput{ID: r.FormValue("id")})
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		http.Error(w, "Zugriff verweigert", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Warn("failed to delete credential", "id", r.FormValue("id"), "error", err)
		setFlash(w, model.ErrorNotification("Fehler beim Löschen des Servers"))
	default:
		setFlash(w, model.SuccessNotification(fmt.Sprintf("Server %s gelöscht", removed.Name)))
	}

	http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
}

// Activate makes the model chosen in the form the active model.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	key := r.FormValue("toggle")
	if key == "" {
		http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
		return
	}

	res, err := h.configSvc.SubmitSelection(r.Context(), security.PrincipalFromContext(r.Context()), key)
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		http.Error(w, "Zugriff verweigert", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("failed to submit selection", "key", key, "error", err)
		setFlash(w, model.ErrorNotification(application.MsgActivateFailed))
	default:
		setFlash(w, res.Notification)
	}

	http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
}

// Refresh runs an immediate availability check of all servers.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}
	if !security.PrincipalFromContext(r.Context()).IsAdmin() {
		http.Error(w, "Zugriff verweigert", http.StatusForbidden)
		return
	}

	if h.monitor != nil {
		if err := h.monitor.Refresh(r.Context()); err != nil {
			h.logger.Error("availability refresh failed", "error", err)
			setFlash(w, model.ErrorNotification("Verfügbarkeit konnte nicht geprüft werden"))
		} else {
			a := h.monitor.Availability()
			setFlash(w, model.SuccessNotification(
				fmt.Sprintf("%d von %d Servern erreichbar", a.Available, a.Credentials)))
		}
	}

	http.Redirect(w, r, aiConfigPath, http.StatusSeeOther)
}

// Chat renders the chat page for a signed-in user.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !security.PrincipalFromContext(r.Context()).Authenticated() {
		http.Error(w, "Anmeldung erforderlich", http.StatusUnauthorized)
		return
	}

	page := vm.ChatPageViewModel{CSRFToken: csrfToken(w, r), ActiveModel: h.activeModelName(r)}
	h.render(w, r, "Chat", pages.Chat(page))
}

// ChatSubmit sends the message to the active model and renders its answer
// as sanitized markdown.
func (h *Handler) ChatSubmit(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	p := security.PrincipalFromContext(r.Context())
	if !p.Authenticated() {
		http.Error(w, "Anmeldung erforderlich", http.StatusUnauthorized)
		return
	}

	question := strings.TrimSpace(r.FormValue("message"))
	page := vm.ChatPageViewModel{
		CSRFToken:   csrfToken(w, r),
		ActiveModel: h.activeModelName(r),
		Question:    question,
	}

	answer, err := h.chatSvc.Chat(r.Context(), p, application.ChatInput{Message: question})
	switch {
	case errors.Is(err, application.ErrNoActiveModel):
		page.Error = "Kein Modell aktiviert."
	case errors.Is(err, application.ErrValidation):
		page.Error = "Bitte eine Nachricht eingeben."
	case err != nil:
		h.logger.Warn("chat failed", "user", p.ID, "error", err)
		page.Error = "Fehler bei der Anfrage an das Modell"
	default:
		page.AnswerHTML = RenderMarkdown(answer)
	}

	h.render(w, r, "Chat", pages.Chat(page))
}

func (h *Handler) activeModelName(r *http.Request) string {
	m, err := h.chatSvc.ActiveModel(r.Context())
	if err != nil {
		if !errors.Is(err, application.ErrNoActiveModel) {
			h.logger.Error("failed to load active model", "error", err)
		}
		return ""
	}
	return m.Name
}

// render writes component inside the page layout.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(title, component).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
