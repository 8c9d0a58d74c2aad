package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

const flashCookieName = "flash"

// setFlash stores n in a short-lived cookie so the page rendered after the
// redirect can show it once. A nil notification sets nothing.
func setFlash(w http.ResponseWriter, n *model.Notification) {
	if n == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(string(n.Type) + "|" + n.Subtitle),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// popFlash returns the pending notification, if any, and clears the cookie.
func popFlash(w http.ResponseWriter, r *http.Request) *model.Notification {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, subtitle, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}

	if model.NotificationType(kind) == model.NotificationError {
		return model.ErrorNotification(subtitle)
	}
	return model.SuccessNotification(subtitle)
}
