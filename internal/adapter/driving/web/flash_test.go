package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

func TestFlash_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, model.ErrorNotification("Server Fern gespeichert, aber nicht erreichbar!"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	got := popFlash(out, req)

	require.NotNil(t, got)
	assert.Equal(t, model.NotificationError, got.Type)
	assert.Equal(t, "Fehler", got.Title)
	assert.Equal(t, "Server Fern gespeichert, aber nicht erreichbar!", got.Subtitle)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, flashCookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestFlash_NilSetsNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, nil)
	assert.Empty(t, rec.Result().Cookies())
}

func TestFlash_Garbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "no-separator"})

	assert.Nil(t, popFlash(httptest.NewRecorder(), req))
}

func TestCSRF(t *testing.T) {
	rec := httptest.NewRecorder()
	token := csrfToken(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, token, 2*csrfTokenBytes)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	req.Header.Set("X-CSRF-Token", token)
	assert.True(t, validateCSRF(req))

	req.Header.Set("X-CSRF-Token", "other")
	assert.False(t, validateCSRF(req))

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	assert.Equal(t, token, csrfToken(httptest.NewRecorder(), again))
}
