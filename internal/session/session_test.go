package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/models"
)

// carry copies Set-Cookie headers from a response onto a new request.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoginPrincipalLogout(t *testing.T) {
	m := NewManager([]byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	user := &models.User{ID: 5, FirstName: "Ana", Email: "ana@example.com"}
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), user))

	p, ok := m.Principal(carry(t, rec))
	require.True(t, ok)
	assert.Equal(t, Principal{UserID: 5, Name: "Ana", Email: "ana@example.com"}, p)

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.Logout(rec2, carry(t, rec)))
	_, ok = m.Principal(carry(t, rec2))
	assert.False(t, ok)
}

func TestPrincipal_NoCookie(t *testing.T) {
	m := NewManager([]byte("0123456789abcdef0123456789abcdef"), false)
	_, ok := m.Principal(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestFlashes_PoppedOnce(t *testing.T) {
	m := NewManager([]byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), FlashWarning, "sin stock"))

	rec2 := httptest.NewRecorder()
	f := m.Flashes(rec2, carry(t, rec))
	assert.Equal(t, []string{"sin stock"}, f.Warning)
	assert.Empty(t, f.Success)

	f2 := m.Flashes(httptest.NewRecorder(), carry(t, rec2))
	assert.True(t, f2.Empty())
}
