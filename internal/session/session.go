package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Skotchmaster/colormania/internal/models"
)

const (
	Name = "colormania-session"

	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserEmail = "user_email"
	keyLoggedIn  = "logged_in"

	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Principal is the authenticated shopper resolved from the session cookie.
type Principal struct {
	UserID uint
	Name   string
	Email  string
}

type Flashes struct {
	Success []string
	Error   []string
	Warning []string
}

func (f Flashes) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0 && len(f.Warning) == 0
}

type Manager struct {
	Store sessions.Store
}

func NewManager(secret []byte, secure bool) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{Store: store}
}

// get never fails: an undecodable cookie yields a fresh session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.Store.Get(r, Name)
	if err != nil && s == nil {
		s = sessions.NewSession(m.Store, Name)
	}
	return s
}

func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	s := m.get(r)
	s.Values[keyUserID] = user.ID
	s.Values[keyUserName] = user.FirstName
	s.Values[keyUserEmail] = user.Email
	s.Values[keyLoggedIn] = true
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout drops identity values but keeps the cookie so a flash can follow.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, keyUserID)
	delete(s.Values, keyUserName)
	delete(s.Values, keyUserEmail)
	delete(s.Values, keyLoggedIn)
	return s.Save(r, w)
}

func (m *Manager) Principal(r *http.Request) (Principal, bool) {
	s := m.get(r)
	if logged, _ := s.Values[keyLoggedIn].(bool); !logged {
		return Principal{}, false
	}
	id, ok := s.Values[keyUserID].(uint)
	if !ok || id == 0 {
		return Principal{}, false
	}
	name, _ := s.Values[keyUserName].(string)
	email, _ := s.Values[keyUserEmail].(string)
	return Principal{UserID: id, Name: name, Email: email}, true
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) error {
	s := m.get(r)
	s.AddFlash(msg, kind)
	return s.Save(r, w)
}

// Flashes pops every pending notice.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) Flashes {
	s := m.get(r)
	f := Flashes{
		Success: toStrings(s.Flashes(FlashSuccess)),
		Error:   toStrings(s.Flashes(FlashError)),
		Warning: toStrings(s.Flashes(FlashWarning)),
	}
	if !f.Empty() {
		_ = s.Save(r, w)
	}
	return f
}

func toStrings(vs []any) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
