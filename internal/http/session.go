package http

import (
	"net/http"

	"github.com/google/uuid"

	"desmatamento/internal/filter"
	"desmatamento/internal/log"
)

// SessionCookieName carries the dashboard session id.
const SessionCookieName = "dashboard_session"

// sessionID returns the request's session id, issuing a new cookie when the
// request has none or carries a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// selection loads the session's Selection. Unknown or expired sessions
// start from the default selection.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (string, filter.Selection) {
	id := s.sessionID(w, r)
	sel, existed := s.sessions.Load(id)
	if !existed {
		s.logger.DebugContext(r.Context(), "New dashboard session",
			log.FieldSession, id,
			log.FieldSelected, len(sel.Municipalities))
	}
	return id, sel
}
