package auth

import "net/http"

// UserFromRequest extracts the verified session identity from the request's
// cookie. A missing cookie and an invalid token both return ok=false; the
// two cases are deliberately indistinguishable to callers. Handlers that
// require identity translate ok=false into a 401.
func (m *TokenManager) UserFromRequest(r *http.Request) (SessionUser, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return SessionUser{}, false
	}

	user, err := m.Verify(cookie.Value)
	if err != nil {
		return SessionUser{}, false
	}

	return user, true
}
