package auth

import "net/http"

// CookieName is the session cookie the browser sends back on every request.
const CookieName = "auth-token"

// SetSessionCookie attaches the signed token as an HTTP-only cookie whose
// lifetime matches the token's validity window. Secure must be true in
// production (HTTPS).
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true, // Prevent JS access for security
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionDuration.Seconds()),
	})
}

// ClearSessionCookie expires the session cookie on the client. Tokens have
// no server-side revocation; this is the only logout mechanism.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
