// Package handler exposes the subdomain login flow on the portal.
package handler

import (
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docport/internal/access"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Handler is the thin HTTP layer over the credential issuer. It delegates to
// the issuer without embedding auth logic so transport concerns stay isolated.
type Handler struct {
	issuer        *access.Issuer
	secureCookies bool
	logger        *slog.Logger
}

// New constructs the login handler. secureCookies should be true in
// production so the session cookie is never sent over plain HTTP.
func New(issuer *access.Issuer, secureCookies bool, logger *slog.Logger) *Handler {
	return &Handler{
		issuer:        issuer,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Register mounts the login routes.
func (h *Handler) Register(r chi.Router) {
	r.Get(access.LoginPath, h.handleLoginPage)
	r.Post(access.LoginPath, h.handleLogin)
}

type loginRequest struct {
	Subdomain string `json:"subdomain"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Redirect  string    `json:"redirect"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin authenticates the subdomain password and sets the namespaced
// session cookie. Failures carry no hint of whether the subdomain exists.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed login request"))
		return
	}

	grant, err := h.issuer.Login(r.Context(), req.Subdomain, req.Password, r.UserAgent())
	if err != nil {
		h.logger.Info("subdomain login rejected", "subdomain", req.Subdomain)
		httputil.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     grant.CookieName,
		Value:    string(grant.Token),
		Path:     "/",
		MaxAge:   int(time.Until(grant.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Redirect:  "/",
		ExpiresAt: grant.ExpiresAt,
	})
}

// handleLoginPage serves the minimal password form. Branding and real
// templating belong to the rendering layer, not here. The subdomain comes
// straight from the query string and must be escaped before it touches HTML.
func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, loginPageHTML, html.EscapeString(subdomain))
}

const loginPageHTML = `<!doctype html>
<html>
<head><title>Protected documentation</title></head>
<body>
<form id="login">
<input type="hidden" name="subdomain" value="%s">
<input type="password" name="password" autofocus>
<button type="submit">Unlock</button>
</form>
<script>
document.getElementById("login").addEventListener("submit", async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const res = await fetch("/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({subdomain: form.get("subdomain"), password: form.get("password")}),
  });
  if (res.ok) { window.location = (await res.json()).redirect; }
  else { alert("Invalid subdomain or password"); }
});
</script>
</body>
</html>
`
