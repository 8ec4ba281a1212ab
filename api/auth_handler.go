package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/chikhali-gp/portal/backend/auth"
	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const oauthStateCookie = "gp_oauth_state"

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	gate          *auth.Gate
	secureCookies bool
	afterLogin    string
	loginPage     string
}

func newAuthHandler(gate *auth.Gate, cfg map[string]string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		gate:          gate,
		secureCookies: config.GetBool(cfg, "COOKIE_SECURE", false),
		afterLogin:    config.GetString(cfg, "ADMIN_REDIRECT_URL", "/admin"),
		loginPage:     config.GetString(cfg, "LOGIN_PAGE_URL", "/admin/login"),
	}
}

// setSession stores the token in a session-scoped cookie (no Expires).
func (h authHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h authHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h authHandler) google() (*auth.GoogleProvider, error) {
	p, ok := h.gate.Provider(auth.ProviderGoogle)
	if !ok {
		return nil, errs.NewUnknownProviderError(auth.ProviderGoogle)
	}
	return p.(*auth.GoogleProvider), nil
}

// googleLogin sends the browser to Google's account chooser
func (h authHandler) googleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, err := h.google()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
	}
}

// googleCallback finishes the redirect flow. A cancelled or failed sign-in
// lands back on the login page.
func (h authHandler) googleCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.google(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		code := q.Get("code")
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
			h.logger.Warn().Msg("OAuth state mismatch")
			code = ""
		}
		h.clearCookie(w, oauthStateCookie)

		user, token := h.gate.SignIn(r.Context(), auth.ProviderGoogle, code)
		if user == nil {
			http.Redirect(w, r, h.loginPage+"?error="+url.QueryEscape("signin_failed"), http.StatusFound)
			return
		}
		h.setSession(w, token)
		http.Redirect(w, r, h.afterLogin, http.StatusFound)
	}
}

type descopeRequest struct {
	SessionToken string `json:"sessionToken"`
}

// descopeSignIn exchanges a Descope session token for a portal session
func (h authHandler) descopeSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.gate.Provider(auth.ProviderDescope); !ok {
			h.responder.WriteError(w, errs.NewUnknownProviderError(auth.ProviderDescope))
			return
		}
		var req descopeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, token := h.gate.SignIn(r.Context(), auth.ProviderDescope, req.SessionToken)
		if user == nil {
			h.responder.WriteError(w, errs.NewSignInFailedError(auth.ProviderDescope))
			return
		}
		h.setSession(w, token)
		h.responder.WriteJSON(w, SessionResponse{
			Loading: !h.gate.Ready(),
			User:    user,
			IsAdmin: h.gate.IsAdmin(user),
			Token:   token,
		})
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.gate.SignOut(sessionToken(r))
		h.clearCookie(w, auth.SessionCookie)
		w.WriteHeader(http.StatusNoContent)
	}
}

// me reports the signed-in user. While the role table is loading isAdmin is
// not yet decided and loading is true.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := SessionResponse{Loading: !h.gate.Ready()}
		if user, err := h.gate.CurrentUser(sessionToken(r)); err == nil {
			resp.User = user
			resp.IsAdmin = !resp.Loading && h.gate.IsAdmin(user)
		}
		h.responder.WriteJSON(w, resp)
	}
}
