package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"gramm/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	stateCookie     = "oauth_state"
	stateCookieAge  = 600
	socialPathStart = "/api/auth/social"
)

type SocialPendingResponse struct {
	Status          service.SocialStatus `json:"status"`
	Email           string               `json:"email"`
	ActivationToken string               `json:"activationToken"`
	ActivationURL   string               `json:"activationUrl"`
}

// SocialLogin redirects to the identity provider's consent page.
func (h *Handlers) SocialLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider, ok := h.Providers[mux.Vars(r)["provider"]]
	if !ok {
		WriteError(w, "Unknown identity provider", http.StatusNotFound)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     socialPathStart,
		MaxAge:   stateCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// SocialCallback exchanges the authorization code for a verified email and
// signs the user in, or hands back the activation token of a pending account.
func (h *Handlers) SocialCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider, ok := h.Providers[mux.Vars(r)["provider"]]
	if !ok {
		WriteError(w, "Unknown identity provider", http.StatusNotFound)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		WriteError(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: socialPathStart, MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		WriteError(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	email, err := provider.VerifiedEmail(r.Context(), code)
	if err != nil {
		slog.WarnContext(r.Context(), "social sign-in failed",
			slog.String("provider", provider.Name()),
			slog.Any("error", err),
		)
		WriteError(w, "Could not verify your email with "+provider.Name(), http.StatusUnauthorized)
		return
	}

	result, err := h.AccountService.SocialSignIn(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.Status == service.SocialSignedIn {
		h.authenticated(w, r, result.User, http.StatusOK)
		return
	}

	writeSuccess(w, SocialPendingResponse{
		Status:          result.Status,
		Email:           result.User.Email,
		ActivationToken: result.ActivationToken,
		ActivationURL:   "/api/auth/activate/" + result.ActivationToken,
	}, http.StatusAccepted)
}
