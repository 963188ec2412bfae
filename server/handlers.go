package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/informesapp/go-auth-core/bearer"
	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/revocation"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type claimsPayload struct {
	Sub   string `json:"sub"`
	Type  string `json:"type"`
	Jti   string `json:"jti"`
	Email string `json:"email,omitempty"`
	Exp   int64  `json:"exp"`
}

type validateResponse struct {
	Valid  bool           `json:"valid"`
	Claims *claimsPayload `json:"claims,omitempty"`
}

// RegisterHandler creates a new identity.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, s.config.GetMinPasswordLength())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}

// LoginHandler verifies credentials and returns a token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := s.auth.Login(r.Context(), req.Email, req.Password, originKey(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
		})
	}
}

// RefreshHandler rotates a refresh token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
		})
	}
}

// LogoutHandler revokes the presented access token and, when supplied,
// the refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := bearer.FromHeader(r.Header.Get("Authorization"))
		if accessToken == "" {
			writeUnauthenticated(w)
			return
		}

		var req logoutRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // body is optional
		}

		if err := s.auth.Logout(r.Context(), accessToken, req.RefreshToken); err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ValidateHandler answers whether a token is valid. It always responds
// 200: validity is in the body, and the failure reason stays internal.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearer.FromRequest(r)
		if raw == "" {
			writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}

		claims, err := s.auth.Validate(r.Context(), raw, "")
		if err != nil {
			s.log.Debug().Err(err).Msg("validate rejected")
			writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}

		writeJSON(w, http.StatusOK, validateResponse{Valid: true, Claims: toClaimsPayload(claims)})
	}
}

// MeHandler returns the identity behind the presented access token.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := bearer.FromHeader(r.Header.Get("Authorization"))
		if accessToken == "" {
			writeUnauthenticated(w)
			return
		}

		user, err := s.auth.CurrentUser(r.Context(), accessToken)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, registerResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}

// RevokedListHandler serves the full revoked set to dependent services.
func (s *Server) RevokedListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := s.auth.RevokedTokenIDs(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, revocation.RevokedList{TokenIDs: ids})
	}
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": s.config.GetAppName()})
	}
}

// writeError maps the internal error taxonomy onto the transport. All
// authentication failures collapse into one generic 401 so the response
// does not leak which check failed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.IsAuthFailure(err):
		s.log.Info().Err(err).Str("path", r.URL.Path).Msg("request unauthenticated")
		writeUnauthenticated(w)
	case errors.Is(err, errors.ErrTooManyAttempts):
		writeDetail(w, http.StatusTooManyRequests, "too many login attempts, try again later")
	case errors.Is(err, errors.ErrEmailTaken):
		writeDetail(w, http.StatusConflict, "email already registered")
	case errors.Is(err, errors.ErrValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func toClaimsPayload(claims *token.Claims) *claimsPayload {
	return &claimsPayload{
		Sub:   claims.Subject,
		Type:  string(claims.Kind),
		Jti:   claims.TokenID,
		Email: claims.Email,
		Exp:   claims.ExpiresAt.Unix(),
	}
}

// originKey derives the caller's network-origin rate-limit key: the
// first X-Forwarded-For element when present, else the remote address.
func originKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeDetail(w, http.StatusUnauthorized, "unauthenticated")
}
