package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	UserToken string `json:"usertoken"`
}

type sessionResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
	JTI     string      `json:"jti"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, jti, err := s.sessions.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "Could not register user")
		return
	}

	s.setSessionCookie(w, jti)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "SignUp successful",
		User:    userPayload{UserToken: user.UserToken},
		JTI:     jti,
	})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, jti, err := s.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "Error during login")
		return
	}

	s.setSessionCookie(w, jti)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "SignIn successful",
		User:    userPayload{UserToken: user.UserToken},
		JTI:     jti,
	})
}

func (s *HTTPServer) handleSignOut(w http.ResponseWriter, r *http.Request) {

	jti := bearerJTI(r)
	if jti == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing authorization header.")
		return
	}

	if err := s.sessions.SignOut(r.Context(), jti); err != nil {
		if errors.Is(err, common.ErrorNotSignedIn) {
			writeMessage(w, http.StatusBadRequest, "User is not signed in.")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeMessage(w, http.StatusOK, "SignOut successful")
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {

	jti := bearerJTI(r)
	if jti == "" {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	claims, err := s.sessions.Validate(r.Context(), jti)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			writeMessage(w, http.StatusForbidden, "Session expired or invalid")
		case errors.Is(err, common.ErrInvalidToken):
			writeMessage(w, http.StatusForbidden, "Failed to authenticate token")
		default:
			s.logger.Error(r.Context(), err.Error())
			writeMessage(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, claims)
}

// handleIndex greets by session state. The handle may arrive either in the
// session cookie or as a bearer token.
func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {

	jti := bearerJTI(r)
	if jti == "" {
		if c, err := r.Cookie(common.SessionCookieName); err == nil {
			jti = c.Value
		}
	}

	greeting := "Please log in to continue."
	if jti != "" {
		if _, err := s.sessions.Validate(r.Context(), jti); err == nil {
			greeting = "Welcome back! You are logged in."
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(greeting))
}

// bearerJTI extracts the session handle from the Authorization header,
// returning "" when the header is absent or not a bearer scheme.
func bearerJTI(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, jti string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    jti,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
