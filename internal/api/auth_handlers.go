package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"serwer-zasobow/internal/auth"
	"serwer-zasobow/internal/database"
	"serwer-zasobow/internal/models"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type LoginRequest struct {
	Email    string `json:"email" example:"jan.kowalski@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
	TokenType    string `json:"token_type" example:"bearer"`
}

func (s *Server) issueTokens(w http.ResponseWriter, r *http.Request, user *models.User) {
	accessToken, err := auth.GenerateJWT(user, s.config.JWT.Secret, s.config.JWT.AccessTokenTTL)
	if err != nil {
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}

	generateID, err := nanoid.Standard(40)
	if err != nil {
		log.Printf("CRITICAL: Failed to initialize nanoid generator: %v", err)
		http.Error(w, "Internal server error (token generation)", http.StatusInternalServerError)
		return
	}
	refreshToken := generateID()

	sessionParams := database.CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}

	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// @Summary      Logs a user in
// @Description  Authenticates a user by email and password and returns a short-lived access token plus a long-lived refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest   body      LoginRequest  true  "Login Credentials"
// @Success      200            {object}  TokenResponse
// @Failure      400            {string}  string "Invalid request body or inactive user"
// @Failure      401            {string}  string "Incorrect email or password"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// Unknown email and wrong password answer identically.
		http.Error(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}
	if user.Disabled {
		http.Error(w, "Inactive user", http.StatusBadRequest)
		return
	}

	s.issueTokens(w, r, user)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

var errInvalidRefreshToken = errors.New("invalid or expired refresh token")

// @Summary      Refresh access token
// @Description  Exchanges a valid refresh token for a new access token and a new refresh token. Implements refresh token rotation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Refresh Token"
// @Success      200                   {object}  TokenResponse
// @Failure      400                   {string}  string "Invalid request body or missing token"
// @Failure      401                   {string}  string "Invalid or expired refresh token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	var newAccessToken, newRefreshToken string

	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		user, err := q.GetUserByRefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			return err
		}
		if user == nil || user.Disabled {
			return errInvalidRefreshToken
		}

		if err := q.DeleteSessionByRefreshToken(r.Context(), req.RefreshToken); err != nil {
			return err
		}

		newAccessToken, err = auth.GenerateJWT(user, s.config.JWT.Secret, s.config.JWT.AccessTokenTTL)
		if err != nil {
			return err
		}

		generateID, err := nanoid.Standard(40)
		if err != nil {
			return err
		}
		newRefreshToken = generateID()

		return q.CreateSession(r.Context(), database.CreateSessionParams{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: newRefreshToken,
			UserAgent:    r.UserAgent(),
			ClientIP:     r.RemoteAddr,
			ExpiresAt:    time.Now().Add(24 * time.Hour),
		})
	})

	if txErr != nil {
		if errors.Is(txErr, errInvalidRefreshToken) {
			http.Error(w, txErr.Error(), http.StatusUnauthorized)
		} else {
			log.Printf("ERROR: Refresh token transaction failed: %v", txErr)
			http.Error(w, "Failed to refresh token", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "bearer",
	})
}

type MessageResponse struct {
	Msg string `json:"msg" example:"Password recovery email sent"`
}

// @Summary      Request a password recovery email
// @Description  Issues a time-limited password reset token for the account with the given email and hands it to the mailer.
// @Tags         auth
// @Produce      json
// @Param        email  path      string  true  "Email of the account to recover"
// @Success      200    {object}  MessageResponse
// @Failure      404    {string}  string "The user with this email does not exist in the system"
// @Failure      500    {string}  string "Internal Server Error"
// @Router       /auth/password-recovery/{email} [post]
func (s *Server) PasswordRecoveryHandler(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "The user with this email does not exist in the system.", http.StatusNotFound)
		return
	}

	resetToken, err := auth.GenerateResetToken(user.Email, s.config.JWT.Secret, s.config.JWT.ResetTokenTTL)
	if err != nil {
		http.Error(w, "Failed to generate reset token", http.StatusInternalServerError)
		return
	}

	if err := s.mailer.SendPasswordReset(r.Context(), user.Email, resetToken); err != nil {
		log.Printf("ERROR: Failed to send password reset email to %s: %v", user.Email, err)
		http.Error(w, "Failed to send recovery email", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Msg: "Password recovery email sent"})
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password" example:"newPassword123"`
}

// @Summary      Reset a password
// @Description  Sets a new password for the account a valid reset token was issued for. All sessions of the account are terminated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        resetPasswordRequest  body      ResetPasswordRequest  true  "Reset token and new password"
// @Success      200                   {object}  MessageResponse
// @Failure      400                   {string}  string "Invalid token, inactive user or missing password"
// @Failure      404                   {string}  string "The user with this email does not exist in the system"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/reset-password [post]
func (s *Server) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NewPassword == "" {
		http.Error(w, "New password is required", http.StatusBadRequest)
		return
	}

	email, err := auth.VerifyResetToken(req.Token, s.config.JWT.Secret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "The user with this email does not exist in the system.", http.StatusNotFound)
		return
	}
	if user.Disabled {
		http.Error(w, "Inactive user", http.StatusBadRequest)
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		if err := q.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
			return err
		}
		return q.DeleteAllSessionsForUser(r.Context(), user.ID)
	})
	if txErr != nil {
		log.Printf("ERROR: Password reset transaction failed for user %d: %v", user.ID, txErr)
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Msg: "Password updated successfully"})
}
