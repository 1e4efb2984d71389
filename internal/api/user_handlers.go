package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"serwer-zasobow/internal/database"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreateUserRequest struct {
	Email       string  `json:"email" example:"jan.kowalski@example.com"`
	FullName    *string `json:"full_name,omitempty" example:"Jan Kowalski"`
	Password    string  `json:"password" example:"password123"`
	Disabled    bool    `json:"disabled"`
	IsSuperuser bool    `json:"is_superuser"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// @Summary      Get current user
// @Description  Retrieves the full record of the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {string}  string "Unauthorized"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Could not retrieve user from context", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// @Summary      Update current user
// @Description  Updates the email, full name or password of the currently authenticated user. Only fields present in the body are changed; the password is re-hashed only when present and non-empty.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        updateUserRequest  body      UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string "Invalid request body or email already taken"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [put]
func (s *Server) UpdateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Callers cannot flip their own privilege or disabled flags.
	params := database.UpdateUserParams{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	}

	updated, err := s.store.UpdateUser(r.Context(), user.ID, params)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to update user %d: %v", user.ID, err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Create a user
// @Description  Creates a new user account. Superuser only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createUserRequest  body      CreateUserRequest  true  "New user"
// @Success      201  {object}  models.User
// @Failure      400  {string}  string "Invalid request body or email already taken"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "The user doesn't have enough privileges"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /users [post]
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := s.store.CreateUser(r.Context(), database.CreateUserParams{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		Disabled:    req.Disabled,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to create user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	if err := s.mailer.SendNewAccount(r.Context(), user.Email); err != nil {
		log.Printf("WARN: Failed to send new account email to %s: %v", user.Email, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// @Summary      Register a new user
// @Description  Open self-registration. Available only when the server is configured with users.open_registration. Always creates a regular, non-superuser account.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        createUserRequest  body      CreateUserRequest  true  "New user"
// @Success      201  {object}  models.User
// @Failure      400  {string}  string "Invalid request body or email already taken"
// @Failure      403  {string}  string "Open user registration is forbidden on this server"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /users/open [post]
func (s *Server) OpenRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	if !s.config.Users.OpenRegistration {
		http.Error(w, "Open user registration is forbidden on this server", http.StatusForbidden)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := s.store.CreateUser(r.Context(), database.CreateUserParams{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to register user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// @Summary      List users
// @Description  Retrieves a paginated list of all users. Superuser only.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 100)"
// @Param        offset  query     int  false  "Offset (default 0)"
// @Success      200  {array}   models.User
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "The user doesn't have enough privileges"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := s.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// @Summary      Get a user by ID
// @Description  Retrieves a user record. Regular users may only fetch themselves; any other ID requires superuser privileges.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string "Invalid user ID"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "The user doesn't have enough privileges"
// @Failure      404  {string}  string "User not found"
// @Router       /users/{userId} [get]
func (s *Server) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if userID == caller.ID {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(caller)
		return
	}

	if !caller.IsSuperuser {
		http.Error(w, "The user doesn't have enough privileges", http.StatusForbidden)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// @Summary      Update a user
// @Description  Updates any field of any user, including the disabled and superuser flags. Superuser only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId             path      int                true  "User ID"
// @Param        updateUserRequest  body      UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string "Invalid request body or email already taken"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "The user doesn't have enough privileges"
// @Failure      404  {string}  string "User not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /users/{userId} [put]
func (s *Server) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	existing, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	updated, err := s.store.UpdateUser(r.Context(), userID, database.UpdateUserParams{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		Disabled:    req.Disabled,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to update user %d: %v", userID, err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 100
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 1000 {
				n = 1000
			}
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
