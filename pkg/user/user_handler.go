package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pennywise/pennywise/internal/auth"
	"github.com/pennywise/pennywise/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Id        int    `json:"id"`
	Uid       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPairDTO struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type AccessTokenDTO struct {
	Access string `json:"access"`
}

type ProfileUpdateRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// TokenIssuer hands out the token pair for an authenticated user.
type TokenIssuer interface {
	IssueTokens(userUid string) (auth.Tokens, error)
	RefreshAccess(refreshToken string) (string, error)
}

type Handler struct {
	userService Service
	tokens      TokenIssuer
}

func NewHandler(userService Service, tokens TokenIssuer) *Handler {
	return &Handler{
		userService: userService,
		tokens:      tokens,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Email already registered"
// @Router /api/auth/register/ [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering user")

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	created, err := h.userService.Register(r.Context(), Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, userToDTO(created))
}

// Login godoc
// @Summary Obtain an access and refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} TokenPairDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/auth/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging in")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	authenticated, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			rest.WriteError(w, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		log.Errorf("failed to authenticate: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Authentication failed", "")
		return
	}

	tokens, err := h.tokens.IssueTokens(authenticated.Uid)
	if err != nil {
		log.Errorf("failed to issue tokens: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not issue tokens", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, TokenPairDTO{Access: tokens.Access, Refresh: tokens.Refresh})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} AccessTokenDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid refresh token"
// @Router /api/auth/refresh/ [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log.Trace("Refreshing access token")

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		rest.WriteError(w, http.StatusBadRequest, "Refresh token is required", "")
		return
	}

	access, err := h.tokens.RefreshAccess(req.Refresh)
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Invalid refresh token", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, AccessTokenDTO{Access: access})
}

// Profile godoc
// @Summary Get the current user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/auth/profile/ [get]
// @Security Bearer
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current user")

	current, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		h.writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(current))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description A new password is only accepted together with the correct current password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body ProfileUpdateRequest true "Profile"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid data or wrong current password"
// @Failure 409 {object} rest.ErrorResponse "Email already registered"
// @Router /api/auth/profile/ [put]
// @Security Bearer
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating profile")

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), ProfileUpdate{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(updated))
}

func (h *Handler) writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserDataInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
	case errors.Is(err, ErrIncorrectPassword):
		rest.WriteError(w, http.StatusBadRequest, "Current password is incorrect", "")
	case errors.Is(err, ErrEmailTaken):
		rest.WriteError(w, http.StatusConflict, "Email is already registered", "")
	case errors.Is(err, ErrUserNotFound):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	default:
		log.Errorf("user request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func userToDTO(user User) UserDTO {
	return UserDTO{
		Id:        user.Id,
		Uid:       user.Uid,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
