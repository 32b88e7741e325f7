package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/google/uuid"
)

type AuthHandler struct {
	userService service.IUserService
}

func NewAuthHandler(userService service.IUserService) *AuthHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &AuthHandler{
		userService: userService,
	}
}

func convertUserToDTO(user *model.User) dto.UserDTO {
	return dto.UserDTO{
		ID:       user.UserID,
		Email:    user.Email,
		UserName: user.UserName,
		IsAdmin:  user.IsAdmin,
	}
}

// Register POST /auth/register
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO dto.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&registerDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}

	details := map[string]string{}
	if !strings.Contains(registerDTO.Email, "@") {
		details["email"] = "valid email is required"
	}
	if len(registerDTO.Password) < 8 {
		details["password"] = "password must be at least 8 characters"
	}
	if registerDTO.UserName == "" {
		details["user_name"] = "user name is required"
	}
	if len(details) > 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid register request", details)
		return
	}

	user, err := a.userService.Register(r.Context(), registerDTO.Email, registerDTO.Password, registerDTO.UserName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.CreatedJSON(w, convertUserToDTO(user))
}

// Login POST /auth/login
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginDTO dto.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&loginDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}

	session, user, err := a.userService.Login(r.Context(), loginDTO.Email, loginDTO.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.LoginResponse{
		Token:     session.SessionID.String(),
		ExpiresIn: int(constants.SessionDuration) * 3600,
		User:      convertUserToDTO(user),
	})
}

// Logout POST /auth/logout
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	fields := strings.Fields(header)
	if len(fields) != 2 {
		api.ErrorJSON(w, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required", nil)
		return
	}

	sessionID, err := uuid.Parse(fields[1])
	if err != nil {
		api.ErrorJSON(w, http.StatusUnauthorized, api.CodeUnauthenticated, "invalid token", nil)
		return
	}

	if err := a.userService.Logout(r.Context(), sessionID); err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, nil)
}

// Me GET /auth/me
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())
	api.SuccessJSON(w, convertUserToDTO(user))
}
