package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	_ "remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/service"
	"remarkly/internal/upload"
)

// UserHandler handles registration, login and profile endpoints.
type UserHandler struct {
	userService service.UserService
	uploads     *upload.Store
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, uploads *upload.Store) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
}

// ProfileData is the public profile view, optionally with a fresh credential.
type ProfileData struct {
	*model.User
	Token string `json:"token,omitempty"`
}

// ProfileResponse wraps profile payloads in the success/data envelope.
type ProfileResponse struct {
	Success bool        `json:"success"`
	Data    ProfileData `json:"data"`
	Message string      `json:"message,omitempty"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Register(c.Request().Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: user, Token: token},
	})
}

// Login godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: user, Token: token},
	})
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: profile},
	})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Partial profile payload"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, token, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: updated, Token: token},
	})
}

// UpdateProfileImage godoc
// @Summary Update own profile with a new image
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profileImage formData file false "Profile image (max 5MB)"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile/image [put]
func (h *UserHandler) UpdateProfileImage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	// The file is optional; without it this behaves like a plain profile update.
	var imagePath string
	if file, err := c.FormFile("profileImage"); err == nil {
		imagePath, err = h.uploads.SaveImage(file)
		if err != nil {
			return mapServiceError(err)
		}
	}

	in := service.ProfileUpdateInput{
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
	}

	updated, token, err := h.userService.UpdateProfileImage(c.Request().Context(), user.ID, imagePath, in)
	if err != nil {
		// the record was not updated, do not leave the new file orphaned
		if imagePath != "" {
			_ = h.uploads.Remove(imagePath)
		}
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: updated, Token: token},
		Message: "Profile updated successfully",
	})
}

// DeleteProfileImage godoc
// @Summary Delete own profile image
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile/image [delete]
func (h *UserHandler) DeleteProfileImage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.userService.DeleteProfileImage(c.Request().Context(), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		Data:    ProfileData{User: updated},
		Message: "Profile image deleted successfully",
	})
}
