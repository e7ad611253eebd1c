package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	accounts Accounts
}

func NewProfileHandler(accounts Accounts) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Get returns the caller's profile.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.User(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, User: toUserResponse(user)})
}

// Update overwrites the supplied profile fields.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      409   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(userID, toProfileChanges(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		Message: "Profil berhasil diupdate",
		User:    toUserResponse(user),
	})
}
