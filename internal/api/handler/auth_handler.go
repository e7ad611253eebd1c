package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dompet/finance-gateway/internal/api/ledger"
)

// Accounts is the account store the auth and profile handlers work on.
type Accounts interface {
	Register(username, password, name, email string) (*ledger.User, error)
	Authenticate(username, password string) (*ledger.User, error)
	User(id string) (*ledger.User, error)
	UpdateProfile(id string, changes ledger.ProfileChanges) (*ledger.User, error)
	ChangePassword(id, current, next string) error
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *ledger.User) (string, error)
}

type AuthHandler struct {
	accounts Accounts
	tokens   TokenIssuer
}

func NewAuthHandler(accounts Accounts, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// Register creates a new account. It does not sign in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(req.Username, req.Password, req.Name, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "Registrasi berhasil",
		User:    toUserResponse(user),
	})
}

// Login authenticates a user and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login berhasil",
		Token:   token,
		User:    toUserResponse(user),
	})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Kata sandi berhasil diubah"})
}
