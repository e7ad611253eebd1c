package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// Categories is the ledger the category handler works on.
type Categories interface {
	Categories(userID string) ([]domain.Category, error)
	CreateCategory(userID string, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(userID, id string) error
}

type CategoryHandler struct {
	ledger Categories
}

func NewCategoryHandler(ledger Categories) *CategoryHandler {
	return &CategoryHandler{ledger: ledger}
}

// List returns the caller's categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  categoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cats, err := h.ledger.Categories(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryListResponse{Success: true, Categories: cats})
}

// Create adds a category.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  categoryEnvelope
// @Failure      422   {object}  messageResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.ledger.CreateCategory(userID, domain.CategoryInput{
		Name:  req.Name,
		Type:  req.Type,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, categoryEnvelope{Success: true, Message: "Kategori berhasil dibuat", Category: *cat})
}

// Delete removes a category.
//
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.ledger.DeleteCategory(userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Kategori berhasil dihapus"})
}
