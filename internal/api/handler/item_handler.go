package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/service"
)

type ItemHandler struct {
	inventory *service.Inventory
}

func NewItemHandler(inventory *service.Inventory) *ItemHandler {
	return &ItemHandler{inventory: inventory}
}

func itemIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid item id %q", domain.ErrInvalidInput, c.Param("id"))
	}
	return id, nil
}

func (h *ItemHandler) bind(c echo.Context) (domain.ItemInput, error) {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return domain.ItemInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.ItemInput{}, err
	}
	return req.input(), nil
}

// List refreshes the catalog and returns items matching q.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        q    query     string  false  "label search"
// @Success      200  {array}   domain.Item
// @Router       /api/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	if _, err := h.inventory.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.inventory.Search(c.QueryParam("q")))
}

// Create adds an item.
//
// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      itemRequest  true  "Item"
// @Success      201   {object}  domain.Item
// @Failure      400   {object}  map[string]string
// @Router       /api/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	in, err := h.bind(c)
	if err != nil {
		return err
	}
	it, err := h.inventory.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, it)
}

// Update applies a partial update.
//
// @Summary      Update item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Item ID"
// @Param        body  body      itemRequest  true  "Fields to change"
// @Success      200   {object}  domain.Item
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := itemIDParam(c)
	if err != nil {
		return err
	}
	in, err := h.bind(c)
	if err != nil {
		return err
	}
	it, err := h.inventory.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, it)
}

// Delete removes an item.
//
// @Summary      Delete item
// @Tags         items
// @Param        id   path  int  true  "Item ID"
// @Success      204
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := itemIDParam(c)
	if err != nil {
		return err
	}
	if err := h.inventory.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleStock flips an item's availability.
//
// @Summary      Toggle stock
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  domain.StockToggle
// @Router       /api/items/{id}/stock [patch]
func (h *ItemHandler) ToggleStock(c echo.Context) error {
	id, err := itemIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.inventory.ToggleStock(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
