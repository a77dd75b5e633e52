package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func (g *Gateway) GetItems(ctx context.Context) ([]domain.Item, error) {
	return getJSON[[]domain.Item](ctx, g, "/stationery/item-list/")
}

func (g *Gateway) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.ItemMutation, error) {
	return sendJSON[domain.ItemMutation](ctx, g, http.MethodPost, "/stationery/admin/items/", in)
}

func (g *Gateway) UpdateItem(ctx context.Context, id int64, in domain.ItemInput) (*domain.ItemMutation, error) {
	return sendJSON[domain.ItemMutation](ctx, g, http.MethodPut, fmt.Sprintf("/stationery/admin/items/%d/", id), in)
}

func (g *Gateway) DeleteItem(ctx context.Context, id int64) (*domain.MessageResponse, error) {
	return sendJSON[domain.MessageResponse](ctx, g, http.MethodDelete, fmt.Sprintf("/stationery/admin/items/%d/delete/", id), nil)
}

func (g *Gateway) ToggleItemStock(ctx context.Context, id int64) (*domain.StockToggle, error) {
	return sendJSON[domain.StockToggle](ctx, g, http.MethodPatch, fmt.Sprintf("/stationery/admin/items/%d/toggle-stock/", id), nil)
}
