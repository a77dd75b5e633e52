package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func (g *Gateway) GetAllActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return getJSON[[]domain.Order](ctx, g, "/stationery/admin/all-active-orders/")
}

func (g *Gateway) GetAllPastOrders(ctx context.Context) ([]domain.Order, error) {
	return getJSON[[]domain.Order](ctx, g, "/stationery/admin/all-past-orders/")
}

func (g *Gateway) GetAllActivePrintouts(ctx context.Context) ([]domain.Printout, error) {
	return getJSON[[]domain.Printout](ctx, g, "/stationery/admin/all-active-printouts/")
}

func (g *Gateway) GetAllPastPrintouts(ctx context.Context) ([]domain.Printout, error) {
	return getJSON[[]domain.Printout](ctx, g, "/stationery/admin/all-past-printouts/")
}

func (g *Gateway) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return sendJSON[domain.DashboardStats](ctx, g, http.MethodGet, "/stationery/admin/dashboard-stats/", nil)
}

func (g *Gateway) GetOrderDetails(ctx context.Context, id domain.OrderID) (*domain.OrderDetail, error) {
	return sendJSON[domain.OrderDetail](ctx, g, http.MethodGet, fmt.Sprintf("/stationery/admin/orders/%s/", id), nil)
}

func (g *Gateway) GetPrintoutDetails(ctx context.Context, id domain.OrderID) (*domain.PrintoutDetail, error) {
	return sendJSON[domain.PrintoutDetail](ctx, g, http.MethodGet, fmt.Sprintf("/stationery/admin/printouts/%s/", id), nil)
}

func (g *Gateway) CompleteOrder(ctx context.Context, id domain.OrderID) (*domain.Completion, error) {
	return sendJSON[domain.Completion](ctx, g, http.MethodPost, fmt.Sprintf("/stationery/admin/orders/%s/complete/", id), nil)
}

func (g *Gateway) CompletePrintout(ctx context.Context, id domain.OrderID) (*domain.Completion, error) {
	return sendJSON[domain.Completion](ctx, g, http.MethodPost, fmt.Sprintf("/stationery/admin/printouts/%s/complete/", id), nil)
}

// The student-facing lists return the caller's own records.

func (g *Gateway) GetMyActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return getJSON[[]domain.Order](ctx, g, "/stationery/active-orders/")
}

func (g *Gateway) GetMyPastOrders(ctx context.Context) ([]domain.Order, error) {
	return getJSON[[]domain.Order](ctx, g, "/stationery/past-orders/")
}

func (g *Gateway) GetMyActivePrintouts(ctx context.Context) ([]domain.Printout, error) {
	return getJSON[[]domain.Printout](ctx, g, "/stationery/active-printouts/")
}

func (g *Gateway) GetMyPastPrintouts(ctx context.Context) ([]domain.Printout, error) {
	return getJSON[[]domain.Printout](ctx, g, "/stationery/past-printouts/")
}
