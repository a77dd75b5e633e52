package ports

import (
	"context"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// AdminAPI defines the typed gateway operations the view-model services use.
type AdminAPI interface {
	GetAllActiveOrders(ctx context.Context) ([]domain.Order, error)
	GetAllPastOrders(ctx context.Context) ([]domain.Order, error)
	GetAllActivePrintouts(ctx context.Context) ([]domain.Printout, error)
	GetAllPastPrintouts(ctx context.Context) ([]domain.Printout, error)
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	GetOrderDetails(ctx context.Context, id domain.OrderID) (*domain.OrderDetail, error)
	GetPrintoutDetails(ctx context.Context, id domain.OrderID) (*domain.PrintoutDetail, error)
	CompleteOrder(ctx context.Context, id domain.OrderID) (*domain.Completion, error)
	CompletePrintout(ctx context.Context, id domain.OrderID) (*domain.Completion, error)

	GetItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, in domain.ItemInput) (*domain.ItemMutation, error)
	UpdateItem(ctx context.Context, id int64, in domain.ItemInput) (*domain.ItemMutation, error)
	DeleteItem(ctx context.Context, id int64) (*domain.MessageResponse, error)
	ToggleItemStock(ctx context.Context, id int64) (*domain.StockToggle, error)

	DownloadPrintout(ctx context.Context, id domain.OrderID) (*domain.Blob, error)
	DownloadPrintoutFile(ctx context.Context, fileID int64) (*domain.Blob, error)
}
