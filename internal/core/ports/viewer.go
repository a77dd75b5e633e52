package ports

import (
	"context"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// Viewer displays a downloaded file in a new viewing context. Any transient
// resources it creates are released on its own schedule.
type Viewer interface {
	Open(ctx context.Context, blob *domain.Blob) (string, error)
}
