package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
)

// Dashboard is the all-or-nothing dashboard view.
type Dashboard struct {
	Stats           domain.DashboardStats `json:"stats"`
	ActiveOrders    []domain.Order        `json:"active_orders"`
	ActivePrintouts []domain.Printout     `json:"active_printouts"`
}

type DashboardService struct {
	api ports.AdminAPI
	log zerolog.Logger
}

func NewDashboardService(api ports.AdminAPI, log zerolog.Logger) *DashboardService {
	return &DashboardService{api: api, log: log}
}

// Load fetches stats, active orders and active printouts concurrently. If any
// call fails the whole load fails and nothing partial is returned.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var (
		stats     *domain.DashboardStats
		orders    []domain.Order
		printouts []domain.Printout
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.api.GetDashboardStats(gctx)
		if err != nil {
			return fmt.Errorf("dashboard stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.api.GetAllActiveOrders(gctx)
		if err != nil {
			return fmt.Errorf("active orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		printouts, err = s.api.GetAllActivePrintouts(gctx)
		if err != nil {
			return fmt.Errorf("active printouts: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("dashboard load failed")
		return nil, err
	}

	d := &Dashboard{ActiveOrders: orders, ActivePrintouts: printouts}
	if stats != nil {
		d.Stats = *stats
	}
	return d, nil
}
