package domain

// DashboardStats are the aggregate counters shown on the dashboard.
type DashboardStats struct {
	NewOrdersCount       int     `json:"new_orders_count"`
	TotalRevenueToday    float64 `json:"total_revenue_today"`
	CompletedOrdersCount int     `json:"completed_orders_count"`
	ActiveOrdersCount    int     `json:"active_orders_count"`
	ActivePrintoutsCount int     `json:"active_printouts_count"`
	TotalActiveCount     int     `json:"total_active_count"`
}
