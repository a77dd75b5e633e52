package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/api/metrics"
	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
)

// Kind distinguishes physical orders from print jobs; the two share an id
// space upstream only by coincidence.
type Kind string

const (
	KindOrder    Kind = "order"
	KindPrintout Kind = "printout"
)

// SortField names a column the board can sort by.
type SortField string

const (
	SortOrderTime SortField = "order_time"
	SortCost      SortField = "cost"
	SortUserName  SortField = "user_name"
	SortQuantity  SortField = "quantity"
)

// ParseSort validates a sort field and direction. Empty input sorts newest
// first.
func ParseSort(field, dir string) (SortField, bool, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if f == "" {
		f = SortOrderTime
	}
	switch f {
	case SortOrderTime, SortCost, SortUserName, SortQuantity:
	default:
		return "", false, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidInput, field)
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return f, true, nil
	case "asc":
		return f, false, nil
	default:
		return "", false, fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidInput, dir)
	}
}

type seenKey struct {
	kind Kind
	id   domain.OrderID
}

// OrderBoard holds the last fetched orders and printouts for a scope plus the
// set of records the operator has opened. The seen set lives in memory only.
type OrderBoard struct {
	api ports.AdminAPI
	log zerolog.Logger

	mu        sync.RWMutex
	scope     domain.Scope
	orders    []domain.Order
	printouts []domain.Printout
	seen      map[seenKey]struct{}
}

func NewOrderBoard(api ports.AdminAPI, log zerolog.Logger) *OrderBoard {
	return &OrderBoard{
		api:   api,
		log:   log,
		scope: domain.ScopeActive,
		seen:  make(map[seenKey]struct{}),
	}
}

// LoadOrders replaces the order list with the given scope's records.
func (b *OrderBoard) LoadOrders(ctx context.Context, scope domain.Scope) ([]domain.Order, error) {
	var (
		orders []domain.Order
		err    error
	)
	if scope == domain.ScopePast {
		orders, err = b.api.GetAllPastOrders(ctx)
	} else {
		orders, err = b.api.GetAllActiveOrders(ctx)
	}
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.scope = scope
	b.orders = orders
	b.mu.Unlock()
	return b.Orders(), nil
}

// LoadPrintouts replaces the printout list with the given scope's records.
func (b *OrderBoard) LoadPrintouts(ctx context.Context, scope domain.Scope) ([]domain.Printout, error) {
	var (
		printouts []domain.Printout
		err       error
	)
	if scope == domain.ScopePast {
		printouts, err = b.api.GetAllPastPrintouts(ctx)
	} else {
		printouts, err = b.api.GetAllActivePrintouts(ctx)
	}
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.scope = scope
	b.printouts = printouts
	b.mu.Unlock()
	return b.Printouts(), nil
}

// Scope is the scope of the most recent load.
func (b *OrderBoard) Scope() domain.Scope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.scope
}

func (b *OrderBoard) Orders() []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Order(nil), b.orders...)
}

func (b *OrderBoard) Printouts() []domain.Printout {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Printout(nil), b.printouts...)
}

func (b *OrderBoard) MarkSeen(kind Kind, id domain.OrderID) {
	b.mu.Lock()
	b.seen[seenKey{kind, id}] = struct{}{}
	b.mu.Unlock()
}

func (b *OrderBoard) IsSeen(kind Kind, id domain.OrderID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.seen[seenKey{kind, id}]
	return ok
}

// OrderDetails fetches one order and marks it seen.
func (b *OrderBoard) OrderDetails(ctx context.Context, id domain.OrderID) (*domain.OrderDetail, error) {
	d, err := b.api.GetOrderDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	b.MarkSeen(KindOrder, id)
	return d, nil
}

// PrintoutDetails fetches one printout and marks it seen.
func (b *OrderBoard) PrintoutDetails(ctx context.Context, id domain.OrderID) (*domain.PrintoutDetail, error) {
	d, err := b.api.GetPrintoutDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	b.MarkSeen(KindPrintout, id)
	return d, nil
}

// Complete marks an order complete upstream. Only on success is the row
// removed from the local list.
func (b *OrderBoard) Complete(ctx context.Context, id domain.OrderID) (*domain.Completion, error) {
	res, err := b.api.CompleteOrder(ctx, id)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues(string(KindOrder), "error").Inc()
		b.log.Warn().Err(err).Stringer("order_id", id).Msg("complete order failed")
		return nil, err
	}
	metrics.CompletionsTotal.WithLabelValues(string(KindOrder), "ok").Inc()

	b.mu.Lock()
	b.orders = removeWhere(b.orders, func(o domain.Order) bool { return o.OrderID == id })
	b.mu.Unlock()
	b.log.Info().Stringer("order_id", id).Msg("order completed")
	return res, nil
}

// CompletePrintout is Complete for print jobs.
func (b *OrderBoard) CompletePrintout(ctx context.Context, id domain.OrderID) (*domain.Completion, error) {
	res, err := b.api.CompletePrintout(ctx, id)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues(string(KindPrintout), "error").Inc()
		b.log.Warn().Err(err).Stringer("order_id", id).Msg("complete printout failed")
		return nil, err
	}
	metrics.CompletionsTotal.WithLabelValues(string(KindPrintout), "ok").Inc()

	b.mu.Lock()
	b.printouts = removeWhere(b.printouts, func(p domain.Printout) bool { return p.OrderID == id })
	b.mu.Unlock()
	b.log.Info().Stringer("order_id", id).Msg("printout completed")
	return res, nil
}

// FilterOrders matches query case-insensitively against user name, user
// email, item name and order id.
func FilterOrders(orders []domain.Order, query string) []domain.Order {
	q := normalizeQuery(query)
	if q == "" {
		return orders
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if matches(q, o.UserName, o.UserEmail, o.ItemName, o.OrderID.String()) {
			out = append(out, o)
		}
	}
	return out
}

// FilterPrintouts matches against user name, user email and order id.
func FilterPrintouts(printouts []domain.Printout, query string) []domain.Printout {
	q := normalizeQuery(query)
	if q == "" {
		return printouts
	}
	out := make([]domain.Printout, 0, len(printouts))
	for _, p := range printouts {
		if matches(q, p.UserName, p.UserEmail, p.OrderID.String()) {
			out = append(out, p)
		}
	}
	return out
}

// SortOrders sorts in place and returns orders. Ties keep their fetch order.
func SortOrders(orders []domain.Order, field SortField, desc bool) []domain.Order {
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		var c int
		switch field {
		case SortCost:
			c = cmp.Compare(decimal(a.Cost), decimal(b.Cost))
		case SortUserName:
			c = strings.Compare(strings.ToLower(a.UserName), strings.ToLower(b.UserName))
		case SortQuantity:
			c = cmp.Compare(a.Quantity, b.Quantity)
		default:
			c = a.OrderTime.Compare(b.OrderTime)
		}
		if desc {
			return -c
		}
		return c
	})
	return orders
}

// SortPrintouts sorts in place. Quantity sorts by total page count.
func SortPrintouts(printouts []domain.Printout, field SortField, desc bool) []domain.Printout {
	slices.SortStableFunc(printouts, func(a, b domain.Printout) int {
		var c int
		switch field {
		case SortCost:
			c = cmp.Compare(decimal(a.Cost), decimal(b.Cost))
		case SortUserName:
			c = strings.Compare(strings.ToLower(a.UserName), strings.ToLower(b.UserName))
		case SortQuantity:
			c = cmp.Compare(a.TotalPages(), b.TotalPages())
		default:
			c = a.OrderTime.Compare(b.OrderTime)
		}
		if desc {
			return -c
		}
		return c
	})
	return printouts
}

func normalizeQuery(q string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(q)), "#")
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func decimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func removeWhere[T any](list []T, match func(T) bool) []T {
	out := list[:0:0]
	for _, v := range list {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Download fetches the file attached to a printout.
func (b *OrderBoard) Download(ctx context.Context, id domain.OrderID) (*domain.Blob, error) {
	blob, err := b.api.DownloadPrintout(ctx, id)
	if err != nil {
		return nil, err
	}
	b.MarkSeen(KindPrintout, id)
	return blob, nil
}

// DownloadFile fetches one of several files attached to a print job by the
// file's own id.
func (b *OrderBoard) DownloadFile(ctx context.Context, fileID int64) (*domain.Blob, error) {
	return b.api.DownloadPrintoutFile(ctx, fileID)
}
