package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
)

// Inventory holds the catalog and mirrors each mutation into the local list
// once the server has accepted it.
type Inventory struct {
	api      ports.AdminAPI
	validate *validator.Validate
	log      zerolog.Logger

	mu    sync.RWMutex
	items []domain.Item
}

func NewInventory(api ports.AdminAPI, log zerolog.Logger) *Inventory {
	return &Inventory{api: api, validate: newValidator(), log: log}
}

// Refresh replaces the local list with the server's catalog.
func (inv *Inventory) Refresh(ctx context.Context) ([]domain.Item, error) {
	items, err := inv.api.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	inv.mu.Lock()
	inv.items = items
	inv.mu.Unlock()
	return inv.Items(), nil
}

func (inv *Inventory) Items() []domain.Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return append([]domain.Item(nil), inv.items...)
}

// Search filters the local list by a case-insensitive label match.
func (inv *Inventory) Search(query string) []domain.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	items := inv.Items()
	if q == "" {
		return items
	}
	out := items[:0]
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Item), q) {
			out = append(out, it)
		}
	}
	return out
}

// Create adds an item. Label and price are required.
func (inv *Inventory) Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	missing := map[string][]string{}
	if in.Item == nil {
		missing["item"] = []string{"This field is required."}
	}
	if in.Price == nil {
		missing["price"] = []string{"This field is required."}
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}
	if err := validate(inv.validate, in); err != nil {
		return nil, err
	}

	res, err := inv.api.CreateItem(ctx, in)
	if err != nil {
		return nil, err
	}
	inv.mu.Lock()
	inv.items = append(inv.items, res.Item)
	inv.mu.Unlock()
	inv.log.Info().Int64("item_id", res.Item.ID).Str("item", res.Item.Item).Msg("item created")
	return &res.Item, nil
}

// Update applies a partial update.
func (inv *Inventory) Update(ctx context.Context, id int64, in domain.ItemInput) (*domain.Item, error) {
	if in.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if err := validate(inv.validate, in); err != nil {
		return nil, err
	}

	res, err := inv.api.UpdateItem(ctx, id, in)
	if err != nil {
		return nil, err
	}

	updated := res.Item
	inv.mu.Lock()
	for i := range inv.items {
		if inv.items[i].ID == id {
			if updated.ID == 0 {
				updated = in.ApplyTo(inv.items[i])
			}
			inv.items[i] = updated
			break
		}
	}
	inv.mu.Unlock()
	// Neither the reply nor the local list knew the item; report what was
	// sent rather than a zero value.
	if updated.ID == 0 {
		updated = in.ApplyTo(domain.Item{ID: id})
	}
	inv.log.Info().Int64("item_id", id).Msg("item updated")
	return &updated, nil
}

func (inv *Inventory) Delete(ctx context.Context, id int64) error {
	if _, err := inv.api.DeleteItem(ctx, id); err != nil {
		return err
	}
	inv.mu.Lock()
	inv.items = removeWhere(inv.items, func(it domain.Item) bool { return it.ID == id })
	inv.mu.Unlock()
	inv.log.Info().Int64("item_id", id).Msg("item deleted")
	return nil
}

// ToggleStock flips availability and mirrors the server's resulting value.
func (inv *Inventory) ToggleStock(ctx context.Context, id int64) (*domain.StockToggle, error) {
	res, err := inv.api.ToggleItemStock(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.mu.Lock()
	for i := range inv.items {
		if inv.items[i].ID == id {
			inv.items[i].InStock = res.InStock
			break
		}
	}
	inv.mu.Unlock()
	return res, nil
}
