package domain

import "strconv"

// Item is an inventory catalog entry.
type Item struct {
	ID           int64   `json:"id"`
	Item         string  `json:"item"`
	Price        string  `json:"price"`
	InStock      bool    `json:"in_stock"`
	DisplayImage *string `json:"display_image"`
}

// ItemInput is the create/update payload. Nil fields are left out so updates
// only touch what was supplied.
type ItemInput struct {
	Item    *string `json:"item,omitempty"    validate:"omitempty,min=1,max=25"`
	Price   *string `json:"price,omitempty"   validate:"omitempty,numeric"`
	InStock *bool   `json:"in_stock,omitempty"`
}

// Empty reports whether no field is set.
func (in ItemInput) Empty() bool {
	return in.Item == nil && in.Price == nil && in.InStock == nil
}

// ApplyTo returns a copy of it with the supplied fields overwritten.
func (in ItemInput) ApplyTo(it Item) Item {
	if in.Item != nil {
		it.Item = *in.Item
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.InStock != nil {
		it.InStock = *in.InStock
	}
	return it
}

// ItemMutation is the envelope returned by create and update.
type ItemMutation struct {
	Message string `json:"message"`
	Item    Item   `json:"item"`
}

// StockToggle is returned by the toggle-stock endpoint.
type StockToggle struct {
	Message string `json:"message"`
	ItemID  int64  `json:"item_id"`
	InStock bool   `json:"in_stock"`
}

// MessageResponse is the bare {"message": "..."} envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// PriceValue parses the decimal price; unparseable prices sort as zero.
func (it Item) PriceValue() float64 {
	v, err := strconv.ParseFloat(it.Price, 64)
	if err != nil {
		return 0
	}
	return v
}
