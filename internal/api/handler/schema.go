package handler

import (
	"github.com/campusprint/stationery-admin/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	State    domain.SessionState `json:"state"`
	Identity *domain.Identity    `json:"identity,omitempty"`
}

type orderRow struct {
	domain.Order
	Seen bool `json:"seen"`
}

type printoutRow struct {
	domain.Printout
	TotalPages int  `json:"total_pages"`
	Seen       bool `json:"seen"`
}

type orderListResponse struct {
	Scope  domain.Scope `json:"scope"`
	Count  int          `json:"count"`
	Orders []orderRow   `json:"orders"`
}

type printoutListResponse struct {
	Scope     domain.Scope  `json:"scope"`
	Count     int           `json:"count"`
	Printouts []printoutRow `json:"printouts"`
}

type itemRequest struct {
	Item    *string `json:"item"     validate:"omitempty,min=1,max=25"`
	Price   *string `json:"price"    validate:"omitempty,numeric"`
	InStock *bool   `json:"in_stock"`
}

func (r itemRequest) input() domain.ItemInput {
	return domain.ItemInput{Item: r.Item, Price: r.Price, InStock: r.InStock}
}
